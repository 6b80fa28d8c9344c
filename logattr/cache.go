package logattr

// Cache wraps an Analyzer and remembers the attributes of the most recently
// analyzed paragraph. Iterators moving word by word through a paragraph ask
// for the same text over and over again.
//
// A Cache is not safe for concurrent use.
type Cache struct {
	analyzer Analyzer
	text     string
	attrs    []LogAttr
	valid    bool
	hits     int
}

// NewCache wraps analyzer a. If a is nil, the default UAX analyzer is used.
func NewCache(a Analyzer) *Cache {
	if a == nil {
		a = NewUAXAnalyzer()
	}
	return &Cache{analyzer: a}
}

// Analyze is part of interface Analyzer. The returned slice is shared and
// must not be modified by clients.
func (c *Cache) Analyze(text string) []LogAttr {
	if c.valid && c.text == text {
		c.hits++
		return c.attrs
	}
	c.text = text
	c.attrs = c.analyzer.Analyze(text)
	c.valid = true
	return c.attrs
}

// Invalidate drops the cached paragraph.
func (c *Cache) Invalidate() {
	c.valid = false
	c.text = ""
	c.attrs = nil
}

// Hits returns the number of requests served from the cache.
func (c *Cache) Hits() int {
	return c.hits
}
