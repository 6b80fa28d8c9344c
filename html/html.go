package html

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/textbuffer"
	"github.com/npillmayer/textbuffer/selection"
	"github.com/npillmayer/textbuffer/styled"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MimeType is the mime type of the format registered by RegisterFormat.
const MimeType = "text/html"

// RegisterFormat registers HTML as a deserialization format of b.
func RegisterFormat(b *textbuffer.Buffer) selection.Atom {
	return b.RegisterDeserializeFormat(MimeType, Deserialize)
}

// Run is a piece of text with uniform styling.
type Run struct {
	Text    string
	Style   Style
	Heading int // 1…6 within headings, 0 otherwise
}

// TagNames lists the names of the tags of the run.
func (r Run) TagNames() []string {
	names := r.Style.TagNames()
	if r.Heading > 0 {
		names = append(names, headingTagName(r.Heading))
	}
	return names
}

// InnerText returns the styled text runs for the textual content of an
// HTML node and all its descendents.
func InnerText(n *html.Node) ([]Run, error) {
	if n == nil {
		return nil, textbuffer.ErrIllegalArguments
	}
	c := &collector{atLineStart: true}
	c.collect(n, PlainStyle, 0, false)
	return c.runs, nil
}

// TextFromHTML parses an HTML document or fragment and returns its text
// runs.
func TextFromHTML(input io.Reader) ([]Run, error) {
	doc, err := html.Parse(input)
	if err != nil {
		return nil, err
	}
	return InnerText(doc)
}

type collector struct {
	runs        []Run
	atLineStart bool
	pendingNL   bool
	pendingWS   bool
	ws          Run // style of pending white space
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Ul, atom.Ol, atom.Li, atom.Dl, atom.Dt, atom.Dd, atom.Blockquote,
		atom.Pre, atom.Table, atom.Tr, atom.Section, atom.Article, atom.Header,
		atom.Footer, atom.Nav, atom.Aside, atom.Hr, atom.Address, atom.Figure:
		return true
	}
	return false
}

func (c *collector) emit(text string, style Style, heading int) {
	if text == "" {
		return
	}
	if c.pendingNL {
		c.pendingNL, c.pendingWS = false, false
		c.append("\n", PlainStyle, 0)
	}
	if c.pendingWS {
		c.pendingWS = false
		c.append(" ", c.ws.Style, c.ws.Heading)
	}
	c.append(text, style, heading)
	c.atLineStart = strings.HasSuffix(text, "\n")
}

func (c *collector) append(text string, style Style, heading int) {
	if n := len(c.runs); n > 0 && c.runs[n-1].Style == style && c.runs[n-1].Heading == heading {
		c.runs[n-1].Text += text
		return
	}
	c.runs = append(c.runs, Run{Text: text, Style: style, Heading: heading})
}

// lineBreak ends the current line, unless nothing has been written to it.
func (c *collector) lineBreak() {
	if !c.atLineStart && len(c.runs) > 0 {
		c.pendingNL = true
	}
	c.atLineStart = true
	c.pendingWS = false
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

// space remembers white space, which is written only if more text follows
// on the same line.
func (c *collector) space(style Style, heading int) {
	if c.atLineStart || c.pendingWS {
		return
	}
	c.pendingWS = true
	c.ws = Run{Style: style, Heading: heading}
}

func (c *collector) text(s string, style Style, heading int, pre bool) {
	if pre {
		c.emit(s, style, heading)
		return
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		if s != "" {
			c.space(style, heading)
		}
		return
	}
	if isSpace(s[0]) {
		c.space(style, heading)
	}
	c.emit(strings.Join(words, " "), style, heading)
	if isSpace(s[len(s)-1]) {
		c.space(style, heading)
	}
}

func (c *collector) collect(n *html.Node, style Style, heading int, pre bool) {
	switch n.Type {
	case html.TextNode:
		tracer().Debugf("html: text %q (%v)", n.Data, style)
		c.text(n.Data, style, heading, pre)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Head, atom.Title, atom.Template:
			return
		case atom.Br:
			c.emit("\n", style, heading)
			c.pendingWS = false
			return
		case atom.Pre:
			pre = true
		}
		style = style.Add(StyleFromElement(n.Data))
		if l := headingLevel(n.Data); l > 0 {
			heading = l
		}
		if isBlock(n.DataAtom) {
			c.lineBreak()
			defer c.lineBreak()
		}
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.collect(ch, style, heading, pre)
	}
}

// resolveTags looks up the tags of the runs in content's tag table,
// creating missing ones if createTags is set.
func resolveTags(content *textbuffer.Buffer, runs []Run, createTags bool) (map[string]*styled.Tag, error) {
	tags := make(map[string]*styled.Tag)
	var missing []string
	for _, r := range runs {
		for _, name := range r.TagNames() {
			if _, ok := tags[name]; ok {
				continue
			}
			if tag, ok := content.TagTable().Lookup(name); ok {
				tags[name] = tag
				continue
			}
			if !createTags {
				return nil, fmt.Errorf("%w: %q", textbuffer.ErrUnknownTag, name)
			}
			tags[name] = nil
			missing = append(missing, name)
		}
	}
	for _, name := range missing {
		tag := NewStyleTag(name)
		if err := content.TagTable().Add(tag); err != nil {
			return nil, err
		}
		tags[name] = tag
	}
	return tags, nil
}

// Deserialize is a textbuffer.DeserializeFunc for HTML data.
func Deserialize(register, content *textbuffer.Buffer, it *textbuffer.Iter, data []byte, createTags bool) error {
	runs, err := TextFromHTML(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", textbuffer.ErrCorruptRichText, err)
	}
	tags, err := resolveTags(content, runs, createTags)
	if err != nil {
		return err
	}
	var context []*styled.Tag
	for _, tag := range it.Tags() {
		if !it.StartsTag(tag) {
			context = append(context, tag)
		}
	}
	content.BeginUserAction()
	defer content.EndUserAction()
	startOffset := it.Offset()
	offsets := make([]int, len(runs)+1)
	offsets[0] = startOffset
	for i, r := range runs {
		if err := content.Insert(it, r.Text); err != nil {
			return err
		}
		offsets[i+1] = it.Offset()
	}
	endOffset := it.Offset()
	start := content.IterAtOffset(startOffset)
	for _, tag := range context {
		content.RemoveTag(tag, start, content.IterAtOffset(endOffset))
	}
	for i, r := range runs {
		from, to := content.IterAtOffset(offsets[i]), content.IterAtOffset(offsets[i+1])
		for _, name := range r.TagNames() {
			content.ApplyTag(tags[name], from, to)
		}
	}
	*it = content.IterAtOffset(endOffset)
	return nil
}
