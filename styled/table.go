package styled

import "fmt"

// TableObserver is notified about changes of a tag table. Buffers sharing a
// table register as observers.
type TableObserver interface {
	TagAdded(tag *Tag)
	TagRemoved(tag *Tag) // called while the tag is still a member of the table
	TagChanged(tag *Tag, sizeAffecting bool)
}

// TagTable is a collection of tags. Tag names are unique within a table,
// except for anonymous tags. The priorities of the tags in a table always are
// a dense permutation of 0…Size()-1.
type TagTable struct {
	byName    map[string]*Tag
	ordered   []*Tag // index == priority
	observers []TableObserver
}

// NewTagTable creates an empty tag table.
func NewTagTable() *TagTable {
	return &TagTable{
		byName: make(map[string]*Tag),
	}
}

// Add puts a tag into the table. The tag receives the highest priority in
// the table.
func (tt *TagTable) Add(tag *Tag) error {
	if tag == nil {
		return fmt.Errorf("%w: nil tag", ErrIllegalValue)
	}
	if tag.table != nil {
		return fmt.Errorf("%w: %s", ErrForeignTag, tag)
	}
	if tag.name != "" {
		if _, exists := tt.byName[tag.name]; exists {
			return fmt.Errorf("%w: %q", ErrTagExists, tag.name)
		}
		tt.byName[tag.name] = tag
	}
	tag.table = tt
	tag.priority = len(tt.ordered)
	tt.ordered = append(tt.ordered, tag)
	tracer().Debugf("tag table: added tag %s with priority %d", tag, tag.priority)
	for _, o := range tt.observers {
		o.TagAdded(tag)
	}
	return nil
}

// Remove takes a tag out of the table. Observers remove all occurrences of
// the tag from their text before the tag leaves the table.
func (tt *TagTable) Remove(tag *Tag) {
	if tag == nil || tag.table != tt {
		return
	}
	tt.setPriority(tag, len(tt.ordered)-1)
	for _, o := range tt.observers {
		o.TagRemoved(tag)
	}
	tt.ordered = tt.ordered[:len(tt.ordered)-1]
	if tag.name != "" {
		delete(tt.byName, tag.name)
	}
	tag.table = nil
	tag.priority = 0
}

// Lookup finds a tag by name.
func (tt *TagTable) Lookup(name string) (*Tag, bool) {
	tag, ok := tt.byName[name]
	return tag, ok
}

// Size returns the number of tags in the table.
func (tt *TagTable) Size() int {
	return len(tt.ordered)
}

// ForEach calls f for every tag in the table, in ascending priority.
// f must not add or remove tags.
func (tt *TagTable) ForEach(f func(tag *Tag)) {
	for _, tag := range tt.ordered {
		f(tag)
	}
}

// Tags returns the tags of the table in ascending priority.
func (tt *TagTable) Tags() []*Tag {
	return append([]*Tag(nil), tt.ordered...)
}

// Attach registers an observer.
func (tt *TagTable) Attach(o TableObserver) {
	tt.observers = append(tt.observers, o)
}

// Detach unregisters an observer.
func (tt *TagTable) Detach(o TableObserver) {
	for i, obs := range tt.observers {
		if obs == o {
			tt.observers = append(tt.observers[:i], tt.observers[i+1:]...)
			return
		}
	}
}

func (tt *TagTable) setPriority(tag *Tag, p int) {
	if p < 0 {
		p = 0
	} else if p >= len(tt.ordered) {
		p = len(tt.ordered) - 1
	}
	old := tag.priority
	if old == p {
		return
	}
	if old < p {
		copy(tt.ordered[old:p], tt.ordered[old+1:p+1])
	} else {
		copy(tt.ordered[p+1:old+1], tt.ordered[p:old])
	}
	tt.ordered[p] = tag
	lo, hi := min(old, p), max(old, p)
	for i := lo; i <= hi; i++ {
		tt.ordered[i].priority = i
	}
	tt.notifyChanged(tag, false)
}

func (tt *TagTable) notifyChanged(tag *Tag, sizeAffecting bool) {
	for _, o := range tt.observers {
		o.TagChanged(tag, sizeAffecting)
	}
}
