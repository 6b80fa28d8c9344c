package textbuffer

import (
	"github.com/npillmayer/textbuffer/logattr"
	"github.com/npillmayer/textbuffer/styled"
	"golang.org/x/text/language"
)

// HasTag is true if tag covers the character at the iterator.
func (it *Iter) HasTag(tag *styled.Tag) bool {
	if !it.valid() || tag == nil {
		return false
	}
	return it.buffer.tree.hasTag(tag, it.line, it.lineChar)
}

// Tags returns the tags covering the character at the iterator, in
// ascending priority.
func (it *Iter) Tags() []*styled.Tag {
	if !it.valid() {
		return nil
	}
	return it.buffer.tree.tagsAt(it.line, it.lineChar)
}

// ToggledTags returns the tags which are switched on (on == true) or off
// at the iterator.
func (it *Iter) ToggledTags(on bool) []*styled.Tag {
	if !it.valid() {
		return nil
	}
	kind := segToggleOff
	if on {
		kind = segToggleOn
	}
	var tags []*styled.Tag
	it.zeroWidth(func(s *segment) {
		if s.kind == kind {
			tags = append(tags, s.tag)
		}
	})
	return tags
}

func (it *Iter) hasToggle(tag *styled.Tag, kinds ...segKind) bool {
	if !it.valid() {
		return false
	}
	found := false
	it.zeroWidth(func(s *segment) {
		if !s.isToggle() || tag != nil && s.tag != tag {
			return
		}
		for _, k := range kinds {
			if s.kind == k {
				found = true
			}
		}
	})
	return found
}

// StartsTag is true if tag is switched on at the iterator. A nil tag
// matches any tag.
func (it *Iter) StartsTag(tag *styled.Tag) bool {
	return it.hasToggle(tag, segToggleOn)
}

// EndsTag is true if tag is switched off at the iterator. A nil tag
// matches any tag.
func (it *Iter) EndsTag(tag *styled.Tag) bool {
	return it.hasToggle(tag, segToggleOff)
}

// TogglesTag is true if tag is switched on or off at the iterator.
func (it *Iter) TogglesTag(tag *styled.Tag) bool {
	return it.hasToggle(tag, segToggleOn, segToggleOff)
}

// Attributes returns the effective attributes at the iterator: the
// buffer's defaults merged with every tag covering the position.
func (it *Iter) Attributes() *styled.Attributes {
	attrs := it.buffer.defaults.Clone()
	if tags := it.Tags(); len(tags) > 0 {
		attrs.Apply(tags)
	}
	return attrs
}

// Language returns the language of the text at the iterator.
func (it *Iter) Language() language.Tag {
	return it.Attributes().Language
}

// Direction returns the text direction at the iterator. If no tag sets a
// direction, the base direction of the paragraph is used.
func (it *Iter) Direction() styled.Direction {
	if d := it.Attributes().Direction; d != styled.DirNone {
		return d
	}
	if !it.valid() {
		return styled.DirNone
	}
	return logattr.BaseDirection(it.line.text())
}

// Editable is true if the character at the iterator is editable. Without
// any tag deciding on editability, defaultSetting is returned.
func (it *Iter) Editable(defaultSetting bool) bool {
	tags := it.Tags()
	for i := len(tags) - 1; i >= 0; i-- {
		if tags[i].IsSet(styled.PropEditable) {
			return tags[i].Values().Editable
		}
	}
	return defaultSetting
}

// CanInsert is true if text inserted at the iterator would be editable.
func (it *Iter) CanInsert(defaultEditability bool) bool {
	if it.Editable(defaultEditability) {
		return true
	}
	if (it.IsStart() || it.IsEnd()) && defaultEditability {
		return true
	}
	prev := *it
	if !prev.BackwardChar() {
		return false
	}
	return prev.Editable(defaultEditability)
}

// --- Visibility ------------------------------------------------------------

// visibility tracks the invisibility of text during a walk over segments.
type visibility struct {
	active    map[*styled.Tag]bool
	defaults  bool
	hidden    bool
	dirty     bool
	anyHidden bool // some tag in the table is able to hide text
}

func (b *Buffer) newVisibility(l *Line, char int) *visibility {
	v := &visibility{
		active:   make(map[*styled.Tag]bool),
		defaults: b.defaults.Invisible,
		dirty:    true,
	}
	for _, tag := range b.tree.tagsAt(l, char) {
		v.active[tag] = true
	}
	return v
}

func (v *visibility) toggle(tag *styled.Tag) {
	v.active[tag] = !v.active[tag]
	v.dirty = true
}

func (v *visibility) invisible() bool {
	if !v.dirty {
		return v.hidden
	}
	v.dirty = false
	v.hidden = v.defaults
	prio := -1
	for tag, on := range v.active {
		if on && tag.IsSet(styled.PropInvisible) && tag.Priority() > prio {
			prio = tag.Priority()
			v.hidden = tag.Values().Invisible
		}
	}
	return v.hidden
}

// isInvisible is true if the character at the iterator is hidden.
func (it *Iter) isInvisible() bool {
	if !it.valid() {
		return false
	}
	return it.buffer.newVisibility(it.line, it.lineChar).invisible()
}

// --- Tag toggles -----------------------------------------------------------

// ForwardToTagToggle moves the iterator to the next toggle of tag behind
// it, or to the next toggle of any tag if tag is nil. If there is none,
// the iterator moves to the end of the buffer and false is returned.
func (it *Iter) ForwardToTagToggle(tag *styled.Tag) bool {
	if !it.valid() {
		return false
	}
	t := it.buffer.tree
	l, from := it.line, it.lineChar+1
	for l != nil {
		if hasToggles(l.toggles, tag) {
			if c, ok := l.firstToggleFrom(tag, from); ok {
				it.set(l, c)
				return true
			}
		}
		l = t.nextLineWithToggle(l, tag)
		from = 0
	}
	it.ForwardToEnd()
	return false
}

// BackwardToTagToggle moves the iterator to the previous toggle of tag in
// front of it, or to the previous toggle of any tag if tag is nil. If there
// is none, the iterator moves to the start of the buffer and false is
// returned.
func (it *Iter) BackwardToTagToggle(tag *styled.Tag) bool {
	if !it.valid() {
		return false
	}
	t := it.buffer.tree
	l, before := it.line, it.lineChar
	for l != nil {
		if hasToggles(l.toggles, tag) {
			if c, ok := l.lastToggleBefore(tag, before); ok {
				it.set(l, c)
				return true
			}
		}
		l = t.prevLineWithToggle(l, tag)
		if l != nil {
			before = l.chars + 1
		}
	}
	it.set(t.firstLine(), 0)
	return false
}

// firstToggleFrom returns the char offset of the first toggle of tag at or
// behind offset from.
func (l *Line) firstToggleFrom(tag *styled.Tag, from int) (int, bool) {
	pos := 0
	for s := l.segs; s != nil; s = s.next {
		if s.isToggle() && (tag == nil || s.tag == tag) && pos >= from {
			return pos, true
		}
		pos += s.chars()
	}
	return 0, false
}

// lastToggleBefore returns the char offset of the last toggle of tag in
// front of offset before.
func (l *Line) lastToggleBefore(tag *styled.Tag, before int) (int, bool) {
	pos, found, at := 0, false, 0
	for s := l.segs; s != nil && pos < before; s = s.next {
		if s.isToggle() && (tag == nil || s.tag == tag) {
			found, at = true, pos
		}
		pos += s.chars()
	}
	return at, found
}

// IterAtTagFirstToggle returns an iterator at the first toggle of tag in
// the buffer. If the tag is not applied anywhere, the start iterator and
// false are returned.
func (b *Buffer) IterAtTagFirstToggle(tag *styled.Tag) (Iter, bool) {
	it := b.StartIter()
	if it.TogglesTag(tag) {
		return it, true
	}
	ok := it.ForwardToTagToggle(tag)
	if !ok {
		it = b.StartIter()
	}
	return it, ok
}

// IterAtTagLastToggle returns an iterator at the last toggle of tag in the
// buffer. If the tag is not applied anywhere, the end iterator and false
// are returned.
func (b *Buffer) IterAtTagLastToggle(tag *styled.Tag) (Iter, bool) {
	it := b.EndIter()
	if it.TogglesTag(tag) {
		return it, true
	}
	ok := it.BackwardToTagToggle(tag)
	if !ok {
		it = b.EndIter()
	}
	return it, ok
}
