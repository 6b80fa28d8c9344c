package textbuffer

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// SearchFlags modify the behaviour of ForwardSearch and BackwardSearch.
type SearchFlags uint8

const (
	// SearchVisibleOnly ignores invisible text.
	SearchVisibleOnly SearchFlags = 1 << iota
	// SearchTextOnly ignores embedded objects. Otherwise they may be matched
	// by U+FFFC in the needle.
	SearchTextOnly
	// SearchCaseInsensitive compares case-folded canonical decompositions.
	SearchCaseInsensitive
)

// hayRune is a rune of the searched text, after folding. Folding may expand
// a char into several runes; first and last mark the runes which may start
// or end a match.
type hayRune struct {
	r           rune
	offset      int // char offset of the originating char
	first, last bool
}

type folder struct {
	caser cases.Caser
	fold  bool
}

func newFolder(flags SearchFlags) *folder {
	f := &folder{fold: flags&SearchCaseInsensitive != 0}
	if f.fold {
		f.caser = cases.Fold()
	}
	return f
}

func (f *folder) runes(s string) []rune {
	if !f.fold {
		return []rune(s)
	}
	return []rune(f.caser.String(norm.NFD.String(s)))
}

// haystack flattens the text between two iterators into folded runes.
func (b *Buffer) haystack(start, end Iter, flags SearchFlags, f *folder) []hayRune {
	var hay []hayRune
	var vis *visibility
	if flags&SearchVisibleOnly != 0 {
		vis = b.newVisibility(start.line, start.lineChar)
	}
	offset := start.Offset()
	b.tree.walk(start.line, start.lineChar, end.line, end.lineChar,
		func(l *Line, s *segment, from, to int) bool {
			if s.isToggle() && vis != nil {
				vis.toggle(s.tag)
			}
			if !s.isIndexable() {
				return true
			}
			skip := vis != nil && vis.invisible() || s.kind != segText && flags&SearchTextOnly != 0
			if skip {
				offset += to - from
				return true
			}
			if s.kind != segText {
				hay = append(hay, hayRune{r: ObjectReplacementChar, offset: offset, first: true, last: true})
				offset++
				return true
			}
			str := s.text.String()
			for _, r := range str[s.text.ByteOffset(from):s.text.ByteOffset(to)] {
				folded := f.runes(string(r))
				for i, fr := range folded {
					hay = append(hay, hayRune{r: fr, offset: offset, first: i == 0, last: i == len(folded)-1})
				}
				offset++
			}
			return true
		})
	return hay
}

// matchAt tests for needle at position i of the haystack and returns the
// char offsets of the match.
func matchAt(hay []hayRune, needle []rune, i int) (int, int, bool) {
	if i+len(needle) > len(hay) || !hay[i].first || !hay[i+len(needle)-1].last {
		return 0, 0, false
	}
	for j, r := range needle {
		if hay[i+j].r != r {
			return 0, 0, false
		}
	}
	return hay[i].offset, hay[i+len(needle)-1].offset + 1, true
}

// ForwardSearch searches for needle, starting at the iterator. A match must
// start at or behind the iterator and end in front of limit (or the end of
// the buffer, if limit is nil). Matches may span lines.
//
// An empty needle matches at the position one char behind the iterator.
func (it *Iter) ForwardSearch(needle string, flags SearchFlags, limit *Iter) (matchStart, matchEnd Iter, found bool) {
	if !it.valid() {
		return *it, *it, false
	}
	b := it.buffer
	end := b.EndIter()
	if limit != nil && limit.valid() {
		end = *limit
	}
	if it.Compare(end) >= 0 {
		return *it, *it, false
	}
	if needle == "" {
		pos := *it
		moved := pos.ForwardChar()
		if pos.Compare(end) > 0 {
			return *it, *it, false
		}
		return pos, pos, moved
	}
	f := newFolder(flags)
	pattern := f.runes(needle)
	hay := b.haystack(*it, end, flags, f)
	for i := range hay {
		if s, e, ok := matchAt(hay, pattern, i); ok {
			return b.IterAtOffset(s), b.IterAtOffset(e), true
		}
	}
	return *it, *it, false
}

// BackwardSearch searches for needle in front of the iterator. A match must
// end at or in front of the iterator and start at or behind limit (or the
// start of the buffer, if limit is nil). The match closest to the iterator
// is returned.
func (it *Iter) BackwardSearch(needle string, flags SearchFlags, limit *Iter) (matchStart, matchEnd Iter, found bool) {
	if !it.valid() {
		return *it, *it, false
	}
	b := it.buffer
	start := b.StartIter()
	if limit != nil && limit.valid() {
		start = *limit
	}
	if it.Compare(start) <= 0 {
		return *it, *it, false
	}
	if needle == "" {
		pos := *it
		if !pos.BackwardChar() || pos.Compare(start) < 0 {
			return *it, *it, false
		}
		return pos, pos, true
	}
	f := newFolder(flags)
	pattern := f.runes(needle)
	hay := b.haystack(start, *it, flags, f)
	for i := len(hay) - 1; i >= 0; i-- {
		if s, e, ok := matchAt(hay, pattern, i); ok {
			return b.IterAtOffset(s), b.IterAtOffset(e), true
		}
	}
	return *it, *it, false
}
