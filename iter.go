package textbuffer

import (
	"unicode/utf8"

	"github.com/npillmayer/textbuffer/pixbuf"
)

// Iter is a position in a buffer. Iterators are small values and may be
// copied freely; copies move independently.
//
// An iterator always knows its line and its char offset within the line.
// The segment it points into, its byte offset, its absolute offset and its
// line number are computed on demand and cached. Changes of the buffer's
// text invalidate all iterators; changes which only rearrange marks or tags
// just drop the segment cache.
type Iter struct {
	buffer     *Buffer
	line       *Line
	lineChar   int
	lineByte   int // -1 if unknown
	seg        *segment
	anySeg     *segment
	segChar    int
	segValid   bool
	charIndex  int // -1 if unknown
	lineNumber int // -1 if unknown
	charsStamp uint64
	segsStamp  uint64
}

// iterAt creates an iterator at a char offset within line l. Positions
// behind the terminator of a line are moved to the start of the next line.
func (b *Buffer) iterAt(l *Line, char int) Iter {
	it := Iter{
		buffer:     b,
		charsStamp: b.tree.charsChanged,
		segsStamp:  b.tree.segmentsChanged,
	}
	it.set(l, char)
	return it
}

// set moves the iterator to a line position and drops all caches.
func (it *Iter) set(l *Line, char int) {
	if char >= l.chars && l.terminated() {
		if next := it.buffer.tree.nextLine(l); next != nil {
			l, char = next, 0
		} else {
			char = l.chars - 1
		}
	}
	if char > l.chars {
		char = l.chars
	}
	if char < 0 {
		char = 0
	}
	it.line = l
	it.lineChar = char
	it.lineByte = -1
	it.segValid = false
	it.charIndex = -1
	it.lineNumber = -1
}

// valid checks the iterator's stamps against the buffer. An iterator which
// survived a change of the buffer's text is reported to the trace.
func (it *Iter) valid() bool {
	if it.buffer == nil || it.line == nil {
		T().Errorf("use of an uninitialized iterator")
		return false
	}
	t := it.buffer.tree
	if it.charsStamp != t.charsChanged {
		T().Errorf("iterator used after the buffer's text has changed; treated as end of buffer")
		return false
	}
	if it.segsStamp != t.segmentsChanged {
		it.segValid = false
		it.segsStamp = t.segmentsChanged
	}
	return true
}

// resolve makes the segment fields of the iterator current.
func (it *Iter) resolve() {
	if it.segValid {
		return
	}
	it.seg, it.segChar, it.anySeg, _ = it.line.segmentAt(it.lineChar)
	it.segValid = true
}

// revalidate re-attaches an iterator to the current state of its buffer,
// keeping its line position. Used by mutating buffer operations on the
// iterators they were called with.
func (it *Iter) revalidate(l *Line, char int) {
	it.charsStamp = it.buffer.tree.charsChanged
	it.segsStamp = it.buffer.tree.segmentsChanged
	it.set(l, char)
}

// Buffer returns the buffer of the iterator.
func (it *Iter) Buffer() *Buffer {
	return it.buffer
}

// --- Queries ---------------------------------------------------------------

// Offset returns the char offset of the iterator from the start of the
// buffer.
func (it *Iter) Offset() int {
	if !it.valid() {
		if it.buffer == nil {
			return 0
		}
		return it.buffer.tree.charCount()
	}
	if it.charIndex < 0 {
		it.charIndex = it.buffer.tree.lineCharIndex(it.line) + it.lineChar
	}
	return it.charIndex
}

// Line returns the line number of the iterator.
func (it *Iter) Line() int {
	if !it.valid() {
		if it.buffer == nil {
			return 0
		}
		return it.buffer.tree.lineCount() - 1
	}
	if it.lineNumber < 0 {
		it.lineNumber = it.buffer.tree.lineNumber(it.line)
	}
	return it.lineNumber
}

// LineOffset returns the char offset of the iterator within its line.
func (it *Iter) LineOffset() int {
	if !it.valid() {
		return 0
	}
	return it.lineChar
}

// LineIndex returns the byte offset of the iterator within its line.
func (it *Iter) LineIndex() int {
	if !it.valid() {
		return 0
	}
	if it.lineByte < 0 {
		it.lineByte = it.line.byteOffset(it.lineChar)
	}
	return it.lineByte
}

// byteOffset converts a char offset within the line to a byte offset.
func (l *Line) byteOffset(char int) int {
	pos, bytes := 0, 0
	for s := l.segs; s != nil && pos < char; s = s.next {
		n := s.chars()
		if pos+n > char {
			return bytes + s.text.ByteOffset(char-pos)
		}
		pos += n
		bytes += s.bytes()
	}
	return bytes
}

// charOffset converts a byte offset within the line to a char offset. If
// the byte offset points into the middle of a character, ok is false and
// the offset of that character is returned.
func (l *Line) charOffset(index int) (char int, ok bool) {
	pos, bytes := 0, 0
	for s := l.segs; s != nil; s = s.next {
		nb := s.bytes()
		if nb == 0 {
			continue
		}
		if bytes+nb > index {
			local := index - bytes
			if s.kind != segText {
				return pos, local == 0
			}
			if !s.text.IsCharBoundary(local) {
				for local > 0 && !s.text.IsCharBoundary(local) {
					local--
				}
				return pos + s.text.CharOffset(local), false
			}
			return pos + s.text.CharOffset(local), true
		}
		pos += s.chars()
		bytes += nb
	}
	return pos, bytes == index
}

// Char returns the character at the iterator. Embedded objects yield
// U+FFFC, the end of the buffer yields 0.
func (it *Iter) Char() rune {
	if !it.valid() {
		return 0
	}
	it.resolve()
	if it.seg == nil {
		return 0
	}
	if it.seg.kind != segText {
		return ObjectReplacementChar
	}
	r, _ := it.seg.text.RuneAt(it.seg.text.ByteOffset(it.segChar))
	return r
}

// Pixbuf returns the image at the iterator, or nil.
func (it *Iter) Pixbuf() *pixbuf.Pixbuf {
	if !it.valid() {
		return nil
	}
	it.resolve()
	if it.seg != nil && it.seg.kind == segPixbuf {
		return it.seg.pixbuf
	}
	return nil
}

// ChildAnchor returns the child anchor at the iterator, or nil.
func (it *Iter) ChildAnchor() *ChildAnchor {
	if !it.valid() {
		return nil
	}
	it.resolve()
	if it.seg != nil && it.seg.kind == segChild {
		return it.seg.anchor
	}
	return nil
}

// zeroWidth calls f for every zero-width segment located at the iterator.
func (it *Iter) zeroWidth(f func(s *segment)) {
	it.resolve()
	for s := it.anySeg; s != nil && s != it.seg && !s.isIndexable(); s = s.next {
		f(s)
	}
}

// Marks returns the marks located at the iterator, in segment order.
func (it *Iter) Marks() []*Mark {
	if !it.valid() {
		return nil
	}
	var marks []*Mark
	it.zeroWidth(func(s *segment) {
		if s.kind == segMarkLeft || s.kind == segMarkRight {
			marks = append(marks, s.mark)
		}
	})
	return marks
}

// IsEnd is true if the iterator is positioned at the end of the buffer. The
// end position is not dereferenceable.
func (it *Iter) IsEnd() bool {
	if !it.valid() {
		return true
	}
	return it.lineChar == it.line.chars && !it.line.terminated() &&
		it.line == it.buffer.tree.lastLine()
}

// IsStart is true if the iterator is positioned at offset 0.
func (it *Iter) IsStart() bool {
	if !it.valid() {
		return false
	}
	return it.lineChar == 0 && it.line == it.buffer.tree.firstLine()
}

// StartsLine is true at the first position of a line.
func (it *Iter) StartsLine() bool {
	return it.valid() && it.lineChar == 0
}

// EndsLine is true in front of a line terminator and at the end of the
// buffer.
func (it *Iter) EndsLine() bool {
	if !it.valid() {
		return true
	}
	return it.lineChar == it.line.endChar()
}

// CharsInLine returns the number of chars in the iterator's line, including
// the terminator.
func (it *Iter) CharsInLine() int {
	if !it.valid() {
		return 0
	}
	return it.line.chars
}

// BytesInLine returns the number of bytes in the iterator's line, including
// the terminator.
func (it *Iter) BytesInLine() int {
	if !it.valid() {
		return 0
	}
	return it.line.bytes
}

// LineHandle returns an opaque handle for the iterator's line, which stays
// the same for all positions in the line as long as the line exists.
func (it *Iter) LineHandle() *Line {
	return it.line
}

// Slice returns the text from the iterator to end, with U+FFFC for
// embedded objects.
func (it *Iter) Slice(end Iter) string {
	return it.extract(end, true, false)
}

// Text returns the text from the iterator to end, leaving out embedded
// objects.
func (it *Iter) Text(end Iter) string {
	return it.extract(end, false, false)
}

// VisibleSlice is like Slice, but leaves out invisible text.
func (it *Iter) VisibleSlice(end Iter) string {
	return it.extract(end, true, true)
}

// VisibleText is like Text, but leaves out invisible text.
func (it *Iter) VisibleText(end Iter) string {
	return it.extract(end, false, true)
}

func (it *Iter) extract(end Iter, withObjects, visibleOnly bool) string {
	start := *it
	if !start.valid() || !end.valid() {
		return ""
	}
	OrderIters(&start, &end)
	b := it.buffer
	var buf []byte
	var vis *visibility
	if visibleOnly {
		vis = b.newVisibility(start.line, start.lineChar)
	}
	b.tree.walk(start.line, start.lineChar, end.line, end.lineChar,
		func(l *Line, s *segment, from, to int) bool {
			if s.isToggle() {
				if vis != nil {
					vis.toggle(s.tag)
				}
				return true
			}
			if !s.isIndexable() || vis != nil && vis.invisible() {
				return true
			}
			switch s.kind {
			case segText:
				str := s.text.String()
				buf = append(buf, str[s.text.ByteOffset(from):s.text.ByteOffset(to)]...)
			default:
				if withObjects {
					buf = utf8.AppendRune(buf, ObjectReplacementChar)
				}
			}
			return true
		})
	return string(buf)
}

// --- Comparison ------------------------------------------------------------

// Equal is true if two iterators point to the same position.
func (it *Iter) Equal(other Iter) bool {
	if !it.valid() || !other.valid() {
		return false
	}
	return it.line == other.line && it.lineChar == other.lineChar
}

// Compare returns a negative value if the iterator is in front of other, 0
// if both are equal and a positive value otherwise.
func (it *Iter) Compare(other Iter) int {
	if it.line == other.line {
		return it.lineChar - other.lineChar
	}
	a, b := it.Line(), other.Line()
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return it.LineOffset() - other.LineOffset()
}

// InRange is true if the iterator is in [start, end).
func (it *Iter) InRange(start, end Iter) bool {
	return it.Compare(start) >= 0 && it.Compare(end) < 0
}

// OrderIters swaps a and b if b is in front of a.
func OrderIters(a, b *Iter) {
	if a.Compare(*b) > 0 {
		*a, *b = *b, *a
	}
}

// --- Setting ---------------------------------------------------------------

// SetOffset moves the iterator to a char offset, clamped to the buffer.
func (it *Iter) SetOffset(offset int) {
	if !it.valid() {
		return
	}
	l, c := it.buffer.tree.lineAtChar(offset)
	it.set(l, c)
}

// SetLine moves the iterator to the start of a line. Line numbers out of
// range select the end of the buffer.
func (it *Iter) SetLine(lineNumber int) {
	if !it.valid() {
		return
	}
	t := it.buffer.tree
	if lineNumber >= t.lineCount() {
		last := t.lastLine()
		it.set(last, last.chars)
		return
	}
	it.set(t.lineAt(lineNumber), 0)
}

// SetLineOffset moves the iterator to a char offset within its line. The
// offset must not be larger than the number of chars in the line.
func (it *Iter) SetLineOffset(char int) {
	if !it.valid() {
		return
	}
	if char < 0 || char > it.line.chars {
		T().Errorf("line offset %d out of range for a line of %d chars", char, it.line.chars)
	}
	it.set(it.line, char)
}

// SetLineIndex moves the iterator to a byte offset within its line. Byte
// offsets in the middle of a character are reported and clamped to the
// start of the character.
func (it *Iter) SetLineIndex(index int) {
	if !it.valid() {
		return
	}
	char, ok := it.line.charOffset(index)
	if !ok {
		T().Errorf("byte index %d is not at a character boundary", index)
	}
	it.set(it.line, char)
}

// SetVisibleLineOffset moves the iterator to the position within its line
// preceded by n visible chars.
func (it *Iter) SetVisibleLineOffset(n int) {
	if !it.valid() {
		return
	}
	vis := it.buffer.newVisibility(it.line, 0)
	count := 0
	target := it.line.endChar()
	it.buffer.tree.walk(it.line, 0, it.line, it.line.endChar(),
		func(l *Line, s *segment, from, to int) bool {
			if s.isToggle() {
				vis.toggle(s.tag)
			}
			if !s.isIndexable() || vis.invisible() {
				return true
			}
			base := l.charOffsetOf(s)
			for c := from; c < to; c++ {
				if count == n {
					target = base + c
					return false
				}
				count++
			}
			return true
		})
	it.set(it.line, target)
}

// VisibleLineOffset returns the number of visible chars in front of the
// iterator within its line.
func (it *Iter) VisibleLineOffset() int {
	if !it.valid() {
		return 0
	}
	start := it.buffer.iterAt(it.line, 0)
	return utf8.RuneCountInString(start.VisibleSlice(*it))
}

// VisibleLineIndex returns the number of bytes of visible text in front of
// the iterator within its line.
func (it *Iter) VisibleLineIndex() int {
	if !it.valid() {
		return 0
	}
	start := it.buffer.iterAt(it.line, 0)
	return len(start.VisibleSlice(*it))
}
