package textbuffer

import (
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/textbuffer/chunk"
	"github.com/npillmayer/textbuffer/styled"
)

// Line is a paragraph of a buffer: a list of segments ending in a line
// terminator, except for the last line of a buffer, which is unterminated.
//
// Clients receive lines only as opaque handles, e.g. from Iter.LineHandle,
// to identify lines for layout purposes.
type Line struct {
	parent  *node
	segs    *segment
	chars   int
	bytes   int
	toggles map[*styled.Tag]int   // toggle segments per tag, nil if none
	views   map[ViewID]*LineData // per-view layout data
}

// recount recomputes the cached aggregates of a line.
func (l *Line) recount() {
	var sum chunk.Summary
	l.toggles = nil
	for s := l.segs; s != nil; s = s.next {
		sum = sum.Add(s.summary())
		if s.isToggle() {
			if l.toggles == nil {
				l.toggles = make(map[*styled.Tag]int)
			}
			l.toggles[s.tag]++
		}
	}
	l.chars, l.bytes = sum.Chars, sum.Bytes
}

// lastSegment returns the final segment of the line, or nil.
func (l *Line) lastSegment() *segment {
	var last *segment
	for s := l.segs; s != nil; s = s.next {
		last = s
	}
	return last
}

// terminated is true if the line ends in a line terminator.
func (l *Line) terminated() bool {
	var last *segment
	for s := l.segs; s != nil; s = s.next {
		if s.isIndexable() {
			last = s
		}
	}
	if last == nil || last.kind != segText {
		return false
	}
	r, _ := last.text.LastRune()
	return isTerminator(r)
}

// endChar is the largest char offset an iterator may have within this line.
// For terminated lines it is the position in front of the terminator.
func (l *Line) endChar() int {
	if l.terminated() {
		return l.chars - 1
	}
	return l.chars
}

// text returns the UTF-8 text of the line, with U+FFFC for embedded objects.
func (l *Line) text() string {
	buf := make([]byte, 0, l.bytes)
	for s := l.segs; s != nil; s = s.next {
		buf = s.appendText(buf)
	}
	return string(buf)
}

// adopt sets the line back-pointer of every mark and child anchor of the line.
func (l *Line) adopt() {
	for s := l.segs; s != nil; s = s.next {
		switch s.kind {
		case segMarkLeft, segMarkRight:
			s.mark.line = l
		case segChild:
			s.anchor.line = l
		}
	}
}

// segmentAt finds the indexable segment containing the char at charOffset.
// It returns the segment, the char offset within it, the first segment of
// the zero-width run in front of the position (or seg itself) and the
// segment preceding that run. At the end of the line, seg is nil.
func (l *Line) segmentAt(charOffset int) (seg *segment, segChar int, any *segment, prev *segment) {
	pos := 0
	var p *segment
	for s := l.segs; s != nil; s = s.next {
		n := s.chars()
		if pos == charOffset && any == nil {
			any, prev = s, p
		}
		if n > 0 && charOffset < pos+n {
			if any == nil {
				any, prev = s, p
			}
			return s, charOffset - pos, any, prev
		}
		pos += n
		p = s
	}
	return nil, 0, any, prev
}

// split makes sure a segment boundary exists at charOffset and returns the
// segment after which new content has to be linked (nil for the head of
// the line). Zero-width segments with left gravity at the position end up
// in front of new content, all others behind it.
func (l *Line) split(charOffset int) *segment {
	var prev *segment
	count := charOffset
	for s := l.segs; s != nil; s = s.next {
		n := s.chars()
		if n > count {
			if count == 0 {
				return prev
			}
			s.splitText(count)
			return s
		}
		if n == 0 && count == 0 && !s.leftGravity() {
			return prev
		}
		count -= n
		prev = s
	}
	assert(count == 0, "line split offset beyond end of line")
	return prev
}

// link inserts the list head…tail after prev, or at the head of the line if
// prev is nil.
func (l *Line) link(prev, head, tail *segment) {
	if prev == nil {
		tail.next = l.segs
		l.segs = head
	} else {
		tail.next = prev.next
		prev.next = head
	}
}

// unlink removes segment s from the line.
func (l *Line) unlink(s *segment) bool {
	if l.segs == s {
		l.segs = s.next
		s.next = nil
		return true
	}
	for p := l.segs; p != nil; p = p.next {
		if p.next == s {
			p.next = s.next
			s.next = nil
			return true
		}
	}
	return false
}

// charOffsetOf returns the char offset of segment s within the line.
func (l *Line) charOffsetOf(s *segment) int {
	pos := 0
	for p := l.segs; p != nil; p = p.next {
		if p == s {
			return pos
		}
		pos += p.chars()
	}
	return -1
}

// cleanup normalizes the segments of a line: adjacent text segments are
// merged while they fit into a chunk, pairs of toggles for the same tag
// within a zero-width run cancel out, and within every zero-width run
// segments with left gravity are moved in front of the others.
func (l *Line) cleanup() {
	var runStart **segment = &l.segs
	for {
		// find the next zero-width run
		for *runStart != nil && (*runStart).isIndexable() {
			s := *runStart
			for s.kind == segText && s.next != nil && s.next.kind == segText {
				merged, ok := s.text.Concat(s.next.text)
				if !ok {
					break
				}
				s.text = merged
				s.next = s.next.next
			}
			runStart = &s.next
		}
		if *runStart == nil {
			return
		}
		runStart = cleanupRun(runStart)
	}
}

// cleanupRun normalizes the zero-width run starting at *head and returns
// the link pointing to the first segment after the run.
func cleanupRun(head **segment) **segment {
	var run []*segment
	s := *head
	for ; s != nil && !s.isIndexable(); s = s.next {
		run = append(run, s)
	}
	after := s
	var parity map[*styled.Tag]int
	for _, seg := range run {
		if seg.isToggle() {
			if parity == nil {
				parity = make(map[*styled.Tag]int)
			}
			parity[seg.tag]++
		}
	}
	kept := make([]*segment, 0, len(run))
	seen := make(map[*styled.Tag]bool, len(parity))
	for _, seg := range run {
		if seg.isToggle() {
			if parity[seg.tag]%2 == 0 || seen[seg.tag] {
				continue
			}
			seen[seg.tag] = true
		}
		kept = append(kept, seg)
	}
	ordered := make([]*segment, 0, len(kept))
	for _, seg := range kept {
		if seg.leftGravity() {
			ordered = append(ordered, seg)
		}
	}
	for _, seg := range kept {
		if !seg.leftGravity() {
			ordered = append(ordered, seg)
		}
	}
	link := head
	for _, seg := range ordered {
		*link = seg
		link = &seg.next
	}
	*link = after
	return link
}

func isTerminator(r rune) bool {
	return r == '\n' || r == chunk.ParagraphSeparator
}

// splitLines cuts text into pieces which end in a line terminator, except
// possibly the last one. "\r\n" is kept together with the '\n'.
func splitLines(text string) []string {
	var lines []string
	for len(text) > 0 {
		i := strings.IndexFunc(text, isTerminator)
		if i < 0 {
			lines = append(lines, text)
			break
		}
		_, w := utf8.DecodeRuneInString(text[i:])
		lines = append(lines, text[:i+w])
		text = text[i+w:]
	}
	return lines
}
