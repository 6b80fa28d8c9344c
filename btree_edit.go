package textbuffer

import (
	"unicode/utf8"
)

// insertText inserts text at char offset char of line. It returns the
// position behind the inserted text.
func (t *btree) insertText(line *Line, char int, text string) (*Line, int, error) {
	if !utf8.ValidString(text) {
		return line, char, ErrInvalidUTF8
	}
	if text == "" {
		return line, char, nil
	}
	type piece struct {
		head, tail *segment
		terminated bool
	}
	var pieces []piece
	for _, s := range splitLines(text) {
		head, tail, err := textSegments(s)
		if err != nil {
			return line, char, err
		}
		r, _ := utf8.DecodeLastRuneInString(s)
		pieces = append(pieces, piece{head: head, tail: tail, terminated: isTerminator(r)})
	}
	T().Debugf("btree: insert %d bytes in %d line(s) at line offset %d", len(text), len(pieces), char)
	prev := line.split(char)
	cur := line
	endChar := 0
	for _, p := range pieces {
		cur.link(prev, p.head, p.tail)
		if !p.terminated {
			prev = p.tail
			endChar = cur.charOffsetOf(p.tail) + p.tail.chars()
			continue
		}
		nl := &Line{segs: p.tail.next}
		p.tail.next = nil
		nl.adopt()
		cur.cleanup()
		t.lineChanged(cur)
		t.insertLineAfter(cur, nl)
		cur, prev, endChar = nl, nil, 0
	}
	cur.cleanup()
	t.lineChanged(cur)
	t.charsChanged++
	t.segmentsChanged++
	return cur, endChar, nil
}

// insertObject inserts an indexable segment of width 1 (pixbuf or child
// anchor) at char offset char of line.
func (t *btree) insertObject(line *Line, char int, seg *segment) {
	assert(seg.kind == segPixbuf || seg.kind == segChild, "insertObject for non-object segment")
	prev := line.split(char)
	line.link(prev, seg, seg)
	if seg.kind == segChild {
		seg.anchor.line = line
		seg.anchor.seg = seg
	}
	line.cleanup()
	t.lineChanged(line)
	t.charsChanged++
	t.segmentsChanged++
}

// insertMark links the segment of mark m at char offset char of line.
func (t *btree) insertMark(line *Line, char int, m *Mark) {
	seg := &segment{kind: m.segKind(), mark: m}
	prev := line.split(char)
	line.link(prev, seg, seg)
	m.line, m.seg = line, seg
	line.cleanup()
	t.lineChanged(line)
	t.segmentsChanged++
}

// unlinkMark removes the segment of mark m from its line.
func (t *btree) unlinkMark(m *Mark) {
	if m.line == nil {
		return
	}
	ok := m.line.unlink(m.seg)
	assert(ok, "mark segment not found in its line")
	l := m.line
	m.line, m.seg = nil, nil
	l.cleanup()
	t.lineChanged(l)
	t.segmentsChanged++
}

// deleteRange removes every indexable segment between two positions.
// Marks and toggles inside the range are collected at the start position,
// toggles which cancel out are dropped.
func (t *btree) deleteRange(startLine *Line, startChar int, endLine *Line, endChar int) {
	startPrev := startLine.split(startChar)
	endPrev := endLine.split(endChar)
	var endSeg *segment
	if endPrev == nil {
		endSeg = endLine.segs
	} else {
		endSeg = endPrev.next
	}
	var seg *segment
	if startPrev == nil {
		seg = startLine.segs
	} else {
		seg = startPrev.next
	}
	var survivors []*segment
	var doomed []*Line
	line := startLine
	for line != endLine || seg != endSeg {
		if seg == nil {
			line = t.nextLine(line)
			assert(line != nil, "deleteRange ran past the end of the buffer")
			doomed = append(doomed, line)
			seg = line.segs
			continue
		}
		next := seg.next
		switch seg.kind {
		case segText, segPixbuf:
		case segChild:
			seg.anchor.deleted = true
			seg.anchor.line, seg.anchor.seg = nil, nil
		default:
			survivors = append(survivors, seg)
		}
		seg.next = nil
		seg = next
	}
	// relink: head of start line, survivors, rest of end line
	tail := endSeg
	for i := len(survivors) - 1; i >= 0; i-- {
		survivors[i].next = tail
		tail = survivors[i]
	}
	if startPrev == nil {
		startLine.segs = tail
	} else {
		startPrev.next = tail
	}
	startLine.adopt()
	startLine.cleanup()
	startLine.recount()
	T().Debugf("btree: delete range removes %d line(s), keeps %d zero-width segments",
		len(doomed), len(survivors))
	for _, l := range doomed {
		l.segs = nil
		t.removeLine(l)
	}
	t.lineChanged(startLine)
	t.charsChanged++
	t.segmentsChanged++
}

// slice extracts the text of a line from char offset from up to, but
// excluding, char offset to. Embedded objects appear as U+FFFC if
// withObjects is set.
func (l *Line) slice(from, to int, withObjects bool) string {
	buf := make([]byte, 0, l.bytes)
	pos := 0
	for s := l.segs; s != nil && pos < to; s = s.next {
		n := s.chars()
		if n == 0 {
			continue
		}
		if pos+n <= from {
			pos += n
			continue
		}
		switch s.kind {
		case segText:
			a, b := max(from-pos, 0), min(to-pos, n)
			str := s.text.String()
			buf = append(buf, str[s.text.ByteOffset(a):s.text.ByteOffset(b)]...)
		default:
			if withObjects {
				buf = append(buf, string(ObjectReplacementChar)...)
			}
		}
		pos += n
	}
	return string(buf)
}
