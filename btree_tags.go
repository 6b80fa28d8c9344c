package textbuffer

import (
	"github.com/npillmayer/textbuffer/styled"
)

// hasToggles checks a toggle count map for toggles of tag, or for toggles
// of any tag if tag is nil.
func hasToggles(m map[*styled.Tag]int, tag *styled.Tag) bool {
	if tag == nil {
		return len(m) > 0
	}
	return m[tag] > 0
}

// togglesBefore counts the toggle segments of tag in front of a position.
// If inclusive is set, toggles in the zero-width run at the position are
// counted as well.
func (t *btree) togglesBefore(tag *styled.Tag, line *Line, char int, inclusive bool) int {
	cnt := 0
	if t.root.toggles[tag] == 0 {
		return 0
	}
	leaf := line.parent
	for _, l := range leaf.lines {
		if l == line {
			break
		}
		cnt += l.toggles[tag]
	}
	for n := leaf; n.parent != nil; n = n.parent {
		for _, sibling := range n.parent.children {
			if sibling == n {
				break
			}
			cnt += sibling.toggles[tag]
		}
	}
	if line.toggles[tag] == 0 {
		return cnt
	}
	pos := 0
	for s := line.segs; s != nil && pos <= char; s = s.next {
		if s.isToggle() && s.tag == tag && (pos < char || inclusive && pos == char) {
			cnt++
		}
		pos += s.chars()
	}
	return cnt
}

// hasTag is true if tag covers the character at a position.
func (t *btree) hasTag(tag *styled.Tag, line *Line, char int) bool {
	return t.togglesBefore(tag, line, char, true)%2 == 1
}

// changeTag adds tag to (add == true) or removes it from the range between
// two positions. Start must not be behind end.
func (t *btree) changeTag(tag *styled.Tag, startLine *Line, startChar int, endLine *Line, endChar int, add bool) {
	before := t.togglesBefore(tag, startLine, startChar, false)%2 == 1
	after := t.togglesBefore(tag, endLine, endChar, true)%2 == 1
	endNo := t.lineNumber(endLine)
	for l := startLine; l != nil; {
		if l.toggles[tag] > 0 {
			from, to := 0, l.chars
			if l == startLine {
				from = startChar
			}
			if l == endLine {
				to = endChar
			}
			if l.removeToggles(tag, from, to) {
				l.cleanup()
				t.lineChanged(l)
			}
		}
		if l == endLine {
			break
		}
		l = t.nextLineWithToggle(l, tag)
		if l != nil && t.lineNumber(l) > endNo {
			break
		}
	}
	if before != add {
		t.insertToggle(tag, startLine, startChar, add)
	}
	if add != after {
		t.insertToggle(tag, endLine, endChar, after)
	}
	t.segmentsChanged++
}

func (t *btree) insertToggle(tag *styled.Tag, line *Line, char int, on bool) {
	seg := newToggle(tag, on)
	prev := line.split(char)
	line.link(prev, seg, seg)
	line.cleanup()
	t.lineChanged(line)
}

// removeToggles drops the toggles of tag located at char positions in
// [from, to].
func (l *Line) removeToggles(tag *styled.Tag, from, to int) bool {
	removed := false
	pos := 0
	link := &l.segs
	for s := *link; s != nil; s = *link {
		if s.isToggle() && s.tag == tag && pos >= from && pos <= to {
			*link = s.next
			s.next = nil
			removed = true
			continue
		}
		pos += s.chars()
		link = &s.next
	}
	return removed
}

// removeAllToggles drops every toggle of tag from the buffer.
func (t *btree) removeAllToggles(tag *styled.Tag) {
	if t.root.toggles[tag] == 0 {
		return
	}
	l := t.firstLine()
	if l.toggles[tag] == 0 {
		l = t.nextLineWithToggle(l, tag)
	}
	for l != nil {
		next := t.nextLineWithToggle(l, tag)
		l.removeToggles(tag, 0, l.chars)
		l.cleanup()
		t.lineChanged(l)
		l = next
	}
	t.segmentsChanged++
}

// nextLineWithToggle finds the first line behind l which holds toggles of
// tag (or of any tag, if tag is nil). Subtrees without such toggles are
// skipped.
func (t *btree) nextLineWithToggle(l *Line, tag *styled.Tag) *Line {
	leaf := l.parent
	for _, x := range leaf.lines[leaf.indexOfLine(l)+1:] {
		if hasToggles(x.toggles, tag) {
			return x
		}
	}
	for n := leaf; n.parent != nil; n = n.parent {
		p := n.parent
		for _, sibling := range p.children[p.indexOfChild(n)+1:] {
			if hasToggles(sibling.toggles, tag) {
				return firstLineWithToggle(sibling, tag)
			}
		}
	}
	return nil
}

// prevLineWithToggle finds the last line in front of l which holds toggles
// of tag (or of any tag, if tag is nil).
func (t *btree) prevLineWithToggle(l *Line, tag *styled.Tag) *Line {
	leaf := l.parent
	lines := leaf.lines[:leaf.indexOfLine(l)]
	for i := len(lines) - 1; i >= 0; i-- {
		if hasToggles(lines[i].toggles, tag) {
			return lines[i]
		}
	}
	for n := leaf; n.parent != nil; n = n.parent {
		p := n.parent
		siblings := p.children[:p.indexOfChild(n)]
		for i := len(siblings) - 1; i >= 0; i-- {
			if hasToggles(siblings[i].toggles, tag) {
				return lastLineWithToggle(siblings[i], tag)
			}
		}
	}
	return nil
}

func firstLineWithToggle(n *node, tag *styled.Tag) *Line {
	for !n.isLeaf() {
		for _, c := range n.children {
			if hasToggles(c.toggles, tag) {
				n = c
				break
			}
		}
	}
	for _, l := range n.lines {
		if hasToggles(l.toggles, tag) {
			return l
		}
	}
	panic("firstLineWithToggle: aggregates inconsistent")
}

func lastLineWithToggle(n *node, tag *styled.Tag) *Line {
	for !n.isLeaf() {
		for i := len(n.children) - 1; i >= 0; i-- {
			if hasToggles(n.children[i].toggles, tag) {
				n = n.children[i]
				break
			}
		}
	}
	for i := len(n.lines) - 1; i >= 0; i-- {
		if hasToggles(n.lines[i].toggles, tag) {
			return n.lines[i]
		}
	}
	panic("lastLineWithToggle: aggregates inconsistent")
}

// tagsAt returns all tags covering the char at a position, in ascending
// priority.
func (t *btree) tagsAt(line *Line, char int) []*styled.Tag {
	var tags []*styled.Tag
	for tag := range t.root.toggles {
		if t.hasTag(tag, line, char) {
			tags = append(tags, tag)
		}
	}
	styled.SortByPriority(tags)
	return tags
}
