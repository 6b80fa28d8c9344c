package textbuffer

import (
	"fmt"

	"github.com/npillmayer/textbuffer/chunk"
	"github.com/npillmayer/textbuffer/styled"
)

// Check verifies the internal consistency of a buffer: aggregated counts,
// node occupancy, parent links, mark and anchor back-pointers, line
// terminators and the balance of tag toggles. It is meant for tests and
// debugging and returns the first violation found.
func (b *Buffer) Check() error {
	t := b.tree
	if t.root.parent != nil {
		return fmt.Errorf("root has a parent")
	}
	if err := t.checkNode(t.root, true); err != nil {
		return err
	}
	lines, chars := 0, 0
	open := make(map[*styled.Tag]bool)
	for l := t.firstLine(); l != nil; l = t.nextLine(l) {
		if err := b.checkLine(l, l == t.lastLine()); err != nil {
			return fmt.Errorf("line %d: %w", lines, err)
		}
		for s := l.segs; s != nil; s = s.next {
			if !s.isToggle() {
				continue
			}
			if (s.kind == segToggleOn) == open[s.tag] {
				return fmt.Errorf("line %d: %s does not alternate", lines, s)
			}
			open[s.tag] = s.kind == segToggleOn
		}
		lines++
		chars += l.chars
	}
	for tag, on := range open {
		if on {
			return fmt.Errorf("tag %s is not closed", tag)
		}
	}
	if lines != t.lineCount() || chars != t.charCount() {
		return fmt.Errorf("tree counts %d lines/%d chars, found %d/%d",
			t.lineCount(), t.charCount(), lines, chars)
	}
	for name, m := range b.marks {
		if m.name != name || m.deleted || m.buffer != b {
			return fmt.Errorf("mark registry inconsistent for %q", name)
		}
		if m.line == nil || m.line.charOffsetOf(m.seg) < 0 {
			return fmt.Errorf("mark %q is not linked into its line", name)
		}
	}
	return nil
}

func (t *btree) checkNode(n *node, isRoot bool) error {
	if !isRoot && (n.size() < minChildren || n.size() > maxChildren) {
		return fmt.Errorf("node of height %d has %d children", n.height, n.size())
	}
	if n.size() == 0 {
		return fmt.Errorf("empty node of height %d", n.height)
	}
	lines, chars := 0, 0
	toggles := make(map[*styled.Tag]int)
	if n.isLeaf() {
		for _, l := range n.lines {
			if l.parent != n {
				return fmt.Errorf("line with wrong parent link")
			}
			lines++
			chars += l.chars
			for tag, c := range l.toggles {
				toggles[tag] += c
			}
		}
	} else {
		for _, c := range n.children {
			if c.parent != n || c.height != n.height-1 {
				return fmt.Errorf("child node with wrong parent link or height")
			}
			if err := t.checkNode(c, false); err != nil {
				return err
			}
			lines += c.numLines
			chars += c.numChars
			for tag, cnt := range c.toggles {
				toggles[tag] += cnt
			}
		}
	}
	if lines != n.numLines || chars != n.numChars {
		return fmt.Errorf("node of height %d caches %d lines/%d chars, has %d/%d",
			n.height, n.numLines, n.numChars, lines, chars)
	}
	if len(toggles) != len(n.toggles) {
		return fmt.Errorf("node of height %d has stale toggle counts", n.height)
	}
	for tag, cnt := range toggles {
		if n.toggles[tag] != cnt {
			return fmt.Errorf("node of height %d counts %d toggles for %s, has %d",
				n.height, n.toggles[tag], tag, cnt)
		}
	}
	return nil
}

func (b *Buffer) checkLine(l *Line, last bool) error {
	var sum chunk.Summary
	for s := l.segs; s != nil; s = s.next {
		switch s.kind {
		case segText:
			if s.text.IsEmpty() {
				return fmt.Errorf("empty text segment")
			}
			if r, _ := s.text.LastRune(); isTerminator(r) && s.next != nil {
				for x := s.next; x != nil; x = x.next {
					if x.isIndexable() {
						return fmt.Errorf("content behind line terminator")
					}
				}
			}
		case segMarkLeft, segMarkRight:
			if s.mark.line != l || s.mark.seg != s {
				return fmt.Errorf("%s has a stale back-pointer", s.mark)
			}
		case segChild:
			if s.anchor.line != l || s.anchor.seg != s {
				return fmt.Errorf("child anchor has a stale back-pointer")
			}
		}
		sum = sum.Add(s.summary())
	}
	if sum.Chars != l.chars || sum.Bytes != l.bytes {
		return fmt.Errorf("line caches %d chars/%d bytes, has %d/%d", l.chars, l.bytes, sum.Chars, sum.Bytes)
	}
	if last && sum.Terms != 0 || !last && sum.Terms != 1 {
		return fmt.Errorf("line holds %d line terminators", sum.Terms)
	}
	if !last && !l.terminated() {
		return fmt.Errorf("line is not terminated")
	}
	if last && l.terminated() {
		return fmt.Errorf("last line is terminated")
	}
	return nil
}
