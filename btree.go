package textbuffer

import (
	"github.com/npillmayer/textbuffer/styled"
)

const (
	// maxChildren is the maximum fan-out of tree nodes. Leaf nodes hold up to
	// maxChildren lines.
	maxChildren = 12
	// minChildren is the lower occupancy bound for non-root nodes.
	minChildren = 6
)

// node is a node of the line tree. Nodes of height 1 are leaves and hold
// lines; all other nodes hold child nodes.
//
// Every node aggregates the number of lines and characters below it, the
// number of toggle segments per tag and the layout data of every view.
type node struct {
	parent   *node
	height   int
	children []*node
	lines    []*Line
	numLines int
	numChars int
	toggles  map[*styled.Tag]int
	views    map[ViewID]viewSummary
}

type viewSummary struct {
	width, height int
	valid         bool
}

func (n *node) isLeaf() bool {
	return n.height == 1
}

func (n *node) size() int {
	if n.isLeaf() {
		return len(n.lines)
	}
	return len(n.children)
}

// btree is the line tree of a buffer.
type btree struct {
	root            *node
	charsChanged    uint64
	segmentsChanged uint64
	views           []ViewID
}

func newBTree() *btree {
	t := &btree{}
	leaf := &node{height: 1}
	line := &Line{parent: leaf}
	leaf.lines = []*Line{line}
	t.root = leaf
	t.recompute(leaf)
	return t
}

// --- Aggregates ------------------------------------------------------------

// recompute rebuilds the aggregates of n from its children.
func (t *btree) recompute(n *node) {
	n.numLines, n.numChars = 0, 0
	n.toggles = nil
	addToggles := func(m map[*styled.Tag]int) {
		for tag, cnt := range m {
			if cnt == 0 {
				continue
			}
			if n.toggles == nil {
				n.toggles = make(map[*styled.Tag]int)
			}
			n.toggles[tag] += cnt
		}
	}
	if len(t.views) > 0 {
		n.views = make(map[ViewID]viewSummary, len(t.views))
	} else {
		n.views = nil
	}
	if n.isLeaf() {
		n.numLines = len(n.lines)
		for _, l := range n.lines {
			n.numChars += l.chars
			addToggles(l.toggles)
		}
		for _, v := range t.views {
			sum := viewSummary{valid: true}
			for _, l := range n.lines {
				ld := l.views[v]
				if ld == nil || !ld.Valid {
					sum.valid = false
				}
				if ld != nil {
					sum.height += ld.Height
					sum.width = max(sum.width, ld.Width)
				}
			}
			n.views[v] = sum
		}
		return
	}
	for _, c := range n.children {
		n.numLines += c.numLines
		n.numChars += c.numChars
		addToggles(c.toggles)
	}
	for _, v := range t.views {
		sum := viewSummary{valid: true}
		for _, c := range n.children {
			cs := c.views[v]
			sum.valid = sum.valid && cs.valid
			sum.height += cs.height
			sum.width = max(sum.width, cs.width)
		}
		n.views[v] = sum
	}
}

// propagate recomputes the aggregates of n and all of its ancestors.
func (t *btree) propagate(n *node) {
	for ; n != nil; n = n.parent {
		t.recompute(n)
	}
}

// lineChanged is called after the segments of a line have been modified.
func (t *btree) lineChanged(l *Line) {
	l.recount()
	for _, ld := range l.views {
		ld.Valid = false
	}
	t.propagate(l.parent)
}

func (t *btree) charCount() int {
	return t.root.numChars
}

func (t *btree) lineCount() int {
	return t.root.numLines
}

// --- Queries ---------------------------------------------------------------

// lineAt returns line number i, clamped to [0, lineCount-1].
func (t *btree) lineAt(i int) *Line {
	if i < 0 {
		i = 0
	}
	if i >= t.root.numLines {
		i = t.root.numLines - 1
	}
	n := t.root
	for !n.isLeaf() {
		for _, c := range n.children {
			if i < c.numLines {
				n = c
				break
			}
			i -= c.numLines
		}
	}
	return n.lines[i]
}

// lineAtChar returns the line containing char offset c and the offset of c
// within the line. c is clamped to [0, charCount]; charCount yields the end
// position of the last line.
func (t *btree) lineAtChar(c int) (*Line, int) {
	if c < 0 {
		c = 0
	}
	if c >= t.root.numChars {
		last := t.lastLine()
		return last, last.chars
	}
	n := t.root
	for !n.isLeaf() {
		for _, child := range n.children {
			if c < child.numChars {
				n = child
				break
			}
			c -= child.numChars
		}
	}
	for _, l := range n.lines {
		if c < l.chars {
			return l, c
		}
		c -= l.chars
	}
	panic("lineAtChar: aggregates inconsistent")
}

func (t *btree) firstLine() *Line {
	n := t.root
	for !n.isLeaf() {
		n = n.children[0]
	}
	return n.lines[0]
}

func (t *btree) lastLine() *Line {
	n := t.root
	for !n.isLeaf() {
		n = n.children[len(n.children)-1]
	}
	return n.lines[len(n.lines)-1]
}

func (n *node) indexOfLine(l *Line) int {
	for i, x := range n.lines {
		if x == l {
			return i
		}
	}
	panic("line not found in parent node")
}

func (n *node) indexOfChild(c *node) int {
	for i, x := range n.children {
		if x == c {
			return i
		}
	}
	panic("node not found in parent node")
}

// lineNumber returns the index of l in the buffer.
func (t *btree) lineNumber(l *Line) int {
	leaf := l.parent
	i := leaf.indexOfLine(l)
	for n := leaf; n.parent != nil; n = n.parent {
		for _, sibling := range n.parent.children {
			if sibling == n {
				break
			}
			i += sibling.numLines
		}
	}
	return i
}

// lineCharIndex returns the char offset of the start of l.
func (t *btree) lineCharIndex(l *Line) int {
	leaf := l.parent
	c := 0
	for _, x := range leaf.lines {
		if x == l {
			break
		}
		c += x.chars
	}
	for n := leaf; n.parent != nil; n = n.parent {
		for _, sibling := range n.parent.children {
			if sibling == n {
				break
			}
			c += sibling.numChars
		}
	}
	return c
}

func (t *btree) nextLine(l *Line) *Line {
	leaf := l.parent
	if i := leaf.indexOfLine(l); i+1 < len(leaf.lines) {
		return leaf.lines[i+1]
	}
	n := leaf
	for n.parent != nil {
		i := n.parent.indexOfChild(n)
		if i+1 < len(n.parent.children) {
			n = n.parent.children[i+1]
			for !n.isLeaf() {
				n = n.children[0]
			}
			return n.lines[0]
		}
		n = n.parent
	}
	return nil
}

func (t *btree) prevLine(l *Line) *Line {
	leaf := l.parent
	if i := leaf.indexOfLine(l); i > 0 {
		return leaf.lines[i-1]
	}
	n := leaf
	for n.parent != nil {
		i := n.parent.indexOfChild(n)
		if i > 0 {
			n = n.parent.children[i-1]
			for !n.isLeaf() {
				n = n.children[len(n.children)-1]
			}
			return n.lines[len(n.lines)-1]
		}
		n = n.parent
	}
	return nil
}

// --- Structural mutation ---------------------------------------------------

// insertLineAfter links line l into the tree behind prev.
func (t *btree) insertLineAfter(prev, l *Line) {
	leaf := prev.parent
	i := leaf.indexOfLine(prev)
	leaf.lines = insertAt(leaf.lines, i+1, l)
	l.parent = leaf
	l.recount()
	t.recompute(leaf)
	t.splitOverflow(leaf)
}

// splitOverflow splits n if it holds too many children and continues with
// the parent.
func (t *btree) splitOverflow(n *node) {
	for n != nil {
		if n.size() <= maxChildren {
			t.propagate(n.parent)
			return
		}
		mid := n.size() / 2
		sibling := &node{height: n.height}
		if n.isLeaf() {
			sibling.lines = append([]*Line(nil), n.lines[mid:]...)
			n.lines = append([]*Line(nil), n.lines[:mid]...)
			for _, l := range sibling.lines {
				l.parent = sibling
			}
		} else {
			sibling.children = append([]*node(nil), n.children[mid:]...)
			n.children = append([]*node(nil), n.children[:mid]...)
			for _, c := range sibling.children {
				c.parent = sibling
			}
		}
		T().Debugf("btree: split node of height %d", n.height)
		if n.parent == nil {
			root := &node{height: n.height + 1, children: []*node{n, sibling}}
			n.parent, sibling.parent = root, root
			t.root = root
		} else {
			p := n.parent
			p.children = insertAt(p.children, p.indexOfChild(n)+1, sibling)
			sibling.parent = p
		}
		t.recompute(n)
		t.recompute(sibling)
		n = n.parent
		t.recompute(n)
	}
}

// removeLine unlinks l from the tree. The tree always keeps at least one line.
func (t *btree) removeLine(l *Line) {
	leaf := l.parent
	assert(t.root.numLines > 1, "cannot remove the only line of a buffer")
	leaf.lines = removeRange(leaf.lines, leaf.indexOfLine(l), leaf.indexOfLine(l)+1)
	l.parent = nil
	n := leaf
	for n.parent != nil {
		t.recompute(n)
		p := n.parent
		if n.size() < minChildren {
			t.rebalance(p, p.indexOfChild(n))
		}
		n = p
	}
	t.recompute(t.root)
	for !t.root.isLeaf() && len(t.root.children) == 1 {
		t.root = t.root.children[0]
		t.root.parent = nil
	}
}

// rebalance repairs the occupancy of the child at slot of parent.
func (t *btree) rebalance(parent *node, slot int) {
	child := parent.children[slot]
	if child.size() == 0 {
		parent.children = removeRange(parent.children, slot, slot+1)
		t.recompute(parent)
		return
	}
	applyRebalancePolicy(parent, slot,
		func() bool { // borrow from left sibling
			left := parent.children[slot-1]
			if left.size() <= minChildren {
				return false
			}
			t.moveItems(left, left.size()-1, left.size(), child, 0)
			return true
		},
		func() bool { // borrow from right sibling
			right := parent.children[slot+1]
			if right.size() <= minChildren {
				return false
			}
			t.moveItems(right, 0, 1, child, child.size())
			return true
		},
		func() bool { // merge into left sibling
			left := parent.children[slot-1]
			if left.size()+child.size() > maxChildren {
				return false
			}
			t.moveItems(child, 0, child.size(), left, left.size())
			parent.children = removeRange(parent.children, slot, slot+1)
			return true
		},
		func() bool { // merge right sibling into child
			right := parent.children[slot+1]
			if right.size()+child.size() > maxChildren {
				return false
			}
			t.moveItems(right, 0, right.size(), child, child.size())
			parent.children = removeRange(parent.children, slot+1, slot+2)
			return true
		},
	)
	t.recompute(parent)
}

// applyRebalancePolicy centralizes sibling operation order after delete:
// borrow-left, borrow-right, merge-left, merge-right.
func applyRebalancePolicy(parent *node, slot int,
	borrowLeft, borrowRight, mergeLeft, mergeRight func() bool) bool {
	//
	assert(parent != nil, "applyRebalancePolicy called with nil parent")
	assert(slot >= 0 && slot < len(parent.children), "applyRebalancePolicy slot out of range")
	hasLeft := slot > 0
	hasRight := slot+1 < len(parent.children)
	if hasLeft && borrowLeft() {
		return true
	}
	if hasRight && borrowRight() {
		return true
	}
	if hasLeft && mergeLeft() {
		return true
	}
	if hasRight && mergeRight() {
		return true
	}
	return false
}

// moveItems moves the items [from,to) of src to dst at index at, updating
// parent links and aggregates of both nodes.
func (t *btree) moveItems(src *node, from, to int, dst *node, at int) {
	assert(src.height == dst.height, "moveItems between nodes of different height")
	if src.isLeaf() {
		moved := append([]*Line(nil), src.lines[from:to]...)
		src.lines = removeRange(src.lines, from, to)
		dst.lines = insertAt(dst.lines, at, moved...)
		for _, l := range moved {
			l.parent = dst
		}
	} else {
		moved := append([]*node(nil), src.children[from:to]...)
		src.children = removeRange(src.children, from, to)
		dst.children = insertAt(dst.children, at, moved...)
		for _, c := range moved {
			c.parent = dst
		}
	}
	t.recompute(src)
	t.recompute(dst)
}

// insertAt inserts values into a slice at idx and returns a new slice.
func insertAt[T any](src []T, idx int, values ...T) []T {
	assert(idx >= 0 && idx <= len(src), "insertAt index out of range")
	out := make([]T, 0, len(src)+len(values))
	out = append(out, src[:idx]...)
	out = append(out, values...)
	out = append(out, src[idx:]...)
	return out
}

// removeRange removes the half-open interval [from,to) from a slice.
func removeRange[T any](src []T, from, to int) []T {
	assert(from >= 0 && from <= to && to <= len(src), "removeRange bounds invalid")
	out := make([]T, 0, len(src)-(to-from))
	out = append(out, src[:from]...)
	out = append(out, src[to:]...)
	return out
}

// walk visits the segments between two positions in order. Indexable
// segments are passed with the char range [from, to) of the segment which
// lies inside the walked range; zero-width segments are visited only if
// they are located strictly between the two positions. The walk stops if
// visit returns false.
func (t *btree) walk(startLine *Line, startChar int, endLine *Line, endChar int,
	visit func(l *Line, s *segment, from, to int) bool) {
	//
	for l := startLine; l != nil; l = t.nextLine(l) {
		lo, hi := 0, l.chars
		if l == startLine {
			lo = startChar
		}
		if l == endLine {
			hi = endChar
		}
		pos := 0
		for s := l.segs; s != nil; s = s.next {
			n := s.chars()
			if n == 0 {
				if (l != startLine || pos > lo) && (l != endLine || pos < hi) {
					if !visit(l, s, 0, 0) {
						return
					}
				}
			} else if a, b := max(pos, lo), min(pos+n, hi); a < b {
				if !visit(l, s, a-pos, b-pos) {
					return
				}
			}
			pos += n
			if l == endLine && pos > hi {
				break
			}
		}
		if l == endLine {
			return
		}
	}
}
