package textbuffer

// ViewID identifies a view registered with a buffer.
type ViewID int

// LineData is the layout information a view keeps for a line.
type LineData struct {
	Width  int
	Height int
	Valid  bool
}

// LineLayout computes the size of lines for a view. Layout itself is not
// the buffer's concern; the buffer only caches the results per line and
// aggregates them in the line tree.
type LineLayout interface {
	// MeasureLine returns the size of the line starting at start.
	MeasureLine(start Iter) (width, height int)
}

// AddView registers a layout collaborator and returns the id under which
// per-line data is cached.
func (b *Buffer) AddView(layout LineLayout) ViewID {
	b.nextView++
	id := b.nextView
	if b.views == nil {
		b.views = make(map[ViewID]LineLayout)
	}
	b.views[id] = layout
	b.tree.views = append(b.tree.views, id)
	b.tree.recomputeAll(b.tree.root)
	return id
}

// RemoveView drops a view together with its cached line data.
func (b *Buffer) RemoveView(id ViewID) {
	if _, ok := b.views[id]; !ok {
		return
	}
	delete(b.views, id)
	for i, v := range b.tree.views {
		if v == id {
			b.tree.views = append(b.tree.views[:i:i], b.tree.views[i+1:]...)
			break
		}
	}
	for l := b.tree.firstLine(); l != nil; l = b.tree.nextLine(l) {
		delete(l.views, id)
	}
	b.tree.recomputeAll(b.tree.root)
}

// ValidateLine makes sure the layout data of the line containing it is
// up to date for a view and returns it.
func (b *Buffer) ValidateLine(it Iter, id ViewID) LineData {
	if !it.valid() {
		return LineData{}
	}
	layout, ok := b.views[id]
	if !ok {
		T().Errorf("validate line: unknown view %d", id)
		return LineData{}
	}
	return b.validateLine(it.line, id, layout)
}

func (b *Buffer) validateLine(l *Line, id ViewID, layout LineLayout) LineData {
	if ld := l.views[id]; ld != nil && ld.Valid {
		return *ld
	}
	start := b.iterAt(l, 0)
	w, h := layout.MeasureLine(start)
	if l.views == nil {
		l.views = make(map[ViewID]*LineData)
	}
	ld := &LineData{Width: w, Height: h, Valid: true}
	l.views[id] = ld
	b.tree.propagate(l.parent)
	return *ld
}

// LineData returns the cached layout data of the line containing it,
// without validating it.
func (b *Buffer) LineData(it Iter, id ViewID) LineData {
	if !it.valid() {
		return LineData{}
	}
	if ld := it.line.views[id]; ld != nil {
		return *ld
	}
	return LineData{}
}

// ViewSize returns the total height and the maximum line width of the
// buffer for a view. Invalid lines are validated on the way.
func (b *Buffer) ViewSize(id ViewID) (width, height int) {
	layout, ok := b.views[id]
	if !ok {
		T().Errorf("view size: unknown view %d", id)
		return 0, 0
	}
	var validate func(n *node)
	validate = func(n *node) {
		if n.views[id].valid {
			return
		}
		if n.isLeaf() {
			for _, l := range n.lines {
				b.validateLine(l, id, layout)
			}
			return
		}
		for _, c := range n.children {
			validate(c)
		}
	}
	validate(b.tree.root)
	sum := b.tree.root.views[id]
	return sum.width, sum.height
}

// viewHeight is the cached total height of the first view, or 0.
func (b *Buffer) viewHeight() int {
	if len(b.tree.views) == 0 {
		return 0
	}
	return b.tree.root.views[b.tree.views[0]].height
}

// invalidateViews marks the layout data of every line as stale.
func (t *btree) invalidateViews() {
	if len(t.views) == 0 {
		return
	}
	for l := t.firstLine(); l != nil; l = t.nextLine(l) {
		for _, ld := range l.views {
			ld.Valid = false
		}
	}
	t.recomputeAll(t.root)
}

// recomputeAll rebuilds the aggregates of a whole subtree.
func (t *btree) recomputeAll(n *node) {
	for _, c := range n.children {
		t.recomputeAll(c)
	}
	t.recompute(n)
}
