package textbuffer

// All movement operations return true if the iterator ends up at a
// dereferenceable position, i.e. not at the end of the buffer.

// ForwardChar moves the iterator one char forward.
func (it *Iter) ForwardChar() bool {
	if !it.valid() || it.IsEnd() {
		return false
	}
	if it.lineChar+1 < it.line.chars || !it.line.terminated() {
		it.set(it.line, it.lineChar+1)
	} else {
		it.set(it.buffer.tree.nextLine(it.line), 0)
	}
	return !it.IsEnd()
}

// BackwardChar moves the iterator one char backward. At the start of the
// buffer it returns false and does not move.
func (it *Iter) BackwardChar() bool {
	if !it.valid() {
		return false
	}
	if it.lineChar > 0 {
		it.set(it.line, it.lineChar-1)
		return true
	}
	prev := it.buffer.tree.prevLine(it.line)
	if prev == nil {
		return false
	}
	it.set(prev, prev.chars-1)
	return true
}

// ForwardChars moves the iterator n chars forward; negative values move
// backward. Movement stops at the ends of the buffer.
func (it *Iter) ForwardChars(n int) bool {
	if n < 0 {
		return it.BackwardChars(-n)
	}
	if n == 0 || !it.valid() || it.IsEnd() {
		return false
	}
	if it.lineChar+n < it.line.endChar() {
		it.set(it.line, it.lineChar+n)
		return true
	}
	it.SetOffset(it.Offset() + n)
	return !it.IsEnd()
}

// BackwardChars moves the iterator n chars backward; negative values move
// forward.
func (it *Iter) BackwardChars(n int) bool {
	if n < 0 {
		return it.ForwardChars(-n)
	}
	if n == 0 || !it.valid() {
		return false
	}
	if it.lineChar-n >= 0 {
		it.set(it.line, it.lineChar-n)
		return true
	}
	off := it.Offset()
	if off == 0 {
		return false
	}
	it.SetOffset(off - n)
	return true
}

// ForwardLine moves the iterator to the start of the next line. On the last
// line it moves to the end of the buffer and returns false.
func (it *Iter) ForwardLine() bool {
	if !it.valid() {
		return false
	}
	next := it.buffer.tree.nextLine(it.line)
	if next == nil {
		it.ForwardToEnd()
		return false
	}
	it.set(next, 0)
	return !it.IsEnd()
}

// BackwardLine moves the iterator to the start of the previous line. On the
// first line it moves to the start of the line; it returns false only if
// the iterator did not move.
func (it *Iter) BackwardLine() bool {
	if !it.valid() {
		return false
	}
	prev := it.buffer.tree.prevLine(it.line)
	if prev == nil {
		moved := it.lineChar != 0
		it.set(it.line, 0)
		return moved
	}
	it.set(prev, 0)
	return true
}

// ForwardLines moves the iterator n lines forward; negative values move
// backward.
func (it *Iter) ForwardLines(n int) bool {
	if n < 0 {
		return it.BackwardLines(-n)
	}
	if n == 0 || !it.valid() {
		return false
	}
	t := it.buffer.tree
	target := it.Line() + n
	if target >= t.lineCount() {
		it.ForwardToEnd()
		return false
	}
	it.set(t.lineAt(target), 0)
	return !it.IsEnd()
}

// BackwardLines moves the iterator n lines backward; negative values move
// forward.
func (it *Iter) BackwardLines(n int) bool {
	if n < 0 {
		return it.ForwardLines(-n)
	}
	if n == 0 || !it.valid() {
		return false
	}
	target := it.Line() - n
	if target < 0 {
		moved := !it.IsStart()
		it.set(it.buffer.tree.firstLine(), 0)
		return moved
	}
	it.set(it.buffer.tree.lineAt(target), 0)
	return true
}

// ForwardVisibleLine moves the iterator to the start of the next line which
// contains visible text.
func (it *Iter) ForwardVisibleLine() bool {
	for it.ForwardLine() {
		if it.lineHasVisibleText() {
			return true
		}
	}
	return false
}

// BackwardVisibleLine moves the iterator to the start of the previous line
// which contains visible text.
func (it *Iter) BackwardVisibleLine() bool {
	for it.BackwardLine() {
		if it.lineHasVisibleText() {
			return true
		}
		if it.IsStart() {
			return false
		}
	}
	return false
}

// ForwardVisibleLines moves the iterator n visible lines forward.
func (it *Iter) ForwardVisibleLines(n int) bool {
	if n < 0 {
		return it.BackwardVisibleLines(-n)
	}
	ok := false
	for ; n > 0; n-- {
		if ok = it.ForwardVisibleLine(); !ok {
			break
		}
	}
	return ok
}

// BackwardVisibleLines moves the iterator n visible lines backward.
func (it *Iter) BackwardVisibleLines(n int) bool {
	if n < 0 {
		return it.ForwardVisibleLines(-n)
	}
	ok := false
	for ; n > 0; n-- {
		if ok = it.BackwardVisibleLine(); !ok {
			break
		}
	}
	return ok
}

func (it *Iter) lineHasVisibleText() bool {
	start := it.buffer.iterAt(it.line, 0)
	end := it.buffer.iterAt(it.line, it.line.endChar())
	if start.Equal(end) {
		return !start.isInvisible()
	}
	return start.VisibleSlice(end) != ""
}

// ForwardToLineEnd moves the iterator in front of the terminator of its
// line. If it already is there, it moves to the end of the next line.
func (it *Iter) ForwardToLineEnd() bool {
	if !it.valid() {
		return false
	}
	if it.lineChar == it.line.endChar() {
		next := it.buffer.tree.nextLine(it.line)
		if next == nil {
			return false
		}
		it.set(next, next.endChar())
	} else {
		it.set(it.line, it.line.endChar())
	}
	return !it.IsEnd()
}

// ForwardToEnd moves the iterator to the end of the buffer.
func (it *Iter) ForwardToEnd() {
	if it.buffer == nil {
		return
	}
	last := it.buffer.tree.lastLine()
	it.revalidate(last, last.chars)
}

// ForwardFindChar moves forward until pred is true for the char at the
// iterator. The search gives up at limit (if not nil) or at the end of the
// buffer; the iterator is then positioned there and false is returned.
func (it *Iter) ForwardFindChar(pred func(r rune) bool, limit *Iter) bool {
	if !it.valid() {
		return false
	}
	if limit != nil && it.Compare(*limit) >= 0 {
		return false
	}
	for it.ForwardChar() {
		if limit != nil && it.Compare(*limit) >= 0 {
			*it = *limit
			return false
		}
		if pred(it.Char()) {
			return true
		}
	}
	return false
}

// BackwardFindChar moves backward until pred is true for the char at the
// iterator. The search gives up at limit (if not nil) or at the start of
// the buffer.
func (it *Iter) BackwardFindChar(pred func(r rune) bool, limit *Iter) bool {
	if !it.valid() {
		return false
	}
	if limit != nil && it.Compare(*limit) <= 0 {
		return false
	}
	for it.BackwardChar() {
		if limit != nil && it.Compare(*limit) <= 0 {
			*it = *limit
			return false
		}
		if pred(it.Char()) {
			return true
		}
	}
	return false
}
