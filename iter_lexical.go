package textbuffer

import (
	"github.com/npillmayer/textbuffer/logattr"
)

// Lexical movement uses the logical attributes of paragraphs, as computed
// by the buffer's logattr.Analyzer. Attributes are indexed by char offset
// within a line; index i describes the position in front of char i.

type attrPredicate func(attrs []logattr.LogAttr, i int) bool

func (it *Iter) lineAttrs(l *Line) []logattr.LogAttr {
	return it.buffer.attrs.Analyze(l.text())
}

// findForward moves the iterator to the next position behind it for which
// pred holds. If there is none, the iterator moves to the end of the
// buffer and false is returned.
func (it *Iter) findForward(pred attrPredicate) bool {
	if !it.valid() {
		return false
	}
	t := it.buffer.tree
	l, from := it.line, it.lineChar+1
	for l != nil {
		attrs := it.lineAttrs(l)
		for i := from; i <= l.endChar(); i++ {
			if pred(attrs, i) {
				it.set(l, i)
				return !it.IsEnd()
			}
		}
		l, from = t.nextLine(l), 0
	}
	it.ForwardToEnd()
	return false
}

// findBackward moves the iterator to the previous position in front of it
// for which pred holds. If there is none, the iterator moves to the start
// of the buffer and false is returned.
func (it *Iter) findBackward(pred attrPredicate) bool {
	if !it.valid() {
		return false
	}
	t := it.buffer.tree
	l, from := it.line, it.lineChar-1
	for l != nil {
		attrs := it.lineAttrs(l)
		for i := min(from, l.endChar()); i >= 0; i-- {
			if pred(attrs, i) {
				it.set(l, i)
				return true
			}
		}
		l = t.prevLine(l)
		if l != nil {
			from = l.chars
		}
	}
	it.set(t.firstLine(), 0)
	return false
}

// repeat applies a movement n times, or -n times in the other direction.
func repeat(n int, forward, backward func() bool) bool {
	if n < 0 {
		n, forward = -n, backward
	}
	ok := false
	for ; n > 0; n-- {
		if ok = forward(); !ok {
			break
		}
	}
	return ok
}

// attribute tests at the iterator

func (it *Iter) attrAt(f func(a logattr.LogAttr) bool) bool {
	if !it.valid() {
		return false
	}
	attrs := it.lineAttrs(it.line)
	return f(attrs[it.lineChar])
}

func isWordStart(attrs []logattr.LogAttr, i int) bool     { return attrs[i].IsWordStart }
func isWordEnd(attrs []logattr.LogAttr, i int) bool       { return attrs[i].IsWordEnd }
func isSentenceStart(attrs []logattr.LogAttr, i int) bool { return attrs[i].IsSentenceStart }
func isSentenceEnd(attrs []logattr.LogAttr, i int) bool   { return attrs[i].IsSentenceEnd }
func isCursorPos(attrs []logattr.LogAttr, i int) bool     { return attrs[i].IsCursorPosition }

// StartsWord is true if a word starts at the iterator.
func (it *Iter) StartsWord() bool {
	return it.attrAt(func(a logattr.LogAttr) bool { return a.IsWordStart })
}

// EndsWord is true if a word ends at the iterator.
func (it *Iter) EndsWord() bool {
	return it.attrAt(func(a logattr.LogAttr) bool { return a.IsWordEnd })
}

// InsideWord is true if the char at the iterator is part of a word.
func (it *Iter) InsideWord() bool {
	return it.inside(isWordStart, isWordEnd)
}

// StartsSentence is true if a sentence starts at the iterator.
func (it *Iter) StartsSentence() bool {
	return it.attrAt(func(a logattr.LogAttr) bool { return a.IsSentenceStart })
}

// EndsSentence is true if a sentence ends at the iterator.
func (it *Iter) EndsSentence() bool {
	return it.attrAt(func(a logattr.LogAttr) bool { return a.IsSentenceEnd })
}

// InsideSentence is true if the char at the iterator is part of a sentence.
func (it *Iter) InsideSentence() bool {
	return it.inside(isSentenceStart, isSentenceEnd)
}

// IsCursorPosition is true if a cursor may be placed at the iterator.
func (it *Iter) IsCursorPosition() bool {
	return it.attrAt(func(a logattr.LogAttr) bool { return a.IsCursorPosition })
}

// inside scans backward within the line: the nearest start wins over the
// nearest end.
func (it *Iter) inside(start, end attrPredicate) bool {
	if !it.valid() {
		return false
	}
	attrs := it.lineAttrs(it.line)
	for i := it.lineChar; i >= 0; i-- {
		if start(attrs, i) {
			return true
		}
		if end(attrs, i) {
			return false
		}
	}
	return false
}

// ForwardWordEnd moves the iterator to the next word end.
func (it *Iter) ForwardWordEnd() bool { return it.findForward(isWordEnd) }

// BackwardWordStart moves the iterator to the previous word start.
func (it *Iter) BackwardWordStart() bool { return it.findBackward(isWordStart) }

// ForwardWordStart moves the iterator to the next word start.
func (it *Iter) ForwardWordStart() bool { return it.findForward(isWordStart) }

// BackwardWordEnd moves the iterator to the previous word end.
func (it *Iter) BackwardWordEnd() bool { return it.findBackward(isWordEnd) }

// ForwardWordEnds moves the iterator n word ends forward.
func (it *Iter) ForwardWordEnds(n int) bool {
	return repeat(n, it.ForwardWordEnd, it.BackwardWordStart)
}

// BackwardWordStarts moves the iterator n word starts backward.
func (it *Iter) BackwardWordStarts(n int) bool {
	return repeat(n, it.BackwardWordStart, it.ForwardWordEnd)
}

// ForwardSentenceEnd moves the iterator to the next sentence end.
func (it *Iter) ForwardSentenceEnd() bool { return it.findForward(isSentenceEnd) }

// BackwardSentenceStart moves the iterator to the previous sentence start.
func (it *Iter) BackwardSentenceStart() bool { return it.findBackward(isSentenceStart) }

// ForwardSentenceStart moves the iterator to the next sentence start.
func (it *Iter) ForwardSentenceStart() bool { return it.findForward(isSentenceStart) }

// BackwardSentenceEnd moves the iterator to the previous sentence end.
func (it *Iter) BackwardSentenceEnd() bool { return it.findBackward(isSentenceEnd) }

// ForwardSentenceEnds moves the iterator n sentence ends forward.
func (it *Iter) ForwardSentenceEnds(n int) bool {
	return repeat(n, it.ForwardSentenceEnd, it.BackwardSentenceStart)
}

// BackwardSentenceStarts moves the iterator n sentence starts backward.
func (it *Iter) BackwardSentenceStarts(n int) bool {
	return repeat(n, it.BackwardSentenceStart, it.ForwardSentenceEnd)
}

// ForwardCursorPosition moves the iterator to the next cursor position,
// skipping the inner chars of grapheme clusters.
func (it *Iter) ForwardCursorPosition() bool { return it.findForward(isCursorPos) }

// BackwardCursorPosition moves the iterator to the previous cursor position.
func (it *Iter) BackwardCursorPosition() bool { return it.findBackward(isCursorPos) }

// ForwardCursorPositions moves the iterator n cursor positions forward.
func (it *Iter) ForwardCursorPositions(n int) bool {
	return repeat(n, it.ForwardCursorPosition, it.BackwardCursorPosition)
}

// BackwardCursorPositions moves the iterator n cursor positions backward.
func (it *Iter) BackwardCursorPositions(n int) bool {
	return repeat(n, it.BackwardCursorPosition, it.ForwardCursorPosition)
}

// visibleMove repeats a movement while the iterator rests on hidden text.
func (it *Iter) visibleMove(move func() bool) bool {
	for {
		ok := move()
		if !ok || !it.isInvisible() {
			return ok
		}
	}
}

// ForwardVisibleCursorPosition moves to the next cursor position in front
// of visible text.
func (it *Iter) ForwardVisibleCursorPosition() bool {
	return it.visibleMove(it.ForwardCursorPosition)
}

// BackwardVisibleCursorPosition moves to the previous cursor position in
// front of visible text.
func (it *Iter) BackwardVisibleCursorPosition() bool {
	return it.visibleMove(it.BackwardCursorPosition)
}

// ForwardVisibleCursorPositions moves n visible cursor positions forward.
func (it *Iter) ForwardVisibleCursorPositions(n int) bool {
	return repeat(n, it.ForwardVisibleCursorPosition, it.BackwardVisibleCursorPosition)
}

// BackwardVisibleCursorPositions moves n visible cursor positions backward.
func (it *Iter) BackwardVisibleCursorPositions(n int) bool {
	return repeat(n, it.BackwardVisibleCursorPosition, it.ForwardVisibleCursorPosition)
}

// ForwardVisibleWordEnd moves to the next word end, skipping hidden text.
func (it *Iter) ForwardVisibleWordEnd() bool {
	return it.visibleMove(it.ForwardWordEnd)
}

// BackwardVisibleWordStart moves to the previous word start, skipping
// hidden text.
func (it *Iter) BackwardVisibleWordStart() bool {
	return it.visibleMove(it.BackwardWordStart)
}

// ForwardVisibleWordEnds moves n visible word ends forward.
func (it *Iter) ForwardVisibleWordEnds(n int) bool {
	return repeat(n, it.ForwardVisibleWordEnd, it.BackwardVisibleWordStart)
}

// BackwardVisibleWordStarts moves n visible word starts backward.
func (it *Iter) BackwardVisibleWordStarts(n int) bool {
	return repeat(n, it.BackwardVisibleWordStart, it.ForwardVisibleWordEnd)
}
