package textbuffer

import (
	"image"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textbuffer/pixbuf"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

func TestIterBoundaries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "ab\ncd")
	it := b.IterAtOffset(b.CharCount())
	if !it.Equal(b.EndIter()) || !it.IsEnd() {
		t.Errorf("iterator at char count must be the end iterator")
	}
	if it.ForwardChar() {
		t.Errorf("forward char at end must return false")
	}
	if it.Char() != 0 {
		t.Errorf("end iterator must not be dereferenceable")
	}
	it = b.StartIter()
	if it.BackwardChar() || it.Offset() != 0 {
		t.Errorf("backward char at start must return false and not move")
	}
	it = b.IterAtOffset(100)
	if !it.IsEnd() {
		t.Errorf("offsets are clamped to the buffer")
	}
}

func TestIterMovement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "first\nsecond\n\nlast")
	it := b.StartIter()
	var offsets []int
	for it.ForwardLine() {
		offsets = append(offsets, it.Offset())
	}
	if len(offsets) != 3 || offsets[0] != 6 || offsets[1] != 13 || offsets[2] != 14 {
		t.Errorf("unexpected line starts %v", offsets)
	}
	if !it.IsEnd() {
		t.Errorf("expected to end up at the end")
	}
	it = b.IterAtOffset(8)
	if !it.ForwardToLineEnd() || it.Offset() != 12 || !it.EndsLine() {
		t.Errorf("expected line end at 12, have %d", it.Offset())
	}
	if !it.ForwardToLineEnd() || it.Offset() != 13 {
		t.Errorf("at a line end, expected to move to the end of the next line, have %d", it.Offset())
	}
	it = b.IterAtOffset(9)
	if !it.BackwardLine() || it.Offset() != 0 {
		t.Errorf("expected previous line start, have %d", it.Offset())
	}
	it = b.IterAtOffset(3)
	if !it.BackwardLine() || it.Offset() != 0 {
		t.Errorf("expected to snap to line start")
	}
	if it.BackwardLine() {
		t.Errorf("backward line at start must return false")
	}
	it = b.StartIter()
	if !it.ForwardChars(7) || it.Offset() != 7 || it.Char() != 'e' {
		t.Errorf("forward chars: at %d, char %q", it.Offset(), it.Char())
	}
	if it.Line() != 1 || it.LineOffset() != 1 {
		t.Errorf("expected 1:1, have %d:%d", it.Line(), it.LineOffset())
	}
	it.SetLineOffset(4)
	if it.Offset() != 10 {
		t.Errorf("set line offset: have %d", it.Offset())
	}
	it.SetOffset(15)
	if it.Line() != 3 || it.LineOffset() != 1 {
		t.Errorf("set offset: have %d:%d", it.Line(), it.LineOffset())
	}
}

func TestStaleIterator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "hello world")
	stale := b.IterAtOffset(3)
	it := b.EndIter()
	if err := b.Insert(&it, "!"); err != nil {
		t.Fatal(err)
	}
	if stale.Offset() != b.CharCount() || !stale.IsEnd() {
		t.Errorf("a stale iterator must behave like the end iterator, is at %d", stale.Offset())
	}
	if stale.ForwardChar() || stale.Char() != 0 {
		t.Errorf("a stale iterator must not move or be dereferenced")
	}
	if it.Offset() != 12 || !it.IsEnd() {
		t.Errorf("the iterator passed to Insert must be revalidated, is at %d", it.Offset())
	}
	// moving marks changes segments only, not text
	fresh := b.IterAtOffset(3)
	b.MoveMark(b.InsertMark(), b.IterAtOffset(5))
	if fresh.Offset() != 3 || fresh.Char() != 'l' {
		t.Errorf("iterator must survive segment changes")
	}
}

func TestIterUTF8(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "a\u00f1b\u20acc")
	it := b.IterAtOffset(3)
	if it.Char() != '€' || it.LineIndex() != 4 {
		t.Errorf("expected € at byte index 4, have %q at %d", it.Char(), it.LineIndex())
	}
	it = b.IterAtLineIndex(0, 7)
	if it.Offset() != 4 || it.Char() != 'c' {
		t.Errorf("line index 7 should be 'c' at offset 4, is %q at %d", it.Char(), it.Offset())
	}
	if it.BytesInLine() != 8 || it.CharsInLine() != 5 {
		t.Errorf("line has %d bytes, %d chars", it.BytesInLine(), it.CharsInLine())
	}
	it.SetLineIndex(2) // inside of ñ
	if it.Offset() != 1 || it.Char() != 'ñ' {
		t.Errorf("line index inside a char must clamp to its start, is %q at %d", it.Char(), it.Offset())
	}
	it.SetLineIndex(5) // inside of €
	if it.Offset() != 3 || it.LineIndex() != 4 {
		t.Errorf("expected € at offset 3, is at %d (index %d)", it.Offset(), it.LineIndex())
	}
	it = b.IterAtLineIndex(0, 6)
	if it.Offset() != 3 {
		t.Errorf("iterator at line index 6 must clamp to 3, is at %d", it.Offset())
	}
}

func TestIterSurvivesMarkMoves(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "hello world")
	it := b.IterAtOffset(6)
	if it.Char() != 'w' {
		t.Fatalf("expected 'w'")
	}
	b.CreateMark("m", b.IterAtOffset(6), true)
	b.MoveMark(b.InsertMark(), b.IterAtOffset(8))
	if it.Offset() != 6 || it.Char() != 'w' {
		t.Errorf("iterator must survive segment changes, is at %d", it.Offset())
	}
	if !it.ForwardChar() || it.Char() != 'o' {
		t.Errorf("iterator must still move")
	}
}

func TestWordMovement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "Hello World")
	it := b.StartIter()
	if !it.ForwardWordEnd() || it.Offset() != 5 {
		t.Errorf("first word end: %d", it.Offset())
	}
	if it.ForwardWordEnd() || it.Offset() != 11 {
		t.Errorf("second word end is the end iterator, have %d", it.Offset())
	}
	if it.ForwardWordEnd() || it.Offset() != 11 {
		t.Errorf("expected no more word ends")
	}
	if !it.BackwardWordStart() || it.Offset() != 6 {
		t.Errorf("backward word start: %d", it.Offset())
	}
	if !it.StartsWord() || it.EndsWord() || !it.InsideWord() {
		t.Errorf("word predicates at 6 are wrong")
	}
	it = b.IterAtOffset(5)
	if !it.EndsWord() || it.StartsWord() {
		t.Errorf("word predicates at 5 are wrong")
	}
	it = b.StartIter()
	if it.ForwardWordEnds(2) || it.Offset() != 11 {
		t.Errorf("forward word ends(2): %d", it.Offset())
	}
	if !it.BackwardWordStarts(2) || it.Offset() != 0 {
		t.Errorf("backward word starts(2): %d", it.Offset())
	}
}

func TestSentenceMovement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "One. Two three. Four")
	it := b.StartIter()
	if !it.ForwardSentenceStart() || it.Offset() != 5 {
		t.Errorf("next sentence start: %d", it.Offset())
	}
	if !it.StartsSentence() {
		t.Errorf("expected sentence start at 5")
	}
	if !it.BackwardSentenceStart() || it.Offset() != 0 {
		t.Errorf("previous sentence start: %d", it.Offset())
	}
}

func TestCursorPositions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "e\u0301x")
	it := b.StartIter()
	if !it.ForwardCursorPosition() || it.Offset() != 2 {
		t.Errorf("expected to skip the combining mark, at %d", it.Offset())
	}
	it = b.IterAtOffset(1)
	if it.IsCursorPosition() {
		t.Errorf("offset 1 must not be a cursor position")
	}
}

func TestInvisibleText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "abcdef")
	hidden, _ := b.CreateTag("hidden")
	hidden.SetInvisible(true)
	b.ApplyTag(hidden, b.IterAtOffset(1), b.IterAtOffset(4))
	start, end := b.Bounds()
	if s := b.Text(start, end, false); s != "aef" {
		t.Errorf("visible text = %q", s)
	}
	it := b.StartIter()
	if !it.ForwardVisibleCursorPosition() || it.Offset() != 4 {
		t.Errorf("expected to skip invisible text, at %d", it.Offset())
	}
	if !it.BackwardVisibleCursorPosition() || it.Offset() != 0 {
		t.Errorf("expected to skip invisible text backwards, at %d", it.Offset())
	}
	if _, _, found := start.ForwardSearch("ae", SearchVisibleOnly, nil); !found {
		t.Errorf("expected to find visible text across hidden text")
	}
	if _, _, found := start.ForwardSearch("ae", 0, nil); found {
		t.Errorf("must not match across hidden text without SearchVisibleOnly")
	}
}

func TestSearch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "Hello world\nhello World")
	start := b.StartIter()
	s, e, found := start.ForwardSearch("world", 0, nil)
	if !found || s.Offset() != 6 || e.Offset() != 11 {
		t.Errorf("forward search: %v %d-%d", found, s.Offset(), e.Offset())
	}
	from := e
	if _, _, found := from.ForwardSearch("world", 0, nil); found {
		t.Errorf("case sensitive search must not find 'World'")
	}
	s, _, found = from.ForwardSearch("WORLD", SearchCaseInsensitive, nil)
	if !found || s.Offset() != 18 {
		t.Errorf("case insensitive search: %v %d", found, s.Offset())
	}
	s, _, found = start.ForwardSearch("world\nhello", 0, nil)
	if !found || s.Offset() != 6 {
		t.Errorf("matches must span lines")
	}
	end := b.EndIter()
	s, _, found = end.BackwardSearch("hello", SearchCaseInsensitive, nil)
	if !found || s.Offset() != 12 {
		t.Errorf("backward search must find the closest match: %v %d", found, s.Offset())
	}
	limit := b.IterAtOffset(10)
	if _, _, found := start.ForwardSearch("world", 0, &limit); found {
		t.Errorf("match must end in front of limit")
	}
}

func TestSearchEmptyNeedle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "abc")
	start := b.StartIter()
	s, e, found := start.ForwardSearch("", 0, nil)
	if !found || s.Offset() != 1 || e.Offset() != 1 {
		t.Errorf("empty needle matches at the next char: %v %d-%d", found, s.Offset(), e.Offset())
	}
	end := b.EndIter()
	if _, _, found := end.ForwardSearch("", 0, nil); found {
		t.Errorf("empty needle must not match at the end")
	}
	s, e, found = end.BackwardSearch("", 0, nil)
	if !found || s.Offset() != 2 || e.Offset() != 2 {
		t.Errorf("empty needle matches at the previous char: %v %d-%d", found, s.Offset(), e.Offset())
	}
	if _, _, found := start.BackwardSearch("", 0, nil); found {
		t.Errorf("empty needle must not match in front of the start")
	}
}

func TestBackwardSearchAcrossLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "ab\ncd\nab\ncd")
	end := b.EndIter()
	s, e, found := end.BackwardSearch("b\nc", 0, nil)
	if !found || s.Offset() != 7 || e.Offset() != 10 {
		t.Errorf("expected the last match at 7-10: %v %d-%d", found, s.Offset(), e.Offset())
	}
	s, e, found = s.BackwardSearch("B\nC", SearchCaseInsensitive, nil)
	if !found || s.Offset() != 1 || e.Offset() != 4 {
		t.Errorf("expected the first match at 1-4: %v %d-%d", found, s.Offset(), e.Offset())
	}
	limit := b.IterAtOffset(7)
	if _, _, found := end.BackwardSearch("ab", 0, &limit); found {
		t.Errorf("match must start at or behind limit")
	}
}

func TestSearchFoldedNeedles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "Gro\u00dfe Stra\u00dfe\nund CAF\u00c9 \u00c5ngstr\u00f6m")
	fold := cases.Fold()
	for _, needle := range []string{"STRASSE", "Stra\u00dfe", "caf\u00e9", "CAFE\u0301", "\u00e5ngstr\u00d6m", "e\nund"} {
		folded := fold.String(norm.NFD.String(needle))
		start, end := b.StartIter(), b.EndIter()
		s1, e1, found1 := start.ForwardSearch(needle, SearchCaseInsensitive, nil)
		s2, e2, found2 := start.ForwardSearch(folded, SearchCaseInsensitive, nil)
		if !found1 || found1 != found2 || s1.Offset() != s2.Offset() || e1.Offset() != e2.Offset() {
			t.Errorf("needle %q: %v %d-%d, folded %q: %v %d-%d", needle, found1, s1.Offset(), e1.Offset(),
				folded, found2, s2.Offset(), e2.Offset())
		}
		s1, _, found1 = end.BackwardSearch(needle, SearchCaseInsensitive, nil)
		s2, _, found2 = end.BackwardSearch(folded, SearchCaseInsensitive, nil)
		if found1 != found2 || s1.Offset() != s2.Offset() {
			t.Errorf("backward, needle %q: %v %d, folded: %v %d", needle, found1, s1.Offset(), found2, s2.Offset())
		}
	}
}

func TestSearchFolding(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "Stra\u00dfe und CAF\u00c9")
	start := b.StartIter()
	s, e, found := start.ForwardSearch("caf\u00e9", SearchCaseInsensitive, nil)
	if !found || s.Offset() != 11 || e.Offset() != 15 {
		t.Errorf("expected to find CAFÉ: %v %d-%d", found, s.Offset(), e.Offset())
	}
	s, e, found = start.ForwardSearch("cafe\u0301", SearchCaseInsensitive, nil)
	if !found || s.Offset() != 11 || e.Offset() != 15 {
		t.Errorf("expected decomposed needle to match: %v %d-%d", found, s.Offset(), e.Offset())
	}
}

func TestSearchObjects(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "ab")
	it := b.IterAtOffset(1)
	pb := pixbuf.New(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if err := b.InsertPixbuf(&it, pb); err != nil {
		t.Fatal(err)
	}
	start := b.StartIter()
	if _, _, found := start.ForwardSearch("a\uFFFCb", 0, nil); !found {
		t.Errorf("object replacement char must match images")
	}
	if _, _, found := start.ForwardSearch("ab", SearchTextOnly, nil); !found {
		t.Errorf("images must be skipped with SearchTextOnly")
	}
	if p := b.IterAtOffset(1); p.Pixbuf() != pb {
		t.Errorf("expected image at offset 1")
	}
	if s := b.Slice(b.StartIter(), b.EndIter(), true); s != "a\uFFFCb" {
		t.Errorf("slice = %q", s)
	}
	if s := allText(b); s != "ab" {
		t.Errorf("text = %q", s)
	}
}
