package textbuffer

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textbuffer/styled"
)

func newTestBuffer(t *testing.T, text string) *Buffer {
	t.Helper()
	b := New(Options{})
	if text != "" {
		it := b.StartIter()
		if err := b.Insert(&it, text); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	checkBuffer(t, b)
	return b
}

func checkBuffer(t *testing.T, b *Buffer) {
	t.Helper()
	if err := b.Check(); err != nil {
		t.Fatalf("buffer is inconsistent: %v", err)
	}
}

func allText(b *Buffer) string {
	start, end := b.Bounds()
	return b.Text(start, end, true)
}

func lineText(b *Buffer, n int) string {
	start := b.IterAtLine(n)
	end := start
	end.ForwardLine()
	return start.Slice(end)
}

// tagRanges lists the ranges of chars covered by tag.
func tagRanges(b *Buffer, tag *styled.Tag) [][2]int {
	var ranges [][2]int
	from := -1
	for i := 0; i <= b.CharCount(); i++ {
		it := b.IterAtOffset(i)
		on := i < b.CharCount() && it.HasTag(tag)
		if on && from < 0 {
			from = i
		} else if !on && from >= 0 {
			ranges = append(ranges, [2]int{from, i})
			from = -1
		}
	}
	return ranges
}

func TestInsertLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "hello\nworld")
	if b.CharCount() != 11 {
		t.Errorf("expected 11 chars, have %d", b.CharCount())
	}
	if b.LineCount() != 2 {
		t.Fatalf("expected 2 lines, have %d", b.LineCount())
	}
	if s := lineText(b, 0); s != "hello\n" {
		t.Errorf("line 0 = %q", s)
	}
	if s := lineText(b, 1); s != "world" {
		t.Errorf("line 1 = %q", s)
	}
}

func TestApplyTag(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "hello\nworld")
	bold, err := b.CreateTag("bold")
	if err != nil {
		t.Fatal(err)
	}
	b.ApplyTag(bold, b.IterAtOffset(0), b.IterAtOffset(5))
	checkBuffer(t, b)
	it := b.IterAtOffset(3)
	if !it.HasTag(bold) || it.StartsTag(bold) || it.EndsTag(bold) {
		t.Errorf("offset 3: expected to be inside of bold")
	}
	it = b.IterAtOffset(0)
	if !it.StartsTag(bold) {
		t.Errorf("offset 0: expected bold to start")
	}
	it = b.IterAtOffset(5)
	if !it.EndsTag(bold) || it.HasTag(bold) {
		t.Errorf("offset 5: expected bold to end")
	}
	//
	s, e := b.IterAtOffset(2), b.IterAtOffset(8)
	if err := b.Delete(&s, &e); err != nil {
		t.Fatal(err)
	}
	checkBuffer(t, b)
	if b.CharCount() != 5 || allText(b) != "herld" {
		t.Errorf("after delete: %d chars, text %q", b.CharCount(), allText(b))
	}
	if r := tagRanges(b, bold); len(r) != 1 || r[0] != [2]int{0, 2} {
		t.Errorf("expected bold to cover [0,2), have %v", r)
	}
	if s.Offset() != 2 || !s.Equal(e) {
		t.Errorf("expected iterators at the deletion point")
	}
}

func TestEmptyTagRangeIsNoop(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "abc")
	tag, _ := b.CreateTag("x")
	b.ApplyTag(tag, b.IterAtOffset(1), b.IterAtOffset(1))
	if _, ok := b.IterAtTagFirstToggle(tag); ok {
		t.Errorf("expected no toggles for empty range")
	}
	checkBuffer(t, b)
}

func TestOverlappingTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "0123456789\nabcdefghij")
	tag, _ := b.CreateTag("t")
	b.ApplyTag(tag, b.IterAtOffset(2), b.IterAtOffset(5))
	b.ApplyTag(tag, b.IterAtOffset(4), b.IterAtOffset(14))
	checkBuffer(t, b)
	if r := tagRanges(b, tag); len(r) != 1 || r[0] != [2]int{2, 14} {
		t.Errorf("expected merged range [2,14), have %v", r)
	}
	b.RemoveTag(tag, b.IterAtOffset(6), b.IterAtOffset(12))
	checkBuffer(t, b)
	if r := tagRanges(b, tag); len(r) != 2 || r[0] != [2]int{2, 6} || r[1] != [2]int{12, 14} {
		t.Errorf("expected [2,6) and [12,14), have %v", r)
	}
	it := b.StartIter()
	var toggles []int
	for it.ForwardToTagToggle(tag) {
		toggles = append(toggles, it.Offset())
	}
	if fmt.Sprint(toggles) != "[2 6 12 14]" {
		t.Errorf("unexpected toggle positions %v", toggles)
	}
	b.TagTable().Remove(tag)
	checkBuffer(t, b)
	if it := b.IterAtOffset(3); len(it.Tags()) != 0 {
		t.Errorf("removing a tag from the table must remove it from the buffer")
	}
}

func TestTagPriorities(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "some text")
	low, _ := b.CreateTag("low")
	high, _ := b.CreateTag("high")
	low.SetWeight(400)
	high.SetWeight(700)
	b.ApplyTag(high, b.IterAtOffset(0), b.IterAtOffset(4))
	b.ApplyTag(low, b.IterAtOffset(0), b.IterAtOffset(9))
	it := b.IterAtOffset(1)
	if tags := it.Tags(); len(tags) != 2 || tags[0] != low || tags[1] != high {
		t.Fatalf("expected tags in priority order, have %v", tags)
	}
	if w := it.Attributes().Font.Weight; w != 700 {
		t.Errorf("expected weight of higher priority tag, have %d", w)
	}
	high.SetPriority(0)
	if w := it.Attributes().Font.Weight; w != 400 {
		t.Errorf("expected weight 400 after reprioritizing, have %d", w)
	}
}

func TestMarkGravity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "abcd")
	ml, err := b.CreateMark("m_l", b.IterAtOffset(2), true)
	if err != nil {
		t.Fatal(err)
	}
	mr, err := b.CreateMark("m_r", b.IterAtOffset(2), false)
	if err != nil {
		t.Fatal(err)
	}
	it := b.IterAtOffset(2)
	if err := b.Insert(&it, "XY"); err != nil {
		t.Fatal(err)
	}
	checkBuffer(t, b)
	if pos := b.IterAtMark(ml); pos.Offset() != 2 {
		t.Errorf("left gravity mark at %d", pos.Offset())
	}
	if pos := b.IterAtMark(mr); pos.Offset() != 4 {
		t.Errorf("right gravity mark at %d", pos.Offset())
	}
	if allText(b) != "abXYcd" {
		t.Errorf("text = %q", allText(b))
	}
	if it.Offset() != 4 {
		t.Errorf("expected iterator behind inserted text, is at %d", it.Offset())
	}
}

func TestMarkRegistry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "abcdef")
	m, _ := b.CreateMark("here", b.IterAtOffset(3), false)
	if _, err := b.CreateMark("here", b.StartIter(), false); !errors.Is(err, ErrMarkExists) {
		t.Errorf("expected ErrMarkExists, have %v", err)
	}
	if b.Mark("here") != m {
		t.Errorf("expected lookup by name")
	}
	s, e := b.IterAtOffset(1), b.IterAtOffset(5)
	b.Delete(&s, &e)
	if pos := b.IterAtMark(m); pos.Offset() != 1 {
		t.Errorf("mark in deleted range should move to the deletion point, is at %d", pos.Offset())
	}
	b.DeleteMark(m)
	if !m.Deleted() || b.Mark("here") != nil {
		t.Errorf("mark should be deleted")
	}
	if err := b.AddMark(m, b.EndIter()); err != nil {
		t.Errorf("deleted marks may be re-added: %v", err)
	}
	b.DeleteMark(b.InsertMark())
	if b.InsertMark().Deleted() {
		t.Errorf("insert mark must not be deletable")
	}
	checkBuffer(t, b)
}

func TestSelection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "select me")
	if b.HasSelection() {
		t.Errorf("new buffer should have no selection")
	}
	b.SelectRange(b.IterAtOffset(7), b.IterAtOffset(2))
	start, end, ok := b.SelectionBounds()
	if !ok || start.Offset() != 2 || end.Offset() != 7 {
		t.Fatalf("unexpected selection bounds %d..%d", start.Offset(), end.Offset())
	}
	if !b.DeleteSelection(false, true) {
		t.Fatalf("expected selection to be deleted")
	}
	if allText(b) != "seme" {
		t.Errorf("text = %q", allText(b))
	}
	b.PlaceCursor(b.IterAtOffset(1))
	if err := b.InsertAtCursor("XX"); err != nil {
		t.Fatal(err)
	}
	if allText(b) != "sXXeme" {
		t.Errorf("text = %q", allText(b))
	}
}

func TestInvalidUTF8(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "abc")
	it := b.EndIter()
	if err := b.Insert(&it, "a\xffb"); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("expected ErrInvalidUTF8, have %v", err)
	}
	if allText(b) != "abc" {
		t.Errorf("buffer must not change on invalid input")
	}
}

func TestEditability(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "keep this, drop that")
	ro, _ := b.CreateTag("readonly")
	ro.SetEditable(false)
	b.ApplyTag(ro, b.IterAtOffset(0), b.IterAtOffset(9))
	it := b.IterAtOffset(4)
	if ok, _ := b.InsertInteractive(&it, "X", true); ok {
		t.Errorf("insert into read-only text must be refused")
	}
	s, e := b.IterAtOffset(2), b.IterAtOffset(15)
	if !b.DeleteInteractive(&s, &e, true) {
		t.Fatalf("expected the editable part to be deleted")
	}
	if allText(b) != "keep this that" {
		t.Errorf("text = %q", allText(b))
	}
	checkBuffer(t, b)
}

func TestBackspace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "ae\u0301x")
	it := b.IterAtOffset(3)
	if !b.Backspace(&it, false, true) {
		t.Fatalf("backspace failed")
	}
	if allText(b) != "ax" || it.Offset() != 1 {
		t.Errorf("expected grapheme cluster to be deleted, have %q at %d", allText(b), it.Offset())
	}
	it = b.StartIter()
	if b.Backspace(&it, false, true) {
		t.Errorf("backspace at start must fail")
	}
}

func TestManyLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	var sb strings.Builder
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&sb, "line %03d\n", i)
	}
	b := newTestBuffer(t, sb.String())
	if b.LineCount() != 501 {
		t.Fatalf("expected 501 lines, have %d", b.LineCount())
	}
	for _, n := range []int{0, 7, 99, 250, 499} {
		if s := lineText(b, n); s != fmt.Sprintf("line %03d\n", n) {
			t.Errorf("line %d = %q", n, s)
		}
		it := b.IterAtLine(n)
		if it.Offset() != n*9 || it.Line() != n {
			t.Errorf("line %d starts at %d", n, it.Offset())
		}
		back := b.IterAtOffset(it.Offset() + 3)
		if back.Line() != n || back.LineOffset() != 3 {
			t.Errorf("offset %d resolves to %d:%d", it.Offset()+3, back.Line(), back.LineOffset())
		}
	}
	tag, _ := b.CreateTag("t")
	b.ApplyTag(tag, b.IterAtLine(100), b.IterAtLine(400))
	checkBuffer(t, b)
	s, e := b.IterAtLine(50), b.IterAtLine(450)
	if err := b.Delete(&s, &e); err != nil {
		t.Fatal(err)
	}
	checkBuffer(t, b)
	if b.LineCount() != 101 {
		t.Errorf("expected 101 lines after delete, have %d", b.LineCount())
	}
	if s := lineText(b, 50); s != "line 450\n" {
		t.Errorf("line 50 = %q", s)
	}
	if _, ok := b.IterAtTagFirstToggle(tag); ok {
		t.Errorf("deleting the whole tagged range must remove the toggles")
	}
	if err := b.SetText(""); err != nil {
		t.Fatal(err)
	}
	checkBuffer(t, b)
	if b.LineCount() != 1 || b.CharCount() != 0 {
		t.Errorf("expected empty buffer")
	}
}

type recorder struct {
	BaseObserver
	events []string
	err    error
}

func (r *recorder) InsertText(b *Buffer, pos Iter, text string) {
	r.events = append(r.events, fmt.Sprintf("insert %q@%d", text, pos.Offset()))
	r.err = b.Insert(&pos, "nested")
}

func (r *recorder) DeleteRange(b *Buffer, start, end Iter) {
	r.events = append(r.events, fmt.Sprintf("delete %d-%d %q", start.Offset(), end.Offset(), start.Text(end)))
}

func (r *recorder) ApplyTag(b *Buffer, tag *styled.Tag, start, end Iter) {
	r.events = append(r.events, fmt.Sprintf("apply %s %d-%d", tag.Name(), start.Offset(), end.Offset()))
}

func (r *recorder) ModifiedChanged(b *Buffer, modified bool) {
	r.events = append(r.events, fmt.Sprintf("modified %v", modified))
}

func TestObservers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "")
	r := &recorder{}
	b.Connect(r)
	it := b.StartIter()
	b.Insert(&it, "hello")
	if !errors.Is(r.err, ErrReentrantMutation) {
		t.Errorf("expected mutation from observer to be refused, have %v", r.err)
	}
	tag, _ := b.CreateTag("t")
	b.ApplyTag(tag, b.IterAtOffset(1), b.IterAtOffset(3))
	s, e := b.IterAtOffset(0), b.IterAtOffset(2)
	b.Delete(&s, &e)
	want := []string{`insert "hello"@5`, "modified true", "apply t 1-3", `delete 0-2 "he"`}
	if fmt.Sprint(r.events) != fmt.Sprint(want) {
		t.Errorf("events = %v", r.events)
	}
	if allText(b) != "llo" {
		t.Errorf("text = %q", allText(b))
	}
	b.SetModified(false)
	b.Disconnect(r)
	b.Insert(&s, "x")
	if n := len(r.events); r.events[n-1] != "modified false" {
		t.Errorf("disconnected observer must not be notified")
	}
}

type fixedLayout struct{ calls int }

func (l *fixedLayout) MeasureLine(start Iter) (int, int) {
	l.calls++
	return start.CharsInLine() * 10, 20
}

func TestViews(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "a\nbbb\ncc")
	layout := &fixedLayout{}
	id := b.AddView(layout)
	if ld := b.LineData(b.StartIter(), id); ld.Valid {
		t.Errorf("line data must start out invalid")
	}
	w, h := b.ViewSize(id)
	if w != 40 || h != 60 {
		t.Errorf("expected view size 40x60, have %dx%d", w, h)
	}
	calls := layout.calls
	b.ViewSize(id)
	if layout.calls != calls {
		t.Errorf("valid lines must not be measured again")
	}
	it := b.IterAtLine(1)
	b.Insert(&it, "bbbbbb")
	if ld := b.LineData(b.IterAtLine(1), id); ld.Valid {
		t.Errorf("changed line must be invalidated")
	}
	if ld := b.ValidateLine(b.IterAtLine(1), id); ld.Width != 100 {
		t.Errorf("expected width 100, have %d", ld.Width)
	}
	checkBuffer(t, b)
	b.RemoveView(id)
	if ld := b.LineData(b.StartIter(), id); ld.Valid {
		t.Errorf("removed view must not keep line data")
	}
}
