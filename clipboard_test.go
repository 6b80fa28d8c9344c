package textbuffer

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textbuffer/selection"
)

func TestCopyPaste(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "hello world")
	bold, _ := b.CreateTag("bold")
	b.ApplyTag(bold, b.IterAtOffset(0), b.IterAtOffset(5))
	rich := b.RegisterSerializeTagset("")
	b.RegisterDeserializeTagset("")
	cb := b.NewClipboard(selection.ClipboardAtom)
	//
	b.SelectRange(b.IterAtOffset(5), b.IterAtOffset(0))
	b.CopyClipboard(cb)
	if cb.Owner() != b {
		t.Fatalf("expected buffer to own the clipboard")
	}
	var targets []selection.Atom
	cb.RequestContents(selection.Targets, func(p *selection.Payload) {
		targets, _ = p.Targets()
	})
	if len(targets) == 0 || targets[0] != rich || !selection.TargetsIncludeText(targets) {
		t.Errorf("expected rich text first, then text targets; have %v", targets)
	}
	// the clipboard holds a snapshot
	s, e := b.IterAtOffset(0), b.IterAtOffset(1)
	b.Delete(&s, &e)
	if text, ok := selection.WaitForText(cb); !ok || text != "hello" {
		t.Errorf("clipboard text = %q", text)
	}
	//
	b.PlaceCursor(b.EndIter())
	b.PasteClipboard(cb, nil, true)
	checkBuffer(t, b)
	if allText(b) != "ello worldhello" {
		t.Fatalf("text after paste = %q", allText(b))
	}
	if r := tagRanges(b, bold); len(r) != 2 || r[1] != [2]int{10, 15} {
		t.Errorf("pasted text must keep its tags, have %v", r)
	}
	if it := b.IterAtMark(b.InsertMark()); it.Offset() != 15 {
		t.Errorf("expected cursor behind pasted text, is at %d", it.Offset())
	}
	//
	b.SelectRange(b.IterAtOffset(4), b.IterAtOffset(10))
	b.CutClipboard(cb, true)
	if allText(b) != "ellohello" {
		t.Errorf("text after cut = %q", allText(b))
	}
	if text, _ := selection.WaitForText(cb); text != " world" {
		t.Errorf("clipboard text after cut = %q", text)
	}
	checkBuffer(t, b)
}

func TestPastePlainText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "ab")
	b.RegisterDeserializeTagset("")
	cb := selection.NewLocalClipboard(selection.ClipboardAtom, nil)
	tl := selection.NewTargetList()
	tl.AddTextTargets(0)
	cb.SetWithData(tl, func(p *selection.Payload, info uint32) {
		p.SetText("XY")
	}, "someone else")
	//
	b.SelectRange(b.IterAtOffset(0), b.IterAtOffset(1))
	b.PasteClipboard(cb, nil, true)
	if allText(b) != "XYb" {
		t.Errorf("paste must replace the selection, have %q", allText(b))
	}
	it := b.EndIter()
	b.PasteClipboard(cb, &it, true)
	if allText(b) != "XYbXY" {
		t.Errorf("paste at override position, have %q", allText(b))
	}
	ro, _ := b.CreateTag("ro")
	ro.SetEditable(false)
	b.ApplyTag(ro, b.StartIter(), b.EndIter())
	it = b.IterAtOffset(1)
	b.PasteClipboard(cb, &it, true)
	if allText(b) != "XYbXY" {
		t.Errorf("paste into read-only text must be refused, have %q", allText(b))
	}
	for _, m := range []string{"insert", "selection_bound"} {
		if b.Mark(m) == nil {
			t.Errorf("mark %s lost", m)
		}
	}
	checkBuffer(t, b)
}

func TestPrimarySelection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "primary text")
	primary := b.NewClipboard(selection.Primary)
	b.AddSelectionClipboard(primary)
	if primary.Owner() != nil {
		t.Errorf("empty selection must not claim the clipboard")
	}
	b.SelectRange(b.IterAtOffset(0), b.IterAtOffset(7))
	if primary.Owner() != b {
		t.Fatalf("selecting text must claim the clipboard")
	}
	if text, ok := selection.WaitForText(primary); !ok || text != "primary" {
		t.Errorf("primary text = %q", text)
	}
	b.SelectRange(b.IterAtOffset(8), b.IterAtOffset(12))
	if text, _ := selection.WaitForText(primary); text != "text" {
		t.Errorf("primary must follow the selection, have %q", text)
	}
	b.PlaceCursor(b.StartIter())
	if primary.Owner() != nil {
		t.Errorf("removing the selection must release the clipboard")
	}
	b.RemoveSelectionClipboard(primary)
	b.SelectRange(b.IterAtOffset(0), b.IterAtOffset(3))
	if primary.Owner() != nil {
		t.Errorf("removed clipboards must not be claimed")
	}
}
