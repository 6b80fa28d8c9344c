package textbuffer

import (
	"github.com/npillmayer/textbuffer/selection"
)

// Target infos used by the buffer's content providers.
const (
	infoText uint32 = iota
	infoRichText
)

// RichTextTargets returns the targets the buffer is able to deliver for a
// selection: its serialization formats followed by the text targets.
func (b *Buffer) RichTextTargets() *selection.TargetList {
	tl := selection.NewTargetList()
	tl.AddRichTextTargets(infoRichText, b.SerializeFormats())
	tl.AddTextTargets(infoText)
	return tl
}

// AddRichTextTargets adds the buffer's serialization formats (or, if
// deserializable is set, its deserialization formats) to a target list.
func (b *Buffer) AddRichTextTargets(tl *selection.TargetList, info uint32, deserializable bool) {
	if deserializable {
		tl.AddRichTextTargets(info, b.DeserializeFormats())
		return
	}
	tl.AddRichTextTargets(info, b.SerializeFormats())
}

// NewClipboard creates an in-process clipboard for a selection, stamped by
// the buffer's clock.
func (b *Buffer) NewClipboard(sel selection.Atom) *selection.LocalClipboard {
	return selection.NewLocalClipboard(sel, b.clock)
}

// provider returns a content provider for the range of content delivered
// by bounds, which is serialized with the formats of b.
func (b *Buffer) provider(content *Buffer, bounds func() (Iter, Iter)) selection.ContentProvider {
	return func(p *selection.Payload, info uint32) {
		s, e := bounds()
		switch info {
		case infoRichText:
			data, err := b.Serialize(content, p.Target, s, e)
			if err != nil {
				T().Errorf("clipboard: %v", err)
				return
			}
			p.Set(p.Target, 8, data)
		default:
			if err := p.SetText(content.Slice(s, e, true)); err != nil {
				T().Errorf("clipboard: %v", err)
			}
		}
	}
}

// CopyClipboard copies the selection to a clipboard. The clipboard
// receives a snapshot: later changes of the buffer do not affect it.
func (b *Buffer) CopyClipboard(cb selection.Clipboard) {
	start, end, ok := b.SelectionBounds()
	if !ok {
		return
	}
	contents := New(Options{TagTable: b.table, Defaults: b.defaults, Clock: b.clock})
	it := contents.StartIter()
	if err := contents.InsertRange(&it, start, end); err != nil {
		T().Errorf("copy clipboard: %v", err)
		return
	}
	if old := b.snapshots[cb]; old != nil {
		old.Close()
	}
	if b.snapshots == nil {
		b.snapshots = make(map[selection.Clipboard]*Buffer)
	}
	b.snapshots[cb] = contents
	bounds := func() (Iter, Iter) { return contents.Bounds() }
	cb.SetWithData(b.RichTextTargets(), b.provider(contents, bounds), b)
}

// CutClipboard copies the selection to a clipboard and deletes it.
func (b *Buffer) CutClipboard(cb selection.Clipboard, defaultEditable bool) {
	if !b.HasSelection() {
		return
	}
	b.BeginUserAction()
	b.CopyClipboard(cb)
	b.DeleteSelection(true, defaultEditable)
	b.EndUserAction()
}

// PasteClipboard inserts the content of a clipboard at override or, if
// override is nil, at the cursor, replacing the selection. Rich text is
// preferred over plain text. The content may arrive after PasteClipboard
// returns, depending on the clipboard transport.
func (b *Buffer) PasteClipboard(cb selection.Clipboard, override *Iter, defaultEditable bool) {
	var where Iter
	replaceSelection := override == nil
	if override != nil {
		where = *override
	} else {
		where = b.IterAtMark(b.insertMark)
	}
	paste, err := b.CreateMark("", where, true)
	if err != nil {
		T().Errorf("paste clipboard: %v", err)
		return
	}
	done := func() {
		if !paste.Deleted() {
			b.DeleteMark(paste)
		}
	}
	prepare := func() (Iter, bool) {
		if replaceSelection && b.HasSelection() {
			b.DeleteSelection(true, defaultEditable)
		}
		it := b.IterAtMark(paste)
		return it, it.CanInsert(defaultEditable)
	}
	formats := b.DeserializeFormats()
	cb.RequestContents(selection.Targets, func(p *selection.Payload) {
		var targets []selection.Atom
		if p != nil && p.Data != nil {
			targets, _ = p.Targets()
		}
		for _, f := range formats {
			if !selection.TargetsIncludeRichText(targets, []selection.Atom{f}) {
				continue
			}
			cb.RequestContents(f, func(rp *selection.Payload) {
				defer done()
				if rp == nil || rp.Data == nil {
					return
				}
				it, ok := prepare()
				if !ok {
					return
				}
				b.BeginUserAction()
				if err := b.Deserialize(b, f, &it, rp.Data); err != nil {
					T().Errorf("paste clipboard: %v", err)
				}
				b.EndUserAction()
			})
			return
		}
		cb.RequestContents(selection.TypeUTF8String, func(tp *selection.Payload) {
			defer done()
			if tp == nil || tp.Data == nil {
				return
			}
			text, err := tp.Text()
			if err != nil {
				T().Errorf("paste clipboard: %v", err)
				return
			}
			it, ok := prepare()
			if !ok {
				return
			}
			b.BeginUserAction()
			if _, err := b.InsertInteractive(&it, text, defaultEditable); err != nil {
				T().Errorf("paste clipboard: %v", err)
			}
			b.EndUserAction()
		})
	})
}

// AddSelectionClipboard registers a clipboard, usually for the PRIMARY
// selection, which tracks the buffer's selection: whenever text is
// selected, the buffer claims the clipboard.
func (b *Buffer) AddSelectionClipboard(cb selection.Clipboard) {
	for _, c := range b.selections {
		if c == cb {
			return
		}
	}
	b.selections = append(b.selections, cb)
	b.updateSelectionClipboards()
}

// RemoveSelectionClipboard unregisters a clipboard added with
// AddSelectionClipboard.
func (b *Buffer) RemoveSelectionClipboard(cb selection.Clipboard) {
	for i, c := range b.selections {
		if c == cb {
			b.selections = append(b.selections[:i:i], b.selections[i+1:]...)
			if cb.Owner() == b {
				cb.Clear(b)
			}
			return
		}
	}
}

func (b *Buffer) updateSelectionClipboards() {
	if len(b.selections) == 0 {
		return
	}
	if !b.HasSelection() {
		for _, cb := range b.selections {
			if cb.Owner() == b {
				cb.Clear(b)
			}
		}
		return
	}
	bounds := func() (Iter, Iter) {
		s, e, _ := b.SelectionBounds()
		return s, e
	}
	for _, cb := range b.selections {
		cb.SetWithData(b.RichTextTargets(), b.provider(b, bounds), b)
	}
}
