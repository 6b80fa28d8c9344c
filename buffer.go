package textbuffer

import (
	"fmt"
	"unicode/utf8"

	"github.com/npillmayer/textbuffer/logattr"
	"github.com/npillmayer/textbuffer/pixbuf"
	"github.com/npillmayer/textbuffer/selection"
	"github.com/npillmayer/textbuffer/styled"
)

// Options configure a new buffer. The zero value is usable.
type Options struct {
	// TagTable is the tag table of the buffer. It may be shared with other
	// buffers. If nil, a new table is created.
	TagTable *styled.TagTable
	// Analyzer computes logical attributes for lexical movement. Defaults to
	// the Unicode analyzer of package logattr.
	Analyzer logattr.Analyzer
	// Defaults are the attributes of text no tag applies to.
	Defaults *styled.Attributes
	// Clock stamps clipboard ownership. Defaults to a selection.Counter.
	Clock selection.Clock
}

// Buffer is a rich-text buffer. Buffers are not safe for concurrent use.
type Buffer struct {
	tree          *btree
	table         *styled.TagTable
	tableObserver *tableObserver
	defaults      *styled.Attributes
	attrs         *logattr.Cache
	clock         selection.Clock
	marks         map[string]*Mark
	insertMark    *Mark
	selBound      *Mark
	observers     []Observer
	busy          int
	modified      bool
	userAction    int
	views         map[ViewID]LineLayout
	nextView      ViewID
	formats       formatRegistry
	selections    []selection.Clipboard
	snapshots     map[selection.Clipboard]*Buffer // copied contents per clipboard
}

// New creates an empty buffer.
func New(opts Options) *Buffer {
	b := &Buffer{
		tree:     newBTree(),
		table:    opts.TagTable,
		defaults: opts.Defaults,
		clock:    opts.Clock,
		marks:    make(map[string]*Mark),
	}
	if b.table == nil {
		b.table = styled.NewTagTable()
	}
	if b.defaults == nil {
		b.defaults = styled.DefaultAttributes()
	}
	if b.clock == nil {
		b.clock = &selection.Counter{}
	}
	b.attrs = logattr.NewCache(opts.Analyzer)
	b.tableObserver = &tableObserver{b: b}
	b.table.Attach(b.tableObserver)
	b.insertMark = b.reservedMark(InsertMarkName)
	b.selBound = b.reservedMark(SelectionBoundMarkName)
	return b
}

func (b *Buffer) reservedMark(name string) *Mark {
	m := NewMark(name, false)
	m.notDeletable = true
	m.buffer = b
	first := b.tree.firstLine()
	b.tree.insertMark(first, 0, m)
	b.marks[name] = m
	return m
}

// Close detaches the buffer from its tag table and deletes all of its
// marks.
func (b *Buffer) Close() {
	b.table.Detach(b.tableObserver)
	for cb, snap := range b.snapshots {
		snap.Close()
		delete(b.snapshots, cb)
	}
	for name, m := range b.marks {
		m.deleted = true
		delete(b.marks, name)
	}
}

// TagTable returns the tag table of the buffer.
func (b *Buffer) TagTable() *styled.TagTable {
	return b.table
}

// Defaults returns the default attributes of the buffer.
func (b *Buffer) Defaults() *styled.Attributes {
	return b.defaults
}

// Clock returns the clock used for clipboard timestamps.
func (b *Buffer) Clock() selection.Clock {
	return b.clock
}

// CharCount returns the number of chars in the buffer. Embedded objects
// count as one char.
func (b *Buffer) CharCount() int {
	return b.tree.charCount()
}

// LineCount returns the number of lines of the buffer, which is at least 1.
func (b *Buffer) LineCount() int {
	return b.tree.lineCount()
}

// own checks that it is a valid iterator of this buffer.
func (b *Buffer) own(it *Iter) bool {
	if it.buffer != b {
		T().Errorf("iterator does not belong to this buffer")
		return false
	}
	return it.valid()
}

// --- Iterators -------------------------------------------------------------

// IterAtOffset returns an iterator at a char offset, clamped to the buffer.
func (b *Buffer) IterAtOffset(offset int) Iter {
	l, c := b.tree.lineAtChar(offset)
	return b.iterAt(l, c)
}

// IterAtLine returns an iterator at the start of a line. Line numbers are
// clamped to the buffer.
func (b *Buffer) IterAtLine(line int) Iter {
	return b.iterAt(b.tree.lineAt(line), 0)
}

// IterAtLineOffset returns an iterator at a char offset within a line.
func (b *Buffer) IterAtLineOffset(line, char int) Iter {
	l := b.tree.lineAt(line)
	if char < 0 || char > l.chars {
		T().Errorf("line offset %d out of range for line %d", char, line)
	}
	return b.iterAt(l, char)
}

// IterAtLineIndex returns an iterator at a byte offset within a line.
// Offsets into the middle of a char are reported and clamped.
func (b *Buffer) IterAtLineIndex(line, index int) Iter {
	it := b.IterAtLine(line)
	it.SetLineIndex(index)
	return it
}

// IterAtMark returns an iterator at the position of a mark.
func (b *Buffer) IterAtMark(m *Mark) Iter {
	if m == nil || m.deleted || m.buffer != b {
		T().Errorf("iterator for %s: mark does not belong to this buffer", m)
		return b.EndIter()
	}
	return b.iterAt(m.line, m.line.charOffsetOf(m.seg))
}

// IterAtChildAnchor returns an iterator at the position of a child anchor.
func (b *Buffer) IterAtChildAnchor(a *ChildAnchor) Iter {
	if a == nil || a.deleted || a.buffer != b {
		T().Errorf("iterator for child anchor: anchor does not belong to this buffer")
		return b.EndIter()
	}
	return b.iterAt(a.line, a.line.charOffsetOf(a.seg))
}

// StartIter returns an iterator at offset 0.
func (b *Buffer) StartIter() Iter {
	return b.iterAt(b.tree.firstLine(), 0)
}

// EndIter returns the end iterator, positioned behind the last char.
func (b *Buffer) EndIter() Iter {
	last := b.tree.lastLine()
	return b.iterAt(last, last.chars)
}

// Bounds returns the start and end iterators.
func (b *Buffer) Bounds() (start, end Iter) {
	return b.StartIter(), b.EndIter()
}

// --- Text ------------------------------------------------------------------

// Text returns the text between two iterators. Embedded objects are left
// out; invisible text only if includeHidden is false.
func (b *Buffer) Text(start, end Iter, includeHidden bool) string {
	if includeHidden {
		return start.Text(end)
	}
	return start.VisibleText(end)
}

// Slice is like Text, but includes U+FFFC for every embedded object.
func (b *Buffer) Slice(start, end Iter, includeHidden bool) string {
	if includeHidden {
		return start.Slice(end)
	}
	return start.VisibleSlice(end)
}

// SetText replaces the content of the buffer.
func (b *Buffer) SetText(text string) error {
	if !utf8.ValidString(text) {
		return ErrInvalidUTF8
	}
	start, end := b.Bounds()
	if err := b.Delete(&start, &end); err != nil {
		return err
	}
	return b.Insert(&start, text)
}

// Insert inserts text at it. Afterwards it points behind the new text.
func (b *Buffer) Insert(it *Iter, text string) error {
	if b.refuse("insert") {
		return ErrReentrantMutation
	}
	if !b.own(it) {
		return ErrIllegalArguments
	}
	if text == "" {
		return nil
	}
	oldHeight, startLine := b.viewHeight(), it.Line()
	l, c, err := b.tree.insertText(it.line, it.lineChar, text)
	if err != nil {
		return err
	}
	it.revalidate(l, c)
	pos := *it
	b.notify(func(o Observer) { o.InsertText(b, pos, text) })
	b.changed(startLine, oldHeight)
	return nil
}

// InsertAtCursor inserts text at the insert mark.
func (b *Buffer) InsertAtCursor(text string) error {
	it := b.IterAtMark(b.insertMark)
	return b.Insert(&it, text)
}

// InsertInteractive inserts text only if it is editable at it.
func (b *Buffer) InsertInteractive(it *Iter, text string, defaultEditable bool) (bool, error) {
	if !it.CanInsert(defaultEditable) {
		return false, nil
	}
	if err := b.Insert(it, text); err != nil {
		return false, err
	}
	return true, nil
}

// InsertInteractiveAtCursor is InsertInteractive at the insert mark.
func (b *Buffer) InsertInteractiveAtCursor(text string, defaultEditable bool) (bool, error) {
	it := b.IterAtMark(b.insertMark)
	return b.InsertInteractive(&it, text, defaultEditable)
}

// InsertWithTags inserts text and applies tags to it.
func (b *Buffer) InsertWithTags(it *Iter, text string, tags ...*styled.Tag) error {
	startOffset := it.Offset()
	if err := b.Insert(it, text); err != nil {
		return err
	}
	start := b.IterAtOffset(startOffset)
	for _, tag := range tags {
		b.ApplyTag(tag, start, *it)
	}
	return nil
}

// InsertWithTagsByName is InsertWithTags with tags looked up by name.
func (b *Buffer) InsertWithTagsByName(it *Iter, text string, names ...string) error {
	tags := make([]*styled.Tag, 0, len(names))
	for _, name := range names {
		tag, ok := b.table.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTag, name)
		}
		tags = append(tags, tag)
	}
	return b.InsertWithTags(it, text, tags...)
}

// InsertPixbuf inserts an image at it. Afterwards it points behind the
// image.
func (b *Buffer) InsertPixbuf(it *Iter, pb *pixbuf.Pixbuf) error {
	if b.refuse("insert pixbuf") {
		return ErrReentrantMutation
	}
	if !b.own(it) || pb == nil {
		return ErrIllegalArguments
	}
	oldHeight, startLine := b.viewHeight(), it.Line()
	l, c := it.line, it.lineChar
	b.tree.insertObject(l, c, &segment{kind: segPixbuf, pixbuf: pb})
	it.revalidate(l, c+1)
	pos := *it
	b.notify(func(o Observer) { o.InsertPixbuf(b, pos, pb) })
	b.changed(startLine, oldHeight)
	return nil
}

// InsertChildAnchor inserts a child anchor at it. Afterwards it points
// behind the anchor.
func (b *Buffer) InsertChildAnchor(it *Iter, a *ChildAnchor) error {
	if b.refuse("insert child anchor") {
		return ErrReentrantMutation
	}
	if !b.own(it) || a == nil {
		return ErrIllegalArguments
	}
	if a.buffer != nil {
		return fmt.Errorf("%w: child anchor already belongs to a buffer", ErrIllegalArguments)
	}
	oldHeight, startLine := b.viewHeight(), it.Line()
	l, c := it.line, it.lineChar
	a.buffer = b
	b.tree.insertObject(l, c, &segment{kind: segChild, anchor: a})
	it.revalidate(l, c+1)
	pos := *it
	b.notify(func(o Observer) { o.InsertChildAnchor(b, pos, a) })
	b.changed(startLine, oldHeight)
	return nil
}

// CreateChildAnchor creates a child anchor and inserts it at it.
func (b *Buffer) CreateChildAnchor(it *Iter) (*ChildAnchor, error) {
	a := NewChildAnchor()
	if err := b.InsertChildAnchor(it, a); err != nil {
		return nil, err
	}
	return a, nil
}

// rangeItem is a piece of content collected from a buffer range.
type rangeItem struct {
	text   string
	pixbuf *pixbuf.Pixbuf
	tags   []*styled.Tag
}

// collect gathers the content of a range as runs of equally tagged text
// and images. Child anchors are skipped.
func (b *Buffer) collect(start, end Iter) []rangeItem {
	var items []rangeItem
	active := make(map[*styled.Tag]bool)
	for _, tag := range b.tree.tagsAt(start.line, start.lineChar) {
		active[tag] = true
	}
	current := func() []*styled.Tag {
		var tags []*styled.Tag
		for tag, on := range active {
			if on {
				tags = append(tags, tag)
			}
		}
		styled.SortByPriority(tags)
		return tags
	}
	tags, dirty := current(), false
	b.tree.walk(start.line, start.lineChar, end.line, end.lineChar,
		func(l *Line, s *segment, from, to int) bool {
			switch s.kind {
			case segToggleOn, segToggleOff:
				active[s.tag] = s.kind == segToggleOn
				dirty = true
			case segText:
				if dirty {
					tags, dirty = current(), false
				}
				str := s.text.String()
				text := str[s.text.ByteOffset(from):s.text.ByteOffset(to)]
				if n := len(items); n > 0 && items[n-1].pixbuf == nil && sameTags(items[n-1].tags, tags) {
					items[n-1].text += text
				} else {
					items = append(items, rangeItem{text: text, tags: tags})
				}
			case segPixbuf:
				if dirty {
					tags, dirty = current(), false
				}
				items = append(items, rangeItem{pixbuf: s.pixbuf, tags: tags})
			}
			return true
		})
	return items
}

func sameTags(a, b []*styled.Tag) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// InsertRange copies text, images and tags between start and end, which
// may belong to another buffer sharing the tag table, to it. Child anchors
// are not copied. Afterwards it points behind the copied content.
func (b *Buffer) InsertRange(it *Iter, start, end Iter) error {
	src := start.buffer
	if src == nil || end.buffer != src || src.table != b.table {
		return fmt.Errorf("%w: ranges may only be copied between buffers sharing a tag table",
			ErrIllegalArguments)
	}
	if !start.valid() || !end.valid() {
		return ErrIllegalArguments
	}
	OrderIters(&start, &end)
	items := src.collect(start, end)
	for _, item := range items {
		from := it.Offset()
		var err error
		if item.pixbuf != nil {
			err = b.InsertPixbuf(it, item.pixbuf)
		} else {
			err = b.Insert(it, item.text)
		}
		if err != nil {
			return err
		}
		s := b.IterAtOffset(from)
		for _, tag := range item.tags {
			b.ApplyTag(tag, s, *it)
		}
	}
	return nil
}

// Delete removes the content between start and end. Marks in the range
// move to the deletion point, child anchors in the range are deleted.
// Afterwards both iterators point to the deletion point.
func (b *Buffer) Delete(start, end *Iter) error {
	if b.refuse("delete") {
		return ErrReentrantMutation
	}
	if !b.own(start) || !b.own(end) {
		return ErrIllegalArguments
	}
	OrderIters(start, end)
	if start.Equal(*end) {
		return nil
	}
	s, e := *start, *end
	b.notify(func(o Observer) { o.DeleteRange(b, s, e) })
	oldHeight, startLine := b.viewHeight(), start.Line()
	l, c := start.line, start.lineChar
	b.tree.deleteRange(l, c, end.line, end.lineChar)
	start.revalidate(l, c)
	end.revalidate(l, c)
	b.changed(startLine, oldHeight)
	return nil
}

// DeleteInteractive deletes the editable parts of a range. It returns true
// if anything has been deleted.
func (b *Buffer) DeleteInteractive(start, end *Iter, defaultEditable bool) bool {
	if !b.own(start) || !b.own(end) {
		return false
	}
	OrderIters(start, end)
	type span struct{ from, to int }
	var spans []span
	pos := *start
	offset := pos.Offset()
	for pos.Compare(*end) < 0 {
		editable := pos.Editable(defaultEditable)
		next := pos
		if !next.ForwardToTagToggle(nil) || next.Compare(*end) > 0 {
			next = *end
		}
		nextOffset := next.Offset()
		if editable && nextOffset > offset {
			if n := len(spans); n > 0 && spans[n-1].to == offset {
				spans[n-1].to = nextOffset
			} else {
				spans = append(spans, span{offset, nextOffset})
			}
		}
		if nextOffset == offset {
			break
		}
		pos, offset = next, nextOffset
	}
	startOffset := start.Offset()
	for i := len(spans) - 1; i >= 0; i-- {
		s, e := b.IterAtOffset(spans[i].from), b.IterAtOffset(spans[i].to)
		if err := b.Delete(&s, &e); err != nil {
			return false
		}
	}
	*start = b.IterAtOffset(startOffset)
	*end = *start
	return len(spans) > 0
}

// Backspace deletes the grapheme cluster in front of it, as if the user
// pressed the backspace key. Afterwards it points to the deletion point.
func (b *Buffer) Backspace(it *Iter, interactive, defaultEditable bool) bool {
	if !b.own(it) {
		return false
	}
	start := *it
	if !start.BackwardCursorPosition() && start.Equal(*it) {
		return false
	}
	end := *it
	if interactive {
		ok := b.DeleteInteractive(&start, &end, defaultEditable)
		*it = start
		return ok
	}
	if err := b.Delete(&start, &end); err != nil {
		return false
	}
	*it = start
	return true
}

// DeleteSelection deletes the selected text, if any.
func (b *Buffer) DeleteSelection(interactive, defaultEditable bool) bool {
	start, end, ok := b.SelectionBounds()
	if !ok {
		return false
	}
	if interactive {
		return b.DeleteInteractive(&start, &end, defaultEditable)
	}
	return b.Delete(&start, &end) == nil
}

// --- Tags ------------------------------------------------------------------

// CreateTag creates a tag and adds it to the buffer's tag table.
func (b *Buffer) CreateTag(name string) (*styled.Tag, error) {
	tag := styled.NewTag(name)
	if err := b.table.Add(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// ApplyTag applies tag to the range between start and end. An empty range
// is a no-op.
func (b *Buffer) ApplyTag(tag *styled.Tag, start, end Iter) {
	b.changeTag(tag, start, end, true)
}

// RemoveTag removes tag from the range between start and end.
func (b *Buffer) RemoveTag(tag *styled.Tag, start, end Iter) {
	b.changeTag(tag, start, end, false)
}

func (b *Buffer) changeTag(tag *styled.Tag, start, end Iter, add bool) {
	if b.refuse("change tag") {
		return
	}
	if tag == nil || tag.Table() != b.table {
		T().Errorf("tag %s does not belong to the buffer's tag table", tag)
		return
	}
	if !b.own(&start) || !b.own(&end) {
		return
	}
	OrderIters(&start, &end)
	if start.Equal(end) {
		return
	}
	b.tree.changeTag(tag, start.line, start.lineChar, end.line, end.lineChar, add)
	b.invalidateLines(start.line, end.line)
	s, e := b.iterAt(start.line, start.lineChar), b.iterAt(end.line, end.lineChar)
	if add {
		b.notify(func(o Observer) { o.ApplyTag(b, tag, s, e) })
	} else {
		b.notify(func(o Observer) { o.RemoveTag(b, tag, s, e) })
	}
}

// invalidateLines drops the layout data of the lines from first to last.
func (b *Buffer) invalidateLines(first, last *Line) {
	if len(b.tree.views) == 0 {
		return
	}
	for l := first; l != nil; l = b.tree.nextLine(l) {
		for _, ld := range l.views {
			ld.Valid = false
		}
		b.tree.propagate(l.parent)
		if l == last {
			break
		}
	}
}

// ApplyTagByName applies the tag with the given name.
func (b *Buffer) ApplyTagByName(name string, start, end Iter) {
	if tag, ok := b.table.Lookup(name); ok {
		b.ApplyTag(tag, start, end)
		return
	}
	T().Errorf("apply tag: unknown tag %q", name)
}

// RemoveTagByName removes the tag with the given name.
func (b *Buffer) RemoveTagByName(name string, start, end Iter) {
	if tag, ok := b.table.Lookup(name); ok {
		b.RemoveTag(tag, start, end)
		return
	}
	T().Errorf("remove tag: unknown tag %q", name)
}

// RemoveAllTags removes every tag from a range.
func (b *Buffer) RemoveAllTags(start, end Iter) {
	var tags []*styled.Tag
	for tag := range b.tree.root.toggles {
		tags = append(tags, tag)
	}
	styled.SortByPriority(tags)
	for _, tag := range tags {
		b.RemoveTag(tag, start, end)
	}
}

// --- Marks -----------------------------------------------------------------

// CreateMark creates a mark at where. Anonymous marks have an empty name.
func (b *Buffer) CreateMark(name string, where Iter, leftGravity bool) (*Mark, error) {
	m := NewMark(name, leftGravity)
	if err := b.AddMark(m, where); err != nil {
		return nil, err
	}
	return m, nil
}

// AddMark adds a mark created by NewMark to the buffer. A mark may be
// re-added after it has been deleted.
func (b *Buffer) AddMark(m *Mark, where Iter) error {
	if b.refuse("add mark") {
		return ErrReentrantMutation
	}
	if m == nil || m.buffer != nil && !m.deleted {
		return fmt.Errorf("%w: mark is already part of a buffer", ErrIllegalArguments)
	}
	if m.name != "" {
		if _, exists := b.marks[m.name]; exists {
			return fmt.Errorf("%w: %q", ErrMarkExists, m.name)
		}
	}
	if !b.own(&where) {
		return ErrIllegalArguments
	}
	b.tree.insertMark(where.line, where.lineChar, m)
	m.buffer, m.deleted = b, false
	if m.name != "" {
		b.marks[m.name] = m
	}
	b.markSet(m)
	return nil
}

func (b *Buffer) markSet(m *Mark) {
	pos := b.IterAtMark(m)
	b.notify(func(o Observer) { o.MarkSet(b, pos, m) })
	if m == b.insertMark || m == b.selBound {
		b.updateSelectionClipboards()
	}
}

// MoveMark moves a mark to where.
func (b *Buffer) MoveMark(m *Mark, where Iter) {
	if b.refuse("move mark") {
		return
	}
	if m == nil || m.deleted || m.buffer != b {
		T().Errorf("move mark: %s does not belong to this buffer", m)
		return
	}
	if !b.own(&where) {
		return
	}
	b.moveMark(m, where)
	b.markSet(m)
}

func (b *Buffer) moveMark(m *Mark, where Iter) {
	l, c := where.line, where.lineChar
	b.tree.unlinkMark(m)
	b.tree.insertMark(l, c, m)
}

// MoveMarkByName moves the mark with the given name.
func (b *Buffer) MoveMarkByName(name string, where Iter) {
	m, ok := b.marks[name]
	if !ok {
		T().Errorf("move mark: no mark named %q", name)
		return
	}
	b.MoveMark(m, where)
}

// DeleteMark removes a mark from the buffer. The marks "insert" and
// "selection_bound" cannot be deleted.
func (b *Buffer) DeleteMark(m *Mark) {
	if b.refuse("delete mark") {
		return
	}
	if m == nil || m.deleted || m.buffer != b {
		T().Errorf("delete mark: %s does not belong to this buffer", m)
		return
	}
	if m.notDeletable {
		T().Errorf("delete mark: %s cannot be deleted", m)
		return
	}
	b.tree.unlinkMark(m)
	m.deleted = true
	if m.name != "" {
		delete(b.marks, m.name)
	}
	b.notify(func(o Observer) { o.MarkDeleted(b, m) })
}

// DeleteMarkByName deletes the mark with the given name.
func (b *Buffer) DeleteMarkByName(name string) {
	m, ok := b.marks[name]
	if !ok {
		T().Errorf("delete mark: no mark named %q", name)
		return
	}
	b.DeleteMark(m)
}

// Mark returns the mark with the given name, or nil.
func (b *Buffer) Mark(name string) *Mark {
	return b.marks[name]
}

// InsertMark returns the mark "insert", which is the cursor position.
func (b *Buffer) InsertMark() *Mark {
	return b.insertMark
}

// SelectionBoundMark returns the mark "selection_bound". The selection is
// the range between this mark and the insert mark.
func (b *Buffer) SelectionBoundMark() *Mark {
	return b.selBound
}

// PlaceCursor moves both the insert and the selection bound mark to where,
// removing any selection.
func (b *Buffer) PlaceCursor(where Iter) {
	b.SelectRange(where, where)
}

// SelectRange moves the insert mark to ins and the selection bound to
// bound.
func (b *Buffer) SelectRange(ins, bound Iter) {
	if b.refuse("select range") || !b.own(&ins) || !b.own(&bound) {
		return
	}
	b.moveMark(b.insertMark, ins)
	b.moveMark(b.selBound, bound)
	b.markSet(b.insertMark)
	b.markSet(b.selBound)
}

// SelectionBounds returns the ordered bounds of the selection. ok is false
// if the selection is empty; start and end then both are at the cursor.
func (b *Buffer) SelectionBounds() (start, end Iter, ok bool) {
	start, end = b.IterAtMark(b.insertMark), b.IterAtMark(b.selBound)
	OrderIters(&start, &end)
	return start, end, !start.Equal(end)
}

// HasSelection is true if some text is selected.
func (b *Buffer) HasSelection() bool {
	_, _, ok := b.SelectionBounds()
	return ok
}

// --- State -----------------------------------------------------------------

// Modified is true if the buffer has been changed since the flag was last
// cleared.
func (b *Buffer) Modified() bool {
	return b.modified
}

// SetModified sets the modified flag.
func (b *Buffer) SetModified(modified bool) {
	if b.modified == modified {
		return
	}
	b.modified = modified
	b.notify(func(o Observer) { o.ModifiedChanged(b, modified) })
}

// BeginUserAction starts a group of changes which belong to a single user
// action, e.g. for undo. Calls may be nested.
func (b *Buffer) BeginUserAction() {
	b.userAction++
	if b.userAction == 1 {
		b.notify(func(o Observer) { o.BeginUserAction(b) })
	}
}

// EndUserAction closes a group of changes opened by BeginUserAction.
func (b *Buffer) EndUserAction() {
	if b.userAction == 0 {
		T().Errorf("end user action without begin")
		return
	}
	b.userAction--
	if b.userAction == 0 {
		b.notify(func(o Observer) { o.EndUserAction(b) })
	}
}
