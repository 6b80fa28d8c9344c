package textbuffer

import (
	"github.com/npillmayer/textbuffer/pixbuf"
	"github.com/npillmayer/textbuffer/styled"
)

// Observer is notified synchronously about changes of a buffer. Observers
// must not modify the buffer they are notified about; such attempts are
// refused with ErrReentrantMutation.
//
// Iterators passed to observers are valid for the duration of the call.
type Observer interface {
	// InsertText is called after text has been inserted; pos is located
	// behind the new text.
	InsertText(b *Buffer, pos Iter, text string)
	InsertPixbuf(b *Buffer, pos Iter, pb *pixbuf.Pixbuf)
	InsertChildAnchor(b *Buffer, pos Iter, anchor *ChildAnchor)
	// DeleteRange is called before text is deleted.
	DeleteRange(b *Buffer, start, end Iter)
	// Changed is called after every change of the buffer's content. Heights
	// are taken from the layout data of the first registered view.
	Changed(b *Buffer, startLine, oldHeight, newHeight int)
	MarkSet(b *Buffer, pos Iter, m *Mark)
	MarkDeleted(b *Buffer, m *Mark)
	ApplyTag(b *Buffer, tag *styled.Tag, start, end Iter)
	RemoveTag(b *Buffer, tag *styled.Tag, start, end Iter)
	ModifiedChanged(b *Buffer, modified bool)
	BeginUserAction(b *Buffer)
	EndUserAction(b *Buffer)
}

// BaseObserver implements Observer with empty methods. Clients embed it
// and override the notifications they are interested in.
type BaseObserver struct{}

var _ Observer = BaseObserver{}

func (BaseObserver) InsertText(*Buffer, Iter, string) {}
func (BaseObserver) InsertPixbuf(*Buffer, Iter, *pixbuf.Pixbuf) {}
func (BaseObserver) InsertChildAnchor(*Buffer, Iter, *ChildAnchor) {}
func (BaseObserver) DeleteRange(*Buffer, Iter, Iter) {}
func (BaseObserver) Changed(*Buffer, int, int, int) {}
func (BaseObserver) MarkSet(*Buffer, Iter, *Mark) {}
func (BaseObserver) MarkDeleted(*Buffer, *Mark) {}
func (BaseObserver) ApplyTag(*Buffer, *styled.Tag, Iter, Iter) {}
func (BaseObserver) RemoveTag(*Buffer, *styled.Tag, Iter, Iter) {}
func (BaseObserver) ModifiedChanged(*Buffer, bool) {}
func (BaseObserver) BeginUserAction(*Buffer) {}
func (BaseObserver) EndUserAction(*Buffer) {}

// Connect registers an observer.
func (b *Buffer) Connect(o Observer) {
	b.observers = append(b.observers, o)
}

// Disconnect unregisters an observer.
func (b *Buffer) Disconnect(o Observer) {
	for i, obs := range b.observers {
		if obs == o {
			b.observers = append(b.observers[:i:i], b.observers[i+1:]...)
			return
		}
	}
}

// notify calls f for every observer. While observers run, the buffer
// refuses mutations.
func (b *Buffer) notify(f func(o Observer)) {
	if len(b.observers) == 0 {
		return
	}
	b.busy++
	defer func() { b.busy-- }()
	for _, o := range append([]Observer(nil), b.observers...) {
		f(o)
	}
}

// refuse checks for mutations from within a notification.
func (b *Buffer) refuse(op string) bool {
	if b.busy > 0 {
		T().Errorf("%s: %s", op, ErrReentrantMutation)
		return true
	}
	return false
}

// changed emits a Changed notification after a content change.
func (b *Buffer) changed(startLine, oldHeight int) {
	newHeight := b.viewHeight()
	b.notify(func(o Observer) { o.Changed(b, startLine, oldHeight, newHeight) })
	b.SetModified(true)
}

// tableObserver keeps a buffer in sync with its (possibly shared) tag table.
type tableObserver struct {
	b *Buffer
}

var _ styled.TableObserver = (*tableObserver)(nil)

func (to *tableObserver) TagAdded(tag *styled.Tag) {}

func (to *tableObserver) TagRemoved(tag *styled.Tag) {
	T().Debugf("buffer: removing toggles of tag %s", tag)
	to.b.tree.removeAllToggles(tag)
}

func (to *tableObserver) TagChanged(tag *styled.Tag, sizeAffecting bool) {
	if sizeAffecting && to.b.tree.root.toggles[tag] > 0 {
		to.b.tree.invalidateViews()
	}
}
