package textbuffer

import "fmt"

// Names of the two marks every buffer has.
const (
	InsertMarkName         = "insert"
	SelectionBoundMarkName = "selection_bound"
)

// Mark is a position in a buffer which survives modifications of the
// buffer. When text is inserted at the position of a mark, a mark with left
// gravity stays in front of the new text, a mark with right gravity ends up
// behind it. When the text around a mark is deleted, the mark moves to the
// position of the deletion.
//
// Marks without a name are anonymous. Marks are created by Buffer.CreateMark
// or with NewMark and Buffer.AddMark.
type Mark struct {
	name         string
	leftGravity  bool
	visible      bool
	notDeletable bool
	deleted      bool
	buffer       *Buffer
	line         *Line
	seg          *segment
}

// NewMark creates a mark which is not yet part of a buffer.
func NewMark(name string, leftGravity bool) *Mark {
	return &Mark{name: name, leftGravity: leftGravity}
}

// Name returns the name of the mark, or "" for anonymous marks.
func (m *Mark) Name() string {
	return m.name
}

// LeftGravity is true for marks which stay left of text inserted at their
// position.
func (m *Mark) LeftGravity() bool {
	return m.leftGravity
}

// Visible is a hint for displays whether to show the mark.
func (m *Mark) Visible() bool {
	return m.visible
}

// SetVisible sets the display hint of the mark.
func (m *Mark) SetVisible(v bool) {
	m.visible = v
}

// Deleted is true if the mark has been removed from its buffer.
func (m *Mark) Deleted() bool {
	return m.deleted
}

// Buffer returns the buffer the mark belongs to, or nil for deleted marks.
func (m *Mark) Buffer() *Buffer {
	if m.deleted {
		return nil
	}
	return m.buffer
}

func (m *Mark) String() string {
	if m == nil {
		return "<nil mark>"
	}
	g := "right"
	if m.leftGravity {
		g = "left"
	}
	if m.name == "" {
		return fmt.Sprintf("<anonymous mark, %s gravity>", g)
	}
	return fmt.Sprintf("mark %q (%s gravity)", m.name, g)
}

func (m *Mark) segKind() segKind {
	if m.leftGravity {
		return segMarkLeft
	}
	return segMarkRight
}

// ChildAnchor is a position in a buffer where a child object, e.g. a widget,
// is embedded. A child anchor occupies one character.
type ChildAnchor struct {
	buffer  *Buffer
	line    *Line
	seg     *segment
	deleted bool
	Data    any // client data
}

// NewChildAnchor creates an anchor to be inserted with
// Buffer.InsertChildAnchor.
func NewChildAnchor() *ChildAnchor {
	return &ChildAnchor{}
}

// Deleted is true if the anchor's character has been deleted.
func (a *ChildAnchor) Deleted() bool {
	return a.deleted
}

// Buffer returns the buffer of the anchor, or nil.
func (a *ChildAnchor) Buffer() *Buffer {
	if a.deleted {
		return nil
	}
	return a.buffer
}
