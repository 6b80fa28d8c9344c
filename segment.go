package textbuffer

import (
	"fmt"

	"github.com/npillmayer/textbuffer/chunk"
	"github.com/npillmayer/textbuffer/pixbuf"
	"github.com/npillmayer/textbuffer/styled"
)

// ObjectReplacementChar stands in for images and child anchors in text
// extracted from a buffer.
const ObjectReplacementChar = '\uFFFC'

const objectReplacementBytes = 3 // UTF-8 length of U+FFFC

type segKind uint8

const (
	segText segKind = iota
	segPixbuf
	segChild
	segMarkLeft
	segMarkRight
	segToggleOn
	segToggleOff
)

var segKindNames = [...]string{"text", "pixbuf", "child", "mark-left", "mark-right", "toggle-on", "toggle-off"}

func (k segKind) String() string {
	if int(k) < len(segKindNames) {
		return segKindNames[k]
	}
	return fmt.Sprintf("segKind(%d)", k)
}

// segment is the unit of content within a line. Segments of a line form a
// singly linked list. Text, pixbuf and child segments are indexable, i.e.
// they occupy character positions; marks and toggles have zero width.
type segment struct {
	kind   segKind
	next   *segment
	text   chunk.Chunk    // segText
	pixbuf *pixbuf.Pixbuf // segPixbuf
	anchor *ChildAnchor   // segChild
	mark   *Mark          // segMarkLeft, segMarkRight
	tag    *styled.Tag    // segToggleOn, segToggleOff
}

func newTextSegment(c chunk.Chunk) *segment {
	assert(!c.IsEmpty(), "text segments must not be empty")
	return &segment{kind: segText, text: c}
}

func newToggle(tag *styled.Tag, on bool) *segment {
	if on {
		return &segment{kind: segToggleOn, tag: tag}
	}
	return &segment{kind: segToggleOff, tag: tag}
}

// chars returns the number of characters a segment occupies.
func (s *segment) chars() int {
	switch s.kind {
	case segText:
		return s.text.CharCount()
	case segPixbuf, segChild:
		return 1
	}
	return 0
}

// bytes returns the number of bytes a segment contributes to the line's
// UTF-8 text.
func (s *segment) bytes() int {
	switch s.kind {
	case segText:
		return s.text.Len()
	case segPixbuf, segChild:
		return objectReplacementBytes
	}
	return 0
}

// summary returns the metrics a segment contributes to its line.
func (s *segment) summary() chunk.Summary {
	switch s.kind {
	case segText:
		return s.text.Summary()
	case segPixbuf, segChild:
		return chunk.Summary{Bytes: objectReplacementBytes, Chars: 1}
	}
	return chunk.Summary{}
}

func (s *segment) isIndexable() bool {
	return s.kind <= segChild
}

func (s *segment) isToggle() bool {
	return s.kind == segToggleOn || s.kind == segToggleOff
}

// leftGravity is true for zero-width segments which stay in front of text
// inserted at their position. Toggle-offs keep new text out of the tag
// range they close; toggle-ons keep it out of the range they open.
func (s *segment) leftGravity() bool {
	return s.kind == segMarkLeft || s.kind == segToggleOff
}

// appendText appends the segment's contribution to extracted text.
func (s *segment) appendText(buf []byte) []byte {
	switch s.kind {
	case segText:
		return append(buf, s.text.String()...)
	case segPixbuf, segChild:
		return append(buf, string(ObjectReplacementChar)...)
	}
	return buf
}

func (s *segment) String() string {
	switch s.kind {
	case segText:
		return fmt.Sprintf("text %q", s.text.String())
	case segMarkLeft, segMarkRight:
		return fmt.Sprintf("%s %s", s.kind, s.mark)
	case segToggleOn, segToggleOff:
		return fmt.Sprintf("%s %s", s.kind, s.tag)
	}
	return s.kind.String()
}

// textSegments cuts text into a linked list of text segments.
func textSegments(text string) (head, tail *segment, err error) {
	chunks, err := chunk.Split([]byte(text))
	if err != nil {
		return nil, nil, ErrInvalidUTF8
	}
	for _, c := range chunks {
		seg := newTextSegment(c)
		if head == nil {
			head = seg
		} else {
			tail.next = seg
		}
		tail = seg
	}
	return head, tail, nil
}

// splitText splits a text segment at a char offset local to the segment.
// The right part becomes the successor of s.
func (s *segment) splitText(charOffset int) {
	assert(s.kind == segText, "splitText called for non-text segment")
	off := s.text.ByteOffset(charOffset)
	assert(off > 0 && off < s.text.Len(), "splitText offset must be inside segment")
	left, right, err := s.text.SplitAt(off)
	assert(err == nil, "splitText: chunk split failed")
	s.text = left
	s.next = &segment{kind: segText, text: right, next: s.next}
}
