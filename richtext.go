package textbuffer

import (
	"fmt"

	"github.com/npillmayer/textbuffer/selection"
)

// RichTextMimeType is the mime type of the buffer's native rich-text
// format. Formats restricted to a tag set carry a ";format=TAGSET" suffix.
const RichTextMimeType = "application/x-textbuffer-rich-text"

// SerializeFunc serializes the range [start, end) of content. register is
// the buffer the format has been registered with.
type SerializeFunc func(register, content *Buffer, start, end Iter) ([]byte, error)

// DeserializeFunc inserts serialized data into content at it, leaving it
// behind the inserted content. If createTags is false, data referring to
// tags unknown to content's tag table must be rejected with ErrUnknownTag.
type DeserializeFunc func(register, content *Buffer, it *Iter, data []byte, createTags bool) error

type serialFormat struct {
	atom          selection.Atom
	serialize     SerializeFunc
	deserialize   DeserializeFunc
	canCreateTags bool
}

type formatRegistry struct {
	serialize   []*serialFormat
	deserialize []*serialFormat
}

func findFormat(formats []*serialFormat, a selection.Atom) (int, *serialFormat) {
	for i, f := range formats {
		if f.atom == a {
			return i, f
		}
	}
	return -1, nil
}

func atoms(formats []*serialFormat) []selection.Atom {
	list := make([]selection.Atom, len(formats))
	for i, f := range formats {
		list[i] = f.atom
	}
	return list
}

func richTextMimeType(tagset string) string {
	if tagset == "" {
		return RichTextMimeType
	}
	return RichTextMimeType + ";format=" + tagset
}

// RegisterSerializeFormat registers a serialization function for a mime
// type. Registering a mime type again replaces its function.
func (b *Buffer) RegisterSerializeFormat(mimeType string, fn SerializeFunc) selection.Atom {
	a := selection.Intern(mimeType)
	if _, f := findFormat(b.formats.serialize, a); f != nil {
		f.serialize = fn
		return a
	}
	b.formats.serialize = append(b.formats.serialize, &serialFormat{atom: a, serialize: fn})
	return a
}

// RegisterSerializeTagset registers the native rich-text format. If tagset
// is not empty, the format is restricted to buffers using the same tag
// set, i.e. buffers which registered a deserialization format for the
// same tag set name.
func (b *Buffer) RegisterSerializeTagset(tagset string) selection.Atom {
	return b.RegisterSerializeFormat(richTextMimeType(tagset), serializeRichText(tagset))
}

// RegisterDeserializeFormat registers a deserialization function for a
// mime type. Registering a mime type again replaces its function.
func (b *Buffer) RegisterDeserializeFormat(mimeType string, fn DeserializeFunc) selection.Atom {
	a := selection.Intern(mimeType)
	if _, f := findFormat(b.formats.deserialize, a); f != nil {
		f.deserialize = fn
		return a
	}
	b.formats.deserialize = append(b.formats.deserialize, &serialFormat{atom: a, deserialize: fn})
	return a
}

// RegisterDeserializeTagset registers the native rich-text format for
// reading. If tagset is empty, data from any tag set is accepted.
func (b *Buffer) RegisterDeserializeTagset(tagset string) selection.Atom {
	return b.RegisterDeserializeFormat(richTextMimeType(tagset), deserializeRichText(tagset))
}

// UnregisterSerializeFormat removes a serialization format.
func (b *Buffer) UnregisterSerializeFormat(format selection.Atom) {
	if i, _ := findFormat(b.formats.serialize, format); i >= 0 {
		b.formats.serialize = append(b.formats.serialize[:i:i], b.formats.serialize[i+1:]...)
	}
}

// UnregisterDeserializeFormat removes a deserialization format.
func (b *Buffer) UnregisterDeserializeFormat(format selection.Atom) {
	if i, _ := findFormat(b.formats.deserialize, format); i >= 0 {
		b.formats.deserialize = append(b.formats.deserialize[:i:i], b.formats.deserialize[i+1:]...)
	}
}

// SerializeFormats lists the registered serialization formats in order of
// registration.
func (b *Buffer) SerializeFormats() []selection.Atom {
	return atoms(b.formats.serialize)
}

// DeserializeFormats lists the registered deserialization formats in order
// of registration.
func (b *Buffer) DeserializeFormats() []selection.Atom {
	return atoms(b.formats.deserialize)
}

// SetCanCreateTags allows a deserialization format to create tags which
// are missing in the receiving buffer's tag table.
func (b *Buffer) SetCanCreateTags(format selection.Atom, can bool) {
	_, f := findFormat(b.formats.deserialize, format)
	if f == nil {
		T().Errorf("set can-create-tags: %s is not a deserialization format", format)
		return
	}
	f.canCreateTags = can
}

// CanCreateTags tells whether a deserialization format may create tags.
func (b *Buffer) CanCreateTags(format selection.Atom) bool {
	_, f := findFormat(b.formats.deserialize, format)
	return f != nil && f.canCreateTags
}

// Serialize serializes [start, end) of content with a format registered
// with b.
func (b *Buffer) Serialize(content *Buffer, format selection.Atom, start, end Iter) ([]byte, error) {
	_, f := findFormat(b.formats.serialize, format)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if !start.valid() || !end.valid() || start.buffer != content || end.buffer != content {
		return nil, ErrIllegalArguments
	}
	OrderIters(&start, &end)
	return f.serialize(b, content, start, end)
}

// Deserialize inserts data of a format registered with b into content at
// it. Afterwards it points behind the inserted content.
func (b *Buffer) Deserialize(content *Buffer, format selection.Atom, it *Iter, data []byte) error {
	_, f := findFormat(b.formats.deserialize, format)
	if f == nil {
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if !content.own(it) {
		return ErrIllegalArguments
	}
	return f.deserialize(b, content, it, data, f.canCreateTags)
}
