package pixbuf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// ErrUnsupportedFormat is flagged for format names or mime types without a
// suitable codec.
var ErrUnsupportedFormat = errors.New("pixbuf: unsupported image format")

// CodecError wraps errors of the underlying image codecs.
type CodecError struct {
	Format string
	Err    error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("pixbuf: %s codec: %v", e.Format, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// Format describes an image codec.
type Format struct {
	name       string
	mimeTypes  []string
	extensions []string
	writable   bool
	encode     func(io.Writer, image.Image) error
}

// Name returns the short name of the format, e.g. "png".
func (f *Format) Name() string { return f.name }

// MimeTypes returns the mime types the format is known by.
func (f *Format) MimeTypes() []string { return append([]string(nil), f.mimeTypes...) }

// Extensions returns the usual file name extensions for the format.
func (f *Format) Extensions() []string { return append([]string(nil), f.extensions...) }

// Writable is true if images may be encoded in this format.
func (f *Format) Writable() bool { return f.writable }

func imagingEncoder(format imaging.Format) func(io.Writer, image.Image) error {
	return func(w io.Writer, img image.Image) error {
		return imaging.Encode(w, img, format)
	}
}

// registry in order of preference; PNG first.
var registry = []*Format{
	{
		name:       "png",
		mimeTypes:  []string{"image/png"},
		extensions: []string{"png"},
		writable:   true,
		encode:     imagingEncoder(imaging.PNG),
	},
	{
		name:       "jpeg",
		mimeTypes:  []string{"image/jpeg"},
		extensions: []string{"jpeg", "jpe", "jpg"},
		writable:   true,
		encode:     imagingEncoder(imaging.JPEG),
	},
	{
		name:       "gif",
		mimeTypes:  []string{"image/gif"},
		extensions: []string{"gif"},
		writable:   true,
		encode:     imagingEncoder(imaging.GIF),
	},
	{
		name:       "tiff",
		mimeTypes:  []string{"image/tiff"},
		extensions: []string{"tiff", "tif"},
		writable:   true,
		encode:     imagingEncoder(imaging.TIFF),
	},
	{
		name:       "bmp",
		mimeTypes:  []string{"image/bmp", "image/x-bmp"},
		extensions: []string{"bmp"},
		writable:   true,
		encode:     bmp.Encode,
	},
	{
		name:       "webp",
		mimeTypes:  []string{"image/webp"},
		extensions: []string{"webp"},
	},
}

// Formats returns all known image formats. PNG is always the first entry.
func Formats() []*Format {
	return append([]*Format(nil), registry...)
}

// FormatByName finds a format by its short name.
func FormatByName(name string) (*Format, bool) {
	name = strings.ToLower(name)
	for _, f := range registry {
		if f.name == name {
			return f, true
		}
	}
	return nil, false
}

// FormatForMimeType finds a format by one of its mime types.
func FormatForMimeType(mime string) (*Format, bool) {
	mime = strings.ToLower(strings.TrimSpace(mime))
	for _, f := range registry {
		for _, m := range f.mimeTypes {
			if m == mime {
				return f, true
			}
		}
	}
	return nil, false
}

// Encode writes pb to w, using the format with the given name.
func Encode(w io.Writer, pb *Pixbuf, name string) error {
	f, ok := FormatByName(name)
	if !ok || !f.writable {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	if err := f.encode(w, pb.img); err != nil {
		return &CodecError{Format: f.name, Err: err}
	}
	return nil
}

// EncodeBytes encodes pb in the named format and returns the bytes.
func EncodeBytes(pb *Pixbuf, name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, pb, name); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads an image in any of the registered formats.
func Decode(data []byte) (*Pixbuf, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err == nil {
		return New(img), nil
	}
	if isWebP(data) {
		img, werr := webp.Decode(bytes.NewReader(data))
		if werr != nil {
			return nil, &CodecError{Format: "webp", Err: werr}
		}
		return New(img), nil
	}
	tracer().Debugf("pixbuf: cannot decode %d bytes of image data: %v", len(data), err)
	if errors.Is(err, image.ErrFormat) {
		return nil, ErrUnsupportedFormat
	}
	return nil, &CodecError{Format: "unknown", Err: err}
}

func isWebP(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}
