package pixbuf

import (
	"image"
)

// Pixbuf is an image embedded in a text buffer. Pixbufs are immutable and
// may be shared between buffers.
type Pixbuf struct {
	img image.Image
}

// New wraps an image. It returns nil for a nil image.
func New(img image.Image) *Pixbuf {
	if img == nil {
		return nil
	}
	return &Pixbuf{img: img}
}

// Image returns the wrapped image.
func (pb *Pixbuf) Image() image.Image {
	return pb.img
}

// Width returns the width of the image in pixels.
func (pb *Pixbuf) Width() int {
	return pb.img.Bounds().Dx()
}

// Height returns the height of the image in pixels.
func (pb *Pixbuf) Height() int {
	return pb.img.Bounds().Dy()
}

func (pb *Pixbuf) String() string {
	if pb == nil {
		return "<nil pixbuf>"
	}
	return "pixbuf " + pb.img.Bounds().Size().String()
}
