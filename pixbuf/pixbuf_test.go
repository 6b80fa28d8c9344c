package pixbuf

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func checkerboard() *Pixbuf {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.NRGBA{R: 255, A: 255})
			} else {
				img.Set(x, y, color.NRGBA{B: 255, A: 255})
			}
		}
	}
	return New(img)
}

func TestPNGIsFirst(t *testing.T) {
	formats := Formats()
	if len(formats) == 0 || formats[0].Name() != "png" {
		t.Fatalf("expected png to be the first format")
	}
	if f, ok := FormatForMimeType("image/jpeg"); !ok || f.Name() != "jpeg" {
		t.Errorf("expected to find jpeg by mime type")
	}
	if f, ok := FormatByName("webp"); !ok || f.Writable() {
		t.Errorf("expected webp to be a read-only format")
	}
}

func TestPNGRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	pb := checkerboard()
	data, err := EncodeBytes(pb, "png")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("expected PNG signature")
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if back.Width() != 4 || back.Height() != 3 {
		t.Fatalf("expected 4x3 image, have %dx%d", back.Width(), back.Height())
	}
	r, _, b, _ := back.Image().At(1, 0).RGBA()
	if r != 0 || b != 0xffff {
		t.Errorf("pixel (1,0) should be blue")
	}
}

func TestBMPRoundTrip(t *testing.T) {
	data, err := EncodeBytes(checkerboard(), "bmp")
	if err != nil {
		t.Fatal(err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if back.Width() != 4 {
		t.Errorf("expected width 4, have %d", back.Width())
	}
}

func TestUnsupported(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	if err := Encode(&bytes.Buffer{}, checkerboard(), "webp"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected webp encoding to be unsupported, got %v", err)
	}
	if _, err := Decode([]byte("no image")); err == nil {
		t.Errorf("expected garbage to be rejected")
	}
}
