package textfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textbuffer"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "text.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	text := strings.Repeat("Lorem ipsum dolor sit amet, äöü €.\n", 40)
	path := writeFile(t, text)
	buf := textbuffer.New(textbuffer.Options{})
	// fragment size 7 splits multi-byte sequences
	if err := Load(context.Background(), path, buf, 7); err != nil {
		t.Fatal(err)
	}
	if err := buf.Check(); err != nil {
		t.Fatal(err)
	}
	start, end := buf.Bounds()
	if s := buf.Text(start, end, true); s != text {
		t.Errorf("loaded text differs, have %d bytes, expected %d", len(s), len(text))
	}
	if buf.LineCount() != 41 {
		t.Errorf("expected 41 lines, have %d", buf.LineCount())
	}
}

func TestLoadAppends(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	path := writeFile(t, "world")
	buf := textbuffer.New(textbuffer.Options{})
	it := buf.StartIter()
	buf.Insert(&it, "hello ")
	if err := Load(context.Background(), path, buf, 0); err != nil {
		t.Fatal(err)
	}
	start, end := buf.Bounds()
	if s := buf.Text(start, end, true); s != "hello world" {
		t.Errorf("text = %q", s)
	}
}

func TestLoadErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	buf := textbuffer.New(textbuffer.Options{})
	if err := Load(context.Background(), t.TempDir(), buf, 0); !errors.Is(err, ErrNotRegular) {
		t.Errorf("expected ErrNotRegular for a directory, have %v", err)
	}
	if err := Load(context.Background(), filepath.Join(t.TempDir(), "none"), buf, 0); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, have %v", err)
	}
	path := writeFile(t, "ab\xe2\x82")
	if err := Load(context.Background(), path, buf, 0); !errors.Is(err, textbuffer.ErrInvalidUTF8) {
		t.Errorf("expected ErrInvalidUTF8 for a truncated sequence, have %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path = writeFile(t, strings.Repeat("x", 1000))
	if err := Load(ctx, path, textbuffer.New(textbuffer.Options{}), 10); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, have %v", err)
	}
}

func TestSplitIncomplete(t *testing.T) {
	data, rest := splitIncomplete([]byte("a\xe2\x82"))
	if string(data) != "a" || string(rest) != "\xe2\x82" {
		t.Errorf("split = %q, %q", data, rest)
	}
	data, rest = splitIncomplete([]byte("a€"))
	if string(data) != "a€" || rest != nil {
		t.Errorf("complete sequences must not be split: %q, %q", data, rest)
	}
}

func TestSave(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	buf := textbuffer.New(textbuffer.Options{})
	it := buf.StartIter()
	buf.Insert(&it, "first line\nsecond line\n")
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := Save(path, buf.IterAtLine(1), buf.EndIter()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second line\n" {
		t.Errorf("saved %q", data)
	}
	other := textbuffer.New(textbuffer.Options{})
	if err := Save(path, buf.StartIter(), other.EndIter()); !errors.Is(err, textbuffer.ErrIllegalArguments) {
		t.Errorf("iterators of different buffers must be refused")
	}
}
