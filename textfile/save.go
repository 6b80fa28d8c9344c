package textfile

import (
	"bufio"
	"os"

	"github.com/npillmayer/textbuffer"
)

// Save writes the text between start and end to a file, creating or
// truncating it. Embedded images and child anchors are written as U+FFFC.
func Save(path string, start, end textbuffer.Iter) error {
	b := start.Buffer()
	if b == nil || end.Buffer() != b {
		return textbuffer.ErrIllegalArguments
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	n, err := w.ReadFrom(b.Reader(start, end))
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	tracer().Debugf("saved %d bytes to %s", n, path)
	return err
}
