package textfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/guiguan/caster"
	"github.com/npillmayer/textbuffer"
)

// Some constants for fragment size defaults
const (
	twoKb     = 2048
	sixKb     = 6144
	tenKb     = 10240
	hundredKb = 102400
	oneMb     = 1048576
)

// ErrNotRegular is returned for paths which do not denote a regular file.
var ErrNotRegular = errors.New("file is not a regular file")

// fragment is a piece of a file's content, as read by the loading goroutine.
type fragment struct {
	pos  int64
	data []byte
	err  error
}

// textFile represents an OS file which will be loaded into a buffer.
type textFile struct {
	path string         // file name
	info os.FileInfo    // result from Stat(path)
	file *os.File       // file handle
	cast *caster.Caster // broadcaster for async file loading
}

// Load reads a file, which must be a UTF-8 text file, and appends its content
// to buf. Clients may recommend a fragment length; 0 lets Load choose one
// depending on the size of the file.
//
// Fragments are read asynchronously, but Load returns only after all of them
// have been inserted, or ctx has been cancelled. A cancelled load leaves the
// fragments inserted so far in the buffer.
func Load(ctx context.Context, path string, buf *textbuffer.Buffer, fragSize int64) error {
	if buf == nil {
		return textbuffer.ErrIllegalArguments
	}
	if ctx == nil {
		ctx = context.Background()
	} else if err := ctx.Err(); err != nil {
		return err
	}
	tf, err := openFile(path)
	if err != nil {
		return err
	}
	defer tf.file.Close()
	fragSize = fragmentSize(tf.info.Size(), fragSize)
	tracer().Debugf("loading %s (%d bytes) in fragments of %d", path, tf.info.Size(), fragSize)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch, ok := tf.cast.Sub(ctx, 4)
	if !ok {
		return fmt.Errorf("cannot subscribe to fragments of %s", path)
	}
	go tf.readFragments(ctx, fragSize)
	//
	var carry []byte // incomplete UTF-8 sequence at the end of the last fragment
	for m := range ch {
		frag := m.(fragment)
		if frag.err != nil {
			return frag.err
		}
		data := append(carry, frag.data...)
		data, carry = splitIncomplete(data)
		it := buf.EndIter()
		if err := buf.Insert(&it, string(data)); err != nil {
			return fmt.Errorf("%s at byte %d: %w", path, frag.pos, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(carry) > 0 {
		return fmt.Errorf("%s ends within a UTF-8 sequence: %w", path, textbuffer.ErrInvalidUTF8)
	}
	return nil
}

// fragmentSize keeps a recommended fragment size if it is sensible,
// otherwise derives one from the size of the file.
func fragmentSize(size, fragSize int64) int64 {
	if fragSize > 0 && fragSize <= tenKb {
		return fragSize
	}
	switch {
	case size < 1024:
		return 64
	case size < tenKb:
		return 256
	case size < hundredKb:
		return 512
	case size < oneMb:
		return twoKb
	}
	return sixKb
}

// splitIncomplete separates a trailing incomplete UTF-8 sequence from data.
func splitIncomplete(data []byte) ([]byte, []byte) {
	for i := len(data) - 1; i >= 0 && i >= len(data)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(data[i]) {
			continue
		}
		if utf8.FullRune(data[i:]) {
			return data, nil
		}
		rest := make([]byte, len(data)-i)
		copy(rest, data[i:])
		return data[:i], rest
	}
	return data, nil
}

// openFile opens an OS file and collects some useful information on it,
// checking for error conditions.
func openFile(name string) (*textFile, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return nil, err
	} else if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", name, ErrNotRegular)
	}
	file, err := os.Open(name) // just open for read access
	if err != nil {
		return nil, err
	}
	tf := &textFile{
		path: name,
		info: fi,
		file: file,
		cast: caster.New(nil), // we will broadcast messages when fragments are loaded
	}
	return tf, nil
}

// readFragments reads the file front to back and publishes every fragment.
// It closes the broadcaster when done, which ends all subscriptions.
func (tf *textFile) readFragments(ctx context.Context, fragSize int64) {
	defer tf.cast.Close()
	size := tf.info.Size()
	for pos := int64(0); pos < size; pos += fragSize {
		if ctx.Err() != nil {
			return
		}
		buf := make([]byte, min(fragSize, size-pos))
		cnt, err := tf.file.ReadAt(buf, pos)
		if err != nil && err != io.EOF {
			tf.cast.Pub(fragment{pos: pos, err: fmt.Errorf("error loading text fragment: %w", err)})
			return
		}
		tracer().Debugf("loaded fragment at %d, %d bytes", pos, cnt)
		tf.cast.Pub(fragment{pos: pos, data: buf[:cnt]})
		if int64(cnt) < int64(len(buf)) {
			return // file has been truncated meanwhile
		}
	}
}
