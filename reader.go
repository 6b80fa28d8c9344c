package textbuffer

import "io"

// Reader returns a reader for the UTF-8 text between two iterators.
// Embedded objects are delivered as U+FFFC. The reader works line by line;
// it must not be used after the buffer has been modified.
func (b *Buffer) Reader(start, end Iter) io.Reader {
	OrderIters(&start, &end)
	return &bufferReader{buffer: b, start: start, end: end}
}

type bufferReader struct {
	buffer     *Buffer
	start, end Iter
	pending    []byte
	done       bool
}

func (br *bufferReader) Read(p []byte) (n int, err error) {
	for len(br.pending) == 0 {
		if br.done {
			return 0, io.EOF
		}
		if !br.start.valid() {
			return 0, ErrIllegalArguments
		}
		l := br.start.line
		to := l.chars
		if l == br.end.line {
			to = br.end.lineChar
			br.done = true
		}
		br.pending = []byte(l.slice(br.start.lineChar, to, true))
		if !br.done {
			next := br.buffer.tree.nextLine(l)
			if next == nil {
				br.done = true
			} else {
				br.start.set(next, 0)
			}
		}
	}
	n = copy(p, br.pending)
	br.pending = br.pending[n:]
	return n, nil
}
