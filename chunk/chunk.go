package chunk

import (
	"math/bits"
	"unicode/utf8"
)

// Bitmap indexes byte-local properties inside a chunk.
//
// Bit i corresponds to byte offset i in chunk-local coordinates.
type Bitmap = uint64

const (
	// MaxBase is the maximum chunk payload length in bytes.
	MaxBase = 64
	// MinBase is the occupancy below which neighbouring chunks are merged.
	MinBase = MaxBase / 2
)

// ParagraphSeparator is the Unicode paragraph separator U+2029, which ends a
// line just like '\n'.
const ParagraphSeparator = '\u2029'

// Chunk is the payload of a text segment: at most MaxBase bytes of UTF-8 text
// together with bitmaps for char starts and line terminators.
//
// Chunks are values; editing operations return a new Chunk.
type Chunk struct {
	chars Bitmap
	terms Bitmap
	text  [MaxBase]byte
	n     uint8
}

// New creates a chunk from UTF-8 text.
//
// Returns an error if the text is not valid UTF-8 or exceeds MaxBase bytes.
func New(text string) (Chunk, error) {
	if len(text) > MaxBase {
		return Chunk{}, ErrChunkTooLarge
	}
	if !utf8.ValidString(text) {
		return Chunk{}, ErrInvalidUTF8
	}
	var c Chunk
	c.n = uint8(copy(c.text[:], text))
	c.index()
	return c, nil
}

// NewBytes creates a chunk from UTF-8 bytes. The bytes are copied.
//
// Callers must cut raw input at rune boundaries (see Split); byte slices
// starting or ending inside a multi-byte rune are rejected.
func NewBytes(text []byte) (Chunk, error) {
	if len(text) > MaxBase {
		return Chunk{}, ErrChunkTooLarge
	}
	if !utf8.Valid(text) {
		return Chunk{}, ErrInvalidUTF8
	}
	var c Chunk
	c.n = uint8(copy(c.text[:], text))
	c.index()
	return c, nil
}

// index rebuilds both bitmaps from the text bytes.
func (c *Chunk) index() {
	c.chars, c.terms = 0, 0
	for i := 0; i < int(c.n); {
		c.chars |= bit(i)
		r, w := utf8.DecodeRune(c.text[i:c.n])
		if r == '\n' || r == ParagraphSeparator {
			c.terms |= bit(i)
		}
		i += w
	}
}

// Split cuts text of arbitrary length into chunks, breaking only at rune
// boundaries. Every chunk but the last is filled as far as possible.
func Split(text []byte) ([]Chunk, error) {
	if !utf8.Valid(text) {
		return nil, ErrInvalidUTF8
	}
	chunks := make([]Chunk, 0, len(text)/MaxBase+1)
	for len(text) > 0 {
		n := len(text)
		if n > MaxBase {
			n = MaxBase
			for n > 0 && !utf8.RuneStart(text[n]) {
				n--
			}
		}
		c, err := NewBytes(text[:n])
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
		text = text[n:]
	}
	return chunks, nil
}

// Len returns the text length in bytes.
func (c Chunk) Len() int {
	return int(c.n)
}

// IsEmpty reports whether the chunk has no bytes.
func (c Chunk) IsEmpty() bool {
	return c.n == 0
}

// String returns the chunk text.
func (c Chunk) String() string {
	return string(c.text[:c.n])
}

// Bytes returns a copied byte slice of the chunk text.
func (c Chunk) Bytes() []byte {
	return append([]byte(nil), c.text[:c.n]...)
}

// CharCount returns the number of Unicode scalar values in the chunk.
func (c Chunk) CharCount() int {
	return bits.OnesCount64(c.chars)
}

// Terminators returns the number of line terminators in the chunk.
func (c Chunk) Terminators() int {
	return bits.OnesCount64(c.terms)
}

// FirstTerminator returns the byte offset just behind the first line
// terminator, or -1 if the chunk contains none.
func (c Chunk) FirstTerminator() int {
	if c.terms == 0 {
		return -1
	}
	at := bits.TrailingZeros64(c.terms)
	_, w := utf8.DecodeRune(c.text[at:c.n])
	return at + w
}

// IsCharBoundary reports whether offset is a UTF-8 boundary inside this chunk.
func (c Chunk) IsCharBoundary(offset int) bool {
	if offset == c.Len() {
		return true
	}
	if offset < 0 || offset > c.Len() {
		return false
	}
	return c.chars&bit(offset) != 0
}

// ByteOffset returns the byte offset of the char with index charIndex.
// For charIndex == CharCount() it returns Len(); out of range indices
// yield -1.
func (c Chunk) ByteOffset(charIndex int) int {
	if charIndex < 0 {
		return -1
	}
	m := c.chars
	for ; charIndex > 0 && m != 0; charIndex-- {
		m &= m - 1 // clear lowest set bit
	}
	if charIndex > 0 {
		return -1
	}
	if m == 0 {
		return c.Len()
	}
	return bits.TrailingZeros64(m)
}

// CharOffset returns the number of chars in front of byte offset off.
// Offsets inside a multi-byte rune count the rune they are part of as
// being in front.
func (c Chunk) CharOffset(off int) int {
	if off <= 0 {
		return 0
	}
	return bits.OnesCount64(c.chars & prefixMask(off))
}

// RuneAt decodes the rune starting at byte offset off.
func (c Chunk) RuneAt(off int) (rune, int) {
	if off < 0 || off >= c.Len() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRune(c.text[off:c.n])
}

// LastRune decodes the final rune of the chunk.
func (c Chunk) LastRune() (rune, int) {
	return utf8.DecodeLastRune(c.text[:c.n])
}

// Slice returns a new chunk for [start,end) in chunk-local byte offsets.
func (c Chunk) Slice(start, end int) (Chunk, error) {
	if start < 0 || end < start || end > c.Len() {
		return Chunk{}, ErrIndexOutOfBounds
	}
	if !c.IsCharBoundary(start) || !c.IsCharBoundary(end) {
		return Chunk{}, ErrNotCharBoundary
	}
	var out Chunk
	m := rangeMask(start, end)
	out.chars = (c.chars & m) >> uint(start)
	out.terms = (c.terms & m) >> uint(start)
	out.n = uint8(copy(out.text[:], c.text[start:end]))
	return out, nil
}

// SplitAt splits a chunk into left and right parts at byte offset mid.
func (c Chunk) SplitAt(mid int) (Chunk, Chunk, error) {
	left, err := c.Slice(0, mid)
	if err != nil {
		return Chunk{}, Chunk{}, err
	}
	right, err := c.Slice(mid, c.Len())
	if err != nil {
		return Chunk{}, Chunk{}, err
	}
	return left, right, nil
}

// Concat returns a new chunk with other appended.
//
// The boolean is false if the result would exceed MaxBase; in that case the
// receiver is returned unchanged.
func (c Chunk) Concat(other Chunk) (Chunk, bool) {
	if other.IsEmpty() {
		return c, true
	}
	base := c.Len()
	total := base + other.Len()
	if total > MaxBase {
		return c, false
	}
	out := c
	shift := uint(base)
	out.chars |= other.chars << shift
	out.terms |= other.terms << shift
	copy(out.text[base:total], other.text[:other.n])
	out.n = uint8(total)
	return out, true
}

// --- Bitmap helpers --------------------------------------------------------

func bit(offset int) Bitmap {
	if offset < 0 || offset >= MaxBase {
		return 0
	}
	return Bitmap(1) << uint(offset)
}

func prefixMask(offset int) Bitmap {
	switch {
	case offset <= 0:
		return 0
	case offset >= MaxBase:
		return ^Bitmap(0)
	default:
		return (Bitmap(1) << uint(offset)) - 1
	}
}

func rangeMask(start, end int) Bitmap {
	return prefixMask(end) &^ prefixMask(start)
}
