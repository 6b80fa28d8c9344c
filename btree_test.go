package textbuffer

import (
	"bytes"
	"image"
	"io"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textbuffer/chunk"
	"github.com/npillmayer/textbuffer/pixbuf"
)

// model mirrors a buffer as a slice of runes, together with the tag state
// of every char.
type model struct {
	text   []rune
	tagged []bool
}

func (m *model) insert(pos int, s string) {
	rs := []rune(s)
	inside := pos > 0 && pos < len(m.text) && m.tagged[pos-1] && m.tagged[pos]
	flags := make([]bool, len(rs))
	for i := range flags {
		flags[i] = inside
	}
	m.text = append(m.text[:pos:pos], append(rs, m.text[pos:]...)...)
	m.tagged = append(m.tagged[:pos:pos], append(flags, m.tagged[pos:]...)...)
}

func (m *model) delete(from, to int) {
	m.text = append(m.text[:from:from], m.text[to:]...)
	m.tagged = append(m.tagged[:from:from], m.tagged[to:]...)
}

func (m *model) ranges() [][2]int {
	var ranges [][2]int
	from := -1
	for i := 0; i <= len(m.tagged); i++ {
		on := i < len(m.tagged) && m.tagged[i]
		if on && from < 0 {
			from = i
		} else if !on && from >= 0 {
			ranges = append(ranges, [2]int{from, i})
			from = -1
		}
	}
	return ranges
}

func sameRanges(a, b [][2]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var fragments = []string{"a", "bc", "def\n", "\n", "\n\n", "xyz\nuvw", "g h", "\u00fc", "\u20ac\u20ac"}

func TestRandomEdits(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	rnd := rand.New(rand.NewPCG(1, 2))
	b := newTestBuffer(t, "")
	tag, _ := b.CreateTag("t")
	m := &model{}
	for step := 0; step < 400; step++ {
		n := len(m.text)
		switch op := rnd.IntN(10); {
		case op < 5 || n < 10:
			pos := rnd.IntN(n + 1)
			s := fragments[rnd.IntN(len(fragments))]
			it := b.IterAtOffset(pos)
			if err := b.Insert(&it, s); err != nil {
				t.Fatalf("step %d: insert: %v", step, err)
			}
			m.insert(pos, s)
		case op < 7:
			from := rnd.IntN(n)
			to := min(n, from+rnd.IntN(20))
			s, e := b.IterAtOffset(from), b.IterAtOffset(to)
			if err := b.Delete(&s, &e); err != nil {
				t.Fatalf("step %d: delete: %v", step, err)
			}
			m.delete(from, to)
		default:
			from := rnd.IntN(n)
			to := min(n, from+rnd.IntN(30))
			add := op < 9
			if add {
				b.ApplyTag(tag, b.IterAtOffset(from), b.IterAtOffset(to))
			} else {
				b.RemoveTag(tag, b.IterAtOffset(from), b.IterAtOffset(to))
			}
			for i := from; i < to; i++ {
				m.tagged[i] = add
			}
		}
		if err := b.Check(); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		if s := allText(b); s != string(m.text) {
			t.Fatalf("step %d: text is %q, expected %q", step, s, string(m.text))
		}
		if b.CharCount() != len(m.text) {
			t.Fatalf("step %d: char count %d, expected %d", step, b.CharCount(), len(m.text))
		}
		if r := tagRanges(b, tag); !sameRanges(r, m.ranges()) {
			t.Fatalf("step %d: tag ranges %v, expected %v", step, r, m.ranges())
		}
	}
	lines := 1
	for _, r := range m.text {
		if r == '\n' {
			lines++
		}
	}
	if b.LineCount() != lines {
		t.Errorf("expected %d lines, have %d", lines, b.LineCount())
	}
}

func TestLineSummaries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, "ab\ncd")
	it := b.IterAtOffset(4)
	if err := b.InsertPixbuf(&it, pixbuf.New(image.NewRGBA(image.Rect(0, 0, 1, 1)))); err != nil {
		t.Fatal(err)
	}
	first, last := b.tree.firstLine(), b.tree.lastLine()
	if first.chars != 3 || first.bytes != 3 {
		t.Errorf("first line counts %d chars/%d bytes", first.chars, first.bytes)
	}
	if last.chars != 3 || last.bytes != 2+objectReplacementBytes {
		t.Errorf("last line counts %d chars/%d bytes", last.chars, last.bytes)
	}
	checkBuffer(t, b)
	// sneak a terminator into the last line
	s := last.segs
	for s.next != nil {
		s = s.next
	}
	nl, _ := chunk.New("\n")
	s.next = newTextSegment(nl)
	last.recount()
	if err := b.Check(); err == nil || !strings.Contains(err.Error(), "terminators") {
		t.Errorf("expected a complaint about line terminators, have %v", err)
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, strings.Repeat("ab\u00e4\n", 300))
	for offset := 0; offset <= b.CharCount(); offset += 7 {
		it := b.IterAtOffset(offset)
		if it.Offset() != offset {
			t.Fatalf("offset %d reported as %d", offset, it.Offset())
		}
		again := b.IterAtLineOffset(it.Line(), it.LineOffset())
		if !again.Equal(it) {
			t.Fatalf("offset %d: line/offset %d:%d does not round trip", offset, it.Line(), it.LineOffset())
		}
	}
}

func TestReader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	text := strings.Repeat("some line of text\n", 50)
	b := newTestBuffer(t, text)
	start, end := b.Bounds()
	data, err := io.ReadAll(b.Reader(start, end))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != text {
		t.Errorf("reader delivered %d bytes, expected %d", len(data), len(text))
	}
	data, _ = io.ReadAll(b.Reader(b.IterAtOffset(23), b.IterAtOffset(5)))
	if string(data) != text[5:23] {
		t.Errorf("reader on a partial range delivered %q", data)
	}
}

func TestWriteDot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := newTestBuffer(t, strings.Repeat("x\n", 40))
	var buf bytes.Buffer
	if err := b.WriteDot(&buf); err != nil {
		t.Fatal(err)
	}
	dot := buf.String()
	if !strings.HasPrefix(dot, "strict digraph {") || !strings.HasSuffix(strings.TrimSpace(dot), "}") {
		t.Errorf("output is not a DOT graph:\n%s", dot)
	}
}
