package formatter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textbuffer"
	"github.com/npillmayer/uax/uax11"
)

func foxBuffer(t *testing.T) *textbuffer.Buffer {
	b := textbuffer.New(textbuffer.Options{})
	it := b.StartIter()
	if err := b.Insert(&it, "The quick brown fox jumps over the lazy dog"); err != nil {
		t.Fatal(err)
	}
	bold, _ := b.CreateTag("bold")
	bold.SetWeight(700)
	b.ApplyTag(bold, b.IterAtOffset(4), b.IterAtOffset(9))
	return b
}

func TestFirstFit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	breaks := firstFit("The quick brown fox jumps over the lazy dog", 20, uax11.LatinContext)
	if len(breaks) != 3 || breaks[0] != 20 || breaks[1] != 40 || breaks[2] != 43 {
		t.Errorf("breaks = %v", breaks)
	}
	breaks = firstFit("abcdefghij xy", 5, uax11.LatinContext)
	if len(breaks) != 2 || breaks[0] != 11 {
		t.Errorf("overlong words must get a line of their own, breaks = %v", breaks)
	}
	if w := stringWidth("", uax11.LatinContext); w != 0 {
		t.Errorf("empty string has width %d", w)
	}
	breaks = firstFit("", 10, uax11.LatinContext)
	if len(breaks) != 1 || breaks[0] != 0 {
		t.Errorf("empty paragraph, breaks = %v", breaks)
	}
}

func TestConsole(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()
	b := foxBuffer(t)
	start, end := b.Bounds()
	var out bytes.Buffer
	config := &Config{LineWidth: 20, Context: uax11.LatinContext}
	if err := Print(&out, start, end, config); err != nil {
		t.Fatal(err)
	}
	if out.String() != "The quick brown fox\njumps over the lazy\ndog\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestConsoleColors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	noColor := color.NoColor
	color.NoColor = true // stdout of tests is not a terminal
	defer func() { color.NoColor = noColor }()
	b := foxBuffer(t)
	start, end := b.Bounds()
	var out bytes.Buffer
	console := NewConsoleFixedWidthFormat(nil, true)
	if err := Output(&out, start, end, &Config{}, console); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "The \x1b[1mquick\x1b[0m brown") {
		t.Errorf("expected 'quick' in bold, output = %q", out.String())
	}
	if !strings.HasSuffix(out.String(), "brown fox jumps over the lazy dog\n") {
		t.Errorf("attributes must be reset after a styled run, output = %q", out.String())
	}
}

func TestParagraphs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := textbuffer.New(textbuffer.Options{})
	it := b.StartIter()
	b.Insert(&it, "one\n\ntwo secret\n")
	hidden, _ := b.CreateTag("hidden")
	hidden.SetInvisible(true)
	b.ApplyTag(hidden, b.IterAtOffset(8), b.IterAtOffset(15))
	start, end := b.Bounds()
	var out bytes.Buffer
	console := NewConsoleFixedWidthFormat(&PlainCodes, false)
	if err := Output(&out, start, end, &Config{LineWidth: 30}, console); err != nil {
		t.Fatal(err)
	}
	if out.String() != "one\n\ntwo\n" {
		t.Errorf("output = %q", out.String())
	}
	out.Reset()
	if err := Print(&out, start, end, &Config{LineWidth: 30, Context: uax11.LatinContext}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "one\n\ntwo") {
		t.Errorf("blank lines must be printed, output = %q", out.String())
	}
	out.Reset()
	if err := Output(&out, b.IterAtOffset(1), b.IterAtOffset(2), &Config{}, console); err != nil {
		t.Fatal(err)
	}
	if out.String() != "n\n" {
		t.Errorf("partial output = %q", out.String())
	}
}

func TestBidiCodes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := textbuffer.New(textbuffer.Options{})
	it := b.StartIter()
	b.Insert(&it, "abc\nשלום")
	start, end := b.Bounds()
	var out bytes.Buffer
	console := NewConsoleFixedWidthFormat(&DefaultCodes, false)
	if err := Output(&out, start, end, &Config{Bidi: true}, console); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	if !strings.HasPrefix(s, "\x1b[8l\x1b[1 kabc\n\x1b[2 k") {
		t.Errorf("unexpected control codes in %q", s)
	}
}

func TestHTML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	b := foxBuffer(t)
	it := b.EndIter()
	b.Insert(&it, " <&>")
	start, end := b.Bounds()
	var out bytes.Buffer
	if err := NewHTML().Print(&out, start, end, &Config{}); err != nil {
		t.Fatal(err)
	}
	expected := "<pre>\nThe <b>quick</b> brown fox jumps over the lazy dog &lt;&amp;&gt;\n</pre>\n"
	if out.String() != expected {
		t.Errorf("output = %q", out.String())
	}
}

func TestLineWidthHeuristics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	for _, c := range [][2]int{{100, 90}, {40, 35}, {20, 20}, {5, 10}} {
		if w := lineWidthFor(c[0]); w != c[1] {
			t.Errorf("terminal width %d: line width %d, expected %d", c[0], w, c[1])
		}
	}
	if config := ConfigFromTerminal(); config.LineWidth < 10 {
		t.Errorf("line width %d too small", config.LineWidth)
	}
}
