package logattr

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textbuffer/styled"
)

func positions(attrs []LogAttr, pred func(LogAttr) bool) []int {
	var pos []int
	for i, a := range attrs {
		if pred(a) {
			pos = append(pos, i)
		}
	}
	return pos
}

func equal(a, b []int) bool {
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

func TestWordBoundaries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	attrs := NewUAXAnalyzer().Analyze("Hello World")
	if len(attrs) != 12 {
		t.Fatalf("expected 12 attributes, have %d", len(attrs))
	}
	starts := positions(attrs, func(a LogAttr) bool { return a.IsWordStart })
	ends := positions(attrs, func(a LogAttr) bool { return a.IsWordEnd })
	if !equal(starts, []int{0, 6}) {
		t.Errorf("unexpected word starts %v", starts)
	}
	if !equal(ends, []int{5, 11}) {
		t.Errorf("unexpected word ends %v", ends)
	}
	if !attrs[5].IsWhite || attrs[4].IsWhite {
		t.Errorf("white space attribute wrong")
	}
}

func TestCursorPositionsSkipCombiningMarks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textbuffer")
	defer teardown()
	//
	attrs := NewUAXAnalyzer().Analyze("e\u0301x") // e + combining acute, x
	if attrs[1].IsCursorPosition {
		t.Errorf("no cursor position expected between base and combining mark")
	}
	if !attrs[0].IsCursorPosition || !attrs[2].IsCursorPosition || !attrs[3].IsCursorPosition {
		t.Errorf("expected cursor positions at 0, 2, 3")
	}
}

func TestSentences(t *testing.T) {
	text := "Hi there. How are you?  Fine\n"
	attrs := NewUAXAnalyzer().Analyze(text)
	starts := positions(attrs, func(a LogAttr) bool { return a.IsSentenceStart })
	ends := positions(attrs, func(a LogAttr) bool { return a.IsSentenceEnd })
	if !equal(starts, []int{0, 10, 24}) {
		t.Errorf("unexpected sentence starts %v", starts)
	}
	if !equal(ends, []int{9, 22, 28}) {
		t.Errorf("unexpected sentence ends %v", ends)
	}
}

func TestSentenceNeedsSpaceAfterPeriod(t *testing.T) {
	attrs := make([]LogAttr, 5)
	sentences([]rune("3.14"), attrs)
	ends := positions(attrs, func(a LogAttr) bool { return a.IsSentenceEnd })
	if !equal(ends, []int{4}) {
		t.Errorf("decimal point must not end a sentence: %v", ends)
	}
}

func TestMandatoryBreakAfterNewline(t *testing.T) {
	attrs := NewUAXAnalyzer().Analyze("ab\ncd")
	if !attrs[3].IsMandatoryBreak || !attrs[3].IsLineBreak {
		t.Errorf("expected mandatory break after newline")
	}
	if attrs[1].IsLineBreak {
		t.Errorf("no break opportunity expected inside a word")
	}
}

type countingAnalyzer struct{ calls int }

func (c *countingAnalyzer) Analyze(text string) []LogAttr {
	c.calls++
	return make([]LogAttr, len([]rune(text))+1)
}

func TestCacheRemembersLastParagraph(t *testing.T) {
	inner := &countingAnalyzer{}
	cache := NewCache(inner)
	cache.Analyze("abc")
	cache.Analyze("abc")
	if inner.calls != 1 || cache.Hits() != 1 {
		t.Fatalf("expected one analysis and one hit, have %d/%d", inner.calls, cache.Hits())
	}
	cache.Analyze("xyz")
	cache.Invalidate()
	cache.Analyze("xyz")
	if inner.calls != 3 {
		t.Fatalf("expected 3 analyses, have %d", inner.calls)
	}
}

func TestBaseDirection(t *testing.T) {
	if d := BaseDirection("123 abc"); d != styled.DirLTR {
		t.Errorf("expected LTR, got %v", d)
	}
	if d := BaseDirection("  שלום"); d != styled.DirRTL {
		t.Errorf("expected RTL, got %v", d)
	}
	if d := BaseDirection("42!"); d != styled.DirNone {
		t.Errorf("expected no direction, got %v", d)
	}
}
