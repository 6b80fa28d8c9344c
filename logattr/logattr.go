package logattr

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/uax"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax14"
	"github.com/npillmayer/uax/uax29"
)

// LogAttr holds the logical attributes of a position between two characters.
type LogAttr struct {
	IsLineBreak      bool // a line may be wrapped here
	IsMandatoryBreak bool // a line must be wrapped here
	IsCursorPosition bool // a cursor may be placed here (grapheme boundary)
	IsWhite          bool // the following character is white space
	IsWordStart      bool
	IsWordEnd        bool
	IsSentenceStart  bool
	IsSentenceEnd    bool
}

// Analyzer computes the logical attributes of a paragraph of text.
// The result has one entry more than text has characters.
type Analyzer interface {
	Analyze(text string) []LogAttr
}

// UAXAnalyzer is the default Analyzer, based on the Unicode annexes for text
// segmentation.
type UAXAnalyzer struct{}

var setupGraphemes sync.Once

// NewUAXAnalyzer creates the default analyzer.
func NewUAXAnalyzer() *UAXAnalyzer {
	setupGraphemes.Do(grapheme.SetupGraphemeClasses)
	return &UAXAnalyzer{}
}

// Analyze is part of interface Analyzer.
func (a *UAXAnalyzer) Analyze(text string) []LogAttr {
	setupGraphemes.Do(grapheme.SetupGraphemeClasses)
	runes := []rune(text)
	attrs := make([]LogAttr, len(runes)+1)
	if len(runes) == 0 {
		attrs[0].IsCursorPosition = true
		return attrs
	}
	for i, r := range runes {
		attrs[i].IsWhite = unicode.IsSpace(r)
	}
	a.cursorPositions(text, attrs)
	a.words(text, attrs)
	a.lineBreaks(text, runes, attrs)
	sentences(runes, attrs)
	return attrs
}

// segments runs a segmenter over text and calls f with the rune range of
// every segment.
func segments(text string, breaker uax.UnicodeBreaker, f func(from, to int, seg []byte)) {
	segmenter := segment.NewSegmenter(breaker)
	segmenter.Init(strings.NewReader(text))
	total := utf8.RuneCountInString(text)
	pos := 0
	for segmenter.Next() {
		seg := segmenter.Bytes()
		n := utf8.RuneCount(seg)
		if n == 0 {
			continue
		}
		if pos+n > total {
			tracer().Errorf("segmenter produced more text than it was given")
			n = total - pos
		}
		f(pos, pos+n, seg)
		pos += n
	}
}

func (a *UAXAnalyzer) cursorPositions(text string, attrs []LogAttr) {
	attrs[0].IsCursorPosition = true
	attrs[len(attrs)-1].IsCursorPosition = true
	segments(text, grapheme.NewBreaker(1), func(from, to int, _ []byte) {
		attrs[from].IsCursorPosition = true
		attrs[to].IsCursorPosition = true
	})
}

func (a *UAXAnalyzer) words(text string, attrs []LogAttr) {
	segments(text, uax29.NewWordBreaker(1), func(from, to int, seg []byte) {
		if !isWord(seg) {
			return
		}
		attrs[from].IsWordStart = true
		attrs[to].IsWordEnd = true
	})
}

func isWord(seg []byte) bool {
	for len(seg) > 0 {
		r, w := utf8.DecodeRune(seg)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
		seg = seg[w:]
	}
	return false
}

func (a *UAXAnalyzer) lineBreaks(text string, runes []rune, attrs []LogAttr) {
	segments(text, uax14.NewLineWrap(), func(from, to int, _ []byte) {
		if from > 0 {
			attrs[from].IsLineBreak = true
		}
	})
	for i, r := range runes {
		if isTerminator(r) && i+1 < len(attrs) {
			attrs[i+1].IsLineBreak = true
			attrs[i+1].IsMandatoryBreak = true
		}
	}
}

func isTerminator(r rune) bool {
	return r == '\n' || r == '\u2029'
}
