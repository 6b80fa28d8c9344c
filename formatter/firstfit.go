package formatter

import (
	"strings"
	"sync"
	"unicode"

	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax11"
	"github.com/npillmayer/uax/uax14"
)

var setupGraphemes sync.Once

func stringWidth(s string, context *uax11.Context) int {
	if s == "" {
		return 0
	}
	setupGraphemes.Do(grapheme.SetupGraphemeClasses)
	return uax11.StringWidth(grapheme.StringFromString(s), context)
}

/*
firstFit breaks a paragraph into lines of at most linewidth ‘en’s.
Wikipedia:

	1. |  SpaceLeft := LineWidth
	2. |  for each Word in Text
	3. |      if (Width(Word) + SpaceWidth) > SpaceLeft
	4. |           insert line break before Word in Text
	5. |           SpaceLeft := LineWidth - Width(Word)
	6. |      else
	7. |           SpaceLeft := SpaceLeft - (Width(Word) + SpaceWidth)

Trailing white space of a fragment may hang into the margin. Fragments
longer than a line are put on a line of their own. The result holds the
byte positions of the line ends, the last one being len(para).
*/
func firstFit(para string, linewidth int, context *uax11.Context) []int {
	linewrap := uax14.NewLineWrap()
	segmenter := segment.NewSegmenter(linewrap)
	segmenter.Init(strings.NewReader(para))
	spaceleft := linewidth
	breaks := make([]int, 0, 20)
	prevpos := 0
	linestart := true
	for segmenter.Next() {
		frag := string(segmenter.Bytes())
		if frag == "" {
			continue
		}
		word := stringWidth(strings.TrimRightFunc(frag, unicode.IsSpace), context)
		if !linestart && word > spaceleft { // fragment overshoots line
			breaks = append(breaks, prevpos)
			T().Debugf("break @ %d", prevpos)
			spaceleft = linewidth
		}
		spaceleft -= stringWidth(frag, context)
		linestart = false
		prevpos += len(frag)
	}
	return append(breaks, len(para))
}
