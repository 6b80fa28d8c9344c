package logattr

import (
	"github.com/npillmayer/textbuffer/styled"
	"golang.org/x/text/unicode/bidi"
)

// BaseDirection finds the direction of the first strong character of text
// (rules P2 and P3 of UAX #9). Text without strong characters yields
// styled.DirNone.
func BaseDirection(text string) styled.Direction {
	for _, r := range text {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			return styled.DirLTR
		case bidi.R, bidi.AL:
			return styled.DirRTL
		}
	}
	return styled.DirNone
}
