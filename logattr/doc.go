/*
Package logattr computes logical text attributes for paragraphs of text:
cursor positions, word and sentence boundaries, white space and line-break
opportunities.

Text buffers do not interpret Unicode segmentation rules themselves; they ask
an Analyzer for the attributes of the paragraph an iterator is located in.
The default analyzer uses the UAX #29 word breaker, the grapheme cluster
breaker and the UAX #14 line breaker of package uax. Sentence boundaries
are found with a small set of rules for terminal punctuation.

An attribute slice for a paragraph of n characters has n+1 entries. Entry i
describes the position in front of character i; entry n describes the
position behind the last character.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the LICENSE file for details.
*/
package logattr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'textbuffer'
func tracer() tracing.Trace {
	return tracing.Select("textbuffer")
}
