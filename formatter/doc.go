/*
Package formatter prints ranges of a text buffer on output devices with
fixed-width fonts. Think of it in terms of `fmt.Println` for the styled
content of a buffer.

Every line of the buffer is a paragraph. Paragraphs are wrapped at a line
width, using the break opportunities of UAX#14 and character widths of
UAX#11. Runs of uniformly attributed text are handed to a Format, which
renders the effective attributes of the run as best it can: the console
format uses terminal colors and text attributes, the HTML format uses
inline elements.

This package does not constitute a typesetter. It will not deal with
fonts, glyphing, variable text widths or elaborate line-breaking
algorithms.

	buf := textbuffer.New(textbuffer.Options{})
	...
	start, end := buf.Bounds()
	formatter.Print(os.Stdout, start, end, nil)

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

For details please refer to the LICENSE file.
*/
package formatter

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}
