/*
Package html imports HTML fragments into text buffers.

RegisterFormat adds a "text/html" deserialization format to a buffer. HTML
is reduced to its inner text, as with

	document.getElementById("myNode").innerText

in JavaScript, except that CSS is not interpreted. Inline elements like
<b> or <em> and headings are mapped onto tags of the receiving buffer's tag
table, which are looked up by name:

	bold, italic, underline, strikethrough, monospace,
	superscript, subscript, heading-1 … heading-6

If a tag is missing, it is created only if the format is allowed to create
tags (see Buffer.SetCanCreateTags); otherwise import fails with
textbuffer.ErrUnknownTag.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

For details please refer to the LICENSE file.
*/
package html

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'textbuffer'
func tracer() tracing.Trace {
	return tracing.Select("textbuffer")
}
