/*
Package textfile loads UTF-8 text files into text buffers and saves buffer
ranges back to files.

Fragments of a file are read on a helper goroutine and broadcast to the
loader, which inserts them at the end of the buffer. Buffers are not safe for
concurrent use, so every modification happens on the goroutine calling Load.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

For details please refer to the LICENSE file.
*/
package textfile

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'textbuffer'
func tracer() tracing.Trace {
	return tracing.Select("textbuffer")
}
