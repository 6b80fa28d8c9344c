/*
Package pixbuf holds images which are embedded into text buffers, together
with a small registry of image codecs.

Text buffers treat images as opaque handles. Whenever image data has to be
exchanged, e.g. for the clipboard or for rich-text serialization, a codec
from the registry encodes or decodes it. PNG is always the first format of
the registry and is used wherever a lossless default is needed.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

For details please refer to the LICENSE file.
*/
package pixbuf

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'textbuffer'
func tracer() tracing.Trace {
	return tracing.Select("textbuffer")
}
