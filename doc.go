/*
Package textbuffer implements the text storage of a rich-text editor: a
buffer holding lines of UTF-8 text interleaved with embedded images and
child anchors, annotated with overlapping tags and indexed by marks.

Buffer

A Buffer stores its content in a balanced tree of lines. Every line is a
short list of segments: runs of text, embedded objects, marks and tag
toggles. Tree nodes aggregate line counts, character counts and, for every
tag, the number of toggle segments below them. This makes locating a
character offset or a line number, as well as finding the next occurence of
a tag, logarithmic in the size of the buffer.

Lines end in either '\n' or the Unicode paragraph separator U+2029. The last
line of a buffer has no terminator; an empty buffer consists of one empty
line.

Iterators

All positional access happens through iterators. An Iter is a small value
which may be copied freely. Iterators are invalidated by any change of the
buffer's text; using a stale iterator is a programming error which is
reported to the trace and otherwise treated as the end of the buffer.
Changes which only rearrange marks or tags keep iterators valid.

Tags and marks

Tags live in a styled.TagTable which may be shared by several buffers.
Applying a tag to a range of text inserts a pair of toggle segments.
Marks are positions which survive edits; their gravity decides on which
side of text inserted at the mark's position the mark ends up. Every
buffer has two marks "insert" and "selection_bound" which describe the
cursor and the selection.

Rich text

Buffers serialize ranges of text together with their tags and images into
a self-describing binary format, which may be inserted into another buffer
sharing the same tag set. This is used for the clipboard.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
this list of conditions and the following disclaimer in the documentation
and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
contributors may be used to endorse or promote products derived from
this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

*/
package textbuffer

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// BufferError is an error type for the textbuffer module
type BufferError string

func (e BufferError) Error() string {
	return string(e)
}

// ErrInvalidUTF8 is flagged if text to insert is not well-formed UTF-8.
// The buffer is left unchanged.
const ErrInvalidUTF8 = BufferError("text is not valid UTF-8")

// ErrUnknownTag is flagged if rich text refers to a tag which is not present
// in the receiving buffer's tag table and the buffer may not create tags.
const ErrUnknownTag = BufferError("unknown tag")

// ErrMarkExists is flagged when creating a mark with a name already in use.
const ErrMarkExists = BufferError("a mark with this name already exists")

// ErrUnknownFormat is flagged for serialization formats which are not
// registered with a buffer.
const ErrUnknownFormat = BufferError("unknown serialization format")

// ErrTagsetMismatch is flagged if rich text has been produced for a different
// tag set than the receiving format expects.
const ErrTagsetMismatch = BufferError("rich text has been serialized for a different tag set")

// ErrCorruptRichText is flagged for rich text data which cannot be parsed.
const ErrCorruptRichText = BufferError("corrupt rich text data")

// ErrReentrantMutation is flagged if an observer tries to modify a buffer
// while it is being notified of a change of that buffer.
const ErrReentrantMutation = BufferError("buffer modified from within a change notification")

// ErrIllegalArguments is flagged whenever function parameters are invalid.
const ErrIllegalArguments = BufferError("illegal arguments")

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
