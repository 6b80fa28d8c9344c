/*
Package styled holds the styling vocabulary of text buffers: tags, tag tables
and the attribute sets which result from combining tags.

A Tag is a named (or anonymous) bundle of attribute values. Only attributes
which have explicitly been set on a tag take part in styling. Tags live in a
TagTable, which may be shared between several buffers. Every tag has a
priority, which is its index within the table; priorities of a table always
form a dense permutation of 0…Size()-1.

Effective attributes for a text position are computed by starting from a
default attribute set and applying every tag covering the position in
ascending order of priority (see Attributes.Apply). Where two tags set the
same attribute, the tag with the higher priority wins.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

For details please refer to the LICENSE file.
*/
package styled

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'textbuffer'
func tracer() tracing.Trace {
	return tracing.Select("textbuffer")
}

// StyleError is an error type for package styled.
type StyleError string

func (e StyleError) Error() string {
	return string(e)
}

// ErrTagExists is flagged if a tag with the same name is already present in a table.
const ErrTagExists = StyleError("a tag with this name already exists in the tag table")

// ErrForeignTag is flagged if a tag is already a member of a tag table.
const ErrForeignTag = StyleError("tag already belongs to a tag table")

// ErrUnknownProperty is flagged for property names which are not recognized.
const ErrUnknownProperty = StyleError("unknown tag property")

// ErrIllegalValue is flagged for property values which cannot be parsed.
const ErrIllegalValue = StyleError("illegal value for tag property")
