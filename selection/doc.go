/*
Package selection holds the data model of selections and clipboards: atoms,
target lists and typed selection payloads.

A TargetList advertises the content types a selection owner is able to
deliver. A Payload is the inert value which is exchanged with a transport;
it carries raw bytes together with the atoms describing them. Conversion
helpers put text, images and URI lists into payloads and read them back,
taking care of character sets and line endings.

The transport which moves payloads between processes is not part of this
package. Clipboard is the interface a transport implements; LocalClipboard
is an in-process implementation.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

For details please refer to the LICENSE file.
*/
package selection

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'textbuffer'
func tracer() tracing.Trace {
	return tracing.Select("textbuffer")
}

// SelectionError is an error type for package selection.
type SelectionError string

func (e SelectionError) Error() string {
	return string(e)
}

// ErrNotText is flagged if a payload does not hold text.
const ErrNotText = SelectionError("selection payload does not hold text")

// ErrNotImage is flagged if a payload does not hold an image.
const ErrNotImage = SelectionError("selection payload does not hold an image")

// ErrNotURIs is flagged if a payload does not hold a list of URIs.
const ErrNotURIs = SelectionError("selection payload does not hold URIs")

// ErrNotTargets is flagged if a payload does not hold a list of targets.
const ErrNotTargets = SelectionError("selection payload does not hold targets")

// ErrCharset is flagged if text cannot be converted from or to a character set.
const ErrCharset = SelectionError("character set conversion failed")
