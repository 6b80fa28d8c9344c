package chunk

import "errors"

// Errors returned by chunk construction and editing.
var (
	ErrInvalidUTF8      = errors.New("chunk: invalid UTF-8")
	ErrChunkTooLarge    = errors.New("chunk: more than MaxBase bytes")
	ErrIndexOutOfBounds = errors.New("chunk: byte offset out of range")
	ErrNotCharBoundary  = errors.New("chunk: byte offset inside a UTF-8 sequence")
)
