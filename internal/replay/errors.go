package replay

import "errors"

// Errors returned or recorded by Replay.
var (
	// ErrMalformedEvent indicates an event lacks a required field. Replay of
	// the whole session is abandoned.
	ErrMalformedEvent = errors.New("malformed event")

	// ErrPositionOutOfEncodingRange indicates an encoded position decoded to a
	// location outside the buffer, typically a column past the encoding limit
	// aliasing into another line. The cursor is clamped and replay continues.
	ErrPositionOutOfEncodingRange = errors.New("position out of encoding range")
)
