package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a header.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrBadMagic indicates a header whose state field is neither allocated nor free.
	ErrBadMagic = errors.New("format: bad header magic")
	// ErrMisaligned indicates a header offset that breaks HeaderAlign.
	ErrMisaligned = errors.New("format: misaligned header")
)
