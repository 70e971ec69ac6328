package region

import "errors"

var (
	// ErrBadSize indicates a mapping request for a non-positive size.
	ErrBadSize = errors.New("region: size must be positive")
	// ErrClosed indicates use of a mapping after Close.
	ErrClosed = errors.New("region: mapping closed")
)
