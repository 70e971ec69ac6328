package alloc

import "errors"

// Exhaustion is not an error: Allocate and Reallocate report it by returning
// nil. The errors below cover configuration, debug-mode misuse detection and
// invariant checking.
var (
	// ErrBadConfig indicates a Config that failed validation.
	ErrBadConfig = errors.New("alloc: invalid config")

	// ErrNoRegion indicates a nil base address paired with a non-zero size.
	ErrNoRegion = errors.New("alloc: no region")

	// ErrBadPointer indicates a payload that this pool did not hand out.
	// Only raised when Config.Debug is set.
	ErrBadPointer = errors.New("alloc: pointer not owned by pool")

	// ErrDoubleFree indicates a payload whose block is already free.
	// Only raised when Config.Debug is set.
	ErrDoubleFree = errors.New("alloc: block already free")

	// ErrCorrupt indicates Check found the pool bookkeeping inconsistent.
	ErrCorrupt = errors.New("alloc: pool corrupt")
)
