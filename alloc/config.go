package alloc

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/joshuapare/poolkit/internal/format"
)

// Config tunes a Pool.
type Config struct {
	// Name labels the pool in log output.
	Name string

	// SplitThreshold is the smallest leftover, beyond one header, worth
	// turning into its own free block. A free block of usable size s chosen
	// for a request of need bytes is split only when s-need exceeds
	// HeaderSize+SplitThreshold; otherwise the caller gets the whole block.
	SplitThreshold int

	// Debug validates every pointer passed to Deallocate and Reallocate and
	// panics on foreign pointers and double frees. Correct programs behave
	// identically with it off.
	Debug bool

	// Logger receives debug-level allocator events. Nil uses the module logger.
	Logger *slog.Logger
}

// Predefined configurations.
var (
	// ConfigCompact splits whenever the leftover can hold a header plus one
	// aligned unit. Lowest internal fragmentation, more small free blocks.
	ConfigCompact = Config{
		Name:           "compact",
		SplitThreshold: 0,
	}

	// ConfigBalanced keeps leftovers of at least two aligned units.
	ConfigBalanced = Config{
		Name:           "balanced",
		SplitThreshold: format.MaxAlign,
	}

	// ConfigCoarse avoids splinters below 256 bytes, trading internal
	// fragmentation for shorter free lists.
	ConfigCoarse = Config{
		Name:           "coarse",
		SplitThreshold: 256,
	}

	// DefaultConfig is used when NewPool is given a nil config.
	DefaultConfig = ConfigBalanced
)

// MaxSplitThreshold is the largest SplitThreshold Validate accepts. Larger
// values would overflow when a header is added to them.
const MaxSplitThreshold = math.MaxInt - format.HeaderSize

// Validate reports whether c is usable.
func (c Config) Validate() error {
	if c.SplitThreshold < 0 {
		return fmt.Errorf("%w: negative split threshold %d", ErrBadConfig, c.SplitThreshold)
	}
	if c.SplitThreshold > MaxSplitThreshold {
		return fmt.Errorf("%w: split threshold %d above %d", ErrBadConfig, c.SplitThreshold, MaxSplitThreshold)
	}
	return nil
}
