package unshred

import (
	"fmt"
	"runtime"
)

// Config controls a full Solve run.
type Config struct {
	// StripWidth is the known strip width. Zero means infer it from seams.
	StripWidth int

	// SeamRatio is the seam detection sensitivity used when inferring the
	// width. Must be greater than 1.
	SeamRatio float64

	// SeamMode selects how seams become a width estimate.
	SeamMode SeamMode

	// Metric scores edge pairs. Nil means AbsDiff.
	Metric Metric

	// Workers is the number of goroutines used for matching. Zero means
	// GOMAXPROCS.
	Workers int

	// MaxStrips rejects images that would produce more strips than this.
	// Zero disables the check.
	MaxStrips int
}

// DefaultConfig infers the width with DefaultSeamRatio, matches with AbsDiff
// and caps the strip count at DefaultMaxStrips.
func DefaultConfig() Config {
	return Config{
		SeamRatio: DefaultSeamRatio,
		SeamMode:  SeamPositions,
		Metric:    AbsDiff{},
		Workers:   runtime.GOMAXPROCS(0),
		MaxStrips: DefaultMaxStrips,
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.StripWidth < 0 {
		return fmt.Errorf("%w: strip width %d is negative", ErrInvalidConfig, c.StripWidth)
	}
	if c.StripWidth == 0 && !(c.SeamRatio > 1) {
		return fmt.Errorf("%w: seam ratio %v must be greater than 1", ErrInvalidConfig, c.SeamRatio)
	}
	if c.SeamMode != SeamPositions && c.SeamMode != SeamSpacing {
		return fmt.Errorf("%w: seam mode %d", ErrInvalidConfig, int(c.SeamMode))
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d is negative", ErrInvalidConfig, c.Workers)
	}
	if c.MaxStrips < 0 {
		return fmt.Errorf("%w: max strips %d is negative", ErrInvalidConfig, c.MaxStrips)
	}
	return nil
}

// MatchOptions returns the subset of c that MatchAll uses.
func (c Config) MatchOptions() MatchOptions {
	return MatchOptions{Metric: c.Metric, Workers: c.Workers, MaxStrips: c.MaxStrips}
}
