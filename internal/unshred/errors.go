package unshred

import (
	"errors"

	"github.com/ironsheep/image-unshred/internal/pixmat"
)

// Sentinel errors. Callers match them with errors.Is; returned errors wrap
// them with the offending values.
var (
	// ErrInvalidImage indicates empty or non-rectangular pixel data.
	ErrInvalidImage = pixmat.ErrInvalidImage

	// ErrInsufficientData indicates the image cannot be cut into strips:
	// too few columns to infer a width, no seams detected, or a width that
	// does not divide the image.
	ErrInsufficientData = errors.New("unshred: insufficient data")

	// ErrDegenerateMatch indicates no adjacency could be established, e.g.
	// a single strip or matching that has not run.
	ErrDegenerateMatch = errors.New("unshred: no strip adjacency could be established")

	// ErrCycleDetected indicates chain assembly looped without reaching the
	// rightmost strip.
	ErrCycleDetected = errors.New("unshred: cycle detected during chain assembly")

	// ErrTooManyStrips indicates the strip count exceeds the configured bound.
	ErrTooManyStrips = errors.New("unshred: too many strips")

	// ErrInvalidConfig indicates an out-of-range configuration value.
	ErrInvalidConfig = errors.New("unshred: invalid configuration")
)
