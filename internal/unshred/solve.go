package unshred

import (
	"context"
	"fmt"

	"github.com/ironsheep/image-unshred/internal/pixmat"
)

// Compositor receives the strips of a solved image in left-to-right order
// and turns them into an output.
type Compositor interface {
	Compose(strips []*Strip) error
}

// Result is a solved image.
type Result struct {
	// Width is the strip width used, given or inferred.
	Width int

	// WidthInferred is true when Width came from seam detection.
	WidthInferred bool

	// Order lists strip identities left to right.
	Order []int

	// Leftmost and Rightmost are the detected chain endpoints.
	Leftmost  int
	Rightmost int

	// Set holds the matched strips.
	Set *StripSet
}

// Strips returns the strips in solved order.
func (r *Result) Strips() []*Strip {
	return r.Set.Ordered(r.Order)
}

// Solve runs the whole pipeline on m: width inference when needed,
// partition, matching, endpoint detection and chain assembly. ctx is checked
// between phases.
func Solve(ctx context.Context, m *pixmat.Matrix, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: nil matrix", ErrInvalidImage)
	}

	res := &Result{Width: cfg.StripWidth}
	if res.Width == 0 {
		w, err := EstimateStripWidth(m, cfg.SeamRatio, cfg.SeamMode)
		if err != nil {
			return nil, fmt.Errorf("failed to infer strip width: %w", err)
		}
		res.Width, res.WidthInferred = w, true
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	ss, err := Partition(m, res.Width)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := ss.MatchAll(cfg.MatchOptions()); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Leftmost, res.Rightmost, err = ss.FindEndpoints()
	if err != nil {
		return nil, err
	}
	res.Order, err = ss.walk(res.Leftmost, res.Rightmost)
	if err != nil {
		return nil, err
	}
	res.Set = ss
	return res, nil
}

// Reassemble solves m and hands the ordered strips to c. Nothing reaches the
// compositor when solving fails.
func Reassemble(ctx context.Context, m *pixmat.Matrix, cfg Config, c Compositor) (*Result, error) {
	res, err := Solve(ctx, m, cfg)
	if err != nil {
		return nil, err
	}
	if err := c.Compose(res.Strips()); err != nil {
		return nil, fmt.Errorf("failed to compose result: %w", err)
	}
	return res, nil
}
