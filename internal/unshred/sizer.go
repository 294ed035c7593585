package unshred

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/image-unshred/internal/pixmat"
)

// SeamMode selects how detected seams are turned into a strip width.
type SeamMode int

const (
	// SeamPositions averages the column indices of the detected seams.
	SeamPositions SeamMode = iota

	// SeamSpacing averages the gaps between consecutive seams, counting the
	// image's left edge as the first boundary.
	SeamSpacing
)

func (m SeamMode) String() string {
	switch m {
	case SeamSpacing:
		return "spacing"
	default:
		return "positions"
	}
}

// ParseSeamMode is the inverse of SeamMode.String.
func ParseSeamMode(s string) (SeamMode, error) {
	switch strings.ToLower(s) {
	case "", "positions":
		return SeamPositions, nil
	case "spacing":
		return SeamSpacing, nil
	default:
		return SeamPositions, fmt.Errorf("%w: unknown seam mode %q", ErrInvalidConfig, s)
	}
}

// DefaultSeamRatio is the seam sensitivity used when none is configured.
// Values between 1.3 and 1.65 work well on photographs.
const DefaultSeamRatio = 1.5

// FindSeams returns the column indices i where the difference between
// columns i and i+1 stands out from its neighbours: it exceeds ratio times
// the mean of the differences at i-1, i and i+1.
func FindSeams(m *pixmat.Matrix, ratio float64) ([]int, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil matrix", ErrInvalidImage)
	}
	if m.Cols() < 3 {
		return nil, fmt.Errorf("%w: need at least 3 columns to find seams, have %d", ErrInsufficientData, m.Cols())
	}

	diffs := make(map[int]float64)
	diff := func(i int) float64 {
		if v, ok := diffs[i]; ok {
			return v
		}
		v := m.ColumnDiff(i, i+1)
		diffs[i] = v
		return v
	}

	var seams []int
	triple := make([]float64, 3)
	for i := 1; i <= m.Cols()-3; i++ {
		triple[0], triple[1], triple[2] = diff(i-1), diff(i), diff(i+1)
		if triple[1] > ratio*stat.Mean(triple, nil) {
			seams = append(seams, i)
		}
	}
	return seams, nil
}

// EstimateStripWidth guesses the strip width of a shredded image from its
// seams.
func EstimateStripWidth(m *pixmat.Matrix, ratio float64, mode SeamMode) (int, error) {
	seams, err := FindSeams(m, ratio)
	if err != nil {
		return 0, err
	}
	if len(seams) == 0 {
		return 0, fmt.Errorf("%w: no seams detected at ratio %.2f", ErrInsufficientData, ratio)
	}

	var est float64
	switch mode {
	case SeamSpacing:
		gaps := make([]float64, len(seams))
		prev := 0
		for i, s := range seams {
			// seam s sits between columns s and s+1
			gaps[i] = float64(s + 1 - prev)
			prev = s + 1
		}
		est = stat.Mean(gaps, nil)
	default:
		pos := make([]float64, len(seams))
		for i, s := range seams {
			pos[i] = float64(s)
		}
		est = stat.Mean(pos, nil)
	}

	width := int(math.Floor(est))
	if width < 1 {
		return 0, fmt.Errorf("%w: estimated strip width %d", ErrInsufficientData, width)
	}
	return width, nil
}
