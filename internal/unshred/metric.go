package unshred

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-unshred/internal/pixmat"
)

// Metric scores how unlikely two pixel columns are to sit side by side.
// Implementations must return non-negative values for equal-length inputs;
// lower means a better fit.
type Metric interface {
	Distance(a, b []pixmat.Pixel) float64
}

// MetricFunc adapts a plain function to Metric.
type MetricFunc func(a, b []pixmat.Pixel) float64

// Distance calls f(a, b).
func (f MetricFunc) Distance(a, b []pixmat.Pixel) float64 { return f(a, b) }

// AbsDiff sums, over rows and channels, the absolute difference between
// corresponding pixels.
type AbsDiff struct{}

// Distance implements Metric.
func (AbsDiff) Distance(a, b []pixmat.Pixel) float64 {
	var sum int
	for r := range a {
		for ch := 0; ch < pixmat.Channels; ch++ {
			d := int(a[r][ch]) - int(b[r][ch])
			if d < 0 {
				d = -d
			}
			sum += d
		}
	}
	return float64(sum)
}

// LabDiff sums the CIE-L*a*b* distance between corresponding pixels. Alpha is
// ignored. It is less sensitive than AbsDiff to brightness shifts that the
// eye does not notice.
type LabDiff struct{}

// Distance implements Metric.
func (LabDiff) Distance(a, b []pixmat.Pixel) float64 {
	var sum float64
	for r := range a {
		sum += toColorful(a[r]).DistanceLab(toColorful(b[r]))
	}
	return sum
}

func toColorful(p pixmat.Pixel) colorful.Color {
	return colorful.Color{
		R: float64(p[0]) / 255.0,
		G: float64(p[1]) / 255.0,
		B: float64(p[2]) / 255.0,
	}
}

// MetricByName returns the metric registered under name: "absdiff" (the
// default when name is empty) or "lab".
func MetricByName(name string) (Metric, error) {
	switch strings.ToLower(name) {
	case "", "absdiff":
		return AbsDiff{}, nil
	case "lab":
		return LabDiff{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown metric %q", ErrInvalidConfig, name)
	}
}

// seamDistance scores placing right immediately after left. Both LeftScore
// and RightScore reduce to it, so the pair (a.right, b.left) is always
// passed to the metric in that order.
func seamDistance(m Metric, left, right *Strip) float64 {
	return m.Distance(left.RightEdge(0), right.LeftEdge(0))
}

// LeftScore is how well b fits immediately to the left of a.
func LeftScore(m Metric, a, b *Strip) float64 { return seamDistance(m, b, a) }

// RightScore is how well b fits immediately to the right of a.
func RightScore(m Metric, a, b *Strip) float64 { return seamDistance(m, a, b) }
