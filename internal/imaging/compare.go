package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/image-unshred/internal/pixmat"
)

// CompareResult describes how two images differ pixel by pixel.
type CompareResult struct {
	SameSize  bool `json:"same_size"`
	Identical bool `json:"identical"`

	// PixelsDifferent counts pixels where any channel differs.
	PixelsDifferent int `json:"pixels_different"`
	TotalPixels     int `json:"total_pixels"`

	// SimilarityScore is the fraction of identical pixels.
	SimilarityScore float64 `json:"similarity_score"`

	// MaxChannelDiff is the largest single channel difference seen.
	MaxChannelDiff int `json:"max_channel_diff"`

	// AverageColorDiff is the mean absolute channel difference per pixel.
	AverageColorDiff float64 `json:"average_color_diff"`

	// FirstDiffColumn is the leftmost column holding a differing pixel, or
	// -1. On a misassembled image it points at the first wrong strip.
	FirstDiffColumn int `json:"first_diff_column"`
}

// CompareImages compares a and b pixel by pixel. Images of different sizes
// are reported as not SameSize without further comparison.
func CompareImages(a, b image.Image) (*CompareResult, error) {
	ma, err := pixmat.FromImage(a)
	if err != nil {
		return nil, fmt.Errorf("failed to read first image: %w", err)
	}
	mb, err := pixmat.FromImage(b)
	if err != nil {
		return nil, fmt.Errorf("failed to read second image: %w", err)
	}

	res := &CompareResult{FirstDiffColumn: -1}
	if ma.Rows() != mb.Rows() || ma.Cols() != mb.Cols() {
		return res, nil
	}
	res.SameSize = true
	res.TotalPixels = ma.Rows() * ma.Cols()

	var total float64
	for c := 0; c < ma.Cols(); c++ {
		for r := 0; r < ma.Rows(); r++ {
			pa, pb := ma.At(r, c), mb.At(r, c)
			diff := 0
			for ch := 0; ch < pixmat.Channels; ch++ {
				d := absDiff(pa[ch], pb[ch])
				diff += d
				if d > res.MaxChannelDiff {
					res.MaxChannelDiff = d
				}
			}
			if diff > 0 {
				res.PixelsDifferent++
				if res.FirstDiffColumn < 0 {
					res.FirstDiffColumn = c
				}
			}
			total += float64(diff) / pixmat.Channels
		}
	}

	res.Identical = res.PixelsDifferent == 0
	if res.TotalPixels > 0 {
		res.SimilarityScore = math.Round((1-float64(res.PixelsDifferent)/float64(res.TotalPixels))*1000) / 1000
		res.AverageColorDiff = math.Round(total/float64(res.TotalPixels)*100) / 100
	}
	return res, nil
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
