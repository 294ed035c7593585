package imaging

import (
	"fmt"
	"image"
	"math/rand"

	"github.com/disintegration/imaging"
)

// ShredResult is an image cut into strips and shuffled.
type ShredResult struct {
	Image *image.NRGBA `json:"-"`

	// Width is the strip width.
	Width int `json:"width"`

	// Perm maps shuffled position to original strip: position i holds
	// original strip Perm[i].
	Perm []int `json:"perm"`
}

// Solution returns the left-to-right order of shuffled positions that
// restores the original image. A correct solve of Image reports exactly
// this order.
func (r *ShredResult) Solution() []int {
	order := make([]int, len(r.Perm))
	for pos, orig := range r.Perm {
		order[orig] = pos
	}
	return order
}

// Shred cuts img into strips of the given width and shuffles them with a
// generator seeded by seed, so the same seed always produces the same
// image. The width must divide the image width.
func Shred(img image.Image, width int, seed int64) (*ShredResult, error) {
	bounds := img.Bounds()
	if width <= 0 || bounds.Dx()%width != 0 {
		return nil, fmt.Errorf("strip width %d does not divide image width %d", width, bounds.Dx())
	}
	n := bounds.Dx() / width

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	dst := imaging.New(bounds.Dx(), bounds.Dy(), image.Transparent)
	for pos, orig := range perm {
		src := image.Rect(bounds.Min.X+orig*width, bounds.Min.Y, bounds.Min.X+(orig+1)*width, bounds.Max.Y)
		pasteColumns(dst, pos*width, imaging.Crop(img, src))
	}

	return &ShredResult{Image: dst, Width: width, Perm: perm}, nil
}
