package imaging

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-unshred/internal/unshred"
)

// ErrNoStrips is returned when there is nothing to compose.
var ErrNoStrips = errors.New("imaging: no strips to compose")

// ComposeStrips lays strips side by side, left to right.
func ComposeStrips(strips []*unshred.Strip) (*image.NRGBA, error) {
	if len(strips) == 0 {
		return nil, ErrNoStrips
	}

	width, height := 0, strips[0].Rows()
	for _, s := range strips {
		if s.Rows() != height {
			return nil, fmt.Errorf("strip %d has %d rows, want %d", s.ID(), s.Rows(), height)
		}
		width += s.Cols()
	}

	dst := imaging.New(width, height, image.Transparent)
	x := 0
	for _, s := range strips {
		pasteColumns(dst, x, s.Image())
		x += s.Cols()
	}
	return dst, nil
}

// pasteColumns copies src into dst with its left edge at column x. Rows are
// copied byte for byte, so translucent pixels keep their exact values.
func pasteColumns(dst *image.NRGBA, x int, src *image.NRGBA) {
	b := src.Bounds()
	size := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		i := dst.PixOffset(x, y)
		j := src.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst.Pix[i:i+size], src.Pix[j:j+size])
	}
}

// FileCompositor writes the composed image to Path. The encoder is chosen
// from the file extension; WebP is read-only, so a .webp path is rejected.
type FileCompositor struct {
	Path string

	// PostSave, if set, runs after a successful save, e.g. to open the
	// result in a viewer. Its error is returned from Compose.
	PostSave func(path string) error

	// Image holds the last composed image.
	Image *image.NRGBA
}

// Compose implements unshred.Compositor.
func (c *FileCompositor) Compose(strips []*unshred.Strip) error {
	img, err := ComposeStrips(strips)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, c.Path); err != nil {
		return fmt.Errorf("failed to save %s: %w", c.Path, err)
	}
	c.Image = img

	if c.PostSave != nil {
		return c.PostSave(c.Path)
	}
	return nil
}

// MemoryCompositor keeps the composed image in memory.
type MemoryCompositor struct {
	Image *image.NRGBA
}

// Compose implements unshred.Compositor.
func (c *MemoryCompositor) Compose(strips []*unshred.Strip) error {
	img, err := ComposeStrips(strips)
	if err != nil {
		return err
	}
	c.Image = img
	return nil
}

// SolutionPath derives the default output name for a solved image:
// "scan.png" becomes "scan-sol.png". Inputs the encoder cannot write keep
// their name but get a .png extension.
func SolutionPath(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	if _, err := imaging.FormatFromExtension(ext); err != nil {
		ext = ".png"
	}
	return base + "-sol" + ext
}
