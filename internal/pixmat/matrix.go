// Package pixmat holds decoded images as immutable rows×cols pixel grids.
//
// A Matrix is the hand-off format between the image codecs in
// internal/imaging and the strip matcher in internal/unshred. Pixels are
// stored row-major as non-premultiplied 8-bit RGBA, the NRGBA layout PNG
// uses, so translucent pixels survive a load and save unchanged.
package pixmat

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrInvalidImage is returned when pixel data is empty or not rectangular.
var ErrInvalidImage = errors.New("pixmat: invalid image")

// Channels is the number of intensity values per pixel.
const Channels = 4

// Pixel is one RGBA sample.
type Pixel [Channels]uint8

// Matrix is an immutable grid of pixels. The zero value is not usable; build
// one with New, FromRows or FromImage.
type Matrix struct {
	rows int
	cols int
	pix  []Pixel
}

// New builds a matrix from row-major pixel data. The slice is copied.
func New(rows, cols int, pix []Pixel) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: shape %dx%d", ErrInvalidImage, rows, cols)
	}
	if len(pix) != rows*cols {
		return nil, fmt.Errorf("%w: have %d pixels, shape %dx%d needs %d",
			ErrInvalidImage, len(pix), rows, cols, rows*cols)
	}
	cp := make([]Pixel, len(pix))
	copy(cp, pix)
	return &Matrix{rows: rows, cols: cols, pix: cp}, nil
}

// FromRows builds a matrix from a slice of rows. Every row must have the
// same non-zero length.
func FromRows(rows [][]Pixel) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: no pixel data", ErrInvalidImage)
	}
	cols := len(rows[0])
	pix := make([]Pixel, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d",
				ErrInvalidImage, i, len(row), cols)
		}
		pix = append(pix, row...)
	}
	return &Matrix{rows: len(rows), cols: cols, pix: pix}, nil
}

// FromImage converts a decoded image into a matrix. Whatever the source
// colour model, samples are taken from its NRGBA rendition; 8-bit NRGBA
// sources are copied exactly.
func FromImage(img image.Image) (*Matrix, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty bounds %v", ErrInvalidImage, b)
	}
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()

	m := &Matrix{rows: b.Dy(), cols: b.Dx(), pix: make([]Pixel, b.Dx()*b.Dy())}
	for y := 0; y < m.rows; y++ {
		off := y * nrgba.Stride
		for x := 0; x < m.cols; x++ {
			i := off + x*4
			m.pix[y*m.cols+x] = Pixel{nrgba.Pix[i], nrgba.Pix[i+1], nrgba.Pix[i+2], nrgba.Pix[i+3]}
		}
	}
	return m, nil
}

// Rows returns the image height.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the image width.
func (m *Matrix) Cols() int { return m.cols }

// At returns the pixel at row r, column c. It panics when out of range, like
// a slice index would.
func (m *Matrix) At(r, c int) Pixel {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		panic(fmt.Sprintf("pixmat: index (%d,%d) out of range %dx%d", r, c, m.rows, m.cols))
	}
	return m.pix[r*m.cols+c]
}

// Column returns a copy of column c, top to bottom, or nil when c is out of
// range.
func (m *Matrix) Column(c int) []Pixel {
	if c < 0 || c >= m.cols {
		return nil
	}
	col := make([]Pixel, m.rows)
	for r := 0; r < m.rows; r++ {
		col[r] = m.pix[r*m.cols+c]
	}
	return col
}

// ColumnDiff returns the mean over rows of the summed absolute per-channel
// difference between columns a and b.
func (m *Matrix) ColumnDiff(a, b int) float64 {
	var sum int
	for r := 0; r < m.rows; r++ {
		pa := m.pix[r*m.cols+a]
		pb := m.pix[r*m.cols+b]
		for ch := 0; ch < Channels; ch++ {
			sum += absDiff(pa[ch], pb[ch])
		}
	}
	return float64(sum) / float64(m.rows)
}

// Columns copies the half-open column range [c0, c1) into a new matrix.
func (m *Matrix) Columns(c0, c1 int) (*Matrix, error) {
	if c0 < 0 || c1 > m.cols || c0 >= c1 {
		return nil, fmt.Errorf("%w: column range [%d,%d) outside width %d", ErrInvalidImage, c0, c1, m.cols)
	}
	w := c1 - c0
	out := &Matrix{rows: m.rows, cols: w, pix: make([]Pixel, m.rows*w)}
	for r := 0; r < m.rows; r++ {
		copy(out.pix[r*w:(r+1)*w], m.pix[r*m.cols+c0:r*m.cols+c1])
	}
	return out, nil
}

// HConcat places b to the right of a. Both must have the same number of rows.
func HConcat(a, b *Matrix) (*Matrix, error) {
	if a.rows != b.rows {
		return nil, fmt.Errorf("%w: cannot join %d rows to %d rows", ErrInvalidImage, b.rows, a.rows)
	}
	w := a.cols + b.cols
	out := &Matrix{rows: a.rows, cols: w, pix: make([]Pixel, a.rows*w)}
	for r := 0; r < a.rows; r++ {
		row := out.pix[r*w : (r+1)*w]
		copy(row, a.pix[r*a.cols:(r+1)*a.cols])
		copy(row[a.cols:], b.pix[r*b.cols:(r+1)*b.cols])
	}
	return out, nil
}

// Equal reports whether a and b have the same shape and pixels.
func Equal(a, b *Matrix) bool {
	if a.rows != b.rows || a.cols != b.cols {
		return false
	}
	for i := range a.pix {
		if a.pix[i] != b.pix[i] {
			return false
		}
	}
	return true
}

// ToImage renders the matrix as an NRGBA image with origin (0,0).
func (m *Matrix) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.cols, m.rows))
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			p := m.pix[r*m.cols+c]
			i := img.PixOffset(c, r)
			copy(img.Pix[i:i+4], p[:])
		}
	}
	return img
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
