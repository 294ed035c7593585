package pixmat

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gray(v uint8) Pixel { return Pixel{v, v, v, 255} }

func TestNew_Validates(t *testing.T) {
	_, err := New(0, 3, nil)
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = New(2, 2, make([]Pixel, 3))
	assert.ErrorIs(t, err, ErrInvalidImage)

	m, err := New(2, 2, []Pixel{gray(1), gray(2), gray(3), gray(4)})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 2, m.Cols())
	assert.Equal(t, gray(3), m.At(1, 0))
}

func TestNew_CopiesInput(t *testing.T) {
	pix := []Pixel{gray(1), gray(2)}
	m, err := New(1, 2, pix)
	require.NoError(t, err)

	pix[0] = gray(99)
	assert.Equal(t, gray(1), m.At(0, 0))
}

func TestFromRows_NonRectangular(t *testing.T) {
	_, err := FromRows([][]Pixel{{gray(1), gray(2)}, {gray(3)}})
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = FromRows(nil)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestFromImage_RoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 5, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 40), uint8(y * 60), 7, 255})
		}
	}

	m, err := FromImage(img)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 5, m.Cols())
	assert.Equal(t, Pixel{80, 60, 7, 255}, m.At(1, 2))

	out := m.ToImage()
	assert.Equal(t, img.Pix, out.Pix)
}

func TestFromImage_TranslucentIsExact(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		img.SetNRGBA(x, 0, color.NRGBA{30, 180, 77, 128})
		img.SetNRGBA(x, 1, color.NRGBA{200, 3, 99, 1})
	}

	m, err := FromImage(img)
	require.NoError(t, err)
	assert.Equal(t, Pixel{30, 180, 77, 128}, m.At(0, 2))
	assert.Equal(t, Pixel{200, 3, 99, 1}, m.At(1, 3))
	assert.Equal(t, img.Pix, m.ToImage().Pix)
}

func TestFromImage_NonZeroOrigin(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 20, 12, 22))
	img.Set(11, 21, color.RGBA{1, 2, 3, 255})

	m, err := FromImage(img)
	require.NoError(t, err)
	assert.Equal(t, Pixel{1, 2, 3, 255}, m.At(1, 1))
}

func TestFromImage_Nil(t *testing.T) {
	_, err := FromImage(nil)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestColumn(t *testing.T) {
	m, err := FromRows([][]Pixel{
		{gray(1), gray(2), gray(3)},
		{gray(4), gray(5), gray(6)},
	})
	require.NoError(t, err)

	assert.Equal(t, []Pixel{gray(2), gray(5)}, m.Column(1))
	assert.Nil(t, m.Column(-1))
	assert.Nil(t, m.Column(3))
}

func TestColumnDiff(t *testing.T) {
	m, err := FromRows([][]Pixel{
		{{10, 0, 0, 255}, {0, 0, 0, 255}},
		{{0, 0, 0, 255}, {0, 20, 10, 255}},
	})
	require.NoError(t, err)

	// row 0 contributes 10, row 1 contributes 30; mean is 20
	assert.InDelta(t, 20.0, m.ColumnDiff(0, 1), 1e-9)
	assert.InDelta(t, m.ColumnDiff(0, 1), m.ColumnDiff(1, 0), 1e-9)
}

func TestColumnsAndHConcat(t *testing.T) {
	m, err := FromRows([][]Pixel{
		{gray(1), gray(2), gray(3), gray(4)},
		{gray(5), gray(6), gray(7), gray(8)},
	})
	require.NoError(t, err)

	left, err := m.Columns(0, 2)
	require.NoError(t, err)
	right, err := m.Columns(2, 4)
	require.NoError(t, err)

	joined, err := HConcat(left, right)
	require.NoError(t, err)
	assert.True(t, Equal(m, joined))

	swapped, err := HConcat(right, left)
	require.NoError(t, err)
	assert.False(t, Equal(m, swapped))

	_, err = m.Columns(3, 3)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestHConcat_RowMismatch(t *testing.T) {
	a, _ := New(1, 1, []Pixel{gray(1)})
	b, _ := New(2, 1, []Pixel{gray(1), gray(2)})

	_, err := HConcat(a, b)
	assert.ErrorIs(t, err, ErrInvalidImage)
}
