package unshred

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-unshred/internal/pixmat"
)

func TestFindSeams_SolidStrips(t *testing.T) {
	seams, err := FindSeams(blockMatrix(t, 10, 4), DefaultSeamRatio)
	require.NoError(t, err)

	// the last boundary (column 39) is past the scan range
	assert.Equal(t, []int{9, 19, 29}, seams)
}

func TestEstimateStripWidth_Modes(t *testing.T) {
	m := blockMatrix(t, 10, 4)

	// averaging seam positions: (9 + 19 + 29) / 3
	w, err := EstimateStripWidth(m, DefaultSeamRatio, SeamPositions)
	require.NoError(t, err)
	assert.Equal(t, 19, w)

	w, err = EstimateStripWidth(m, DefaultSeamRatio, SeamSpacing)
	require.NoError(t, err)
	assert.Equal(t, 10, w)
}

func TestEstimateStripWidth_FloorsMean(t *testing.T) {
	m := blockMatrix(t, 5, 3)

	// seams at 4 and 9, mean position 6.5
	w, err := EstimateStripWidth(m, DefaultSeamRatio, SeamPositions)
	require.NoError(t, err)
	assert.Equal(t, 6, w)
}

func TestEstimateStripWidth_TooFewColumns(t *testing.T) {
	m, err := pixmat.New(1, 2, make([]pixmat.Pixel, 2))
	require.NoError(t, err)

	_, err = EstimateStripWidth(m, DefaultSeamRatio, SeamPositions)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestEstimateStripWidth_NoSeams(t *testing.T) {
	uniform := blockMatrix(t, 30, 1)

	_, err := EstimateStripWidth(uniform, DefaultSeamRatio, SeamPositions)
	assert.ErrorIs(t, err, ErrInsufficientData)

	// a smooth gradient has no column that stands out either
	_, err = EstimateStripWidth(gradientMatrix(t, 4, 40), DefaultSeamRatio, SeamSpacing)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestEstimateStripWidth_NilMatrix(t *testing.T) {
	_, err := EstimateStripWidth(nil, DefaultSeamRatio, SeamPositions)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestParseSeamMode(t *testing.T) {
	for _, mode := range []SeamMode{SeamPositions, SeamSpacing} {
		got, err := ParseSeamMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, got)
	}

	_, err := ParseSeamMode("gaps")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
