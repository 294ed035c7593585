package unshred

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-unshred/internal/pixmat"
)

// gradientMatrix builds an image whose channels change linearly with the
// column, so that only truly adjacent columns are close. cols must be <= 60.
func gradientMatrix(t *testing.T, rows, cols int) *pixmat.Matrix {
	t.Helper()
	pix := make([]pixmat.Pixel, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			pix = append(pix, pixmat.Pixel{uint8(c * 4), uint8(r*10 + c), uint8(200 - c*3), 255})
		}
	}
	m, err := pixmat.New(rows, cols, pix)
	require.NoError(t, err)
	return m
}

// shuffleStrips returns m with its strips rearranged so that position i
// holds original strip perm[i].
func shuffleStrips(t *testing.T, m *pixmat.Matrix, width int, perm []int) *pixmat.Matrix {
	t.Helper()
	var out *pixmat.Matrix
	for _, p := range perm {
		block, err := m.Columns(p*width, (p+1)*width)
		require.NoError(t, err)
		if out == nil {
			out = block
			continue
		}
		out, err = pixmat.HConcat(out, block)
		require.NoError(t, err)
	}
	return out
}

// solvedOrder is the order that undoes perm: the shuffled positions of
// original strips 0, 1, 2, ...
func solvedOrder(perm []int) []int {
	order := make([]int, len(perm))
	for i, p := range perm {
		order[p] = i
	}
	return order
}

// edgeMatrix builds a 2-row image of len(edges)-1 strips. Strip k is solid
// edges[k] except its last column, which is edges[k+1]. Gray pixels with
// opaque alpha.
func edgeMatrix(t *testing.T, width int, edges []uint8) *pixmat.Matrix {
	t.Helper()
	n := len(edges) - 1
	rows := make([][]pixmat.Pixel, 2)
	for r := range rows {
		for k := 0; k < n; k++ {
			for c := 0; c < width; c++ {
				v := edges[k]
				if c == width-1 {
					v = edges[k+1]
				}
				rows[r] = append(rows[r], pixmat.Pixel{v, v, v, 255})
			}
		}
	}
	m, err := pixmat.FromRows(rows)
	require.NoError(t, err)
	return m
}

// blockMatrix builds a 4-row image of n solid strips, each a distinct gray.
func blockMatrix(t *testing.T, width, n int) *pixmat.Matrix {
	t.Helper()
	rows := make([][]pixmat.Pixel, 4)
	for r := range rows {
		for k := 0; k < n; k++ {
			v := uint8(20 + k*35%200)
			for c := 0; c < width; c++ {
				rows[r] = append(rows[r], pixmat.Pixel{v, 255 - v, v / 2, 255})
			}
		}
	}
	m, err := pixmat.FromRows(rows)
	require.NoError(t, err)
	return m
}
