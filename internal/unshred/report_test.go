package unshred

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	perm := []int{3, 0, 4, 1, 5, 2}
	m := shuffleStrips(t, gradientMatrix(t, 4, 60), 10, perm)
	ss := matchedSet(t, m, 10)

	r, err := ss.Report()
	require.NoError(t, err)

	want := solvedOrder(perm)
	assert.Equal(t, 6, r.Count)
	assert.Equal(t, 10, r.Width)
	assert.Equal(t, 4, r.Rows)
	assert.Equal(t, want[0], r.Leftmost)
	assert.Equal(t, want[5], r.Rightmost)
	require.Len(t, r.Strips, 6)

	for i, sr := range r.Strips {
		assert.Equal(t, i, sr.ID)
		assert.Equal(t, ss.Strip(i).RightMatch().Index, sr.Right.Neighbor)
		assert.Equal(t, ss.Strip(i).LeftMatch().Distance, sr.Left.Distance)
	}

	// interior links are mutual; only the chain ends are not
	first, last := r.Strips[r.Leftmost], r.Strips[r.Rightmost]
	assert.False(t, first.Left.Reciprocal)
	assert.False(t, last.Right.Reciprocal)
	for _, id := range want[1 : len(want)-1] {
		assert.True(t, r.Strips[id].Left.Reciprocal, "strip %d", id)
		assert.True(t, r.Strips[id].Right.Reciprocal, "strip %d", id)
	}

	// the rightmost strip's right match is by far the worst
	assert.True(t, last.Suspect)
	assert.Greater(t, last.RightZScore, SuspectZScore)
	assert.Greater(t, r.StdRight, 0.0)
}

func TestReport_BeforeMatch(t *testing.T) {
	ss, err := Partition(gradientMatrix(t, 2, 20), 10)
	require.NoError(t, err)

	_, err = ss.Report()
	assert.ErrorIs(t, err, ErrDegenerateMatch)
}
