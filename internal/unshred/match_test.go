package unshred

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBetter(t *testing.T) {
	tests := []struct {
		name      string
		current   MatchScore
		candidate MatchScore
		want      MatchScore
	}{
		{"unmatched current takes candidate", Unmatched(), NewMatch(3, 10), NewMatch(3, 10)},
		{"unmatched candidate ignored", NewMatch(1, 5), Unmatched(), NewMatch(1, 5)},
		{"both unmatched", Unmatched(), Unmatched(), Unmatched()},
		{"strictly smaller wins", NewMatch(1, 5), NewMatch(2, 4), NewMatch(2, 4)},
		{"larger loses", NewMatch(1, 5), NewMatch(2, 6), NewMatch(1, 5)},
		{"tie keeps earlier", NewMatch(1, 5), NewMatch(2, 5), NewMatch(1, 5)},
		{"zero distance wins", NewMatch(1, 5), NewMatch(2, 0), NewMatch(2, 0)},
		{"NaN never wins", Unmatched(), NewMatch(2, math.NaN()), Unmatched()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Better(tt.current, tt.candidate))
		})
	}
}

func TestMatchScore_ZeroValueIsUnmatched(t *testing.T) {
	var m MatchScore
	assert.False(t, m.Matched())
	assert.Equal(t, "unmatched", m.String())
	assert.Equal(t, -1, Unmatched().Index)
	assert.Equal(t, "#2 (4.0)", NewMatch(2, 4).String())
}

func TestStrip_RecordCandidates(t *testing.T) {
	ss, err := Partition(blockMatrix(t, 2, 3), 2)
	if !assert.NoError(t, err) {
		return
	}
	s := ss.Strip(0)

	assert.True(t, s.RecordLeftCandidate(NewMatch(1, 9)))
	assert.False(t, s.RecordLeftCandidate(NewMatch(2, 9)), "tie must not replace")
	assert.True(t, s.RecordLeftCandidate(NewMatch(2, 3)))
	assert.False(t, s.RecordLeftCandidate(Unmatched()))
	assert.Equal(t, NewMatch(2, 3), s.LeftMatch())

	assert.True(t, s.RecordRightCandidate(NewMatch(1, 1)))
	assert.Equal(t, NewMatch(1, 1), s.RightMatch())

	s.resetMatches()
	assert.False(t, s.LeftMatch().Matched())
	assert.False(t, s.RightMatch().Matched())
}
