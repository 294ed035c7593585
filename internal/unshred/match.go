package unshred

import (
	"fmt"
	"math"
)

// MatchScore names a candidate neighbour and how well it fits. Lower
// distances are better. The zero value is unmatched.
type MatchScore struct {
	// Index is the neighbour's position in the StripSet, or -1 when unmatched.
	Index int

	// Distance is the edge dissimilarity. Meaningless when unmatched.
	Distance float64

	matched bool
}

// Unmatched returns the "no candidate yet" score.
func Unmatched() MatchScore {
	return MatchScore{Index: -1}
}

// NewMatch returns a matched score for neighbour index with distance d.
func NewMatch(index int, d float64) MatchScore {
	return MatchScore{Index: index, Distance: d, matched: true}
}

// Matched reports whether the score refers to a neighbour.
func (m MatchScore) Matched() bool { return m.matched }

func (m MatchScore) String() string {
	if !m.matched {
		return "unmatched"
	}
	return fmt.Sprintf("#%d (%.1f)", m.Index, m.Distance)
}

// Better returns whichever of current and candidate should be kept. A
// candidate wins only if it is matched and strictly closer than current, so
// ties keep the earlier-recorded score. NaN distances never win.
func Better(current, candidate MatchScore) MatchScore {
	if !candidate.matched || math.IsNaN(candidate.Distance) {
		return current
	}
	if !current.matched || candidate.Distance < current.Distance {
		return candidate
	}
	return current
}
