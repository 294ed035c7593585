package unshred

import (
	"gonum.org/v1/gonum/stat"
)

// SuspectZScore marks a right match whose distance lies in the top decile
// of a standard normal relative to the other strips' right matches.
const SuspectZScore = 1.209

// SideReport describes one side of a strip's match.
type SideReport struct {
	// Neighbor is the matched strip, or -1 when unmatched.
	Neighbor int `json:"neighbor"`

	// Distance is the edge distance to Neighbor.
	Distance float64 `json:"distance"`

	// Reciprocal is true when Neighbor picked this strip for the facing side.
	Reciprocal bool `json:"reciprocal"`
}

// StripReport summarises one strip after matching.
type StripReport struct {
	ID          int        `json:"id"`
	Left        SideReport `json:"left"`
	Right       SideReport `json:"right"`
	RightZScore float64    `json:"right_z_score"`

	// Suspect flags right matches that are unusually poor, which is where
	// the chain end or a mismatch usually sits.
	Suspect bool `json:"suspect"`
}

// Report is the full match table for a StripSet.
type Report struct {
	Width     int           `json:"width"`
	Count     int           `json:"count"`
	Rows      int           `json:"rows"`
	Leftmost  int           `json:"leftmost"`
	Rightmost int           `json:"rightmost"`
	MeanRight float64       `json:"mean_right_distance"`
	StdRight  float64       `json:"std_right_distance"`
	Strips    []StripReport `json:"strips"`
}

// Report tabulates the matches recorded by MatchAll.
func (ss *StripSet) Report() (*Report, error) {
	leftmost, rightmost, err := ss.FindEndpoints()
	if err != nil {
		return nil, err
	}

	rights := make([]float64, 0, len(ss.strips))
	for _, s := range ss.strips {
		if s.right.Matched() {
			rights = append(rights, s.right.Distance)
		}
	}
	mean, std := stat.PopMeanStdDev(rights, nil)

	r := &Report{
		Width:     ss.width,
		Count:     len(ss.strips),
		Rows:      ss.src.Rows(),
		Leftmost:  leftmost,
		Rightmost: rightmost,
		MeanRight: mean,
		StdRight:  std,
		Strips:    make([]StripReport, len(ss.strips)),
	}
	for i, s := range ss.strips {
		sr := StripReport{
			ID:    i,
			Left:  ss.side(i, s.left, func(o *Strip) MatchScore { return o.right }),
			Right: ss.side(i, s.right, func(o *Strip) MatchScore { return o.left }),
		}
		if s.right.Matched() && std > 0 {
			sr.RightZScore = stat.StdScore(s.right.Distance, mean, std)
			sr.Suspect = sr.RightZScore > SuspectZScore
		}
		r.Strips[i] = sr
	}
	return r, nil
}

func (ss *StripSet) side(id int, m MatchScore, facing func(*Strip) MatchScore) SideReport {
	if !m.Matched() {
		return SideReport{Neighbor: -1}
	}
	return SideReport{
		Neighbor:   m.Index,
		Distance:   m.Distance,
		Reciprocal: facing(ss.strips[m.Index]).Index == id,
	}
}
