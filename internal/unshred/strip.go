package unshred

import (
	"image"

	"github.com/ironsheep/image-unshred/internal/pixmat"
)

// Strip is a full-height column range of the source matrix together with
// the best neighbours found for each side.
type Strip struct {
	id    int
	src   *pixmat.Matrix
	x0    int
	width int

	left  MatchScore
	right MatchScore
}

func newStrip(id int, src *pixmat.Matrix, x0, width int) *Strip {
	return &Strip{
		id:    id,
		src:   src,
		x0:    x0,
		width: width,
		left:  Unmatched(),
		right: Unmatched(),
	}
}

// ID is the strip's position in shred order.
func (s *Strip) ID() int { return s.id }

// Rows returns the strip height.
func (s *Strip) Rows() int { return s.src.Rows() }

// Cols returns the strip width.
func (s *Strip) Cols() int { return s.width }

// LeftEdge returns the column offset columns in from the left side, or nil
// if offset is outside the strip.
func (s *Strip) LeftEdge(offset int) []pixmat.Pixel {
	if offset < 0 || offset >= s.width {
		return nil
	}
	return s.src.Column(s.x0 + offset)
}

// RightEdge returns the column offset columns in from the right side, or
// nil if offset is outside the strip.
func (s *Strip) RightEdge(offset int) []pixmat.Pixel {
	if offset < 0 || offset >= s.width {
		return nil
	}
	return s.src.Column(s.x0 + s.width - 1 - offset)
}

// LeftMatch returns the best left neighbour recorded so far.
func (s *Strip) LeftMatch() MatchScore { return s.left }

// RightMatch returns the best right neighbour recorded so far.
func (s *Strip) RightMatch() MatchScore { return s.right }

// RecordLeftCandidate keeps c as the left match if it is strictly better
// than the current one and reports whether it was kept.
func (s *Strip) RecordLeftCandidate(c MatchScore) bool {
	next := Better(s.left, c)
	changed := next != s.left
	s.left = next
	return changed
}

// RecordRightCandidate is RecordLeftCandidate for the right side.
func (s *Strip) RecordRightCandidate(c MatchScore) bool {
	next := Better(s.right, c)
	changed := next != s.right
	s.right = next
	return changed
}

func (s *Strip) resetMatches() {
	s.left = Unmatched()
	s.right = Unmatched()
}

// Block copies the strip's pixels into a standalone matrix.
func (s *Strip) Block() *pixmat.Matrix {
	m, err := s.src.Columns(s.x0, s.x0+s.width)
	if err != nil {
		// x0 and width are fixed at partition time and always in range.
		panic(err)
	}
	return m
}

// Concat returns a new strip holding s's columns followed by other's. The
// result is backed by its own matrix, keeps s's ID and carries no matches.
func (s *Strip) Concat(other *Strip) (*Strip, error) {
	joined, err := pixmat.HConcat(s.Block(), other.Block())
	if err != nil {
		return nil, err
	}
	return newStrip(s.id, joined, 0, joined.Cols()), nil
}

// Image renders the strip as an NRGBA image with origin (0,0).
func (s *Strip) Image() *image.NRGBA {
	return s.Block().ToImage()
}
