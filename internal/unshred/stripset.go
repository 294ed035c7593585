package unshred

import (
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/image-unshred/internal/pixmat"
)

// DefaultMaxStrips bounds the strip count MatchAll accepts by default.
const DefaultMaxStrips = 4096

// MatchOptions configures MatchAll.
type MatchOptions struct {
	Metric    Metric // nil means AbsDiff
	Workers   int    // 0 means GOMAXPROCS
	MaxStrips int    // 0 disables the check
}

// DefaultMatchOptions returns AbsDiff on all CPUs with DefaultMaxStrips.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		Metric:    AbsDiff{},
		Workers:   runtime.GOMAXPROCS(0),
		MaxStrips: DefaultMaxStrips,
	}
}

// StripSet owns the strips cut from one matrix. A strip's index in the set
// is its identity in match pointers and solution orders.
type StripSet struct {
	src     *pixmat.Matrix
	width   int
	strips  []*Strip
	dist    *mat.Dense
	matched bool
}

// Partition cuts m into strips of the given width, left to right. The width
// must divide the column count exactly.
func Partition(m *pixmat.Matrix, width int) (*StripSet, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil matrix", ErrInvalidImage)
	}
	if width <= 0 {
		return nil, fmt.Errorf("%w: strip width %d", ErrInsufficientData, width)
	}
	if m.Cols()%width != 0 {
		return nil, fmt.Errorf("%w: %d columns not divisible by strip width %d",
			ErrInsufficientData, m.Cols(), width)
	}

	n := m.Cols() / width
	ss := &StripSet{src: m, width: width, strips: make([]*Strip, n)}
	for i := 0; i < n; i++ {
		ss.strips[i] = newStrip(i, m, i*width, width)
	}
	return ss, nil
}

// Len returns the number of strips.
func (ss *StripSet) Len() int { return len(ss.strips) }

// Width returns the strip width.
func (ss *StripSet) Width() int { return ss.width }

// Strip returns the strip with identity i.
func (ss *StripSet) Strip(i int) *Strip { return ss.strips[i] }

// Ordered returns the strips in the given order.
func (ss *StripSet) Ordered(order []int) []*Strip {
	out := make([]*Strip, len(order))
	for i, id := range order {
		out[i] = ss.strips[id]
	}
	return out
}

// Distances returns the seam distance matrix from the last MatchAll:
// entry (i, j) scores strip j placed immediately right of strip i. The
// diagonal is unused. Nil before MatchAll has run.
func (ss *StripSet) Distances() mat.Matrix {
	if ss.dist == nil {
		return nil
	}
	return ss.dist
}

// MatchAll records, for every strip, its best left and best right neighbour
// among all other strips. Previous matches are discarded first, so calling
// it again on the same set yields the same result.
//
// Scores are computed into a full distance matrix in parallel and then
// reduced in index order, so ties resolve to the lowest neighbour index.
func (ss *StripSet) MatchAll(opts MatchOptions) error {
	n := len(ss.strips)
	if opts.MaxStrips > 0 && n > opts.MaxStrips {
		return fmt.Errorf("%w: %d strips exceeds limit %d", ErrTooManyStrips, n, opts.MaxStrips)
	}
	if opts.Metric == nil {
		opts.Metric = AbsDiff{}
	}

	ss.matched = false
	ss.dist = nil
	for _, s := range ss.strips {
		s.resetMatches()
	}
	if n < 2 {
		return fmt.Errorf("%w: %d strip(s)", ErrDegenerateMatch, n)
	}

	dist := seamDistances(ss.strips, opts.Metric, opts.Workers)

	found := false
	for i, s := range ss.strips {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			s.RecordLeftCandidate(NewMatch(j, dist.At(j, i)))
			s.RecordRightCandidate(NewMatch(j, dist.At(i, j)))
		}
		found = found || s.left.Matched() || s.right.Matched()
	}
	if !found {
		return fmt.Errorf("%w: every distance was unusable", ErrDegenerateMatch)
	}

	ss.dist = dist
	ss.matched = true
	return nil
}

// seamDistances fills an n×n matrix with seamDistance(strips[i], strips[j]).
// Each worker owns whole rows, so no cell is written twice.
func seamDistances(strips []*Strip, m Metric, workers int) *mat.Dense {
	n := len(strips)
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	lefts := make([][]pixmat.Pixel, n)
	rights := make([][]pixmat.Pixel, n)
	for i, s := range strips {
		lefts[i] = s.LeftEdge(0)
		rights[i] = s.RightEdge(0)
	}

	dist := mat.NewDense(n, n, nil)
	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				for j := 0; j < n; j++ {
					if i != j {
						dist.Set(i, j, m.Distance(rights[i], lefts[j]))
					}
				}
			}
		}()
	}
	for i := 0; i < n; i++ {
		rows <- i
	}
	close(rows)
	wg.Wait()

	return dist
}

// FindEndpoints picks the strips that start and end the chain.
//
// The leftmost strip is the first one whose best left neighbour does not
// name it as its best right neighbour; the rightmost is found the same way
// from the other side. When the best-match graph has no such break, the
// strip with the worst left (right) distance is used instead.
func (ss *StripSet) FindEndpoints() (leftmost, rightmost int, err error) {
	if !ss.matched {
		return -1, -1, fmt.Errorf("%w: strips have not been matched", ErrDegenerateMatch)
	}

	leftmost, rightmost = -1, -1
	for i, s := range ss.strips {
		if l := s.left; l.Matched() && ss.strips[l.Index].right.Index != i {
			leftmost = i
			break
		}
	}
	for i, s := range ss.strips {
		if r := s.right; r.Matched() && ss.strips[r.Index].left.Index != i {
			rightmost = i
			break
		}
	}

	if leftmost < 0 {
		leftmost = ss.worst(func(s *Strip) MatchScore { return s.left })
	}
	if rightmost < 0 {
		rightmost = ss.worst(func(s *Strip) MatchScore { return s.right })
	}
	return leftmost, rightmost, nil
}

// worst returns the strip whose chosen side has the largest distance,
// preferring the lowest index on ties.
func (ss *StripSet) worst(side func(*Strip) MatchScore) int {
	best := -1
	var bestDist float64
	for i, s := range ss.strips {
		m := side(s)
		if !m.Matched() {
			continue
		}
		if best < 0 || m.Distance > bestDist {
			best, bestDist = i, m.Distance
		}
	}
	return best
}

// AssembleChain walks right matches from the leftmost strip to the
// rightmost one and returns the visited strip identities.
func (ss *StripSet) AssembleChain() ([]int, error) {
	leftmost, rightmost, err := ss.FindEndpoints()
	if err != nil {
		return nil, err
	}
	return ss.walk(leftmost, rightmost)
}

// walk follows right matches from start until it reaches stop. At most
// Len() transitions are taken; revisiting a strip means stop is unreachable.
func (ss *StripSet) walk(start, stop int) ([]int, error) {
	n := len(ss.strips)
	seen := make([]bool, n)
	order := make([]int, 0, n)

	cur := start
	seen[cur] = true
	order = append(order, cur)
	for steps := 0; cur != stop; steps++ {
		if steps >= n {
			return nil, fmt.Errorf("%w: %d transitions without reaching strip %d", ErrCycleDetected, steps, stop)
		}
		next := ss.strips[cur].right
		if !next.Matched() {
			return nil, fmt.Errorf("%w: strip %d has no right match", ErrDegenerateMatch, cur)
		}
		if seen[next.Index] {
			return nil, fmt.Errorf("%w: strip %d revisited from strip %d before reaching strip %d",
				ErrCycleDetected, next.Index, cur, stop)
		}
		cur = next.Index
		seen[cur] = true
		order = append(order, cur)
	}
	return order, nil
}
