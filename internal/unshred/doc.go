// Package unshred reorders the vertical strips of a shredded image.
//
// An image that was cut into equal-width vertical strips and shuffled is
// reassembled by comparing strip edges:
//
//  1. Width: use the configured strip width, or estimate it from columns
//     whose pixel difference stands out from their neighbours (seams).
//  2. Partition: cut the pixmat.Matrix into a StripSet.
//  3. Match: score every ordered strip pair by edge distance and keep each
//     strip's best left and best right neighbour.
//  4. Endpoints: the chain starts at a strip whose best left neighbour does
//     not pick it back, and ends at the mirror case.
//  5. Assemble: follow best right neighbours from start to end.
//
// # Determinism
//
// Given the same matrix and Config the result is always the same. Matching
// is parallel, but the reduction that picks neighbours runs in index order
// and keeps the earlier candidate on ties.
//
// # Errors
//
// Failures wrap one of the package sentinels (ErrInsufficientData,
// ErrDegenerateMatch, ErrCycleDetected, ...). No partial result is returned
// with an error, and nothing is passed to a Compositor.
//
// # Example
//
//	m, _ := pixmat.FromImage(img)
//	res, err := unshred.Solve(ctx, m, unshred.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Order)
package unshred
