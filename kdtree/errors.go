// errors.go — sentinel errors for the kdtree package.
//
// Error policy (mirrors lvlath's matrix/dijkstra conventions):
//   - Only package-level sentinel variables are exposed.
//   - Callers MUST use errors.Is to branch on semantics.
//   - Sentinels are never wrapped with formatted strings at definition site;
//     call sites that need context wrap with fmt.Errorf("...: %w", ErrX).
//   - Validation happens before any mutation, so a failed Add/Remove/query
//     call leaves the tree unchanged.
package kdtree

import "errors"

var (
	// ErrZeroCapacity is returned when a tree is constructed with a per-leaf
	// capacity of 0.
	ErrZeroCapacity = errors.New("kdtree: leaf capacity must be greater than zero")

	// ErrNonFiniteCoordinate is returned when a point passed to Add, Remove,
	// or any query entry point has a NaN or ±Inf component.
	ErrNonFiniteCoordinate = errors.New("kdtree: point has a non-finite coordinate")

	// ErrPeriodicOutOfBounds is returned, in periodic mode, when a point has a
	// component outside [0, L[i]) for some axis i.
	ErrPeriodicOutOfBounds = errors.New("kdtree: point lies outside the periodic domain")

	// ErrEmpty is returned by NearestOne (and its periodic variant) when
	// called against a tree with zero stored points.
	ErrEmpty = errors.New("kdtree: operation invalid on an empty tree")

	// ErrDimensionMismatch is returned when a supplied point's length does
	// not match the tree's dimension, or when NewPeriodic is given a periodic
	// vector whose length differs from the dimension or that has a
	// non-positive component.
	ErrDimensionMismatch = errors.New("kdtree: point dimension does not match tree")
)
