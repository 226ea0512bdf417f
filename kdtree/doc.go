// Package kdtree implements a bucketed k-dimensional search tree over ℝᴷ,
// indexing points of a generic floating coordinate type A and carrying an
// opaque payload of type P at each point.
//
// A Tree answers four families of proximity queries against a caller-supplied
// distance metric: k-nearest-neighbor (Nearest), single-nearest (NearestOne),
// radius search (Within / WithinUnsorted), and "best payload within a radius"
// (BestNWithin / BestNWithinIter). Every query family has a *Periodic variant
// that treats the domain as a K-axis-aligned torus: opposite faces of the box
// [0, L) are identified, distances are computed in the minimum-image sense,
// and queries additionally probe up to 2ᴷ-1 virtual translations of the query
// point across the boundary (at most one per nonempty subset of axes, each
// axis shifted toward its farther face). The non-Periodic variants ignore a tree's
// periodicity entirely and evaluate metric directly, even when the tree was
// built with NewPeriodic.
//
// Construction:
//
//	tree, err := kdtree.New[float64, string](3, 16)
//	tree, err := kdtree.NewPeriodic[float64, string](3, 16, []float64{10, 10, 10})
//
// The tree grows by incremental insertion; leaves split into stems once they
// exceed their per-node capacity, using a midpoint-of-bounds split rule rather
// than a median-of-points rule, so insertion never sorts.
//
// Concurrency: a Tree has no internal locking. Concurrent readers are safe
// only while no writer (Add/Remove, and the split they may trigger) is
// active; callers partitioning work across goroutines must provide their own
// exclusion, and each query call allocates its own pending/evaluated heaps.
//
// Distance metrics must be pure, deterministic, symmetric, non-negative, and
// monotone per axis — squared Euclidean is the canonical and tested case —
// so that bounding-box pruning during the best-first descent stays sound.
package kdtree
