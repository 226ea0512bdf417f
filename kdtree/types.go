package kdtree

import "golang.org/x/exp/constraints"

// Metric is a caller-supplied distance function between two K-vectors. It
// must be pure, deterministic, symmetric, non-negative, and monotone in each
// componentwise absolute distance (squared Euclidean is the canonical case);
// bounding-box pruning during best-first descent assumes this.
type Metric[A constraints.Float] func(a, b []A) A

// Tree is a recursive, self-similar k-d tree node: the type returned by New
// is simultaneously the root of the whole tree and, internally, every stem's
// left/right child. A node is a leaf when both left and right are nil, and a
// stem otherwise — the two-variant tagged union spec.md describes, dispatched
// by that nil check rather than by an interface (no virtual dispatch).
type Tree[A constraints.Float, P any] struct {
	dim int // number of coordinates per point

	size      int // count of (point, payload) pairs stored beneath this node
	minBounds []A // componentwise AABB lower corner, monotone for the node's lifetime
	maxBounds []A // componentwise AABB upper corner, monotone for the node's lifetime

	periodic []A // nil when non-periodic; otherwise the K-vector L, Li > 0

	// Leaf content. Populated when left == nil.
	leafPoints   [][]A
	leafPayloads []P
	capacity     int

	// Stem content. Populated when left != nil.
	splitDim int
	splitVal A
	left     *Tree[A, P]
	right    *Tree[A, P]

	instr *Instrumentation // optional metrics hook, propagated to children; may be nil
}

// IsLeaf reports whether this node is currently a leaf bucket rather than a
// stem with two children.
func (t *Tree[A, P]) IsLeaf() bool {
	return t.left == nil
}

// Size returns the number of (point, payload) pairs stored beneath this
// node.
func (t *Tree[A, P]) Size() int {
	return t.size
}

// Dim returns the number of coordinates every point in this tree must carry.
func (t *Tree[A, P]) Dim() int {
	return t.dim
}
