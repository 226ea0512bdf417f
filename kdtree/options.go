package kdtree

import (
	"math"

	"golang.org/x/exp/constraints"
)

// DefaultLeafCapacity is the per-node capacity used by NewDefault when callers want
// the historical kiddo default instead of tuning it themselves.
const DefaultLeafCapacity = 16

// Option configures a Tree at construction time.
type Option[A constraints.Float, P any] func(*Tree[A, P])

// WithMetrics attaches an Instrumentation hook that records Add/Remove calls
// and query durations. It is propagated to every child created by a leaf
// split. A nil Instrumentation (the default, when WithMetrics is not passed)
// disables instrumentation entirely with zero overhead.
func WithMetrics[A constraints.Float, P any](instr *Instrumentation) Option[A, P] {
	return func(t *Tree[A, P]) {
		t.instr = instr
	}
}

// New creates an empty, non-periodic tree over points of dimension dim, with
// the given per-leaf capacity. It fails with ErrZeroCapacity if capacity==0.
func New[A constraints.Float, P any](dim, capacity int, opts ...Option[A, P]) (*Tree[A, P], error) {
	return newTree[A, P](dim, capacity, nil, opts)
}

// NewDefault creates an empty, non-periodic tree with DefaultLeafCapacity.
func NewDefault[A constraints.Float, P any](dim int, opts ...Option[A, P]) (*Tree[A, P], error) {
	return New[A, P](dim, DefaultLeafCapacity, opts...)
}

// NewWithCapacity is a deprecated alias for New, kept for callers migrating
// from APIs (such as kiddo's deprecated with_capacity) that used this name.
//
// Deprecated: use New instead.
func NewWithCapacity[A constraints.Float, P any](dim, capacity int, opts ...Option[A, P]) (*Tree[A, P], error) {
	return New[A, P](dim, capacity, opts...)
}

// NewPeriodic creates an empty tree with toroidal boundary conditions: the
// domain is the K-axis-aligned box [0, periodic[i]) for each axis i, with
// opposite faces identified. It fails with ErrZeroCapacity if capacity==0,
// and with ErrDimensionMismatch if len(periodic) != dim or any component of
// periodic is not strictly positive.
func NewPeriodic[A constraints.Float, P any](dim, capacity int, periodic []A, opts ...Option[A, P]) (*Tree[A, P], error) {
	if len(periodic) != dim {
		return nil, ErrDimensionMismatch
	}
	for _, l := range periodic {
		if !(l > 0) {
			return nil, ErrDimensionMismatch
		}
	}
	cp := append(make([]A, 0, dim), periodic...)
	return newTree[A, P](dim, capacity, cp, opts)
}

func newTree[A constraints.Float, P any](dim, capacity int, periodic []A, opts []Option[A, P]) (*Tree[A, P], error) {
	if capacity <= 0 {
		return nil, ErrZeroCapacity
	}

	min, max := infiniteBounds[A](dim)
	t := &Tree[A, P]{
		dim:          dim,
		minBounds:    min,
		maxBounds:    max,
		periodic:     periodic,
		capacity:     capacity,
		leafPoints:   make([][]A, 0, capacity),
		leafPayloads: make([]P, 0, capacity),
	}
	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

func infiniteBounds[A constraints.Float](dim int) (min, max []A) {
	min = make([]A, dim)
	max = make([]A, dim)
	posInf := A(math.Inf(1))
	negInf := A(math.Inf(-1))
	for i := 0; i < dim; i++ {
		min[i] = posInf
		max[i] = negInf
	}
	return min, max
}
