package kdtree

import (
	"container/heap"
	"math"
	"time"

	"golang.org/x/exp/constraints"
)

// Result is one match returned by a k-NN or radius query: the stored point,
// its payload, and its distance from the query point under the metric that
// was used to find it.
type Result[A constraints.Float, P any] struct {
	Point    []A
	Payload  P
	Distance A
}

// Nearest returns the k points closest to point under metric, sorted by
// ascending distance. Ties are broken arbitrarily. If the tree holds fewer
// than k points, all of them are returned. Distances are evaluated directly
// under metric with no awareness of periodic boundaries, even on a periodic
// tree — use NearestPeriodic for that.
func (t *Tree[A, P]) Nearest(point []A, k int, metric Metric[A]) ([]Result[A, P], error) {
	if err := t.checkPoint(point); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}
	defer t.instrObserve()()

	return nearestKInternal(t, point, k, metric), nil
}

// NearestPeriodic is Nearest's periodic-aware counterpart: leaf distances are
// evaluated using minimum-image distance, and the query point is additionally
// translated across domain boundaries and re-queried wherever it lies within
// the current k-th best distance of an edge, so neighbours stored on the
// opposite face of the domain are found correctly. On a non-periodic tree it
// behaves exactly like Nearest.
func (t *Tree[A, P]) NearestPeriodic(point []A, k int, metric Metric[A]) ([]Result[A, P], error) {
	if err := t.checkPoint(point); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}
	defer t.instrObserve()()

	if t.periodic == nil {
		return nearestKInternal(t, point, k, metric), nil
	}

	em := wrappedMetric(metric, t.periodic)
	merged := &resultPQ[A, P]{}
	heap.Init(merged)

	// First pass determines a safe search radius (the k-th best distance
	// from the untranslated point), which bounds which images can possibly
	// matter.
	first := nearestKInternal(t, point, k, em)
	var rng A
	if len(first) > 0 {
		rng = first[len(first)-1].Distance
	}
	for _, r := range first {
		pushBounded(merged, &resultItem[A, P]{dist: r.Distance, coords: r.Point, payload: r.Payload}, k)
	}

	for _, img := range queryImages(point, t.periodic, rng)[1:] {
		for _, r := range nearestKInternal(t, img, k, em) {
			pushBounded(merged, &resultItem[A, P]{dist: r.Distance, coords: r.Point, payload: r.Payload}, k)
		}
	}

	return drainResults(merged), nil
}

// nearestKInternal is the shared best-first k-NN traversal used by Nearest
// and (per-image) by NearestPeriodic. em is assumed already periodic-aware
// if needed.
//
// The pending queue starts with the root at bound 0 — no metric call is
// needed to know the root could hold the answer. Each step pops the
// best-bounded pending subtree and descends greedily into it via
// populatePending, which walks straight to a leaf, pushing only the
// off-side sibling at each stem it passes. Descent never bounds siblings by
// the current k-th best distance here (unlike Within); the outer loop
// condition is what lets the search stop early instead.
func nearestKInternal[A constraints.Float, P any](t *Tree[A, P], point []A, k int, em Metric[A]) []Result[A, P] {
	num := k
	if num > t.size {
		num = t.size
	}
	if num == 0 {
		return nil
	}

	results := &resultPQ[A, P]{}
	heap.Init(results)

	pending := &pendingPQ[A, P]{}
	heap.Init(pending)
	heap.Push(pending, &pendingItem[A, P]{node: t, bound: 0})

	for pending.Len() > 0 && (results.Len() < num || (*pending)[0].bound <= (*results)[0].dist) {
		item := heap.Pop(pending).(*pendingItem[A, P])
		curr := item.node
		populatePending(point, A(math.Inf(1)), em, pending, &curr)

		for i, p := range curr.leafPoints {
			d := em(point, p)
			pushBounded(results, &resultItem[A, P]{dist: d, coords: p, payload: curr.leafPayloads[i]}, num)
		}
	}

	return drainResults(results)
}

// pushBounded pushes item onto a max-heap-by-distance results queue. Once the
// heap holds k elements, item replaces the current worst entry only if it is
// strictly closer; with k <= 0 every item is pushed.
func pushBounded[A constraints.Float, P any](results *resultPQ[A, P], item *resultItem[A, P], k int) {
	if k <= 0 {
		heap.Push(results, item)
		return
	}
	if results.Len() < k {
		heap.Push(results, item)
		return
	}
	if item.dist < (*results)[0].dist {
		heap.Pop(results)
		heap.Push(results, item)
	}
}

// drainResults empties a max-heap-by-distance queue into an ascending-order
// slice of Result.
func drainResults[A constraints.Float, P any](results *resultPQ[A, P]) []Result[A, P] {
	n := results.Len()
	out := make([]Result[A, P], n)
	for i := n - 1; i >= 0; i-- {
		item := heap.Pop(results).(*resultItem[A, P])
		out[i] = Result[A, P]{Point: item.coords, Payload: item.payload, Distance: item.dist}
	}
	return out
}

// NearestOne returns the single closest point to point under metric. It
// fails with ErrEmpty if the tree holds no points.
//
// Internally pending subtrees are explored in last-pushed-first order (a
// stack, not a priority queue). Each popped subtree whose lower bound is no
// smaller than the best distance found so far is skipped rather than
// expanded; the kept "best" distance only ever tightens, so a skipped subtree
// cannot hold a closer point. NearestOne therefore visits nodes in a
// different order than Nearest(point, 1, metric) would, and is kept as a
// distinct code path rather than unified with it.
func (t *Tree[A, P]) NearestOne(point []A, metric Metric[A]) (Result[A, P], error) {
	if err := t.checkPoint(point); err != nil {
		return Result[A, P]{}, err
	}
	if t.size == 0 {
		return Result[A, P]{}, ErrEmpty
	}
	defer t.instrObserve()()

	res, ok := nearestOneInternal(t, point, metric)
	if !ok {
		return Result[A, P]{}, ErrEmpty
	}
	return res, nil
}

// NearestOnePeriodic is NearestOne's periodic-aware counterpart: distances
// are folded to minimum-image distance, and translated images of point are
// additionally checked wherever they could be closer than the best distance
// found so far.
func (t *Tree[A, P]) NearestOnePeriodic(point []A, metric Metric[A]) (Result[A, P], error) {
	if err := t.checkPoint(point); err != nil {
		return Result[A, P]{}, err
	}
	if t.size == 0 {
		return Result[A, P]{}, ErrEmpty
	}
	defer t.instrObserve()()

	if t.periodic == nil {
		res, _ := nearestOneInternal(t, point, metric)
		return res, nil
	}

	em := wrappedMetric(metric, t.periodic)
	best, ok := nearestOneInternal(t, point, em)
	if !ok {
		return Result[A, P]{}, ErrEmpty
	}

	for _, img := range queryImages(point, t.periodic, best.Distance)[1:] {
		cand, ok := nearestOneInternal(t, img, em)
		if ok && cand.Distance < best.Distance {
			best = cand
		}
	}
	return best, nil
}

// nearestOneInternal implements the pending-stack traversal described on
// NearestOne. Descent is the same greedy, sibling-only-pushes
// shape populatePending uses for Nearest and Within, just walked over a
// plain stack instead of a heap; each step's sibling pushes are additionally
// bounded by the current best distance (infinite until a first candidate is
// found), so a stem whose whole subtree is already farther than the best
// answer so far is skipped without ever being descended into.
func nearestOneInternal[A constraints.Float, P any](t *Tree[A, P], point []A, em Metric[A]) (Result[A, P], bool) {
	type stackItem struct {
		node  *Tree[A, P]
		bound A
	}
	pending := []stackItem{{node: t, bound: 0}}

	var (
		best    Result[A, P]
		haveOne bool
	)

	for len(pending) > 0 {
		last := len(pending) - 1
		cur := pending[last]
		pending = pending[:last]
		if haveOne && cur.bound >= best.Distance {
			continue
		}

		maxDist := A(math.Inf(1))
		if haveOne {
			maxDist = best.Distance
		}

		curr := cur.node
		for !curr.IsLeaf() {
			var sibling *Tree[A, P]
			if belongsInLeft(point, curr.splitDim, curr.splitVal) {
				sibling = curr.right
				curr = curr.left
			} else {
				sibling = curr.left
				curr = curr.right
			}

			bound := distanceToSpace(point, sibling.minBounds, sibling.maxBounds, em)
			if bound <= maxDist {
				pending = append(pending, stackItem{node: sibling, bound: bound})
			}
		}

		for i, p := range curr.leafPoints {
			d := em(point, p)
			if !haveOne || d < best.Distance {
				best = Result[A, P]{Point: p, Payload: curr.leafPayloads[i], Distance: d}
				haveOne = true
			}
		}
	}

	return best, haveOne
}

// instrObserve starts an instrumentation timer (if any) and returns a
// closure that records the observation; call sites use defer t.instrObserve()().
func (t *Tree[A, P]) instrObserve() func() {
	if t.instr == nil {
		return func() {}
	}
	start := time.Now()
	return func() { t.instr.observeQuery(start) }
}
