package kdtree

import (
	"container/heap"
	"iter"
	"math"

	"golang.org/x/exp/constraints"
)

// IterNearest returns every point in the tree in ascending order of distance
// from point under metric, as a lazy sequence: no more of the tree is
// traversed than the consumer actually ranges over. Stopping the range early
// (a break, or a bounded for loop) abandons the remaining traversal with no
// further work done.
func (t *Tree[A, P]) IterNearest(point []A, metric Metric[A]) (iter.Seq[Result[A, P]], error) {
	if err := t.checkPoint(point); err != nil {
		return nil, err
	}

	return iterNearestInternal(t, point, metric), nil
}

// IterNearestPeriodic behaves like IterNearest, additionally visiting
// translated images of point across periodic boundaries. Because exhaustive
// enumeration has no fixed cutoff to bound the image search by, every
// reachable image is searched and the results are merged and sorted before
// being replayed lazily; a stored point that is visible from more than one
// image appears in the sequence once per image that sees it.
func (t *Tree[A, P]) IterNearestPeriodic(point []A, metric Metric[A]) (iter.Seq[Result[A, P]], error) {
	if err := t.checkPoint(point); err != nil {
		return nil, err
	}
	if t.periodic == nil {
		return iterNearestInternal(t, point, metric), nil
	}

	em := wrappedMetric(metric, t.periodic)
	images := queryImages(point, t.periodic, A(math.MaxFloat32))

	return func(yield func(Result[A, P]) bool) {
		var all []Result[A, P]
		for _, img := range images {
			for r := range iterNearestInternal(t, img, em) {
				all = append(all, r)
			}
		}
		sortResultsByDistance(all)
		for _, r := range all {
			if !yield(r) {
				return
			}
		}
	}, nil
}

// iterEntry is either a not-yet-expanded subtree (isPoint false, bound is a
// lower bound) or an already-evaluated leaf point (isPoint true, bound is
// its exact distance). Sharing one min-heap for both keeps points and
// unexpanded subtrees correctly interleaved by distance.
type iterEntry[A constraints.Float, P any] struct {
	node    *Tree[A, P]
	isPoint bool
	coords  []A
	payload P
	bound   A
}

type iterPQ[A constraints.Float, P any] []*iterEntry[A, P]

func (pq iterPQ[A, P]) Len() int            { return len(pq) }
func (pq iterPQ[A, P]) Less(i, j int) bool  { return pq[i].bound < pq[j].bound }
func (pq iterPQ[A, P]) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *iterPQ[A, P]) Push(x interface{}) { *pq = append(*pq, x.(*iterEntry[A, P])) }
func (pq *iterPQ[A, P]) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

func iterNearestInternal[A constraints.Float, P any](t *Tree[A, P], point []A, em Metric[A]) iter.Seq[Result[A, P]] {
	return func(yield func(Result[A, P]) bool) {
		pq := &iterPQ[A, P]{}
		heap.Init(pq)
		heap.Push(pq, &iterEntry[A, P]{node: t, bound: 0})

		for pq.Len() > 0 {
			e := heap.Pop(pq).(*iterEntry[A, P])
			if e.isPoint {
				if !yield(Result[A, P]{Point: e.coords, Payload: e.payload, Distance: e.bound}) {
					return
				}
				continue
			}

			curr := e.node
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
				heap.Push(pq, &iterEntry[A, P]{node: sibling, bound: bound})
			}

			for i, p := range curr.leafPoints {
				d := em(point, p)
				heap.Push(pq, &iterEntry[A, P]{isPoint: true, coords: p, payload: curr.leafPayloads[i], bound: d})
			}
		}
	}
}
