package kdtree

import (
	"container/heap"

	"golang.org/x/exp/constraints"
)

// pendingItem is a subtree awaiting expansion during best-first descent,
// together with a lower bound on the distance from the query point to
// anything it could contain.
type pendingItem[A constraints.Float, P any] struct {
	node  *Tree[A, P]
	bound A
}

// pendingPQ is a min-heap of *pendingItem ordered by ascending bound, so the
// subtree that could possibly hold the closest remaining point is always
// expanded next. Mirrors nodePQ in dijkstra.go, generalized to subtrees
// instead of graph vertices.
type pendingPQ[A constraints.Float, P any] []*pendingItem[A, P]

func (pq pendingPQ[A, P]) Len() int            { return len(pq) }
func (pq pendingPQ[A, P]) Less(i, j int) bool  { return pq[i].bound < pq[j].bound }
func (pq pendingPQ[A, P]) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *pendingPQ[A, P]) Push(x interface{}) { *pq = append(*pq, x.(*pendingItem[A, P])) }
func (pq *pendingPQ[A, P]) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// resultItem is one evaluated (point, payload) pair, ordered by distance,
// used by the k-NN queries (Nearest, NearestPeriodic). coords carries the
// matched point so it can be reported back in the Result.
type resultItem[A constraints.Float, P any] struct {
	dist    A
	coords  []A
	payload P
}

// resultPQ is a max-heap of *resultItem ordered by descending distance, used
// to hold the best k results found so far: the root is always the current
// worst of the kept results, so a k-NN search can cheaply test whether a
// newly evaluated point displaces it.
type resultPQ[A constraints.Float, P any] []*resultItem[A, P]

func (pq resultPQ[A, P]) Len() int            { return len(pq) }
func (pq resultPQ[A, P]) Less(i, j int) bool  { return pq[i].dist > pq[j].dist }
func (pq resultPQ[A, P]) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *resultPQ[A, P]) Push(x interface{}) { *pq = append(*pq, x.(*resultItem[A, P])) }
func (pq *resultPQ[A, P]) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

var (
	_ heap.Interface = (*pendingPQ[float64, struct{}])(nil)
	_ heap.Interface = (*resultPQ[float64, struct{}])(nil)
)

// populatePending descends from *curr towards a leaf, choosing at each stem
// the side point belongs to and continuing into it immediately, without ever
// placing that chosen side back on the heap. The side not taken (the
// sibling) is pushed onto pending with its AABB lower bound, but only if
// that bound does not exceed maxDist. Mirrors kiddo's populate_pending.
func populatePending[A constraints.Float, P any](point []A, maxDist A, em Metric[A], pending *pendingPQ[A, P], curr **Tree[A, P]) {
	for !(*curr).IsLeaf() {
		node := *curr
		var sibling *Tree[A, P]
		if belongsInLeft(point, node.splitDim, node.splitVal) {
			sibling = node.right
			*curr = node.left
		} else {
			sibling = node.left
			*curr = node.right
		}

		bound := distanceToSpace(point, sibling.minBounds, sibling.maxBounds, em)
		if bound <= maxDist {
			heap.Push(pending, &pendingItem[A, P]{node: sibling, bound: bound})
		}
	}
}
