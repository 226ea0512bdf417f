package kdtree

import (
	"container/heap"
	"iter"

	"golang.org/x/exp/constraints"
)

// BestNWithin returns the n payloads, among all points within radius of
// point, whose payload values rank highest under P's natural ordering —
// not the n closest points, the n best-ranked ones. It is a free function
// rather than a method for the same reason Remove is: it needs P
// constraints.Ordered, a constraint Tree's own declared type parameters do
// not carry.
//
// Ties in payload value are broken by proximity to point, closest first.
func BestNWithin[A constraints.Float, P constraints.Ordered](t *Tree[A, P], point []A, radius A, n int, metric Metric[A]) ([]P, error) {
	if err := t.checkPoint(point); err != nil {
		return nil, err
	}
	if n <= 0 || radius < 0 {
		return nil, nil
	}
	defer t.instrObserve()()

	return bestNInternal(t, point, radius, n, metric), nil
}

// BestNWithinPeriodic is BestNWithin's periodic-aware counterpart: leaf
// distances are evaluated using minimum-image distance, and translated
// images of point across periodic boundaries are additionally considered.
func BestNWithinPeriodic[A constraints.Float, P constraints.Ordered](t *Tree[A, P], point []A, radius A, n int, metric Metric[A]) ([]P, error) {
	if err := t.checkPoint(point); err != nil {
		return nil, err
	}
	if n <= 0 || radius < 0 {
		return nil, nil
	}
	defer t.instrObserve()()

	if t.periodic == nil {
		return bestNInternal(t, point, radius, n, metric), nil
	}

	em := wrappedMetric(metric, t.periodic)
	merged := &payloadPQ[A, P]{}
	heap.Init(merged)
	for _, img := range queryImages(point, t.periodic, radius) {
		for _, c := range bestNCandidates(t, img, radius, n, em) {
			pushBestN(merged, c, n)
		}
	}
	return drainPayloads(merged), nil
}

// BestNWithinIter is the sequence-returning counterpart of BestNWithin: it
// runs the whole query before returning and yields the collected payloads in
// the same order BestNWithin returns them. The tree is not traversed lazily;
// stopping the range early only skips the remaining yields.
func BestNWithinIter[A constraints.Float, P constraints.Ordered](t *Tree[A, P], point []A, radius A, n int, metric Metric[A]) (iter.Seq[P], error) {
	if err := t.checkPoint(point); err != nil {
		return nil, err
	}
	if n <= 0 || radius < 0 {
		return func(yield func(P) bool) {}, nil
	}

	results := bestNInternal(t, point, radius, n, metric)
	return func(yield func(P) bool) {
		for _, p := range results {
			if !yield(p) {
				return
			}
		}
	}, nil
}

// BestNWithinIterPeriodic is the periodic-aware counterpart of
// BestNWithinIter.
func BestNWithinIterPeriodic[A constraints.Float, P constraints.Ordered](t *Tree[A, P], point []A, radius A, n int, metric Metric[A]) (iter.Seq[P], error) {
	results, err := BestNWithinPeriodic(t, point, radius, n, metric)
	if err != nil {
		return nil, err
	}
	return func(yield func(P) bool) {
		for _, p := range results {
			if !yield(p) {
				return
			}
		}
	}, nil
}

// payloadCandidate is one point found within radius, pending ranking by
// payload value.
type payloadCandidate[A constraints.Float, P constraints.Ordered] struct {
	dist    A
	payload P
}

// payloadPQ is a min-heap over (payload, dist) ordered so the current worst
// of the kept top-n sits at the root: lowest payload value first, and among
// equal payload values, furthest distance first. Popping the root therefore
// always evicts the right candidate when a better one arrives.
type payloadPQ[A constraints.Float, P constraints.Ordered] []payloadCandidate[A, P]

func (pq payloadPQ[A, P]) Len() int { return len(pq) }
func (pq payloadPQ[A, P]) Less(i, j int) bool {
	if pq[i].payload != pq[j].payload {
		return pq[i].payload < pq[j].payload
	}
	return pq[i].dist > pq[j].dist
}
func (pq payloadPQ[A, P]) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *payloadPQ[A, P]) Push(x interface{}) { *pq = append(*pq, x.(payloadCandidate[A, P])) }
func (pq *payloadPQ[A, P]) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

func pushBestN[A constraints.Float, P constraints.Ordered](pq *payloadPQ[A, P], c payloadCandidate[A, P], n int) {
	if pq.Len() < n {
		heap.Push(pq, c)
		return
	}
	worst := (*pq)[0]
	if c.payload > worst.payload || (c.payload == worst.payload && c.dist < worst.dist) {
		heap.Pop(pq)
		heap.Push(pq, c)
	}
}

// drainPayloads empties pq into a slice ordered best-payload-first, with
// distance as the tiebreaker.
func drainPayloads[A constraints.Float, P constraints.Ordered](pq *payloadPQ[A, P]) []P {
	n := pq.Len()
	out := make([]P, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = heap.Pop(pq).(payloadCandidate[A, P]).payload
	}
	return out
}

func bestNCandidates[A constraints.Float, P constraints.Ordered](t *Tree[A, P], point []A, radius A, n int, em Metric[A]) []payloadCandidate[A, P] {
	matches := withinInternal(t, point, radius, em)
	out := make([]payloadCandidate[A, P], len(matches))
	for i, r := range matches {
		out[i] = payloadCandidate[A, P]{dist: r.Distance, payload: r.Payload}
	}
	return out
}

func bestNInternal[A constraints.Float, P constraints.Ordered](t *Tree[A, P], point []A, radius A, n int, em Metric[A]) []P {
	pq := &payloadPQ[A, P]{}
	heap.Init(pq)
	for _, c := range bestNCandidates(t, point, radius, n, em) {
		pushBestN(pq, c, n)
	}
	return drainPayloads(pq)
}
