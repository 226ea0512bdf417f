package kdtree

import (
	"container/heap"
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// Within returns every point within radius (inclusive) of point under
// metric, sorted by ascending distance. Distances are evaluated directly
// under metric with no awareness of periodic boundaries, even on a periodic
// tree — use WithinPeriodic for that.
func (t *Tree[A, P]) Within(point []A, radius A, metric Metric[A]) ([]Result[A, P], error) {
	res, err := t.WithinUnsorted(point, radius, metric)
	if err != nil {
		return nil, err
	}
	sortResultsByDistance(res)
	return res, nil
}

// WithinUnsorted behaves like Within but returns matches in traversal order
// rather than sorted by distance, avoiding the sort's cost when the caller
// does not need ordering.
func (t *Tree[A, P]) WithinUnsorted(point []A, radius A, metric Metric[A]) ([]Result[A, P], error) {
	if err := t.checkPoint(point); err != nil {
		return nil, err
	}
	if radius < 0 {
		return nil, nil
	}
	defer t.instrObserve()()

	return withinInternal(t, point, radius, metric), nil
}

// WithinPeriodic is Within's periodic-aware counterpart: leaf distances are
// evaluated using minimum-image distance, and the query point is additionally
// translated across domain boundaries wherever it lies within radius of an
// edge, so matches stored on the opposite face of the domain are found.
func (t *Tree[A, P]) WithinPeriodic(point []A, radius A, metric Metric[A]) ([]Result[A, P], error) {
	res, err := t.withinUnsortedPeriodic(point, radius, metric)
	if err != nil {
		return nil, err
	}
	sortResultsByDistance(res)
	return res, nil
}

// WithinUnsortedPeriodic is the unsorted counterpart of WithinPeriodic.
func (t *Tree[A, P]) WithinUnsortedPeriodic(point []A, radius A, metric Metric[A]) ([]Result[A, P], error) {
	return t.withinUnsortedPeriodic(point, radius, metric)
}

func (t *Tree[A, P]) withinUnsortedPeriodic(point []A, radius A, metric Metric[A]) ([]Result[A, P], error) {
	if err := t.checkPoint(point); err != nil {
		return nil, err
	}
	if radius < 0 {
		return nil, nil
	}
	defer t.instrObserve()()

	if t.periodic == nil {
		return withinInternal(t, point, radius, metric), nil
	}

	em := wrappedMetric(metric, t.periodic)
	seen := make(map[string]struct{})
	var out []Result[A, P]
	for _, img := range queryImages(point, t.periodic, radius) {
		for _, r := range withinInternal(t, img, radius, em) {
			key := formatCoords(r.Point) + "|" + fmt.Sprintf("%v", r.Payload)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, r)
		}
	}
	return out, nil
}

// withinInternal visits every leaf whose bounding box comes within radius of
// point and collects any point actually within radius. The pending queue
// starts with the root at bound 0; each step descends greedily into the
// query-belongs-to side via populatePending, which pushes only the off-side
// sibling at each stem — and only when that sibling's own bound is within
// radius, so a subtree that cannot possibly contain a match is never
// descended into at all.
func withinInternal[A constraints.Float, P any](t *Tree[A, P], point []A, radius A, em Metric[A]) []Result[A, P] {
	var out []Result[A, P]

	pending := &pendingPQ[A, P]{}
	heap.Init(pending)
	heap.Push(pending, &pendingItem[A, P]{node: t, bound: 0})

	for pending.Len() > 0 && (*pending)[0].bound <= radius {
		item := heap.Pop(pending).(*pendingItem[A, P])
		curr := item.node
		populatePending(point, radius, em, pending, &curr)

		for i, p := range curr.leafPoints {
			d := em(point, p)
			if d <= radius {
				out = append(out, Result[A, P]{Point: p, Payload: curr.leafPayloads[i], Distance: d})
			}
		}
	}

	return out
}

func sortResultsByDistance[A constraints.Float, P any](res []Result[A, P]) {
	slices.SortFunc(res, func(a, b Result[A, P]) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
}

// formatCoords encodes a point as a fixed-width byte string suitable for use
// as a map key, used to deduplicate results gathered across multiple
// periodic query images without requiring P to be comparable.
func formatCoords[A constraints.Float](p []A) string {
	b := make([]byte, 8*len(p))
	for i, v := range p {
		binary.LittleEndian.PutUint64(b[i*8:], math.Float64bits(float64(v)))
	}
	return string(b)
}
