package kdtree

import "golang.org/x/exp/constraints"

// distanceToSpace computes the distance from point to the closest point of
// the axis-aligned box [min, max], by clamping point into the box on each
// axis and evaluating metric between point and the clamped vector. metric is
// assumed monotone per axis, so this is a valid lower bound on the true
// distance from point to anything stored inside the box.
func distanceToSpace[A constraints.Float](point, min, max []A, metric Metric[A]) A {
	clamped := make([]A, len(point))
	for i, v := range point {
		switch {
		case v < min[i]:
			clamped[i] = min[i]
		case v > max[i]:
			clamped[i] = max[i]
		default:
			clamped[i] = v
		}
	}
	return metric(point, clamped)
}

// extendBounds widens min/max in place to also cover point.
func extendBounds[A constraints.Float](min, max []A, point []A) {
	for i, v := range point {
		if v < min[i] {
			min[i] = v
		}
		if v > max[i] {
			max[i] = v
		}
	}
}

// belongsInLeft reports which side of a stem's split plane point falls on:
// strictly-less goes left, ties go right (invariant 1 in spec.md §3).
func belongsInLeft[A constraints.Float](point []A, splitDim int, splitVal A) bool {
	return point[splitDim] < splitVal
}
