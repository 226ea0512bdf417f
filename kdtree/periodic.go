package kdtree

import "golang.org/x/exp/constraints"

// minimumImage folds b toward a along every periodic axis before handing both
// vectors to metric, so the returned distance is the shortest path between a
// and b on the torus rather than the straight-line distance in [0, L)^K. When
// periodic is nil this is a no-op: b is used unmodified.
//
// Folding is done per axis (b' = b - L*round((b-a)/L)) rather than by
// enumerating all 3^K neighbouring images, which is equivalent whenever
// metric is separable (i.e. a sum or max of independent per-axis terms, as
// every Metric in this package is expected to be) and much cheaper.
func minimumImage[A constraints.Float](a, b, periodic []A) []A {
	if periodic == nil {
		return b
	}
	folded := make([]A, len(b))
	for i, bi := range b {
		l := periodic[i]
		d := bi - a[i]
		// round(d/l) without math.Round to stay generic over A.
		q := d / l
		var r A
		if q >= 0 {
			r = A(int64(q + 0.5))
		} else {
			r = A(int64(q - 0.5))
		}
		folded[i] = bi - l*r
	}
	return folded
}

// wrappedMetric returns a Metric that applies minimumImage to its second
// argument before delegating to base. Used internally so every distance
// evaluation inside a traversal — leaf points and AABB lower bounds alike —
// is periodic-aware. Only the *Periodic query entry points wrap the metric;
// the base entry points pass the caller's metric through unwrapped.
func wrappedMetric[A constraints.Float](base Metric[A], periodic []A) Metric[A] {
	if periodic == nil {
		return base
	}
	return func(a, b []A) A {
		return base(a, minimumImage(a, b, periodic))
	}
}

// queryImages returns the set of translated copies of point that must each be
// queried separately to find neighbours across a periodic domain's
// boundaries: point itself, plus one translated copy per nonempty subset of
// axes where point lies within range of that axis's nearer boundary, shifted
// on each axis in the subset by +L when point lies in the lower half of the
// axis and by -L otherwise. With range==0 only point itself is returned.
//
// This is the query-side half of periodic support (spec.md §4.4): minimum
// image distance alone is not sufficient when a query point near one edge of
// the domain must also see leaf buckets stored near the opposite edge, since
// the tree's spatial partitioning is not itself wrapped.
func queryImages[A constraints.Float](point, periodic []A, rng A) [][]A {
	type axisShift struct {
		axis int
		sign A
	}
	var shifts []axisShift
	for i, v := range point {
		l := periodic[i]
		if v < l/2 {
			if v < rng {
				shifts = append(shifts, axisShift{i, 1})
			}
		} else if l-v < rng {
			shifts = append(shifts, axisShift{i, -1})
		}
	}

	images := [][]A{point}
	n := len(shifts)
	for mask := 1; mask < (1 << n); mask++ {
		img := append(make([]A, 0, len(point)), point...)
		for bit := 0; bit < n; bit++ {
			if mask&(1<<bit) == 0 {
				continue
			}
			s := shifts[bit]
			img[s.axis] += s.sign * periodic[s.axis]
		}
		images = append(images, img)
	}
	return images
}
