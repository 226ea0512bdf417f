package kdtree

import "golang.org/x/exp/constraints"

// Add inserts point with its payload into the tree, growing bounds and
// splitting leaf buckets as necessary. It fails without mutating the tree if
// point has the wrong dimension, carries a non-finite coordinate, or (in
// periodic mode) falls outside [0, L) on any axis.
func (t *Tree[A, P]) Add(point []A, payload P) error {
	if err := t.checkPoint(point); err != nil {
		return err
	}

	cp := append(make([]A, 0, len(point)), point...)
	t.addUnchecked(cp, payload)
	t.instr.recordInsert()

	return nil
}

// addUnchecked assumes point has already been validated and defensively
// copied, and performs the actual recursive insert.
func (t *Tree[A, P]) addUnchecked(point []A, payload P) {
	if t.IsLeaf() {
		t.addToBucket(point, payload)
		return
	}

	if belongsInLeft(point, t.splitDim, t.splitVal) {
		t.left.addUnchecked(point, payload)
	} else {
		t.right.addUnchecked(point, payload)
	}

	extendBounds(t.minBounds, t.maxBounds, point)
	t.size++
}

// addToBucket extends this leaf's own bounds and size for point, appends it
// to the backing slices, and only then checks capacity: a bucket is allowed
// to briefly hold one point over capacity, and split() is what drains it
// back down. This order matters — size is incremented here, on every bucket
// insert, so a point routed into a freshly split child by split() is
// counted by that child's own call into this function rather than needing a
// separate increment at the call site. A bucket whose points all coincide
// cannot be split and keeps every point it receives (see split).
func (t *Tree[A, P]) addToBucket(point []A, payload P) {
	extendBounds(t.minBounds, t.maxBounds, point)
	t.leafPoints = append(t.leafPoints, point)
	t.leafPayloads = append(t.leafPayloads, payload)
	t.size++

	if t.size > t.capacity {
		t.split()
	}
}

// split converts a full leaf into a stem. The split axis is the one with the
// widest finite AABB extent (ties broken toward the lowest axis index, NaN
// extents skipped as if -Inf), and the split value is the midpoint of that
// axis's bounds — not the median of the bucket's points, so a split never
// needs to look at point distribution to decide where to cut. If no axis has
// a positive extent (every point in the bucket coincides), no split plane can
// separate the points and the leaf is left as it is, over capacity.
func (t *Tree[A, P]) split() {
	splitDim := 0
	var widest A = -1
	for i := 0; i < t.dim; i++ {
		extent := t.maxBounds[i] - t.minBounds[i]
		if extent != extent { // NaN guard, mirrors the reference implementation
			continue
		}
		if extent > widest {
			widest = extent
			splitDim = i
		}
	}
	if !(widest > 0) {
		return
	}
	splitVal := t.minBounds[splitDim] + (t.maxBounds[splitDim]-t.minBounds[splitDim])/2

	min, max := infiniteBounds[A](t.dim)
	left := &Tree[A, P]{
		dim:          t.dim,
		minBounds:    min,
		maxBounds:    max,
		periodic:     t.periodic,
		capacity:     t.capacity,
		leafPoints:   make([][]A, 0, t.capacity),
		leafPayloads: make([]P, 0, t.capacity),
		instr:        t.instr,
	}

	min, max = infiniteBounds[A](t.dim)
	right := &Tree[A, P]{
		dim:          t.dim,
		minBounds:    min,
		maxBounds:    max,
		periodic:     t.periodic,
		capacity:     t.capacity,
		leafPoints:   make([][]A, 0, t.capacity),
		leafPayloads: make([]P, 0, t.capacity),
		instr:        t.instr,
	}

	points, payloads := t.leafPoints, t.leafPayloads
	t.splitDim = splitDim
	t.splitVal = splitVal
	t.left = left
	t.right = right
	t.leafPoints = nil
	t.leafPayloads = nil

	for i, p := range points {
		if belongsInLeft(p, splitDim, splitVal) {
			left.addToBucket(p, payloads[i])
		} else {
			right.addToBucket(p, payloads[i])
		}
	}
}

// Remove deletes every (point, payload) pair found equal to the given ones
// and reports the total number removed. It is a free function rather than a
// method because it needs P comparable, a constraint Tree's own type
// parameter list does not carry and a method cannot add.
//
// Removal is O(bucket size) per visited leaf and never merges sibling leaves
// back into a stem; a tree that has many removals and few remaining points
// keeps the shape its insertions gave it. AABB bounds are also left as-is
// after a removal, since shrinking them back would require rescanning the
// whole subtree — they remain valid (if not minimal) upper bounds for
// pruning.
func Remove[A constraints.Float, P comparable](t *Tree[A, P], point []A, payload P) (int, error) {
	if err := t.checkPoint(point); err != nil {
		return 0, err
	}

	n := removeRec(t, point, payload)
	t.instr.recordRemove(n)

	return n, nil
}

func removeRec[A constraints.Float, P comparable](t *Tree[A, P], point []A, payload P) int {
	if t.IsLeaf() {
		var removed int
		i := 0
		for i < len(t.leafPoints) {
			if t.leafPayloads[i] != payload || !equalPoint(t.leafPoints[i], point) {
				i++
				continue
			}
			last := len(t.leafPoints) - 1
			t.leafPoints[i] = t.leafPoints[last]
			t.leafPayloads[i] = t.leafPayloads[last]
			t.leafPoints = t.leafPoints[:last]
			t.leafPayloads = t.leafPayloads[:last]
			removed++
		}
		t.size -= removed
		return removed
	}

	var n int
	if belongsInLeft(point, t.splitDim, t.splitVal) {
		n = removeRec(t.left, point, payload)
	} else {
		n = removeRec(t.right, point, payload)
	}
	t.size -= n
	return n
}

func equalPoint[A constraints.Float](a, b []A) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
