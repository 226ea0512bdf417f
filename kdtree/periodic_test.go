package kdtree

import "testing"

func TestMinimumImage_FoldsTowardReference(t *testing.T) {
	periodic := []float64{10}
	folded := minimumImage([]float64{9.7}, []float64{0.5}, periodic)

	if folded[0] != 10.5 {
		t.Fatalf("expected 0.5 to fold to 10.5 when referenced from 9.7, got %v", folded[0])
	}
}

func TestMinimumImage_NilPeriodicIsNoOp(t *testing.T) {
	b := []float64{3.3}
	folded := minimumImage([]float64{1}, b, nil)

	if &folded[0] != &b[0] {
		t.Fatalf("expected minimumImage to return b unmodified when periodic is nil")
	}
}

func TestQueryImages_NoShiftsWhenFarFromEdge(t *testing.T) {
	images := queryImages([]float64{5}, []float64{10}, 1)
	if len(images) != 1 {
		t.Fatalf("expected no translated images for a point far from every edge, got %d", len(images))
	}
}

func TestQueryImages_OneShiftPerNearbyEdge(t *testing.T) {
	images := queryImages([]float64{0.1, 5}, []float64{10, 10}, 0.5)
	if len(images) != 2 {
		t.Fatalf("expected exactly one translated image for a point near one edge on one axis, got %d", len(images))
	}
}
