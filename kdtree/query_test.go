package kdtree_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/kdtree/kdtree"
)

func gridTree(t *testing.T, side, capacity int) *kdtree.Tree[float64, int] {
	t.Helper()
	tree, err := kdtree.New[float64, int](2, capacity)
	require.NoError(t, err)

	id := 0
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			require.NoError(t, tree.Add([]float64{float64(x), float64(y)}, id))
			id++
		}
	}
	return tree
}

func TestNearest_ReturnsKClosestSorted(t *testing.T) {
	tree := gridTree(t, 10, 4)

	res, err := tree.Nearest([]float64{4.4, 4.4}, 5, squaredEuclidean)
	require.NoError(t, err)
	require.Len(t, res, 5)

	for i := 1; i < len(res); i++ {
		assert.LessOrEqual(t, res[i-1].Distance, res[i].Distance)
	}
	assert.Equal(t, []float64{4, 4}, res[0].Point)
}

func TestNearest_FewerPointsThanK(t *testing.T) {
	tree, err := kdtree.New[float64, string](2, 4)
	require.NoError(t, err)
	require.NoError(t, tree.Add([]float64{0, 0}, "a"))
	require.NoError(t, tree.Add([]float64{1, 1}, "b"))

	res, err := tree.Nearest([]float64{0, 0}, 10, squaredEuclidean)
	require.NoError(t, err)
	assert.Len(t, res, 2)
}

func TestNearestOne_EmptyTree(t *testing.T) {
	tree, err := kdtree.New[float64, string](2, 4)
	require.NoError(t, err)

	_, err = tree.NearestOne([]float64{0, 0}, squaredEuclidean)
	assert.ErrorIs(t, err, kdtree.ErrEmpty)
}

func TestNearestOne_MatchesNearestK1(t *testing.T) {
	tree := gridTree(t, 8, 3)

	one, err := tree.NearestOne([]float64{3.3, 6.9}, squaredEuclidean)
	require.NoError(t, err)

	many, err := tree.Nearest([]float64{3.3, 6.9}, 1, squaredEuclidean)
	require.NoError(t, err)
	require.Len(t, many, 1)

	assert.Equal(t, many[0].Distance, one.Distance)
	assert.Equal(t, many[0].Payload, one.Payload)
}

func TestWithin_SortedAndBounded(t *testing.T) {
	tree := gridTree(t, 10, 4)

	res, err := tree.Within([]float64{5, 5}, 1.5, squaredEuclidean)
	require.NoError(t, err)
	require.NotEmpty(t, res)

	for _, r := range res {
		assert.LessOrEqual(t, r.Distance, 1.5*1.5+1e-9)
	}
	for i := 1; i < len(res); i++ {
		assert.LessOrEqual(t, res[i-1].Distance, res[i].Distance)
	}
}

func TestWithin_NegativeRadius(t *testing.T) {
	tree := gridTree(t, 4, 4)

	res, err := tree.Within([]float64{0, 0}, -1, squaredEuclidean)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestWithinUnsorted_SameSetAsWithin(t *testing.T) {
	tree := gridTree(t, 10, 4)

	sorted, err := tree.Within([]float64{5, 5}, 2, squaredEuclidean)
	require.NoError(t, err)
	unsorted, err := tree.WithinUnsorted([]float64{5, 5}, 2, squaredEuclidean)
	require.NoError(t, err)

	assert.ElementsMatch(t, payloadsOf(sorted), payloadsOf(unsorted))
}

func payloadsOf(res []kdtree.Result[float64, int]) []int {
	out := make([]int, len(res))
	for i, r := range res {
		out[i] = r.Payload
	}
	return out
}

func TestBestNWithin_RanksByPayload(t *testing.T) {
	tree, err := kdtree.New[float64, int](2, 2)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, tree.Add([]float64{float64(i) * 0.1, 0}, i))
	}

	best, err := kdtree.BestNWithin[float64, int](tree, []float64{0, 0}, 2, 3, squaredEuclidean)
	require.NoError(t, err)
	require.Len(t, best, 3)
	assert.Equal(t, []int{9, 8, 7}, best)
}

func TestIterNearest_StopsEarly(t *testing.T) {
	tree := gridTree(t, 10, 4)

	seq, err := tree.IterNearest([]float64{0, 0}, squaredEuclidean)
	require.NoError(t, err)

	var visited int
	for range seq {
		visited++
		if visited == 3 {
			break
		}
	}
	assert.Equal(t, 3, visited)
}

func TestIterNearest_FullOrderMatchesNearest(t *testing.T) {
	tree := gridTree(t, 5, 3)

	seq, err := tree.IterNearest([]float64{2, 2}, squaredEuclidean)
	require.NoError(t, err)

	var viaIter []kdtree.Result[float64, int]
	for r := range seq {
		viaIter = append(viaIter, r)
	}

	viaNearest, err := tree.Nearest([]float64{2, 2}, tree.Size(), squaredEuclidean)
	require.NoError(t, err)

	// Ties between equal distances may come out in any order, so the order is
	// compared by distance and the payloads as a set.
	require.Len(t, viaIter, len(viaNearest))
	for i := range viaIter {
		assert.Equal(t, viaNearest[i].Distance, viaIter[i].Distance)
	}
	assert.ElementsMatch(t, payloadsOf(viaNearest), payloadsOf(viaIter))
}

func TestPeriodic_NearestAcrossBoundary(t *testing.T) {
	tree, err := kdtree.NewPeriodic[float64, string](1, 4, []float64{10})
	require.NoError(t, err)
	require.NoError(t, tree.Add([]float64{0.5}, "near-zero"))
	require.NoError(t, tree.Add([]float64{5}, "middle"))

	nonPeriodic, err := tree.NearestOne([]float64{9.7}, squaredEuclidean)
	require.NoError(t, err)
	assert.Equal(t, "middle", nonPeriodic.Payload)

	wrapped, err := tree.NearestOnePeriodic([]float64{9.7}, squaredEuclidean)
	require.NoError(t, err)
	assert.Equal(t, "near-zero", wrapped.Payload)
	assert.InDelta(t, 0.64, wrapped.Distance, 1e-9)
}

func TestPeriodic_WithinAcrossBoundary(t *testing.T) {
	tree, err := kdtree.NewPeriodic[float64, string](1, 4, []float64{10})
	require.NoError(t, err)
	require.NoError(t, tree.Add([]float64{9.9}, "edge-high"))
	require.NoError(t, tree.Add([]float64{0.05}, "edge-low"))

	res, err := tree.WithinPeriodic([]float64{0}, 0.2, squaredEuclidean)
	require.NoError(t, err)

	var names []string
	for _, r := range res {
		names = append(names, r.Payload)
	}
	assert.Contains(t, names, "edge-low")
	assert.Contains(t, names, "edge-high")
}

func TestMinimumImage_NoOpWithoutPeriodic(t *testing.T) {
	tree, err := kdtree.New[float64, string](1, 4)
	require.NoError(t, err)
	require.NoError(t, tree.Add([]float64{9.9}, "far"))

	res, err := tree.NearestOne([]float64{0}, squaredEuclidean)
	require.NoError(t, err)
	assert.InDelta(t, math.Pow(9.9, 2), res.Distance, 1e-9)
}
