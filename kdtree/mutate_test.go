package kdtree_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/kdtree/kdtree"
)

func squaredEuclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func TestNew_ZeroCapacity(t *testing.T) {
	_, err := kdtree.New[float64, string](3, 0)
	assert.ErrorIs(t, err, kdtree.ErrZeroCapacity)
}

func TestNewPeriodic_BadExtent(t *testing.T) {
	_, err := kdtree.NewPeriodic[float64, string](2, 4, []float64{10, -1})
	assert.ErrorIs(t, err, kdtree.ErrDimensionMismatch)

	_, err = kdtree.NewPeriodic[float64, string](2, 4, []float64{10})
	assert.ErrorIs(t, err, kdtree.ErrDimensionMismatch)
}

func TestAdd_DimensionMismatch(t *testing.T) {
	tree, err := kdtree.New[float64, string](3, 4)
	require.NoError(t, err)

	err = tree.Add([]float64{1, 2}, "a")
	assert.ErrorIs(t, err, kdtree.ErrDimensionMismatch)
}

func TestAdd_NonFiniteCoordinate(t *testing.T) {
	tree, err := kdtree.New[float64, string](2, 4)
	require.NoError(t, err)

	err = tree.Add([]float64{1, math.NaN()}, "a")
	assert.ErrorIs(t, err, kdtree.ErrNonFiniteCoordinate)
}

func TestAdd_PeriodicOutOfBounds(t *testing.T) {
	tree, err := kdtree.NewPeriodic[float64, string](2, 4, []float64{10, 10})
	require.NoError(t, err)

	assert.ErrorIs(t, tree.Add([]float64{10, 5}, "a"), kdtree.ErrPeriodicOutOfBounds)
	assert.ErrorIs(t, tree.Add([]float64{-0.1, 5}, "a"), kdtree.ErrPeriodicOutOfBounds)
	assert.NoError(t, tree.Add([]float64{0, 5}, "ok"))
}

func TestAdd_GrowsSizeAndSplits(t *testing.T) {
	tree, err := kdtree.New[float64, int](2, 2)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, tree.Add([]float64{float64(i), float64(i)}, i))
	}

	assert.Equal(t, 10, tree.Size())
	assert.False(t, tree.IsLeaf())
}

func TestRemove_RoundTrip(t *testing.T) {
	tree, err := kdtree.New[float64, int](2, 2)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		require.NoError(t, tree.Add([]float64{float64(i), float64(-i)}, i))
	}
	require.Equal(t, 20, tree.Size())

	n, err := kdtree.Remove[float64, int](tree, []float64{5, -5}, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 19, tree.Size())

	n, err = kdtree.Remove[float64, int](tree, []float64{5, -5}, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	res, err := tree.NearestOne([]float64{5, -5}, squaredEuclidean)
	require.NoError(t, err)
	assert.NotEqual(t, 5, res.Payload)
}

func TestRemove_DimensionMismatch(t *testing.T) {
	tree, err := kdtree.New[float64, int](2, 2)
	require.NoError(t, err)

	_, err = kdtree.Remove[float64, int](tree, []float64{1}, 0)
	assert.ErrorIs(t, err, kdtree.ErrDimensionMismatch)
}
