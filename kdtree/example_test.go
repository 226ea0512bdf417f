package kdtree_test

import (
	"fmt"

	"github.com/katalvlaran/kdtree/kdtree"
)

// ExampleTree_Nearest demonstrates inserting a handful of 2-D points and
// finding the two closest to a query point under squared Euclidean distance.
func ExampleTree_Nearest() {
	tree, err := kdtree.New[float64, string](2, 4)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	_ = tree.Add([]float64{0, 0}, "origin")
	_ = tree.Add([]float64{1, 1}, "near")
	_ = tree.Add([]float64{10, 10}, "far")

	results, err := tree.Nearest([]float64{0.3, 0.3}, 2, squaredEuclidean)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, r := range results {
		fmt.Printf("%s: %.2f\n", r.Payload, r.Distance)
	}
	// Output:
	// origin: 0.18
	// near: 0.98
}

// ExampleNewPeriodic demonstrates a toroidal domain where a point near one
// edge is found as the nearest neighbour of a query point near the opposite
// edge, once the query is made with the periodic-aware entry point.
func ExampleNewPeriodic() {
	tree, err := kdtree.NewPeriodic[float64, string](1, 4, []float64{10})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	_ = tree.Add([]float64{0.2}, "near-zero")
	_ = tree.Add([]float64{5}, "middle")

	res, err := tree.NearestOnePeriodic([]float64{9.8}, squaredEuclidean)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(res.Payload)
	// Output:
	// near-zero
}
