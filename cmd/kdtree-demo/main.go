// Command kdtree-demo builds a random point cloud, loads it into a
// github.com/katalvlaran/kdtree tree, and runs nearest-neighbour, radius,
// and best-n-within queries against it, reporting timing and counts.
//
// It exists to exercise the kdtree package end to end from outside its own
// test suite, and to demonstrate external parallelization of independent
// queries (--parallel), which the package itself deliberately never does.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/kdtree/kdtree"
)

var (
	dim        int
	capacity   int
	numPoints  int
	queries    int
	k          int
	radius     float64
	periodicL  float64
	periodic   bool
	parallel   bool
	metricsBind string
)

func main() {
	root := &cobra.Command{
		Use:   "kdtree-demo",
		Short: "Build a random k-d tree and run sample queries against it",
		RunE:  run,
	}

	flags := root.Flags()
	flags.IntVar(&dim, "dim", 3, "number of coordinates per point")
	flags.IntVar(&capacity, "capacity", kdtree.DefaultLeafCapacity, "per-leaf bucket capacity")
	flags.IntVar(&numPoints, "points", 10_000, "number of random points to insert")
	flags.IntVar(&queries, "queries", 100, "number of random nearest-neighbour queries to run")
	flags.IntVar(&k, "k", 5, "k for the k-NN query")
	flags.Float64Var(&radius, "radius", 5.0, "radius for the within and best-n-within queries")
	flags.BoolVar(&periodic, "periodic", false, "build a periodic tree instead of an unbounded one")
	flags.Float64Var(&periodicL, "periodic-extent", 100.0, "domain extent per axis when --periodic is set")
	flags.BoolVar(&parallel, "parallel", false, "run queries concurrently across an errgroup instead of sequentially")
	flags.StringVar(&metricsBind, "metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090) until queries finish")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	instr := kdtree.NewInstrumentation("kdtree_demo")
	reg := prometheus.NewRegistry()
	reg.MustRegister(instr.Collectors()...)

	if metricsBind != "" {
		srv := &http.Server{Addr: metricsBind, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			logger.Info("serving metrics", zap.String("addr", metricsBind))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
		defer srv.Close()
	}

	tree, err := buildTree(instr)
	if err != nil {
		return fmt.Errorf("build tree: %w", err)
	}
	logger.Info("tree built",
		zap.Int("points", tree.Size()),
		zap.Int("dim", tree.Dim()),
		zap.Bool("periodic", periodic),
	)

	start := time.Now()
	if parallel {
		err = runQueriesParallel(tree, logger)
	} else {
		err = runQueriesSequential(tree, logger)
	}
	if err != nil {
		return err
	}
	logger.Info("queries complete", zap.Duration("elapsed", time.Since(start)), zap.Int("count", queries))

	return nil
}

func buildTree(instr *kdtree.Instrumentation) (*kdtree.Tree[float64, int], error) {
	var (
		tree *kdtree.Tree[float64, int]
		err  error
	)
	if periodic {
		extent := make([]float64, dim)
		for i := range extent {
			extent[i] = periodicL
		}
		tree, err = kdtree.NewPeriodic[float64, int](dim, capacity, extent, kdtree.WithMetrics[float64, int](instr))
	} else {
		tree, err = kdtree.New[float64, int](dim, capacity, kdtree.WithMetrics[float64, int](instr))
	}
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(1))
	bound := periodicL
	if !periodic {
		bound = 1000
	}
	for i := 0; i < numPoints; i++ {
		p := randomPoint(rng, dim, bound)
		if err := tree.Add(p, i); err != nil {
			return nil, fmt.Errorf("add point %d: %w", i, err)
		}
	}

	return tree, nil
}

func randomPoint(rng *rand.Rand, dim int, bound float64) []float64 {
	p := make([]float64, dim)
	for i := range p {
		p[i] = rng.Float64() * bound
	}
	return p
}

func squaredEuclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func runQueriesSequential(tree *kdtree.Tree[float64, int], logger *zap.Logger) error {
	rng := rand.New(rand.NewSource(2))
	bound := periodicL
	if !periodic {
		bound = 1000
	}
	for i := 0; i < queries; i++ {
		q := randomPoint(rng, dim, bound)
		if err := runOneQuery(tree, q, logger, i); err != nil {
			return err
		}
	}
	return nil
}

// runQueriesParallel demonstrates fanning independent queries out across
// goroutines using errgroup. This is orchestration external to the tree: the
// tree itself is only ever read from concurrently here, never written to,
// and nothing inside the kdtree package spawns a goroutine on its own.
func runQueriesParallel(tree *kdtree.Tree[float64, int], logger *zap.Logger) error {
	rng := rand.New(rand.NewSource(2))
	bound := periodicL
	if !periodic {
		bound = 1000
	}
	points := make([][]float64, queries)
	for i := range points {
		points[i] = randomPoint(rng, dim, bound)
	}

	g, _ := errgroup.WithContext(context.Background())
	for i, q := range points {
		i, q := i, q
		g.Go(func() error {
			return runOneQuery(tree, q, logger, i)
		})
	}
	return g.Wait()
}

func runOneQuery(tree *kdtree.Tree[float64, int], q []float64, logger *zap.Logger, idx int) error {
	var (
		nearest []kdtree.Result[float64, int]
		within  []kdtree.Result[float64, int]
		best    []int
		err     error
	)

	if periodic {
		nearest, err = tree.NearestPeriodic(q, k, squaredEuclidean)
	} else {
		nearest, err = tree.Nearest(q, k, squaredEuclidean)
	}
	if err != nil {
		return fmt.Errorf("nearest query %d: %w", idx, err)
	}

	if periodic {
		within, err = tree.WithinPeriodic(q, radius, squaredEuclidean)
	} else {
		within, err = tree.Within(q, radius, squaredEuclidean)
	}
	if err != nil {
		return fmt.Errorf("within query %d: %w", idx, err)
	}

	if periodic {
		best, err = kdtree.BestNWithinPeriodic(tree, q, radius, k, squaredEuclidean)
	} else {
		best, err = kdtree.BestNWithin(tree, q, radius, k, squaredEuclidean)
	}
	if err != nil {
		return fmt.Errorf("best-n-within query %d: %w", idx, err)
	}

	logger.Debug("query result",
		zap.Int("query", idx),
		zap.Int("nearest_count", len(nearest)),
		zap.Int("within_count", len(within)),
		zap.Int("best_n_count", len(best)),
	)

	return nil
}
