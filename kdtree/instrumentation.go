package kdtree

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Instrumentation is an optional metrics hook for a Tree, wired via
// WithMetrics. It is nil by default so that callers who never ask for
// metrics pay no allocation or collection cost — the core tree never
// instruments itself, matching spec.md's "nothing is retried or logged
// internally".
//
// NewInstrumentation returns unregistered collectors; the caller registers
// them with whatever prometheus.Registerer it uses (see cmd/kdtree-demo for
// an example that serves them over /metrics).
type Instrumentation struct {
	Inserts       prometheus.Counter
	Removes       prometheus.Counter
	QueryDuration prometheus.Histogram
}

// NewInstrumentation builds a fresh set of collectors under the given
// namespace. It does not register them with any registry.
func NewInstrumentation(namespace string) *Instrumentation {
	return &Instrumentation{
		Inserts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kdtree_inserts_total",
			Help:      "Number of points added to the tree.",
		}),
		Removes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kdtree_removes_total",
			Help:      "Number of (point, payload) pairs removed from the tree.",
		}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kdtree_query_duration_seconds",
			Help:      "Wall-clock duration of a single query call.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Collectors returns the set of prometheus.Collector values a caller should
// pass to a Registerer.
func (in *Instrumentation) Collectors() []prometheus.Collector {
	return []prometheus.Collector{in.Inserts, in.Removes, in.QueryDuration}
}

func (in *Instrumentation) recordInsert() {
	if in == nil {
		return
	}
	in.Inserts.Inc()
}

func (in *Instrumentation) recordRemove(count int) {
	if in == nil || count == 0 {
		return
	}
	in.Removes.Add(float64(count))
}

func (in *Instrumentation) observeQuery(start time.Time) {
	if in == nil {
		return
	}
	in.QueryDuration.Observe(time.Since(start).Seconds())
}
