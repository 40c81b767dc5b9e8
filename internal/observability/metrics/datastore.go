package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DatastoreMetrics contains Prometheus metrics for database access
type DatastoreMetrics struct {
	SlowQueries       prometheus.Counter
	SlowQueryDuration prometheus.Histogram
	registry          *prometheus.Registry
}

// NewDatastoreMetrics creates and registers the datastore metrics.
func NewDatastoreMetrics(registry *prometheus.Registry) (*DatastoreMetrics, error) {
	m := &DatastoreMetrics{registry: registry}
	m.SlowQueries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rps_db_slow_queries_total",
		Help: "Statements slower than the configured slow query threshold.",
	})
	m.SlowQueryDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rps_db_slow_query_duration_seconds",
		Help:    "Duration of slow statements.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 8),
	})
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register datastore metrics: %w", err)
	}
	return m, nil
}

// ObserveSlowQuery records one slow statement. Its signature matches
// logger.SlowQueryHook.
func (m *DatastoreMetrics) ObserveSlowQuery(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SlowQueries.Inc()
	m.SlowQueryDuration.Observe(elapsed.Seconds())
}

// Collect implements the prometheus.Collector interface.
func (m *DatastoreMetrics) Collect(ch chan<- prometheus.Metric) {
	ch <- m.SlowQueries
	ch <- m.SlowQueryDuration
}

// Describe implements the prometheus.Collector interface.
func (m *DatastoreMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.SlowQueries.Desc()
	ch <- m.SlowQueryDuration.Desc()
}
