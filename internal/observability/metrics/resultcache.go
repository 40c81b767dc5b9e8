// Package metrics provides Prometheus metrics for the results engine.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for dataset requests.
const (
	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeEmpty = "empty" // no cache rows for the key
)

// ResultCacheMetrics contains metrics of the dataset providers and the cache builder.
// All methods are safe on a nil receiver so components can run without metrics.
type ResultCacheMetrics struct {
	DatasetRequests *prometheus.CounterVec
	MemoEntries     *prometheus.GaugeVec
	Invalidations   *prometheus.CounterVec
	RebuildDuration *prometheus.HistogramVec
	RebuildFailures *prometheus.CounterVec
	RebuildRows     *prometheus.CounterVec
	registry        *prometheus.Registry
}

// NewResultCacheMetrics creates and registers the result cache metrics.
func NewResultCacheMetrics(registry *prometheus.Registry) (*ResultCacheMetrics, error) {
	m := &ResultCacheMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize result cache metrics: %w", err)
	}
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register result cache metrics: %w", err)
	}
	return m, nil
}

func (m *ResultCacheMetrics) initMetrics() error {
	m.DatasetRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rps_dataset_requests_total",
		Help: "Dataset requests by provider and memo outcome.",
	}, []string{"provider", "outcome"})

	m.MemoEntries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rps_dataset_memo_entries",
		Help: "Datasets currently memoized per provider.",
	}, []string{"provider"})

	m.Invalidations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rps_dataset_invalidations_total",
		Help: "Memoized datasets removed by invalidation, per provider.",
	}, []string{"provider"})

	m.RebuildDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rps_cache_rebuild_duration_seconds",
		Help:    "Duration of cache rebuilds per result type.",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"result_type"})

	m.RebuildFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rps_cache_rebuild_failures_total",
		Help: "Result types that failed to rebuild.",
	}, []string{"result_type"})

	m.RebuildRows = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rps_cache_rebuild_rows_total",
		Help: "Cache rows written per cache table.",
	}, []string{"table"})

	return nil
}

// RecordRequest counts one dataset request.
func (m *ResultCacheMetrics) RecordRequest(provider, outcome string) {
	if m == nil {
		return
	}
	m.DatasetRequests.WithLabelValues(provider, outcome).Inc()
}

// SetMemoEntries records the memo size of a provider.
func (m *ResultCacheMetrics) SetMemoEntries(provider string, n int) {
	if m == nil {
		return
	}
	m.MemoEntries.WithLabelValues(provider).Set(float64(n))
}

// RecordInvalidation counts memo entries removed by invalidation.
func (m *ResultCacheMetrics) RecordInvalidation(provider string, removed int) {
	if m == nil || removed <= 0 {
		return
	}
	m.Invalidations.WithLabelValues(provider).Add(float64(removed))
}

// ObserveRebuild records the duration of one result type rebuild.
func (m *ResultCacheMetrics) ObserveRebuild(resultType string, seconds float64, failed bool) {
	if m == nil {
		return
	}
	m.RebuildDuration.WithLabelValues(resultType).Observe(seconds)
	if failed {
		m.RebuildFailures.WithLabelValues(resultType).Inc()
	}
}

// AddRebuildRows counts rows written to a cache table.
func (m *ResultCacheMetrics) AddRebuildRows(table string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RebuildRows.WithLabelValues(table).Add(float64(n))
}

// Collect implements the prometheus.Collector interface.
func (m *ResultCacheMetrics) Collect(ch chan<- prometheus.Metric) {
	m.DatasetRequests.Collect(ch)
	m.MemoEntries.Collect(ch)
	m.Invalidations.Collect(ch)
	m.RebuildDuration.Collect(ch)
	m.RebuildFailures.Collect(ch)
	m.RebuildRows.Collect(ch)
}

// Describe implements the prometheus.Collector interface.
func (m *ResultCacheMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.DatasetRequests.Describe(ch)
	m.MemoEntries.Describe(ch)
	m.Invalidations.Describe(ch)
	m.RebuildDuration.Describe(ch)
	m.RebuildFailures.Describe(ch)
	m.RebuildRows.Describe(ch)
}
