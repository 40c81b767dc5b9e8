// Package observability wires the Prometheus registry of the results engine.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tphakala/rps-results/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry  *prometheus.Registry
	Results   *metrics.ResultCacheMetrics
	Datastore *metrics.DatastoreMetrics
}

// NewMetrics creates a registry and registers every collector.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	results, err := metrics.NewResultCacheMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache metrics: %w", err)
	}

	datastore, err := metrics.NewDatastoreMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create datastore metrics: %w", err)
	}

	return &Metrics{
		registry:  registry,
		Results:   results,
		Datastore: datastore,
	}, nil
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
