// Package app assembles the runtime of one project: logging, telemetry,
// metrics, storage, the background rebuild runner and the result service.
package app

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/tphakala/rps-results/internal/buildinfo"
	"github.com/tphakala/rps-results/internal/conf"
	"github.com/tphakala/rps-results/internal/datastore"
	"github.com/tphakala/rps-results/internal/errors"
	"github.com/tphakala/rps-results/internal/logger"
	"github.com/tphakala/rps-results/internal/observability"
	"github.com/tphakala/rps-results/internal/observability/metrics"
	"github.com/tphakala/rps-results/internal/rebuild"
	"github.com/tphakala/rps-results/internal/resultservice"
	"github.com/tphakala/rps-results/internal/telemetry"
)

// metricsShutdownTimeout bounds the graceful stop of the metrics listener.
const metricsShutdownTimeout = 5 * time.Second

// App is the assembled runtime. Close releases everything New acquired.
type App struct {
	Settings *conf.Settings
	Build    *buildinfo.Context
	Logger   logger.Logger
	Metrics  *observability.Metrics // nil unless metrics are enabled
	Store    datastore.Manager
	Runner   *rebuild.Runner
	Service  *resultservice.Service

	central        *logger.CentralLogger
	stopTelemetry  func()
	metricsServer  *http.Server
	metricsStopped chan struct{}
}

// New assembles the runtime for settings. The schema is migrated on open.
func New(settings *conf.Settings, build *buildinfo.Context) (*App, error) {
	if settings == nil {
		return nil, errors.Newf("settings cannot be nil").
			Component("app").
			Category(errors.CategoryValidation).
			Build()
	}
	if settings.Debug {
		settings.Logging.DefaultLevel = string(logger.LogLevelDebug)
	}

	central, err := logger.NewCentralLogger(&settings.Logging)
	if err != nil {
		return nil, err
	}
	a := &App{
		Settings: settings,
		Build:    build,
		Logger:   central.Module("rps"),
		central:  central,
	}

	a.stopTelemetry, err = telemetry.Init(&settings.Telemetry, build, a.Logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	var opts []datastore.Option
	var resultMetrics *metrics.ResultCacheMetrics
	if settings.Metrics.Enabled {
		if a.Metrics, err = observability.NewMetrics(); err != nil {
			a.Close()
			return nil, err
		}
		resultMetrics = a.Metrics.Results
		opts = append(opts, datastore.WithSlowQueryHook(a.Metrics.Datastore.ObserveSlowQuery))
	}

	if a.Store, err = datastore.Open(settings, a.Logger, opts...); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.Store.Initialize(); err != nil {
		a.Close()
		return nil, err
	}

	a.Runner = rebuild.NewRunner(a.Store, settings.Rebuild.Concurrency, a.Logger, resultMetrics)
	a.Service = resultservice.New(resultservice.Config{
		ProjectID: settings.Project.ID,
		DB:        a.Store.DB(),
		Settings:  settings,
		Logger:    a.Logger,
		Metrics:   resultMetrics,
		Runner:    a.Runner,
	})

	a.Logger.Debug("runtime ready",
		logger.String("version", build.GetVersion()),
		logger.String("database", a.Store.Path()),
		logger.Uint("project_id", settings.Project.ID))
	return a, nil
}

// ServeMetrics exposes the metrics registry on addr until Close. It returns
// the bound address.
func (a *App) ServeMetrics(addr string) (string, error) {
	if a.Metrics == nil {
		return "", errors.Newf("metrics are disabled").
			Component("app").
			Category(errors.CategoryConfiguration).
			Build()
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", errors.New(err).
			Component("app").
			Category(errors.CategoryConfiguration).
			Context("addr", addr).
			Build()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", a.Metrics.Handler())
	a.metricsServer = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	a.metricsStopped = make(chan struct{})

	go func() {
		defer close(a.metricsStopped)
		if err := a.metricsServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("metrics listener stopped", logger.Error(err))
		}
	}()

	a.Logger.Info("serving metrics", logger.String("addr", ln.Addr().String()))
	return ln.Addr().String(), nil
}

// Close stops the runner and releases storage, telemetry and log files.
func (a *App) Close() {
	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			a.Logger.Warn("failed to stop metrics listener", logger.Error(err))
		}
		cancel()
		<-a.metricsStopped
		a.metricsServer = nil
	}
	if a.Runner != nil {
		a.Runner.Close()
		a.Runner = nil
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn("failed to close database", logger.Error(err))
		}
		a.Store = nil
	}
	if a.stopTelemetry != nil {
		a.stopTelemetry()
		a.stopTelemetry = nil
	}
	if a.central != nil {
		_ = a.central.Close()
		a.central = nil
	}
}
