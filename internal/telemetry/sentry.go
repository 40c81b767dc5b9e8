// Package telemetry wires optional error reporting to Sentry.
package telemetry

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/tphakala/rps-results/internal/buildinfo"
	"github.com/tphakala/rps-results/internal/conf"
	"github.com/tphakala/rps-results/internal/errors"
	"github.com/tphakala/rps-results/internal/logger"
)

// flushTimeout bounds how long Shutdown waits for queued events.
const flushTimeout = 2 * time.Second

// sensitiveContexts are dropped from every event.
var sensitiveContexts = []string{"device", "os", "runtime"}

// Init initializes the Sentry SDK and registers it as the error reporter.
// It returns a shutdown function that flushes pending events. When telemetry
// is disabled nothing is initialized and the shutdown function is a no-op.
func Init(settings *conf.TelemetrySettings, build *buildinfo.Context, log logger.Logger) (func(), error) {
	if settings == nil || !settings.Enabled {
		errors.SetTelemetryReporter(nil)
		return func() {}, nil
	}
	if settings.DSN == "" {
		return nil, errors.Newf("telemetry is enabled but no DSN is configured").
			Component("telemetry").
			Category(errors.CategoryConfiguration).
			Build()
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              settings.DSN,
		SampleRate:       1.0,
		AttachStacktrace: false,
		Environment:      "production",
		ServerName:       "",
		Release:          build.Release(),
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return applyPrivacyFilters(event)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sentry initialization failed: %w", err)
	}

	errors.SetTelemetryReporter(errors.NewSentryReporter(true))
	log.Module("telemetry").Info("error reporting enabled", logger.String("release", build.Release()))

	return func() {
		errors.SetTelemetryReporter(nil)
		sentry.Flush(flushTimeout)
	}, nil
}

// applyPrivacyFilters removes host and user identifying data from an event.
func applyPrivacyFilters(event *sentry.Event) *sentry.Event {
	event.User = sentry.User{}
	event.ServerName = ""

	for _, key := range sensitiveContexts {
		delete(event.Contexts, key)
	}
	for k := range event.Extra {
		if k != "error_type" && k != "component" {
			delete(event.Extra, k)
		}
	}
	delete(event.Tags, "server_name")
	delete(event.Tags, "hostname")

	return event
}
