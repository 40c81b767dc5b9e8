package telemetry

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/rps-results/internal/buildinfo"
	"github.com/tphakala/rps-results/internal/conf"
	"github.com/tphakala/rps-results/internal/errors"
	"github.com/tphakala/rps-results/internal/logger"
)

func testLogger() logger.Logger {
	return logger.NewSlogLogger(nil, logger.LogLevelError, nil)
}

func TestInitDisabledIsNoop(t *testing.T) {
	shutdown, err := Init(&conf.TelemetrySettings{Enabled: false}, buildinfo.NewContext("1.0.0", ""), testLogger())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	shutdown()

	shutdown, err = Init(nil, nil, testLogger())
	require.NoError(t, err)
	shutdown()
}

func TestInitRequiresDSN(t *testing.T) {
	_, err := Init(&conf.TelemetrySettings{Enabled: true}, buildinfo.NewContext("1.0.0", ""), testLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestApplyPrivacyFilters(t *testing.T) {
	event := sentry.NewEvent()
	event.User = sentry.User{ID: "user", IPAddress: "10.0.0.1"}
	event.ServerName = "workstation"
	event.Contexts = map[string]sentry.Context{
		"os":          {"name": "linux"},
		"device":      {"arch": "amd64"},
		"result_type": {"value": "Drifts"},
	}
	event.Extra = map[string]any{"component": "cachebuilder", "path": "/home/user/project.db"}
	event.Tags = map[string]string{"hostname": "workstation", "category": "cache-build"}

	out := applyPrivacyFilters(event)

	assert.True(t, out.User.IsEmpty())
	assert.Empty(t, out.ServerName)
	assert.NotContains(t, out.Contexts, "os")
	assert.NotContains(t, out.Contexts, "device")
	assert.Contains(t, out.Contexts, "result_type")
	assert.Equal(t, map[string]any{"component": "cachebuilder"}, out.Extra)
	assert.Equal(t, map[string]string{"category": "cache-build"}, out.Tags)
}
