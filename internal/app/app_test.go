package app

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/rps-results/internal/buildinfo"
	"github.com/tphakala/rps-results/internal/conf"
	"github.com/tphakala/rps-results/internal/logger"
)

func testSettings(t *testing.T, metricsEnabled bool) *conf.Settings {
	t.Helper()
	return &conf.Settings{
		Project: conf.ProjectSettings{ID: 1},
		Database: conf.DatabaseSettings{
			Type:      conf.DatabaseSQLite,
			SQLite:    conf.SQLiteSettings{Path: filepath.Join(t.TempDir(), "rps.db")},
			SlowQuery: time.Second,
		},
		Rebuild: conf.RebuildSettings{Concurrency: 2},
		Logging: logger.LoggingConfig{
			DefaultLevel: "error",
			Console:      &logger.ConsoleOutput{Enabled: true, Level: "error"},
		},
		Metrics: conf.MetricsSettings{Enabled: metricsEnabled},
	}
}

func TestNewAssemblesRuntime(t *testing.T) {
	a, err := New(testSettings(t, false), buildinfo.NewContext("1.0.0", ""))
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Store)
	require.NotNil(t, a.Runner)
	require.NotNil(t, a.Service)
	assert.Nil(t, a.Metrics)
	assert.Equal(t, uint(1), a.Service.ProjectID())

	ds, err := a.Service.GetStandardDataset(context.Background(), "Drifts", "X", 1)
	require.NoError(t, err)
	assert.Nil(t, ds)

	_, err = a.ServeMetrics("127.0.0.1:0")
	assert.Error(t, err)
}

func TestServeMetrics(t *testing.T) {
	a, err := New(testSettings(t, true), buildinfo.NewContext("1.0.0", ""))
	require.NoError(t, err)
	defer a.Close()

	addr, err := a.ServeMetrics("127.0.0.1:0")
	require.NoError(t, err)

	a.Metrics.Results.RecordRequest("standard", "hit")

	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "rps_dataset_requests_total")
}

func TestNewRejectsNilSettings(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	a, err := New(testSettings(t, false), nil)
	require.NoError(t, err)
	a.Close()
	a.Close()
}
