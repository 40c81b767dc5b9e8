package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNewSlogLoggerRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewSlogLogger(&buf, LogLevelWarn, time.UTC)

	log.Info("hidden")
	log.Warn("shown", String("result_type", "Drifts"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "result_type=Drifts")
}

func TestModuleNameIsNested(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewSlogLogger(&buf, LogLevelDebug, time.UTC).Module("dataset").Module("joint")
	log.Debug("built")

	assert.Contains(t, buf.String(), "module=dataset.joint")
}

func TestWithDoesNotLeakIntoParent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	parent := NewSlogLogger(&buf, LogLevelInfo, time.UTC)
	child := parent.With(Uint("result_set_id", 7))

	child.Info("child")
	parent.Info("parent")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "result_set_id=7")
	assert.NotContains(t, lines[1], "result_set_id")
}

func TestWithContextAddsTraceID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewSlogLogger(&buf, LogLevelInfo, time.UTC)
	log.WithContext(WithTraceID(context.Background(), "job-1")).Info("rebuild")

	assert.Contains(t, buf.String(), "trace_id=job-1")
}

func TestTraceLevelLabel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewSlogLogger(&buf, LogLevelTrace, time.UTC)
	log.Trace("select")

	assert.Contains(t, buf.String(), "level=TRACE")
}

func TestSensitiveFieldsAreRedacted(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewSlogLogger(&buf, LogLevelInfo, time.UTC)
	log.Info("connect",
		String("password", "hunter2"),
		String("target", "rps:s3cret@tcp(localhost:3306)/rps"))

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "s3cret")
	assert.Contains(t, out, "[REDACTED]")
}

func TestRedactSensitiveData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "rebuilt 3 result types", "rebuilt 3 result types"},
		{"dsn", "root:pw1234@tcp(db)/rps", "root:[REDACTED]@tcp(db)/rps"},
		{"key value", "token=abcdef", "token=[REDACTED]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, RedactSensitiveData(tt.input))
		})
	}
}

func TestCentralLoggerModuleLevels(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "logs", "rps.log")
	cl, err := NewCentralLogger(&LoggingConfig{
		DefaultLevel: "warn",
		Timezone:     "UTC",
		Console:      &ConsoleOutput{Enabled: false},
		FileOutput:   &FileOutput{Enabled: true, Path: logPath, Level: "debug"},
		ModuleLevels: map[string]string{"cachebuilder": "debug"},
	})
	require.NoError(t, err)

	cl.Module("cachebuilder").Debug("verbose module")
	cl.Module("dataset").Info("quiet module")
	require.NoError(t, cl.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "verbose module")
	assert.NotContains(t, string(data), "quiet module")
	assert.Contains(t, string(data), `"module":"cachebuilder"`)
}

func TestCentralLoggerRejectsBadTimezone(t *testing.T) {
	t.Parallel()

	_, err := NewCentralLogger(&LoggingConfig{Timezone: "Not/AZone"})
	require.Error(t, err)
}

func TestGormAdapterSlowQueryHook(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var slow []time.Duration
	adapter := NewGormLoggerAdapter(NewSlogLogger(&buf, LogLevelInfo, time.UTC), time.Millisecond).
		WithSlowQueryHook(func(elapsed time.Duration) { slow = append(slow, elapsed) })

	sql := func() (string, int64) { return "SELECT 1", 1 }
	adapter.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	adapter.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)

	assert.Len(t, slow, 1)
	assert.Contains(t, buf.String(), "slow query")
	assert.NotContains(t, buf.String(), "query failed")
}
