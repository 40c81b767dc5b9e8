package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/rps-results/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "debug: false\n")

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint(1), settings.Project.ID)
	assert.Equal(t, DatabaseSQLite, settings.Database.Type)
	assert.Equal(t, "rps.db", settings.Database.SQLite.Path)
	assert.Equal(t, DefaultSlowQuery, settings.Database.SlowQuery)
	assert.Equal(t, DefaultStandardCacheSize, settings.Cache.Standard.Size)
	assert.Equal(t, DefaultElementCacheSize, settings.Cache.Element.Size)
	assert.Equal(t, DefaultComparisonTTL, settings.Cache.Comparison.TTL)
	assert.Equal(t, DefaultRebuildWorkers, settings.Rebuild.Concurrency)
	assert.Equal(t, "info", settings.Logging.DefaultLevel)
	require.NotNil(t, settings.Logging.Console)
	assert.True(t, settings.Logging.Console.Enabled)
}

func TestEmbeddedConfigMatchesDefaults(t *testing.T) {
	t.Parallel()

	data := defaultConfig()
	require.NotEmpty(t, data)

	path := writeConfig(t, string(data))
	settings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultJointCacheSize, settings.Cache.Joint.Size)
	assert.Equal(t, DefaultMaxMinCacheSize, settings.Cache.MaxMin.Size)
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeConfig(t, `
project:
  id: 7
database:
  type: mysql
  mysql:
    host: db.internal
    port: 3307
    username: eng
    password: pw
    database: tower
cache:
  standard:
    size: 8
  comparison:
    ttl: 90s
`)

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint(7), settings.Project.ID)
	assert.Equal(t, DatabaseMySQL, settings.Database.Type)
	assert.Equal(t, 8, settings.Cache.Standard.Size)
	assert.Equal(t, 90*time.Second, settings.Cache.Comparison.TTL)
	assert.Equal(t, "eng:pw@tcp(db.internal:3307)/tower?charset=utf8mb4&parseTime=True&loc=Local",
		settings.Database.MySQLDSN())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RPS_DATABASE_SQLITE_PATH", "/tmp/override.db")
	t.Setenv("RPS_REBUILD_CONCURRENCY", "2")

	settings, err := Load(writeConfig(t, "debug: true\n"))
	require.NoError(t, err)

	assert.True(t, settings.Debug)
	assert.Equal(t, "/tmp/override.db", settings.Database.SQLite.Path)
	assert.Equal(t, 2, settings.Rebuild.Concurrency)
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	t.Setenv("RPS_DATABASE_TYPE", "postgres")

	_, err := Load(writeConfig(t, "debug: false\n"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Settings {
		return &Settings{
			Project:  ProjectSettings{ID: 1},
			Database: DatabaseSettings{Type: DatabaseSQLite, SQLite: SQLiteSettings{Path: "rps.db"}},
			Cache: CacheSettings{
				Standard:   LRUSettings{Size: 1},
				Element:    LRUSettings{Size: 1},
				Joint:      LRUSettings{Size: 1},
				MaxMin:     LRUSettings{Size: 1},
				Comparison: ComparisonCacheSettings{TTL: time.Minute},
			},
			Rebuild: RebuildSettings{Concurrency: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr string
	}{
		{"valid", func(*Settings) {}, ""},
		{"no project", func(s *Settings) { s.Project.ID = 0 }, "project.id"},
		{"bad database type", func(s *Settings) { s.Database.Type = "oracle" }, "database.type"},
		{"mysql without host", func(s *Settings) {
			s.Database.Type = DatabaseMySQL
			s.Database.MySQL = MySQLSettings{Port: 3306, Database: "rps"}
		}, "database.mysql.host"},
		{"zero lru size", func(s *Settings) { s.Cache.Element.Size = 0 }, "cache.element.size"},
		{"short ttl", func(s *Settings) { s.Cache.Comparison.TTL = time.Millisecond }, "cache.comparison.ttl"},
		{"no workers", func(s *Settings) { s.Rebuild.Concurrency = 0 }, "rebuild.concurrency"},
		{"bad module level", func(s *Settings) {
			s.Logging.ModuleLevels = map[string]string{"dataset": "loud"}
		}, "module_levels.dataset"},
		{"telemetry without dsn", func(s *Settings) { s.Telemetry.Enabled = true }, "telemetry.dsn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := valid()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	settings, err := Load(writeConfig(t, "project:\n  id: 3\n"))
	require.NoError(t, err)
	settings.Cache.Joint.Size = 5

	require.NoError(t, settings.Save(path))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint(3), reloaded.Project.ID)
	assert.Equal(t, 5, reloaded.Cache.Joint.Size)
	assert.Equal(t, settings.Cache.Comparison.TTL, reloaded.Cache.Comparison.TTL)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestWriteDefaultConfigRefusesOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))
	require.Error(t, WriteDefaultConfig(path))
}
