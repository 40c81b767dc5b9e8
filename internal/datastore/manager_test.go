package datastore

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/rps-results/internal/conf"
	"github.com/tphakala/rps-results/internal/datastore/entities"
	"github.com/tphakala/rps-results/internal/logger"
)

func testSettings(path string) *conf.Settings {
	return &conf.Settings{
		Database: conf.DatabaseSettings{
			Type:      conf.DatabaseSQLite,
			SQLite:    conf.SQLiteSettings{Path: path},
			SlowQuery: time.Second,
		},
	}
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rps.db")
	m, err := Open(testSettings(path), logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC))
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	require.NoError(t, m.Initialize())
	assert.False(t, m.IsMySQL())
	assert.Equal(t, path, m.Path())

	for _, model := range entities.All() {
		assert.True(t, m.DB().Migrator().HasTable(model), "missing table for %T", model)
	}
}

func TestOpenSessionIsIndependent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rps.db")
	m, err := Open(testSettings(path), nil)
	require.NoError(t, err)
	require.NoError(t, m.Initialize())
	t.Cleanup(func() { _ = m.Close() })

	session, err := m.OpenSession()
	require.NoError(t, err)

	require.NoError(t, session.DB().Create(&entities.Project{Name: "tower"}).Error)
	require.NoError(t, session.Close())

	var count int64
	require.NoError(t, m.DB().Model(&entities.Project{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "writes through a closed session stay visible to the manager")
}

func TestOpenRejectsUnknownType(t *testing.T) {
	t.Parallel()

	settings := testSettings("unused.db")
	settings.Database.Type = "postgres"
	_, err := Open(settings, nil)
	require.Error(t, err)
}
