//go:build integration

package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"

	"github.com/tphakala/rps-results/internal/conf"
	"github.com/tphakala/rps-results/internal/datastore/entities"
	"github.com/tphakala/rps-results/internal/datastore/repository"
)

const mysqlImage = "mysql:8.0.36"

// startMySQL runs a disposable MySQL server and returns settings pointing at it.
func startMySQL(t *testing.T) *conf.Settings {
	t.Helper()
	ctx := context.Background()

	container, err := mysql.Run(ctx, mysqlImage,
		mysql.WithDatabase("rps"),
		mysql.WithUsername("rps"),
		mysql.WithPassword("rps-test"),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	return &conf.Settings{Database: conf.DatabaseSettings{
		Type: conf.DatabaseMySQL,
		MySQL: conf.MySQLSettings{
			Host:     host,
			Port:     port.Int(),
			Username: "rps",
			Password: "rps-test",
			Database: "rps",
		},
		SlowQuery: time.Second,
	}}
}

func TestMySQLCacheReplace(t *testing.T) {
	settings := startMySQL(t)

	m, err := Open(settings, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	require.NoError(t, m.Initialize())
	assert.True(t, m.IsMySQL())

	db := m.DB()
	project := &entities.Project{Name: "tower"}
	require.NoError(t, db.Create(project).Error)
	story := &entities.Story{ProjectID: project.ID, Name: "Roof", SortOrder: 1}
	require.NoError(t, db.Create(story).Error)
	rs := &entities.ResultSet{ProjectID: project.ID, Name: "DES", AnalysisType: entities.AnalysisNLTHA}
	require.NoError(t, db.Create(rs).Error)

	repo := repository.NewCacheRepository(db)
	ctx := context.Background()
	row := func(m map[string]float64) []*entities.GlobalResultsCache {
		return []*entities.GlobalResultsCache{{
			ProjectID:      project.ID,
			ResultSetID:    rs.ID,
			ResultType:     "Drifts",
			StoryID:        story.ID,
			StorySortOrder: story.SortOrder,
			ResultsMatrix:  entities.NewMatrix(m),
		}}
	}

	require.NoError(t, repo.ReplaceCacheRows(ctx, project.ID, rs.ID, []string{"Drifts"},
		row(map[string]float64{"TH01_X": 0.01, "TH02_X": 0.02})))
	require.NoError(t, repo.ReplaceCacheRows(ctx, project.ID, rs.ID, []string{"Drifts"},
		row(map[string]float64{"TH01_X": 0.03})))

	rows, err := repo.GetCacheRows(ctx, project.ID, "Drifts", rs.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]float64{"TH01_X": 0.03}, rows[0].ResultsMatrix.Data())

	session, err := m.OpenSession()
	require.NoError(t, err)
	var count int64
	require.NoError(t, session.DB().Model(&entities.GlobalResultsCache{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.NoError(t, session.Close())
}
