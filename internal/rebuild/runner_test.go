package rebuild

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/rps-results/internal/conf"
	"github.com/tphakala/rps-results/internal/datastore"
	"github.com/tphakala/rps-results/internal/datastore/entities"
	"github.com/tphakala/rps-results/internal/datastore/repository"
	"github.com/tphakala/rps-results/internal/datastore/testutil"
	"github.com/tphakala/rps-results/internal/errors"
)

type fixture struct {
	manager datastore.Manager
	seed    *testutil.Seeder
	rs      *entities.ResultSet
	global  *entities.ResultCategory
	joints  *entities.ResultCategory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	settings := &conf.Settings{Database: conf.DatabaseSettings{
		Type:      conf.DatabaseSQLite,
		SQLite:    conf.SQLiteSettings{Path: filepath.Join(t.TempDir(), "rps.db")},
		SlowQuery: time.Second,
	}}
	m, err := datastore.Open(settings, testutil.Logger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	require.NoError(t, m.Initialize())

	s := testutil.NewSeeder(t, m.DB(), "Tower")
	s.Stories("Ground", "Roof")
	rs := s.ResultSet("DES", entities.AnalysisNLTHA)
	global := s.Category(rs, entities.ScopeGlobal)
	joints := s.Category(rs, entities.ScopeJoints)
	s.Drift(global, "Roof", "TH01", "X", 0.01, 0.01, -0.012)
	s.Drift(global, "Ground", "TH01", "X", 0.004, 0.004, -0.002)
	s.SoilPressure(joints, "F1", "J1", "TH01", -120)

	return &fixture{manager: m, seed: s, rs: rs, global: global, joints: joints}
}

func receive(t *testing.T, r *Runner) Completion {
	t.Helper()
	select {
	case c := <-r.Completions():
		return c
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for rebuild completion")
		return Completion{}
	}
}

func TestRunnerRebuildsEveryCategory(t *testing.T) {
	f := newFixture(t)
	r := NewRunner(f.manager, 2, testutil.Logger(), nil)
	defer r.Close()

	id, err := r.Submit(context.Background(), Job{ProjectID: f.seed.Project.ID, ResultSetID: f.rs.ID})
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	c := receive(t, r)
	require.NoError(t, c.Err)
	assert.Equal(t, id, c.JobID)
	require.Len(t, c.Reports, 2)
	assert.Empty(t, c.FailedTypes())

	var global, joint int64
	require.NoError(t, f.manager.DB().Model(&entities.GlobalResultsCache{}).Where("result_type = ?", "Drifts").Count(&global).Error)
	require.NoError(t, f.manager.DB().Model(&entities.JointResultsCache{}).Count(&joint).Error)
	assert.Equal(t, int64(2), global)
	assert.Equal(t, int64(1), joint)
}

func TestRunnerSelectedCategories(t *testing.T) {
	f := newFixture(t)
	r := NewRunner(f.manager, 1, testutil.Logger(), nil)
	defer r.Close()

	_, err := r.Submit(context.Background(), Job{
		ProjectID:   f.seed.Project.ID,
		ResultSetID: f.rs.ID,
		CategoryIDs: []uint{f.joints.ID},
	})
	require.NoError(t, err)

	c := receive(t, r)
	require.NoError(t, c.Err)
	require.Len(t, c.Reports, 1)
	assert.Equal(t, entities.ScopeJoints, c.Reports[0].Scope)

	var global int64
	require.NoError(t, f.manager.DB().Model(&entities.GlobalResultsCache{}).Count(&global).Error)
	assert.Zero(t, global)
}

func TestRunnerReportsJobErrors(t *testing.T) {
	f := newFixture(t)
	r := NewRunner(f.manager, 2, testutil.Logger(), nil)
	defer r.Close()

	_, err := r.Submit(context.Background(), Job{
		ProjectID:   f.seed.Project.ID,
		ResultSetID: f.rs.ID,
		CategoryIDs: []uint{f.global.ID, 9999},
	})
	require.NoError(t, err)

	c := receive(t, r)
	require.Error(t, c.Err)
	assert.True(t, errors.IsCategory(c.Err, errors.CategoryWorker))
	assert.ErrorIs(t, c.Err, repository.ErrResultCategoryNotFound)
}

func TestRunnerCancelledJob(t *testing.T) {
	f := newFixture(t)
	r := NewRunner(f.manager, 2, testutil.Logger(), nil)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Submit(ctx, Job{ProjectID: f.seed.Project.ID, ResultSetID: f.rs.ID})
	require.NoError(t, err)

	c := receive(t, r)
	require.Error(t, c.Err)
	assert.ErrorIs(t, c.Err, context.Canceled)
}

func TestRunnerSubmitAfterClose(t *testing.T) {
	f := newFixture(t)
	r := NewRunner(f.manager, 2, testutil.Logger(), nil)
	r.Close()
	r.Close()

	_, err := r.Submit(context.Background(), Job{ProjectID: f.seed.Project.ID, ResultSetID: f.rs.ID})
	assert.ErrorIs(t, err, ErrRunnerClosed)

	_, open := <-r.Completions()
	assert.False(t, open)
}
