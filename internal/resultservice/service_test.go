package resultservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tphakala/rps-results/internal/conf"
	"github.com/tphakala/rps-results/internal/dataset"
	"github.com/tphakala/rps-results/internal/datastore/entities"
	"github.com/tphakala/rps-results/internal/datastore/testutil"
	"github.com/tphakala/rps-results/internal/errors"
	"github.com/tphakala/rps-results/internal/rebuild"
)

type fixture struct {
	db   *gorm.DB
	seed *testutil.Seeder
	svc  *Service
	rs1  *entities.ResultSet
	rs2  *entities.ResultSet
	cat1 *entities.ResultCategory
	cat2 *entities.ResultCategory
}

// newFixture seeds two time history result sets with drifts, soil pressures
// and column axials, and rebuilds their caches.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	s := testutil.NewSeeder(t, db, "Tower")
	s.Stories("Ground", "Level 1", "Roof")

	f := &fixture{db: db, seed: s}
	f.svc = New(Config{ProjectID: s.Project.ID, DB: db, Logger: testutil.Logger()})

	ctx := context.Background()
	for i, name := range []string{"DES", "MCE"} {
		rs := s.ResultSet(name, entities.AnalysisNLTHA)
		global := s.Category(rs, entities.ScopeGlobal)
		elements := s.Category(rs, entities.ScopeElements)
		joints := s.Category(rs, entities.ScopeJoints)

		scale := float64(i + 1)
		s.Drift(global, "Ground", "TH01", "X", 0.002*scale, 0.002*scale, -0.001*scale)
		s.Drift(global, "Level 1", "TH01", "X", 0.004*scale, 0.003*scale, -0.004*scale)
		s.Drift(global, "Roof", "TH01", "X", 0.006*scale, 0.006*scale, -0.005*scale)
		s.Drift(global, "Roof", "TH02", "X", 0.008*scale, 0.007*scale, -0.008*scale)
		s.ColumnAxial(elements, "C1", "Ground", "TH01", -1500, 800)
		s.SoilPressure(joints, "F1", "J1", "TH01", -120*scale)
		s.SoilPressure(joints, "F1", "J2", "TH01", -80*scale)

		for _, rc := range []*entities.ResultCategory{global, elements, joints} {
			report, err := f.svc.RebuildCache(ctx, rs.ID, rc.ID)
			require.NoError(t, err)
			require.True(t, report.OK(), "failures: %v", report.Err())
		}

		if i == 0 {
			f.rs1, f.cat1 = rs, global
		} else {
			f.rs2, f.cat2 = rs, global
		}
	}
	return f
}

func TestStandardDatasetEndToEnd(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	ds, err := f.svc.GetStandardDataset(context.Background(), "Drifts", "X", f.rs1.ID)
	require.NoError(t, err)
	require.NotNil(t, ds)

	require.Len(t, ds.Rows, 3)
	assert.Equal(t, []string{"Roof"}, ds.Rows[0].Identity)
	assert.Equal(t, []string{"TH01", "TH02"}, ds.LoadCaseColumns)
	assert.Equal(t, []string{"Avg", "Max", "Min"}, ds.SummaryColumns)

	roof := ds.Rows[0]
	assert.InDelta(t, 0.6, roof.Values["TH01"], 1e-9)
	assert.InDelta(t, 0.8, roof.Values["TH02"], 1e-9)
	assert.InDelta(t, 0.7, roof.Values["Avg"], 1e-9)
	assert.InDelta(t, 0.8, roof.Values["Max"], 1e-9)
	assert.InDelta(t, 0.6, roof.Values["Min"], 1e-9)

	asc, err := f.svc.GetStandardDatasetAscending(context.Background(), "Drifts", "X", f.rs1.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ground"}, asc.Rows[0].Identity)
}

func TestMissingDataIsNotAnError(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	ds, err := f.svc.GetStandardDataset(ctx, "Drifts", "Y", f.rs1.ID)
	require.NoError(t, err)
	assert.Nil(t, ds)

	ds, err = f.svc.GetJointDataset(ctx, "VerticalDisplacements", 999)
	require.NoError(t, err)
	assert.Nil(t, ds)

	ds, err = f.svc.GetElementDataset(ctx, 999, "WallShears", "V2", f.rs1.ID)
	require.NoError(t, err)
	assert.Nil(t, ds)
}

func TestMaxMinDatasets(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	drifts, err := f.svc.GetDriftMaxMinDataset(ctx, f.rs1.ID)
	require.NoError(t, err)
	require.NotNil(t, drifts)
	assert.Equal(t, []string{"Ground"}, drifts.Rows[0].Identity)
	assert.InDelta(t, -0.008, drifts.Rows[2].Values["Min_TH02_X"], 1e-12)

	again, err := f.svc.GetDriftMaxMinDataset(ctx, f.rs1.ID)
	require.NoError(t, err)
	assert.Same(t, drifts, again)

	axials, err := f.svc.GetGenericMaxMinDataset(ctx, f.rs1.ID, "ColumnAxials")
	require.NoError(t, err)
	require.NotNil(t, axials)
	require.Len(t, axials.Rows, 1)
	assert.Equal(t, 800.0, axials.Rows[0].Values["Max_TH01"])
	assert.Equal(t, -1500.0, axials.Rows[0].Values["Min_TH01"])

	abs, err := f.svc.GetAbsoluteMaxMinDrifts(ctx, f.rs1.ID)
	require.NoError(t, err)
	require.NotNil(t, abs)
	assert.InDelta(t, -0.008, abs.Rows[2].Values["TH02_X"], 1e-12)

	_, err = f.svc.GetGenericMaxMinDataset(ctx, f.rs1.ID, "Bogus")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestComparison(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	groups, err := f.svc.BuildComparison(ctx, "Drifts", "X", []uint{f.rs1.ID, f.rs2.ID})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Contains(t, groups[0].Meta.DisplayName, "DES")
	assert.Contains(t, groups[1].Meta.DisplayName, "MCE")
	assert.Equal(t, groups[0].Len(), groups[1].Len())

	joints, err := f.svc.BuildJointComparison(ctx, "SoilPressures", []uint{f.rs1.ID, f.rs2.ID})
	require.NoError(t, err)
	require.Len(t, joints, 2)
	assert.InDelta(t, 240.0, joints[1].Rows[0].Values["TH01"], 1e-9)

	_, err = f.svc.BuildComparison(ctx, "Drifts", "X", []uint{f.rs1.ID})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestComparisonKeepsTopStoryFirst(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	sle := f.seed.ResultSet("SLE", entities.AnalysisNLTHA)
	global := f.seed.Category(sle, entities.ScopeGlobal)
	f.seed.Drift(global, "Ground", "TH01", "X", 0.001, 0.001, -0.001)
	f.seed.Drift(global, "Level 1", "TH01", "X", 0.002, 0.002, -0.002)
	_, err := f.svc.RebuildCache(ctx, sle.ID, global.ID)
	require.NoError(t, err)

	groups, err := f.svc.BuildComparison(ctx, "Drifts", "X", []uint{sle.ID, f.rs2.ID})
	require.NoError(t, err)
	require.Len(t, groups, 2)

	for _, ds := range groups {
		stories := make([]string, len(ds.Rows))
		for i, r := range ds.Rows {
			stories[i] = r.Identity[0]
		}
		assert.Equal(t, []string{"Roof", "Level 1", "Ground"}, stories)
	}
	assert.Empty(t, groups[0].Rows[0].Values, "SLE has no roof drifts")
	assert.InDelta(t, 1.2, groups[1].Rows[0].Values["TH01"], 1e-9)
}

func TestDirectionIsNormalized(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	upper, err := f.svc.GetStandardDataset(ctx, "Drifts", "X", f.rs1.ID)
	require.NoError(t, err)
	lower, err := f.svc.GetStandardDataset(ctx, "Drifts", "x", f.rs1.ID)
	require.NoError(t, err)
	assert.Same(t, upper, lower)

	ds, err := f.svc.GetStandardDataset(ctx, "Drifts", "", f.rs1.ID)
	require.NoError(t, err)
	assert.Nil(t, ds)
}

func TestInvalidateResultSetIsScoped(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []uint{f.rs1.ID, f.rs2.ID} {
		_, err := f.svc.GetStandardDataset(ctx, "Drifts", "X", id)
		require.NoError(t, err)
		_, err = f.svc.GetJointDataset(ctx, "SoilPressures", id)
		require.NoError(t, err)
		_, err = f.svc.GetDriftMaxMinDataset(ctx, id)
		require.NoError(t, err)
	}
	_, err := f.svc.BuildComparison(ctx, "Drifts", "X", []uint{f.rs1.ID, f.rs2.ID})
	require.NoError(t, err)

	before := f.svc.Stats()
	assert.Equal(t, 2, before[dataset.ProviderStandard].Entries)
	assert.Equal(t, 2, before[dataset.ProviderJoint].Entries)
	assert.Equal(t, 2, before[providerMaxMin].Entries)
	assert.Equal(t, 1, before["comparison"].Entries)

	removed := f.svc.InvalidateResultSet(f.rs1.ID)
	assert.Equal(t, 4, removed)

	after := f.svc.Stats()
	assert.Equal(t, 1, after[dataset.ProviderStandard].Entries)
	assert.Equal(t, 1, after[dataset.ProviderJoint].Entries)
	assert.Equal(t, 1, after[providerMaxMin].Entries)
	assert.Zero(t, after["comparison"].Entries)

	keys := f.svc.standard.Memo().Keys()
	assert.Equal(t, []string{dataset.MemoKey("Drifts", "X", f.rs2.ID)}, keys)
}

func TestTargetedInvalidationDropsComparisons(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.BuildComparison(ctx, "Drifts", "X", []uint{f.rs1.ID, f.rs2.ID})
	require.NoError(t, err)
	_, err = f.svc.GetJointDataset(ctx, "SoilPressures", f.rs1.ID)
	require.NoError(t, err)

	f.svc.InvalidateStandardDataset("Drifts", "X", f.rs2.ID)

	stats := f.svc.Stats()
	assert.Equal(t, 1, stats[dataset.ProviderStandard].Entries)
	assert.Equal(t, 1, stats[dataset.ProviderJoint].Entries)
	assert.Zero(t, stats["comparison"].Entries)
}

func TestRebuildInvalidatesMemoizedDatasets(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	ds, err := f.svc.GetStandardDataset(ctx, "Drifts", "X", f.rs1.ID)
	require.NoError(t, err)
	require.Len(t, ds.LoadCaseColumns, 2)

	f.seed.Drift(f.cat1, "Roof", "TH03", "X", 0.01, 0.01, -0.01)
	_, err = f.svc.RebuildCache(ctx, f.rs1.ID, f.cat1.ID)
	require.NoError(t, err)

	ds, err = f.svc.GetStandardDataset(ctx, "Drifts", "X", f.rs1.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"TH01", "TH02", "TH03"}, ds.LoadCaseColumns)
}

func TestApplyCompletion(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetStandardDataset(ctx, "Drifts", "X", f.rs1.ID)
	require.NoError(t, err)
	_, err = f.svc.GetStandardDataset(ctx, "Drifts", "X", f.rs2.ID)
	require.NoError(t, err)

	jobErr := errors.NewStd("boom")
	err = f.svc.Apply(rebuild.Completion{
		JobID: "job-1",
		Job:   rebuild.Job{ProjectID: f.seed.Project.ID, ResultSetID: f.rs1.ID},
		Err:   jobErr,
	})
	assert.ErrorIs(t, err, jobErr)
	assert.Equal(t, 1, f.svc.Stats()[dataset.ProviderStandard].Entries)

	err = f.svc.Apply(rebuild.Completion{
		JobID: "job-2",
		Job:   rebuild.Job{ProjectID: f.seed.Project.ID + 1, ResultSetID: f.rs2.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.svc.Stats()[dataset.ProviderStandard].Entries)
}

func TestSubmitRebuildWithoutRunner(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.SubmitRebuild(context.Background(), f.rs1.ID)
	assert.ErrorIs(t, err, ErrNoRunner)
}

func TestShorthandMapping(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	s := f.seed

	push := s.ResultSet("PUSH", entities.AnalysisPushover)
	rc := s.Category(push, entities.ScopeGlobal)
	s.Drift(rc, "Roof", "Push Uniform X", "X", 0.01, 0.01, 0.01)
	s.Drift(rc, "Roof", "Push Modal X", "X", 0.02, 0.02, 0.02)
	s.Drift(rc, "Roof", "Push Modal Y", "Y", 0.03, 0.03, 0.03)
	_, err := f.svc.RebuildCache(ctx, push.ID, rc.ID)
	require.NoError(t, err)

	m, err := f.svc.GetShorthandMapping(ctx, push.ID)
	require.NoError(t, err)
	assert.Equal(t, "Px1", m["Push Modal X"])
	assert.Equal(t, "Px2", m["Push Uniform X"])
	assert.Equal(t, "Py1", m["Push Modal Y"])

	m, err = f.svc.GetShorthandMapping(ctx, f.rs1.ID)
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = f.svc.GetShorthandMapping(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestConfiguredCacheSizes(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	settings := &conf.Settings{Cache: conf.CacheSettings{
		Standard:   conf.LRUSettings{Size: 3},
		Element:    conf.LRUSettings{Size: 4},
		Joint:      conf.LRUSettings{Size: 5},
		MaxMin:     conf.LRUSettings{Size: 6},
		Comparison: conf.ComparisonCacheSettings{TTL: conf.DefaultComparisonTTL},
	}}
	svc := New(Config{DB: db, Settings: settings, Logger: testutil.Logger()})

	stats := svc.Stats()
	assert.Equal(t, 3, stats[dataset.ProviderStandard].Capacity)
	assert.Equal(t, 4, stats[dataset.ProviderElement].Capacity)
	assert.Equal(t, 5, stats[dataset.ProviderJoint].Capacity)
	assert.Equal(t, 6, stats[providerMaxMin].Capacity)
}

func TestNewPanicsWithoutLogger(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { New(Config{}) })
}
