package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tphakala/rps-results/internal/datastore/entities"
	"github.com/tphakala/rps-results/internal/datastore/testutil"
	"github.com/tphakala/rps-results/internal/resulttypes"
)

type fixture struct {
	db    *gorm.DB
	seed  *testutil.Seeder
	repos Repositories
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	seed := testutil.NewSeeder(t, db, "Tower A")
	seed.Stories("Ground", "Level 1", "Roof")
	return &fixture{db: db, seed: seed, repos: NewRepositories(db)}
}

func (f *fixture) global(t *testing.T, rs *entities.ResultSet, resultType string, storyID uint, sortOrder int, m map[string]float64) {
	t.Helper()
	require.NoError(t, f.db.Create(&entities.GlobalResultsCache{
		ProjectID:      f.seed.Project.ID,
		ResultSetID:    rs.ID,
		ResultType:     resultType,
		StoryID:        storyID,
		StorySortOrder: sortOrder,
		ResultsMatrix:  entities.NewMatrix(m),
	}).Error)
}

func (f *fixture) story(name string) *entities.Story {
	return f.seed.StoryByName(name)
}

func (f *fixture) drifts(t *testing.T, rs *entities.ResultSet) {
	t.Helper()
	for i, name := range []string{"Ground", "Level 1", "Roof"} {
		s := f.story(name)
		f.global(t, rs, "Drifts", s.ID, s.SortOrder, map[string]float64{
			"160Wil_DES_TH01_X": 0.001 * float64(i+1),
			"160Wil_DES_TH02_X": 0.003 * float64(i+1),
			"160Wil_DES_TH01_Y": 0.009,
		})
	}
}

func TestStandardDatasetDecodesColumnsAndSummaries(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rs := f.seed.ResultSet("DES", entities.AnalysisNLTHA)
	f.drifts(t, rs)

	p := NewStandardProvider(f.seed.Project.ID, f.repos, WithLogger(testutil.Logger()))
	ds, err := p.Get(context.Background(), "Drifts", "X", rs.ID)
	require.NoError(t, err)
	require.NotNil(t, ds)

	assert.Equal(t, []string{ColumnStory}, ds.IdentityColumns)
	assert.Equal(t, []string{"TH01", "TH02"}, ds.LoadCaseColumns)
	assert.Equal(t, []string{"Avg", "Max", "Min"}, ds.SummaryColumns)
	assert.Equal(t, "Story Drifts X", ds.Meta.DisplayName)
	assert.Equal(t, "%", ds.Meta.Unit)

	require.Len(t, ds.Rows, 3)
	assert.Equal(t, []string{"Roof"}, ds.Rows[0].Identity, "top story first")
	assert.Equal(t, []string{"Ground"}, ds.Rows[2].Identity)

	roof := ds.Rows[0]
	assert.InDelta(t, 0.3, roof.Values["TH01"], 1e-9)
	assert.InDelta(t, 0.9, roof.Values["TH02"], 1e-9)
	assert.InDelta(t, 0.6, roof.Values["Avg"], 1e-9)
	assert.InDelta(t, 0.9, roof.Values["Max"], 1e-9)
	assert.InDelta(t, 0.3, roof.Values["Min"], 1e-9)
}

func TestStandardDatasetAscending(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rs := f.seed.ResultSet("DES", entities.AnalysisNLTHA)
	f.drifts(t, rs)

	p := NewStandardProvider(f.seed.Project.ID, f.repos, WithLogger(testutil.Logger()))
	asc, err := p.GetAscending(context.Background(), "Drifts", "X", rs.ID)
	require.NoError(t, err)
	require.NotNil(t, asc)
	assert.Equal(t, []string{"Ground"}, asc.Rows[0].Identity)

	desc, err := p.Get(context.Background(), "Drifts", "X", rs.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Roof"}, desc.Rows[0].Identity, "memoized dataset is not reordered")
}

func TestStandardDatasetPushoverOmitsAverage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rs := f.seed.ResultSet("Push", entities.AnalysisPushover)
	s := f.story("Roof")
	f.global(t, rs, "Drifts", s.ID, s.SortOrder, map[string]float64{
		"Push Modal X_X":   0.01,
		"Push Uniform X_X": 0.02,
	})

	p := NewStandardProvider(f.seed.Project.ID, f.repos, WithLogger(testutil.Logger()))
	ds, err := p.Get(context.Background(), "Drifts", "X", rs.ID)
	require.NoError(t, err)
	require.NotNil(t, ds)

	assert.Equal(t, []string{"Max", "Min"}, ds.SummaryColumns)
	assert.NotContains(t, ds.Rows[0].Values, "Avg")
	assert.Equal(t, []string{"Push Modal X", "Push Uniform X"}, ds.LoadCaseColumns)
	assert.Equal(t, "Px1", ds.Meta.Shorthand["Push Modal X"])
	assert.Equal(t, "Px2", ds.Meta.Shorthand["Push Uniform X"])
}

func TestStandardDatasetMissingIsNil(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rs := f.seed.ResultSet("DES", entities.AnalysisNLTHA)
	p := NewStandardProvider(f.seed.Project.ID, f.repos, WithLogger(testutil.Logger()))

	ds, err := p.Get(context.Background(), "Drifts", "X", rs.ID)
	require.NoError(t, err)
	assert.Nil(t, ds)

	ds, err = p.Get(context.Background(), "Drifts", "X", 424242)
	require.NoError(t, err)
	assert.Nil(t, ds, "unknown result set")

	assert.Zero(t, p.Memo().Stats().Size, "empty results are not memoized")
}

func TestStandardDatasetSkipsOrphanRows(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rs := f.seed.ResultSet("DES", entities.AnalysisNLTHA)
	s := f.story("Level 1")
	f.global(t, rs, "Drifts", s.ID, s.SortOrder, map[string]float64{"TH01_X": 0.01})
	f.global(t, rs, "Drifts", 9999, 7, map[string]float64{"TH01_X": 0.05})

	p := NewStandardProvider(f.seed.Project.ID, f.repos, WithLogger(testutil.Logger()))
	ds, err := p.Get(context.Background(), "Drifts", "X", rs.ID)
	require.NoError(t, err)
	require.NotNil(t, ds)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, []string{"Level 1"}, ds.Rows[0].Identity)

	var count int64
	require.NoError(t, f.db.Model(&entities.GlobalResultsCache{}).Count(&count).Error)
	assert.Equal(t, int64(2), count, "read path never deletes orphans")
}

func TestStandardDatasetMemoAndInvalidate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rs := f.seed.ResultSet("DES", entities.AnalysisNLTHA)
	s := f.story("Roof")
	f.global(t, rs, "Drifts", s.ID, s.SortOrder, map[string]float64{"TH01_X": 0.01})

	ctx := context.Background()
	p := NewStandardProvider(f.seed.Project.ID, f.repos, WithLogger(testutil.Logger()))
	first, err := p.Get(ctx, "Drifts", "X", rs.ID)
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&entities.GlobalResultsCache{}).
		Where("result_set_id = ?", rs.ID).
		Update("results_matrix", entities.NewMatrix(map[string]float64{"TH09_X": 0.02})).Error)

	again, err := p.Get(ctx, "Drifts", "X", rs.ID)
	require.NoError(t, err)
	assert.Same(t, first, again, "served from memo until invalidated")

	p.Invalidate("Drifts", "X", rs.ID)
	fresh, err := p.Get(ctx, "Drifts", "X", rs.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"TH09"}, fresh.LoadCaseColumns)
}

func TestDecodeColumnsCollisionKeepsFullName(t *testing.T) {
	t.Parallel()

	cfg := resulttypes.For(resulttypes.Drifts, resulttypes.DirX)
	got := decodeColumns(&cfg, []string{"A_TH01_X", "B_TH01_X", "C_TH02_X", "C_TH02_Y"})
	assert.Equal(t, map[string]string{
		"A_TH01_X": "A_TH01",
		"B_TH01_X": "B_TH01",
		"C_TH02_X": "TH02",
	}, got)
}

func TestMemoResultSetSweepIsExact(t *testing.T) {
	t.Parallel()

	m := NewMemo("test", 10, nil)
	m.Put(MemoKey("Drifts", "X", uint(1)), &Dataset{})
	m.Put(MemoKey("Drifts", "X", uint(11)), &Dataset{})
	m.Put(MemoKey(uint(3), "WallShears", "V2", uint(1)), &Dataset{})

	assert.Equal(t, 2, m.DeleteResultSet(1))
	assert.Equal(t, []string{"Drifts:X:11"}, m.Keys())
}

func TestElementDataset(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rs := f.seed.ResultSet("DES", entities.AnalysisNLTHA)
	wall := f.seed.Element(entities.ElementTypeWall, "P1")
	for _, name := range []string{"Ground", "Roof"} {
		s := f.story(name)
		require.NoError(t, f.db.Create(&entities.ElementResultsCache{
			ProjectID:      f.seed.Project.ID,
			ResultSetID:    rs.ID,
			ResultType:     "WallShears_V2",
			ElementID:      wall.ID,
			StoryID:        s.ID,
			StorySortOrder: s.SortOrder,
			ResultsMatrix:  entities.NewMatrix(map[string]float64{"TH01": 100, "TH02": 300}),
		}).Error)
	}

	ctx := context.Background()
	p := NewElementProvider(f.seed.Project.ID, f.repos, WithLogger(testutil.Logger()))
	ds, err := p.Get(ctx, wall.ID, "WallShears", "V2", rs.ID)
	require.NoError(t, err)
	require.NotNil(t, ds)

	assert.Equal(t, []string{ColumnElement, ColumnStory}, ds.IdentityColumns)
	assert.Equal(t, []string{"TH01", "TH02"}, ds.LoadCaseColumns)
	assert.Equal(t, []string{"P1", "Roof"}, ds.Rows[0].Identity)
	assert.InDelta(t, 200, ds.Rows[0].Values["Avg"], 1e-9)
	assert.Equal(t, "P1", ds.Meta.ElementName)

	other, err := p.Get(ctx, wall.ID, "WallShears", "V3", rs.ID)
	require.NoError(t, err)
	assert.Nil(t, other)

	assert.Equal(t, 1, p.InvalidateElement(wall.ID))
	assert.Zero(t, p.Memo().Stats().Size)
}

func TestElementDatasetWithoutRepository(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	repos := f.repos
	repos.ElementCache = nil

	p := NewElementProvider(f.seed.Project.ID, repos, WithLogger(testutil.Logger()))
	ds, err := p.Get(context.Background(), 1, "WallShears", "V2", 1)
	require.NoError(t, err)
	assert.Nil(t, ds)
}

func TestStandardDatasetNormalizesDirection(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rs := f.seed.ResultSet("DES", entities.AnalysisNLTHA)
	f.drifts(t, rs)

	ctx := context.Background()
	p := NewStandardProvider(f.seed.Project.ID, f.repos, WithLogger(testutil.Logger()))
	upper, err := p.Get(ctx, "Drifts", "X", rs.ID)
	require.NoError(t, err)
	lower, err := p.Get(ctx, "Drifts", "x", rs.ID)
	require.NoError(t, err)

	require.NotNil(t, lower)
	assert.Same(t, upper, lower, "both spellings share one memo entry")
	assert.Equal(t, []string{"TH01", "TH02"}, lower.LoadCaseColumns)
	assert.Equal(t, "X", lower.Meta.Direction)
	assert.InDelta(t, 0.3, lower.Rows[0].Values["TH01"], 1e-9, "percent conversion applies")

	p.Invalidate("Drifts", "x", rs.ID)
	assert.Zero(t, p.Memo().Stats().Size)
}

func TestStandardDatasetRejectsForeignDirection(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rs := f.seed.ResultSet("DES", entities.AnalysisNLTHA)
	f.drifts(t, rs)

	ctx := context.Background()
	p := NewStandardProvider(f.seed.Project.ID, f.repos, WithLogger(testutil.Logger()))
	for _, dir := range []string{"", "Z", "V2"} {
		ds, err := p.Get(ctx, "Drifts", dir, rs.ID)
		require.NoError(t, err)
		assert.Nil(t, ds, "direction %q", dir)
	}
	assert.Zero(t, p.Memo().Stats().Size)
}

func TestElementDatasetNormalizesDirection(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rs := f.seed.ResultSet("DES", entities.AnalysisNLTHA)
	wall := f.seed.Element(entities.ElementTypeWall, "P1")
	s := f.story("Roof")
	require.NoError(t, f.db.Create(&entities.ElementResultsCache{
		ProjectID:      f.seed.Project.ID,
		ResultSetID:    rs.ID,
		ResultType:     "WallShears_V2",
		ElementID:      wall.ID,
		StoryID:        s.ID,
		StorySortOrder: s.SortOrder,
		ResultsMatrix:  entities.NewMatrix(map[string]float64{"TH01": 100}),
	}).Error)

	ctx := context.Background()
	p := NewElementProvider(f.seed.Project.ID, f.repos, WithLogger(testutil.Logger()))
	ds, err := p.Get(ctx, wall.ID, "WallShears", "v2", rs.ID)
	require.NoError(t, err)
	require.NotNil(t, ds)
	assert.Equal(t, "V2", ds.Meta.Direction)
	assert.Equal(t, []string{"TH01"}, ds.LoadCaseColumns)

	for _, dir := range []string{"", "X"} {
		ds, err = p.Get(ctx, wall.ID, "WallShears", dir, rs.ID)
		require.NoError(t, err)
		assert.Nil(t, ds, "direction %q", dir)
	}
}

func TestJointDataset(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rs := f.seed.ResultSet("DES", entities.AnalysisNLTHA)
	for _, j := range []struct {
		shell, joint string
		m            map[string]float64
	}{
		{"F2", "J10", map[string]float64{"TH01": -120, "TH02": -80}},
		{"F1", "J2", map[string]float64{"TH01": -200, "TH02": -100}},
	} {
		require.NoError(t, f.db.Create(&entities.JointResultsCache{
			ProjectID:     f.seed.Project.ID,
			ResultSetID:   rs.ID,
			ResultType:    "SoilPressures",
			ShellObject:   j.shell,
			UniqueName:    j.joint,
			ResultsMatrix: entities.NewMatrix(j.m),
		}).Error)
	}

	p := NewJointProvider(f.seed.Project.ID, f.repos, WithLogger(testutil.Logger()))
	ds, err := p.Get(context.Background(), "SoilPressures", rs.ID)
	require.NoError(t, err)
	require.NotNil(t, ds)

	assert.Equal(t, []string{ColumnShellObject, ColumnUniqueName}, ds.IdentityColumns)
	assert.Equal(t, []string{"TH01", "TH02"}, ds.LoadCaseColumns)
	assert.Equal(t, []string{"Average", "Maximum", "Minimum"}, ds.SummaryColumns)
	assert.Equal(t, []string{"F1", "J2"}, ds.Rows[0].Identity)
	assert.InDelta(t, -150, ds.Rows[0].Values["Average"], 1e-9)
	assert.InDelta(t, -100, ds.Rows[0].Values["Maximum"], 1e-9)
	assert.InDelta(t, -200, ds.Rows[0].Values["Minimum"], 1e-9)

	assert.Equal(t, 1, p.InvalidateResultSet(rs.ID))
}
