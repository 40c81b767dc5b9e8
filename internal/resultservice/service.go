// Package resultservice is the per-project entry point to cached result
// datasets.
//
// A Service composes the dataset providers, the envelope builder, the
// comparison builder and the cache builder of one project. It is owned by a
// single goroutine: background rebuilds hand their outcome back through
// Apply, which is where memoized datasets are invalidated.
package resultservice

import (
	"context"
	"slices"

	"gorm.io/gorm"

	"github.com/tphakala/rps-results/internal/cachebuilder"
	"github.com/tphakala/rps-results/internal/comparison"
	"github.com/tphakala/rps-results/internal/conf"
	"github.com/tphakala/rps-results/internal/dataset"
	"github.com/tphakala/rps-results/internal/datastore/repository"
	"github.com/tphakala/rps-results/internal/errors"
	"github.com/tphakala/rps-results/internal/logger"
	"github.com/tphakala/rps-results/internal/maxmin"
	"github.com/tphakala/rps-results/internal/observability/metrics"
	"github.com/tphakala/rps-results/internal/rebuild"
	"github.com/tphakala/rps-results/internal/resulttypes"
	"github.com/tphakala/rps-results/internal/shorthand"
)

// providerMaxMin names the envelope memo in stats and metrics.
const providerMaxMin = "maxmin"

// ErrNoRunner is returned by SubmitRebuild when the service has no runner.
var ErrNoRunner = errors.NewStd("no background rebuild runner configured")

// Config holds the dependencies of a Service.
type Config struct {
	ProjectID uint
	DB        *gorm.DB
	Settings  *conf.Settings              // nil uses default cache sizes
	Logger    logger.Logger               // required
	Metrics   *metrics.ResultCacheMetrics // optional
	Runner    *rebuild.Runner             // optional background rebuilds
}

// Service serves the datasets of one project. It is not safe for
// concurrent use.
type Service struct {
	projectID uint
	db        *gorm.DB
	logger    logger.Logger
	metrics   *metrics.ResultCacheMetrics

	standard   *dataset.StandardProvider
	elements   *dataset.ElementProvider
	joints     *dataset.JointProvider
	envelopes  *maxmin.Builder
	envMemo    *dataset.Memo
	comparison *comparison.Builder
	builder    *cachebuilder.Builder
	runner     *rebuild.Runner
	cache      repository.CacheRepository
}

// New creates a Service. It panics if cfg.Logger is nil.
func New(cfg Config) *Service {
	if cfg.Logger == nil {
		panic("resultservice: Config.Logger must not be nil")
	}
	log := cfg.Logger.Module("resultservice")

	sizes := conf.CacheSettings{
		Standard:   conf.LRUSettings{Size: conf.DefaultStandardCacheSize},
		Element:    conf.LRUSettings{Size: conf.DefaultElementCacheSize},
		Joint:      conf.LRUSettings{Size: conf.DefaultJointCacheSize},
		MaxMin:     conf.LRUSettings{Size: conf.DefaultMaxMinCacheSize},
		Comparison: conf.ComparisonCacheSettings{TTL: conf.DefaultComparisonTTL},
	}
	if cfg.Settings != nil {
		sizes = cfg.Settings.Cache
	}

	repos := dataset.NewRepositories(cfg.DB)
	records := repository.NewRecordRepository(cfg.DB)

	builderCfg := cachebuilder.ConfigFor(cfg.DB, cfg.ProjectID, cfg.Logger)
	builderCfg.Metrics = cfg.Metrics

	return &Service{
		projectID: cfg.ProjectID,
		db:        cfg.DB,
		logger:    log,
		metrics:   cfg.Metrics,

		standard: dataset.NewStandardProvider(cfg.ProjectID, repos,
			dataset.WithLogger(cfg.Logger), dataset.WithMetrics(cfg.Metrics), dataset.WithMemoSize(sizes.Standard.Size)),
		elements: dataset.NewElementProvider(cfg.ProjectID, repos,
			dataset.WithLogger(cfg.Logger), dataset.WithMetrics(cfg.Metrics), dataset.WithMemoSize(sizes.Element.Size)),
		joints: dataset.NewJointProvider(cfg.ProjectID, repos,
			dataset.WithLogger(cfg.Logger), dataset.WithMetrics(cfg.Metrics), dataset.WithMemoSize(sizes.Joint.Size)),
		envelopes:  maxmin.New(cfg.ProjectID, records, repos.ResultSets, cfg.Logger),
		envMemo:    dataset.NewMemo(providerMaxMin, sizes.MaxMin.Size, cfg.Metrics),
		comparison: comparison.New(sizes.Comparison.TTL, cfg.Logger),
		builder:    cachebuilder.New(builderCfg),
		runner:     cfg.Runner,
		cache:      repos.Cache,
	}
}

// ProjectID returns the project the service serves.
func (s *Service) ProjectID() uint {
	return s.projectID
}

// GetStandardDataset returns a story-level dataset, top story first, or nil
// when nothing is cached for it.
func (s *Service) GetStandardDataset(ctx context.Context, resultType, direction string, resultSetID uint) (*dataset.Dataset, error) {
	return s.standard.Get(ctx, resultType, direction, resultSetID)
}

// GetStandardDatasetAscending is GetStandardDataset with the bottom story first.
func (s *Service) GetStandardDatasetAscending(ctx context.Context, resultType, direction string, resultSetID uint) (*dataset.Dataset, error) {
	return s.standard.GetAscending(ctx, resultType, direction, resultSetID)
}

// GetElementDataset returns the dataset of one element, or nil.
func (s *Service) GetElementDataset(ctx context.Context, elementID uint, resultType, direction string, resultSetID uint) (*dataset.Dataset, error) {
	return s.elements.Get(ctx, elementID, resultType, direction, resultSetID)
}

// GetJointDataset returns the joint dataset of a result type, or nil.
func (s *Service) GetJointDataset(ctx context.Context, resultType string, resultSetID uint) (*dataset.Dataset, error) {
	return s.joints.Get(ctx, resultType, resultSetID)
}

// GetDriftMaxMinDataset returns the signed drift envelope of a result set.
func (s *Service) GetDriftMaxMinDataset(ctx context.Context, resultSetID uint) (*dataset.Dataset, error) {
	key := dataset.MemoKey(providerMaxMin, "drifts", resultSetID)
	if ds, ok := s.envMemo.Get(key); ok {
		return ds, nil
	}
	ds, err := s.envelopes.DriftDataset(ctx, resultSetID)
	if err != nil {
		return nil, err
	}
	s.envMemo.Put(key, ds)
	return ds, nil
}

// GetGenericMaxMinDataset returns the signed envelope of base for a result set.
func (s *Service) GetGenericMaxMinDataset(ctx context.Context, resultSetID uint, base string) (*dataset.Dataset, error) {
	b, ok := resulttypes.ParseBase(base)
	if !ok {
		return nil, errors.Newf("unknown result type %q", base).
			Component("resultservice").
			Category(errors.CategoryValidation).
			Build()
	}

	key := dataset.MemoKey(providerMaxMin, base, resultSetID)
	if ds, ok := s.envMemo.Get(key); ok {
		return ds, nil
	}
	ds, err := s.envelopes.GenericDataset(ctx, resultSetID, b)
	if err != nil {
		return nil, err
	}
	s.envMemo.Put(key, ds)
	return ds, nil
}

// GetAbsoluteMaxMinDrifts returns the drift envelope reduced to the signed
// value of larger magnitude per load case and direction.
func (s *Service) GetAbsoluteMaxMinDrifts(ctx context.Context, resultSetID uint) (*dataset.Dataset, error) {
	ds, err := s.GetDriftMaxMinDataset(ctx, resultSetID)
	if err != nil || ds == nil {
		return nil, err
	}
	return maxmin.AbsoluteMaxMin(ds), nil
}

// BuildComparison aligns a story-level dataset across result sets.
func (s *Service) BuildComparison(ctx context.Context, resultType, direction string, resultSetIDs []uint) ([]*dataset.Dataset, error) {
	req := comparison.Request{
		Kind:         comparison.KindStandard,
		ResultType:   resultType,
		Direction:    direction,
		ResultSetIDs: resultSetIDs,
	}
	return s.comparison.Compare(ctx, req, func(ctx context.Context, id uint) (*dataset.Dataset, error) {
		return s.standard.Get(ctx, resultType, direction, id)
	})
}

// BuildElementComparison aligns one element's dataset across result sets.
func (s *Service) BuildElementComparison(ctx context.Context, elementID uint, resultType, direction string, resultSetIDs []uint) ([]*dataset.Dataset, error) {
	req := comparison.Request{
		Kind:         comparison.KindElement,
		ResultType:   resultType,
		Direction:    direction,
		ElementID:    elementID,
		ResultSetIDs: resultSetIDs,
	}
	return s.comparison.Compare(ctx, req, func(ctx context.Context, id uint) (*dataset.Dataset, error) {
		return s.elements.Get(ctx, elementID, resultType, direction, id)
	})
}

// BuildJointComparison aligns a joint dataset across result sets. Values
// are compared as magnitudes.
func (s *Service) BuildJointComparison(ctx context.Context, resultType string, resultSetIDs []uint) ([]*dataset.Dataset, error) {
	req := comparison.Request{
		Kind:         comparison.KindJoint,
		ResultType:   resultType,
		ResultSetIDs: resultSetIDs,
	}
	return s.comparison.Compare(ctx, req, func(ctx context.Context, id uint) (*dataset.Dataset, error) {
		return s.joints.Get(ctx, resultType, id)
	})
}

// GetShorthandMapping returns the load case aliases of a pushover result
// set, or nil for other analysis types.
func (s *Service) GetShorthandMapping(ctx context.Context, resultSetID uint) (shorthand.Mapping, error) {
	rs, err := repository.NewResultSetRepository(s.db).GetByID(ctx, resultSetID)
	if err != nil {
		if errors.Is(err, repository.ErrResultSetNotFound) {
			return nil, nil
		}
		return nil, s.storageError(err, resultSetID)
	}
	if rs.ProjectID != s.projectID || !rs.IsPushover() {
		return nil, nil
	}

	types, err := s.cache.ResultTypes(ctx, s.projectID, resultSetID)
	if err != nil {
		return nil, s.storageError(err, resultSetID)
	}

	var names []string
	for _, resultType := range types {
		rows, err := s.cache.GetCacheRows(ctx, s.projectID, resultType, resultSetID)
		if err != nil {
			return nil, s.storageError(err, resultSetID)
		}
		configs := directionConfigs(resultType)
		for _, row := range rows {
			for key := range row.ResultsMatrix.Data() {
				names = append(names, loadCaseOf(configs, key))
			}
		}
	}
	slices.Sort(names)
	return shorthand.Build(slices.Compact(names)), nil
}

// directionConfigs returns the configs whose suffixes may appear in the
// matrix keys of a global result type.
func directionConfigs(resultType string) []resulttypes.Config {
	base := resulttypes.Base(resultType)
	dirs := resulttypes.Directions(base)
	if len(dirs) == 0 {
		return []resulttypes.Config{resulttypes.Get(resultType)}
	}
	out := make([]resulttypes.Config, len(dirs))
	for i, d := range dirs {
		out[i] = resulttypes.For(base, d)
	}
	return out
}

func loadCaseOf(configs []resulttypes.Config, key string) string {
	for i := range configs {
		if name, ok := configs[i].StripKey(key); ok {
			return name
		}
	}
	return key
}

// InvalidateStandardDataset drops one story-level dataset and every
// comparison that includes its result set.
func (s *Service) InvalidateStandardDataset(resultType, direction string, resultSetID uint) {
	s.standard.Invalidate(resultType, direction, resultSetID)
	s.comparison.InvalidateResultSet(resultSetID)
}

// InvalidateElementDataset drops one element dataset and every comparison
// that includes its result set.
func (s *Service) InvalidateElementDataset(elementID uint, resultType, direction string, resultSetID uint) {
	s.elements.Invalidate(elementID, resultType, direction, resultSetID)
	s.comparison.InvalidateResultSet(resultSetID)
}

// InvalidateJointDataset drops one joint dataset and every comparison that
// includes its result set.
func (s *Service) InvalidateJointDataset(resultType string, resultSetID uint) {
	s.joints.Invalidate(resultType, resultSetID)
	s.comparison.InvalidateResultSet(resultSetID)
}

// InvalidateResultSet drops every memoized dataset of a result set and
// returns how many were removed.
func (s *Service) InvalidateResultSet(resultSetID uint) int {
	removed := s.standard.InvalidateResultSet(resultSetID) +
		s.elements.InvalidateResultSet(resultSetID) +
		s.joints.InvalidateResultSet(resultSetID) +
		s.envMemo.DeleteResultSet(resultSetID)

	n := s.comparison.InvalidateResultSet(resultSetID)
	s.metrics.RecordInvalidation("comparison", n)
	removed += n

	s.logger.Debug("result set invalidated",
		logger.Uint("result_set_id", resultSetID),
		logger.Int("removed", removed))
	return removed
}

// Clear drops every memoized dataset.
func (s *Service) Clear() {
	s.standard.Clear()
	s.elements.Clear()
	s.joints.Clear()
	s.envMemo.Clear()
	s.comparison.Clear()
}

// RebuildCache regenerates the cache rows of a result category and drops
// the memoized datasets of its result set. Per type failures are in the
// report; the error covers lookups and storage sessions.
func (s *Service) RebuildCache(ctx context.Context, resultSetID, resultCategoryID uint) (*cachebuilder.BuildReport, error) {
	report, err := s.builder.Rebuild(ctx, resultSetID, resultCategoryID)
	if report != nil {
		s.InvalidateResultSet(resultSetID)
	}
	if err != nil {
		return report, err
	}
	if !report.OK() {
		s.logger.Warn("cache rebuilt with failures",
			logger.Uint("result_set_id", resultSetID),
			logger.Uint("result_category_id", resultCategoryID),
			logger.Strings("failed_types", report.FailedTypes()))
	}
	return report, nil
}

// RebuildResultSet rebuilds every category of a result set.
func (s *Service) RebuildResultSet(ctx context.Context, resultSetID uint) ([]*cachebuilder.BuildReport, error) {
	reports, err := s.builder.RebuildResultSet(ctx, resultSetID)
	if len(reports) > 0 {
		s.InvalidateResultSet(resultSetID)
	}
	return reports, err
}

// SubmitRebuild starts a background rebuild of a result set. Pass the
// Completion it produces to Apply.
func (s *Service) SubmitRebuild(ctx context.Context, resultSetID uint, categoryIDs ...uint) (string, error) {
	if s.runner == nil {
		return "", ErrNoRunner
	}
	return s.runner.Submit(ctx, rebuild.Job{
		ProjectID:   s.projectID,
		ResultSetID: resultSetID,
		CategoryIDs: categoryIDs,
	})
}

// Apply makes the outcome of a background rebuild visible by dropping the
// memoized datasets of its result set. It returns the job error, if any.
func (s *Service) Apply(c rebuild.Completion) error {
	if c.Job.ProjectID != s.projectID {
		s.logger.Warn("ignoring rebuild completion of another project",
			logger.String("job_id", c.JobID),
			logger.Uint("project_id", c.Job.ProjectID))
		return nil
	}

	removed := s.InvalidateResultSet(c.Job.ResultSetID)
	s.logger.Info("applied rebuild completion",
		logger.String("job_id", c.JobID),
		logger.Uint("result_set_id", c.Job.ResultSetID),
		logger.Int("invalidated", removed),
		logger.Strings("failed_types", c.FailedTypes()),
		logger.Duration("duration", c.Duration))
	return c.Err
}

// MemoStats describes one memo.
type MemoStats struct {
	Entries   int
	Capacity  int
	Hits      int64
	Misses    int64
	Evictions int64
}

// Stats returns memo statistics keyed by provider name.
func (s *Service) Stats() map[string]MemoStats {
	out := map[string]MemoStats{
		dataset.ProviderStandard: memoStats(s.standard.Memo()),
		dataset.ProviderElement:  memoStats(s.elements.Memo()),
		dataset.ProviderJoint:    memoStats(s.joints.Memo()),
		providerMaxMin:           memoStats(s.envMemo),
	}
	out["comparison"] = MemoStats{Entries: s.comparison.Len()}
	return out
}

func memoStats(m *dataset.Memo) MemoStats {
	st := m.Stats()
	return MemoStats{
		Entries:   st.Size,
		Capacity:  st.Capacity,
		Hits:      st.Hits,
		Misses:    st.Misses,
		Evictions: st.Evictions,
	}
}

func (s *Service) storageError(err error, resultSetID uint) error {
	return errors.New(err).
		Component("resultservice").
		Category(errors.CategoryDatabase).
		ResultContext(resultSetID, "").
		Build()
}
