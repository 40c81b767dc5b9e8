// Package cachebuilder regenerates the wide results cache from normalized records.
//
// A rebuild targets one result category of a result set. Every result type
// the category's scope can produce is rebuilt in its own transaction that
// deletes all prior rows of the type's variants before inserting the new
// rows, so load cases removed by a re-import never survive. A failing type
// is recorded in the BuildReport and the remaining types still run.
package cachebuilder

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tphakala/rps-results/internal/datastore/entities"
	"github.com/tphakala/rps-results/internal/datastore/repository"
	"github.com/tphakala/rps-results/internal/errors"
	"github.com/tphakala/rps-results/internal/logger"
	"github.com/tphakala/rps-results/internal/observability/metrics"
	"github.com/tphakala/rps-results/internal/resulttypes"
)

// Builder rebuilds cache tables of one project.
type Builder struct {
	projectID    uint
	records      repository.RecordRepository
	resultSets   repository.ResultSetRepository
	categories   repository.ResultCategoryRepository
	cache        repository.CacheRepository
	elementCache repository.ElementCacheRepository
	jointCache   repository.JointCacheRepository
	metrics      *metrics.ResultCacheMetrics
	logger       logger.Logger
}

// Config configures a Builder.
type Config struct {
	ProjectID    uint
	Records      repository.RecordRepository
	ResultSets   repository.ResultSetRepository
	Categories   repository.ResultCategoryRepository
	Cache        repository.CacheRepository
	ElementCache repository.ElementCacheRepository
	JointCache   repository.JointCacheRepository
	Metrics      *metrics.ResultCacheMetrics
	Logger       logger.Logger
}

// ConfigFor returns a Config with every repository opened on db.
func ConfigFor(db *gorm.DB, projectID uint, log logger.Logger) *Config {
	return &Config{
		ProjectID:    projectID,
		Records:      repository.NewRecordRepository(db),
		ResultSets:   repository.NewResultSetRepository(db),
		Categories:   repository.NewResultCategoryRepository(db),
		Cache:        repository.NewCacheRepository(db),
		ElementCache: repository.NewElementCacheRepository(db),
		JointCache:   repository.NewJointCacheRepository(db),
		Logger:       log,
	}
}

// New creates a Builder.
// Panics if cfg.Logger is nil since rebuild failures must be reported.
func New(cfg *Config) *Builder {
	if cfg.Logger == nil {
		panic("cachebuilder.Config.Logger cannot be nil")
	}
	return &Builder{
		projectID:    cfg.ProjectID,
		records:      cfg.Records,
		resultSets:   cfg.ResultSets,
		categories:   cfg.Categories,
		cache:        cfg.Cache,
		elementCache: cfg.ElementCache,
		jointCache:   cfg.JointCache,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger.Module("cachebuilder"),
	}
}

// errNoCacheRepository marks a result type whose cache table has no
// repository configured.
var errNoCacheRepository = errors.NewStd("no cache repository configured")

// Failure is one result type that could not be rebuilt.
type Failure struct {
	ResultType string
	Err        error
}

// BuildReport summarizes one category rebuild.
type BuildReport struct {
	ResultSetID      uint
	ResultCategoryID uint
	Scope            entities.CategoryScope
	Built            []string       // result type bases rebuilt successfully
	Skipped          []string       // result type bases without a configured cache repository
	Rows             map[string]int // cache rows written per result type base
	Failures         []Failure
	Duration         time.Duration
}

// OK reports whether every result type was rebuilt.
func (r *BuildReport) OK() bool {
	return len(r.Failures) == 0
}

// FailedTypes returns the result types that failed.
func (r *BuildReport) FailedTypes() []string {
	out := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		out[i] = f.ResultType
	}
	return out
}

// Err joins the failures, or returns nil.
func (r *BuildReport) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = fmt.Errorf("%s: %w", f.ResultType, f.Err)
	}
	return errors.Join(errs...)
}

// scopeOf maps a category scope to the result type scope it feeds.
func scopeOf(scope entities.CategoryScope) (resulttypes.Scope, bool) {
	switch scope {
	case entities.ScopeGlobal:
		return resulttypes.ScopeGlobal, true
	case entities.ScopeElements:
		return resulttypes.ScopeElement, true
	case entities.ScopeJoints:
		return resulttypes.ScopeJoint, true
	}
	return 0, false
}

// basesFor returns the result type bases of a scope in registry order.
func basesFor(scope resulttypes.Scope) []resulttypes.Base {
	var out []resulttypes.Base
	for _, base := range resulttypes.Bases() {
		cfg := resulttypes.For(base, resulttypes.DirNone)
		if cfg.Scope == scope {
			out = append(out, base)
		}
	}
	return out
}

// Rebuild regenerates every cache row the result category can produce. The
// returned error covers lookups and cancellation only; per type failures are
// in the report.
func (b *Builder) Rebuild(ctx context.Context, resultSetID, resultCategoryID uint) (*BuildReport, error) {
	start := time.Now()

	rs, rc, err := b.resolve(ctx, resultSetID, resultCategoryID)
	if err != nil {
		return nil, err
	}
	scope, ok := scopeOf(rc.Scope)
	if !ok {
		return nil, errors.Newf("unknown result category scope %q", rc.Scope).
			Component("cachebuilder").
			Category(errors.CategoryValidation).
			Context("result_category_id", resultCategoryID).
			Build()
	}

	report := &BuildReport{
		ResultSetID:      resultSetID,
		ResultCategoryID: resultCategoryID,
		Scope:            rc.Scope,
		Rows:             make(map[string]int),
	}

	filter := repository.RecordFilter{
		ProjectID:        b.projectID,
		ResultSetID:      resultSetID,
		ResultCategoryID: resultCategoryID,
		// pushover capacity records of elements and joints are not tied to one result set
		IncludeShared: rs.IsPushover() && scope != resulttypes.ScopeGlobal,
	}

	b.logger.Info("rebuilding result cache",
		logger.Uint("result_set_id", resultSetID),
		logger.Uint("result_category_id", resultCategoryID),
		logger.String("scope", string(rc.Scope)))

	for _, base := range basesFor(scope) {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("context cancelled during cache rebuild: %w", err)
		}

		typeStart := time.Now()
		n, err := b.rebuildType(ctx, base, filter)
		elapsed := time.Since(typeStart)
		if errors.Is(err, errNoCacheRepository) {
			report.Skipped = append(report.Skipped, string(base))
			b.logger.Debug("result type skipped",
				logger.Uint("result_set_id", resultSetID),
				logger.String("result_type", string(base)),
				logger.String("reason", err.Error()))
			continue
		}
		b.metrics.ObserveRebuild(string(base), elapsed.Seconds(), err != nil)

		if err != nil {
			err = errors.New(err).
				Component("cachebuilder").
				Category(errors.CategoryCacheBuild).
				ResultContext(resultSetID, string(base)).
				Timing("rebuild_type", elapsed).
				Build()
			report.Failures = append(report.Failures, Failure{ResultType: string(base), Err: err})
			b.logger.Warn("result type rebuild failed",
				logger.Uint("result_set_id", resultSetID),
				logger.String("result_type", string(base)),
				logger.Error(err))
			continue
		}

		report.Built = append(report.Built, string(base))
		report.Rows[string(base)] = n
	}

	report.Duration = time.Since(start)
	b.logger.Info("result cache rebuilt",
		logger.Uint("result_set_id", resultSetID),
		logger.Uint("result_category_id", resultCategoryID),
		logger.Int("built", len(report.Built)),
		logger.Int("skipped", len(report.Skipped)),
		logger.Int("failed", len(report.Failures)),
		logger.Duration("duration", report.Duration))
	return report, nil
}

// RebuildResultSet rebuilds every category of a result set.
func (b *Builder) RebuildResultSet(ctx context.Context, resultSetID uint) ([]*BuildReport, error) {
	categories, err := b.categories.GetByResultSet(ctx, resultSetID)
	if err != nil {
		return nil, errors.New(err).
			Component("cachebuilder").
			Category(errors.CategoryDatabase).
			Context("result_set_id", resultSetID).
			Build()
	}

	reports := make([]*BuildReport, 0, len(categories))
	for _, rc := range categories {
		report, err := b.Rebuild(ctx, resultSetID, rc.ID)
		if report != nil {
			reports = append(reports, report)
		}
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

func (b *Builder) resolve(ctx context.Context, resultSetID, resultCategoryID uint) (*entities.ResultSet, *entities.ResultCategory, error) {
	rs, err := b.resultSets.GetByID(ctx, resultSetID)
	if err != nil {
		return nil, nil, lookupError(err, "result_set_id", resultSetID)
	}
	if rs.ProjectID != b.projectID {
		return nil, nil, lookupError(repository.ErrResultSetNotFound, "result_set_id", resultSetID)
	}

	rc, err := b.categories.GetByID(ctx, resultCategoryID)
	if err != nil {
		return nil, nil, lookupError(err, "result_category_id", resultCategoryID)
	}
	if rc.ResultSetID != resultSetID {
		return nil, nil, lookupError(repository.ErrResultCategoryNotFound, "result_category_id", resultCategoryID)
	}
	return rs, rc, nil
}

func lookupError(err error, key string, id uint) error {
	category := errors.CategoryDatabase
	if errors.Is(err, repository.ErrResultSetNotFound) || errors.Is(err, repository.ErrResultCategoryNotFound) {
		category = errors.CategoryNotFound
	}
	return errors.New(err).
		Component("cachebuilder").
		Category(category).
		Context(key, id).
		Build()
}

// rebuildType rebuilds one base and returns the rows written.
func (b *Builder) rebuildType(ctx context.Context, base resulttypes.Base, filter repository.RecordFilter) (int, error) {
	src, ok := repository.SourceFor(string(base))
	if !ok {
		return 0, fmt.Errorf("no record source for %s", base)
	}

	switch src.Owner {
	case repository.OwnerStory:
		return b.rebuildGlobal(ctx, base, src, filter)
	case repository.OwnerElement:
		return b.rebuildElement(ctx, base, src, filter)
	case repository.OwnerJoint:
		return b.rebuildJoint(ctx, base, src, filter)
	}
	return 0, fmt.Errorf("unsupported record owner %d", src.Owner)
}
