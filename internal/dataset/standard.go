package dataset

import (
	"cmp"
	"context"
	"maps"
	"slices"

	"github.com/tphakala/rps-results/internal/conf"
	"github.com/tphakala/rps-results/internal/datastore/entities"
	"github.com/tphakala/rps-results/internal/datastore/repository"
	"github.com/tphakala/rps-results/internal/errors"
	"github.com/tphakala/rps-results/internal/logger"
	"github.com/tphakala/rps-results/internal/resulttypes"
	"github.com/tphakala/rps-results/internal/shorthand"
)

// StandardProvider serves story-level datasets from the global cache.
type StandardProvider struct {
	projectID uint
	repos     Repositories
	memo      *Memo
	log       logger.Logger
}

// NewStandardProvider creates a provider for one project.
func NewStandardProvider(projectID uint, repos Repositories, opts ...Option) *StandardProvider {
	o := buildOptions(conf.DefaultStandardCacheSize, opts)
	return &StandardProvider{
		projectID: projectID,
		repos:     repos,
		memo:      NewMemo(ProviderStandard, o.memoSize, o.metrics),
		log:       o.log.With(logger.String("provider", ProviderStandard)),
	}
}

func standardKey(resultType, direction string, resultSetID uint) string {
	return MemoKey(resultType, direction, resultSetID)
}

// Get returns the dataset of a result type and direction for a result set,
// top story first. It returns nil when nothing is cached for the key or the
// direction does not belong to the result type.
func (p *StandardProvider) Get(ctx context.Context, resultType, direction string, resultSetID uint) (*Dataset, error) {
	dir, ok := normalizeDirection(resultType, direction)
	if !ok {
		p.log.Debug("unknown direction for result type",
			logger.String("result_type", resultType),
			logger.String("direction", direction))
		return nil, nil
	}
	direction = dir

	key := standardKey(resultType, direction, resultSetID)
	if ds, ok := p.memo.Get(key); ok {
		return ds, nil
	}

	ds, err := p.build(ctx, resultType, direction, resultSetID)
	if err != nil {
		return nil, err
	}
	p.memo.Put(key, ds)
	return ds, nil
}

// GetAscending is Get with the bottom story first.
func (p *StandardProvider) GetAscending(ctx context.Context, resultType, direction string, resultSetID uint) (*Dataset, error) {
	ds, err := p.Get(ctx, resultType, direction, resultSetID)
	if err != nil || ds == nil {
		return nil, err
	}
	return ds.Reversed(), nil
}

// Invalidate drops one memoized dataset.
func (p *StandardProvider) Invalidate(resultType, direction string, resultSetID uint) {
	if dir, ok := normalizeDirection(resultType, direction); ok {
		direction = dir
	}
	p.memo.Delete(standardKey(resultType, direction, resultSetID))
}

// InvalidateResultSet drops every memoized dataset of a result set.
func (p *StandardProvider) InvalidateResultSet(resultSetID uint) int {
	return p.memo.DeleteResultSet(resultSetID)
}

// Clear drops every memoized dataset.
func (p *StandardProvider) Clear() {
	p.memo.Clear()
}

// Memo exposes the provider memo for diagnostics.
func (p *StandardProvider) Memo() *Memo {
	return p.memo
}

func (p *StandardProvider) build(ctx context.Context, resultType, direction string, resultSetID uint) (*Dataset, error) {
	rs, err := resultSetOf(ctx, p.repos.ResultSets, p.projectID, resultSetID)
	if err != nil || rs == nil {
		return nil, storageErrorOrNil(err, "result set", resultSetID, resultType)
	}

	rows, err := p.repos.Cache.GetCacheRows(ctx, p.projectID, resultType, resultSetID)
	if err != nil {
		return nil, storageError(err, "cache rows", resultSetID, resultType)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	stories, err := storyNames(ctx, p.repos.Stories, p.projectID)
	if err != nil {
		return nil, storageError(err, "stories", resultSetID, resultType)
	}

	cfg := resulttypes.For(resulttypes.Base(resultType), resulttypes.Direction(direction))

	keys := make(map[string]struct{})
	for _, row := range rows {
		for k := range row.ResultsMatrix.Data() {
			keys[k] = struct{}{}
		}
	}
	decoded := decodeColumns(&cfg, slices.Collect(maps.Keys(keys)))

	out := make([]Row, 0, len(rows))
	orphans := 0
	for _, row := range rows {
		name, ok := stories[row.StoryID]
		if !ok {
			orphans++
			continue
		}
		values := make(map[string]float64)
		for k, v := range row.ResultsMatrix.Data() {
			if col, ok := decoded[k]; ok {
				values[col] = cfg.Scale(v)
			}
		}
		if len(values) == 0 {
			continue
		}
		out = append(out, Row{Identity: []string{name}, SortOrder: row.StorySortOrder, Values: values})
	}
	if orphans > 0 {
		p.log.Debug("skipped orphaned cache rows",
			logger.Uint("result_set_id", resultSetID),
			logger.String("result_type", resultType),
			logger.Int("rows", orphans))
	}
	if len(out) == 0 {
		return nil, nil
	}

	slices.SortStableFunc(out, func(a, b Row) int {
		if c := cmp.Compare(b.SortOrder, a.SortOrder); c != 0 {
			return c
		}
		return cmp.Compare(a.Identity[0], b.Identity[0])
	})

	pushover := rs.IsPushover()
	loadCases := sortedColumns(decoded)
	ds := &Dataset{
		Meta:            metaFor(&cfg, rs),
		IdentityColumns: []string{ColumnStory},
		LoadCaseColumns: loadCases,
		Rows:            out,
	}
	ds.Meta.ResultType = resultType
	ds.Meta.Direction = direction
	ds.SummaryColumns = applySummaries(ds.Rows, loadCases, ShortSummaries, pushover)
	if pushover {
		ds.Meta.Shorthand = shorthand.Build(loadCases)
	}
	return ds, nil
}

// resultSetOf loads a result set of the project. A missing result set or one
// of another project yields nil without error.
func resultSetOf(ctx context.Context, repo repository.ResultSetRepository, projectID, resultSetID uint) (*entities.ResultSet, error) {
	rs, err := repo.GetByID(ctx, resultSetID)
	if errors.Is(err, repository.ErrResultSetNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if rs.ProjectID != projectID {
		return nil, nil
	}
	return rs, nil
}

func storageErrorOrNil(err error, op string, resultSetID uint, resultType string) error {
	if err == nil {
		return nil
	}
	return storageError(err, op, resultSetID, resultType)
}

// storyNames maps story ids of the project to names.
func storyNames(ctx context.Context, repo repository.StoryRepository, projectID uint) (map[uint]string, error) {
	stories, err := repo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(stories))
	for _, s := range stories {
		names[s.ID] = s.Name
	}
	return names, nil
}
