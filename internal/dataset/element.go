package dataset

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/tphakala/rps-results/internal/conf"
	"github.com/tphakala/rps-results/internal/datastore/repository"
	"github.com/tphakala/rps-results/internal/errors"
	"github.com/tphakala/rps-results/internal/logger"
	"github.com/tphakala/rps-results/internal/resulttypes"
	"github.com/tphakala/rps-results/internal/shorthand"
)

// ElementProvider serves per-element datasets from the element cache.
type ElementProvider struct {
	projectID uint
	repos     Repositories
	memo      *Memo
	log       logger.Logger
}

// NewElementProvider creates a provider for one project.
func NewElementProvider(projectID uint, repos Repositories, opts ...Option) *ElementProvider {
	o := buildOptions(conf.DefaultElementCacheSize, opts)
	return &ElementProvider{
		projectID: projectID,
		repos:     repos,
		memo:      NewMemo(ProviderElement, o.memoSize, o.metrics),
		log:       o.log.With(logger.String("provider", ProviderElement)),
	}
}

func elementKey(elementID uint, resultType, direction string, resultSetID uint) string {
	return MemoKey(elementID, resultType, direction, resultSetID)
}

// Get returns one element's dataset, top story first. The cache result type
// is the base joined with the direction, e.g. "WallShears_V2". It returns
// nil when no element cache is configured, nothing is cached or the direction
// does not belong to the result type.
func (p *ElementProvider) Get(ctx context.Context, elementID uint, resultType, direction string, resultSetID uint) (*Dataset, error) {
	if p.repos.ElementCache == nil {
		return nil, nil
	}
	dir, ok := normalizeDirection(resultType, direction)
	if !ok {
		p.log.Debug("unknown direction for result type",
			logger.String("result_type", resultType),
			logger.String("direction", direction))
		return nil, nil
	}
	direction = dir

	key := elementKey(elementID, resultType, direction, resultSetID)
	if ds, ok := p.memo.Get(key); ok {
		return ds, nil
	}

	ds, err := p.build(ctx, elementID, resultType, direction, resultSetID)
	if err != nil {
		return nil, err
	}
	p.memo.Put(key, ds)
	return ds, nil
}

// Invalidate drops one memoized dataset.
func (p *ElementProvider) Invalidate(elementID uint, resultType, direction string, resultSetID uint) {
	if dir, ok := normalizeDirection(resultType, direction); ok {
		direction = dir
	}
	p.memo.Delete(elementKey(elementID, resultType, direction, resultSetID))
}

// InvalidateElement drops every memoized dataset of an element.
func (p *ElementProvider) InvalidateElement(elementID uint) int {
	prefix := strconv.FormatUint(uint64(elementID), 10) + ":"
	return p.memo.DeleteFunc(func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
}

// InvalidateResultSet drops every memoized dataset of a result set.
func (p *ElementProvider) InvalidateResultSet(resultSetID uint) int {
	return p.memo.DeleteResultSet(resultSetID)
}

// Clear drops every memoized dataset.
func (p *ElementProvider) Clear() {
	p.memo.Clear()
}

// Memo exposes the provider memo for diagnostics.
func (p *ElementProvider) Memo() *Memo {
	return p.memo
}

func (p *ElementProvider) build(ctx context.Context, elementID uint, resultType, direction string, resultSetID uint) (*Dataset, error) {
	cacheType := resulttypes.Key(resulttypes.Base(resultType), resulttypes.Direction(direction))

	rs, err := resultSetOf(ctx, p.repos.ResultSets, p.projectID, resultSetID)
	if err != nil || rs == nil {
		return nil, storageErrorOrNil(err, "result set", resultSetID, cacheType)
	}

	element, err := p.repos.Elements.GetByID(ctx, elementID)
	if errors.Is(err, repository.ErrElementNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError(err, "element", resultSetID, cacheType)
	}
	if element.ProjectID != p.projectID {
		return nil, nil
	}

	rows, err := p.repos.ElementCache.GetElementCacheRows(ctx, p.projectID, elementID, cacheType, resultSetID)
	if err != nil {
		return nil, storageError(err, "element cache rows", resultSetID, cacheType)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	stories, err := storyNames(ctx, p.repos.Stories, p.projectID)
	if err != nil {
		return nil, storageError(err, "stories", resultSetID, cacheType)
	}

	// Element matrix keys carry no suffix; the direction is in the result type.
	cfg := resulttypes.Get(cacheType)
	plain := cfg
	plain.DirectionSuffix = ""

	keys := make(map[string]struct{})
	for _, row := range rows {
		for k := range row.ResultsMatrix.Data() {
			keys[k] = struct{}{}
		}
	}
	decoded := decodeColumns(&plain, slices.Collect(maps.Keys(keys)))

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
			values[decoded[k]] = cfg.Scale(v)
		}
		out = append(out, Row{Identity: []string{element.Name, name}, SortOrder: row.StorySortOrder, Values: values})
	}
	if orphans > 0 {
		p.log.Debug("skipped orphaned cache rows",
			logger.Uint("result_set_id", resultSetID),
			logger.Uint("element_id", elementID),
			logger.String("result_type", cacheType),
			logger.Int("rows", orphans))
	}
	if len(out) == 0 {
		return nil, nil
	}

	slices.SortStableFunc(out, func(a, b Row) int {
		if c := cmp.Compare(b.SortOrder, a.SortOrder); c != 0 {
			return c
		}
		return cmp.Compare(a.Identity[1], b.Identity[1])
	})

	pushover := rs.IsPushover()
	loadCases := sortedColumns(decoded)
	ds := &Dataset{
		Meta:            metaFor(&cfg, rs),
		IdentityColumns: []string{ColumnElement, ColumnStory},
		LoadCaseColumns: loadCases,
		Rows:            out,
	}
	ds.Meta.ResultType = resultType
	ds.Meta.Direction = direction
	ds.Meta.ElementID = element.ID
	ds.Meta.ElementName = element.Name
	ds.SummaryColumns = applySummaries(ds.Rows, loadCases, ShortSummaries, pushover)
	if pushover {
		ds.Meta.Shorthand = shorthand.Build(loadCases)
	}
	return ds, nil
}
