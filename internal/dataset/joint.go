package dataset

import (
	"cmp"
	"context"
	"maps"
	"slices"

	"github.com/tphakala/rps-results/internal/conf"
	"github.com/tphakala/rps-results/internal/logger"
	"github.com/tphakala/rps-results/internal/resulttypes"
	"github.com/tphakala/rps-results/internal/shorthand"
)

// JointProvider serves foundation joint datasets from the joint cache.
type JointProvider struct {
	projectID uint
	repos     Repositories
	memo      *Memo
	log       logger.Logger
}

// NewJointProvider creates a provider for one project.
func NewJointProvider(projectID uint, repos Repositories, opts ...Option) *JointProvider {
	o := buildOptions(conf.DefaultJointCacheSize, opts)
	return &JointProvider{
		projectID: projectID,
		repos:     repos,
		memo:      NewMemo(ProviderJoint, o.memoSize, o.metrics),
		log:       o.log.With(logger.String("provider", ProviderJoint)),
	}
}

func jointKey(resultType string, resultSetID uint) string {
	return MemoKey(resultType, resultSetID)
}

// Get returns the joint dataset of a result type, ordered by shell object
// and unique name. Load case columns are the matrix keys as stored.
func (p *JointProvider) Get(ctx context.Context, resultType string, resultSetID uint) (*Dataset, error) {
	if p.repos.JointCache == nil {
		return nil, nil
	}

	key := jointKey(resultType, resultSetID)
	if ds, ok := p.memo.Get(key); ok {
		return ds, nil
	}

	ds, err := p.build(ctx, resultType, resultSetID)
	if err != nil {
		return nil, err
	}
	p.memo.Put(key, ds)
	return ds, nil
}

// Invalidate drops one memoized dataset.
func (p *JointProvider) Invalidate(resultType string, resultSetID uint) {
	p.memo.Delete(jointKey(resultType, resultSetID))
}

// InvalidateResultSet drops every memoized dataset of a result set.
func (p *JointProvider) InvalidateResultSet(resultSetID uint) int {
	return p.memo.DeleteResultSet(resultSetID)
}

// Clear drops every memoized dataset.
func (p *JointProvider) Clear() {
	p.memo.Clear()
}

// Memo exposes the provider memo for diagnostics.
func (p *JointProvider) Memo() *Memo {
	return p.memo
}

func (p *JointProvider) build(ctx context.Context, resultType string, resultSetID uint) (*Dataset, error) {
	rs, err := resultSetOf(ctx, p.repos.ResultSets, p.projectID, resultSetID)
	if err != nil || rs == nil {
		return nil, storageErrorOrNil(err, "result set", resultSetID, resultType)
	}

	rows, err := p.repos.JointCache.GetJointCacheRows(ctx, p.projectID, resultType, resultSetID)
	if err != nil {
		return nil, storageError(err, "joint cache rows", resultSetID, resultType)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cfg := resulttypes.Get(resultType)
	columns := make(map[string]struct{})
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		values := make(map[string]float64)
		for k, v := range row.ResultsMatrix.Data() {
			values[k] = cfg.Scale(v)
			columns[k] = struct{}{}
		}
		out = append(out, Row{
			Identity:  []string{row.ShellObject, row.UniqueName},
			SortOrder: row.StorySortOrder,
			Values:    values,
		})
	}

	slices.SortStableFunc(out, func(a, b Row) int {
		if c := cmp.Compare(a.Identity[0], b.Identity[0]); c != 0 {
			return c
		}
		return cmp.Compare(a.Identity[1], b.Identity[1])
	})

	pushover := rs.IsPushover()
	loadCases := slices.Sorted(maps.Keys(columns))
	ds := &Dataset{
		Meta:            metaFor(&cfg, rs),
		IdentityColumns: []string{ColumnShellObject, ColumnUniqueName},
		LoadCaseColumns: loadCases,
		Rows:            out,
	}
	ds.Meta.ResultType = resultType
	ds.SummaryColumns = applySummaries(ds.Rows, loadCases, LongSummaries, pushover)
	if pushover {
		ds.Meta.Shorthand = shorthand.Build(loadCases)
	}
	p.log.Trace("joint dataset built",
		logger.Uint("result_set_id", resultSetID),
		logger.String("result_type", resultType),
		logger.Int("rows", len(out)))
	return ds, nil
}
