// Package comparison aligns datasets of one result type across result sets.
package comparison

import (
	"cmp"
	"context"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/tphakala/rps-results/internal/dataset"
	"github.com/tphakala/rps-results/internal/errors"
	"github.com/tphakala/rps-results/internal/logger"
	"github.com/tphakala/rps-results/internal/resulttypes"
)

// Kinds of compared datasets.
const (
	KindStandard = "standard"
	KindElement  = "element"
	KindJoint    = "joint"
)

// Request names the datasets to compare.
type Request struct {
	Kind         string
	ResultType   string
	Direction    string
	ElementID    uint
	ResultSetIDs []uint
}

// key renders the memo key; the id list is always the last segment.
func (r *Request) key() string {
	ids := make([]string, len(r.ResultSetIDs))
	for i, id := range r.ResultSetIDs {
		ids[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join([]string{
		"cmp", r.Kind, r.ResultType, r.Direction,
		strconv.FormatUint(uint64(r.ElementID), 10),
		strings.Join(ids, ","),
	}, ":")
}

// FetchFunc returns the dataset of one result set, or nil when it has none.
type FetchFunc func(ctx context.Context, resultSetID uint) (*dataset.Dataset, error)

// Builder builds and memoizes comparison groups.
type Builder struct {
	memo   *cache.Cache
	logger logger.Logger
}

// New creates a Builder whose groups expire after ttl.
func New(ttl time.Duration, log logger.Logger) *Builder {
	return &Builder{
		memo:   cache.New(ttl, ttl*2),
		logger: log.Module("comparison"),
	}
}

// Compare returns one aligned dataset per result set that has data, in the
// order of req.ResultSetIDs.
func (b *Builder) Compare(ctx context.Context, req Request, fetch FetchFunc) ([]*dataset.Dataset, error) {
	if len(req.ResultSetIDs) < 2 {
		return nil, errors.Newf("comparison needs at least two result sets, got %d", len(req.ResultSetIDs)).
			Component("comparison").
			Category(errors.CategoryValidation).
			Build()
	}

	key := req.key()
	if cached, found := b.memo.Get(key); found {
		return cached.([]*dataset.Dataset), nil
	}

	inputs := make([]*dataset.Dataset, 0, len(req.ResultSetIDs))
	for _, id := range req.ResultSetIDs {
		ds, err := fetch(ctx, id)
		if err != nil {
			return nil, err
		}
		if ds == nil {
			b.logger.Debug("result set has no data to compare",
				logger.Uint("result_set_id", id),
				logger.String("result_type", req.ResultType))
			continue
		}
		inputs = append(inputs, ds)
	}

	out := Align(inputs)
	b.memo.Set(key, out, cache.DefaultExpiration)
	return out, nil
}

// InvalidateResultSet drops every memoized group that includes the result set.
func (b *Builder) InvalidateResultSet(resultSetID uint) int {
	id := strconv.FormatUint(uint64(resultSetID), 10)
	removed := 0
	for key := range b.memo.Items() {
		idx := strings.LastIndexByte(key, ':')
		if idx < 0 {
			continue
		}
		if slices.Contains(strings.Split(key[idx+1:], ","), id) {
			b.memo.Delete(key)
			removed++
		}
	}
	return removed
}

// Clear drops every memoized group.
func (b *Builder) Clear() {
	b.memo.Flush()
}

// Len returns the number of memoized groups.
func (b *Builder) Len() int {
	return b.memo.ItemCount()
}

// Align returns copies of inputs whose rows share one identity order: the
// union of identities, top story first for story and element datasets and by
// shell object then unique name for joints. Ties keep first-seen order.
// Identities missing from a dataset
// get an empty row. Joint datasets are converted to magnitudes and their
// summaries recomputed. Load case columns are kept per dataset.
func Align(inputs []*dataset.Dataset) []*dataset.Dataset {
	var order []string
	first := make(map[string]dataset.Row)
	for _, ds := range inputs {
		for _, r := range ds.Rows {
			k := r.Key()
			if _, ok := first[k]; ok {
				continue
			}
			first[k] = r
			order = append(order, k)
		}
	}
	joint := len(inputs) > 0 && inputs[0].Meta.Scope == resulttypes.ScopeJoint
	slices.SortStableFunc(order, func(a, b string) int {
		ra, rb := first[a], first[b]
		if joint {
			return slices.Compare(ra.Identity, rb.Identity)
		}
		return cmp.Compare(rb.SortOrder, ra.SortOrder)
	})

	out := make([]*dataset.Dataset, 0, len(inputs))
	for _, in := range inputs {
		ds := in.Clone()
		byKey := make(map[string]dataset.Row, len(ds.Rows))
		for _, r := range ds.Rows {
			byKey[r.Key()] = r
		}

		rows := make([]dataset.Row, 0, len(order))
		for _, k := range order {
			if r, ok := byKey[k]; ok {
				rows = append(rows, r)
				continue
			}
			ref := first[k]
			rows = append(rows, dataset.Row{
				Identity:  slices.Clone(ref.Identity),
				SortOrder: ref.SortOrder,
				Values:    make(map[string]float64),
			})
		}
		ds.Rows = rows

		if ds.Meta.Scope == resulttypes.ScopeJoint {
			for i := range ds.Rows {
				for col, v := range ds.Rows[i].Values {
					ds.Rows[i].Values[col] = math.Abs(v)
				}
			}
			ds.Summarize(dataset.SummaryNamesFor(ds.Meta.Scope))
		}

		if ds.Meta.ResultSetName != "" {
			ds.Meta.DisplayName = ds.Meta.DisplayName + " - " + ds.Meta.ResultSetName
		}
		out = append(out, ds)
	}
	return out
}
