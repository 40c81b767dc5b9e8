// Package maxmin builds signed envelope datasets from normalized records.
//
// Envelope datasets have one Max_ and one Min_ column per load case (and
// direction) holding the original signed extremes. Values are never turned
// into magnitudes here; AbsoluteMaxMin derives that view separately.
package maxmin

import (
	"context"
	"math"
	"slices"
	"strings"

	"github.com/tphakala/rps-results/internal/dataset"
	"github.com/tphakala/rps-results/internal/datastore/entities"
	"github.com/tphakala/rps-results/internal/datastore/repository"
	"github.com/tphakala/rps-results/internal/errors"
	"github.com/tphakala/rps-results/internal/logger"
	"github.com/tphakala/rps-results/internal/resulttypes"
)

// Column prefixes of envelope datasets.
const (
	MaxPrefix = "Max_"
	MinPrefix = "Min_"
)

// Builder reads envelope records of one project.
type Builder struct {
	projectID  uint
	records    repository.RecordRepository
	resultSets repository.ResultSetRepository
	logger     logger.Logger
}

// New creates a Builder.
func New(projectID uint, records repository.RecordRepository, resultSets repository.ResultSetRepository, log logger.Logger) *Builder {
	return &Builder{
		projectID:  projectID,
		records:    records,
		resultSets: resultSets,
		logger:     log.Module("maxmin"),
	}
}

// DriftDataset returns the drift envelope of a result set, or nil when the
// result set has no max/min drifts (pushover runs carry none).
func (b *Builder) DriftDataset(ctx context.Context, resultSetID uint) (*dataset.Dataset, error) {
	rs, records, err := b.load(ctx, resultSetID, resulttypes.Drifts)
	if err != nil || rs == nil {
		return nil, err
	}
	ds := BuildDrift(records)
	if ds == nil {
		return nil, nil
	}
	ds.Meta = envelopeMeta(resulttypes.Drifts, rs)
	return ds, nil
}

// GenericDataset returns the envelope of any base with max/min columns,
// e.g. Accelerations or ColumnAxials. Element bases get one row per element
// and story.
func (b *Builder) GenericDataset(ctx context.Context, resultSetID uint, base resulttypes.Base) (*dataset.Dataset, error) {
	rs, records, err := b.load(ctx, resultSetID, base)
	if err != nil || rs == nil {
		return nil, err
	}
	src, _ := repository.SourceFor(string(base))
	ds := BuildGeneric(records, src.Owner == repository.OwnerElement)
	if ds == nil {
		return nil, nil
	}
	ds.Meta = envelopeMeta(base, rs)
	return ds, nil
}

func (b *Builder) load(ctx context.Context, resultSetID uint, base resulttypes.Base) (*entities.ResultSet, []repository.EnvelopeRecord, error) {
	src, ok := repository.SourceFor(string(base))
	if !ok || !src.HasEnvelope() {
		b.logger.Debug("result type has no envelope", logger.String("result_type", string(base)))
		return nil, nil, nil
	}

	rs, err := b.resultSets.GetByID(ctx, resultSetID)
	if errors.Is(err, repository.ErrResultSetNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, storageError(err, resultSetID, base)
	}
	if rs.ProjectID != b.projectID {
		return nil, nil, nil
	}

	records, err := b.records.EnvelopeRecords(ctx, src, repository.RecordFilter{
		ProjectID:   b.projectID,
		ResultSetID: resultSetID,
	})
	if err != nil {
		return nil, nil, storageError(err, resultSetID, base)
	}
	return rs, records, nil
}

func storageError(err error, resultSetID uint, base resulttypes.Base) error {
	return errors.New(err).
		Component("maxmin").
		Category(errors.CategoryDatabase).
		ResultContext(resultSetID, string(base)).
		Build()
}

func envelopeMeta(base resulttypes.Base, rs *entities.ResultSet) dataset.Meta {
	cfg := resulttypes.For(base, resulttypes.DirNone)
	return dataset.Meta{
		ResultType:    string(base),
		ResultSetID:   rs.ID,
		ResultSetName: rs.Name,
		AnalysisType:  rs.AnalysisType,
		DisplayName:   cfg.Label + " Max/Min",
		Unit:          cfg.Unit,
		DecimalPlaces: cfg.DecimalPlaces,
		YLabel:        cfg.YLabel,
		PlotMode:      cfg.PlotMode,
		ColorScheme:   cfg.ColorScheme,
		Scope:         cfg.Scope,
	}
}

// BuildDrift lays out drift envelopes as one row per story, bottom story
// first, with Max_{loadcase}_{direction} and Min_{loadcase}_{direction}
// columns holding the original signed values. It returns nil for no records.
func BuildDrift(records []repository.EnvelopeRecord) *dataset.Dataset {
	return build(records, false, func(rec *repository.EnvelopeRecord) string {
		return rec.LoadCaseName + "_" + rec.Direction
	})
}

// BuildGeneric lays out envelopes of any base. The direction is appended to
// the load case only when the records have one, so a column without
// direction reads Max_{loadcase}.
func BuildGeneric(records []repository.EnvelopeRecord, elements bool) *dataset.Dataset {
	return build(records, elements, func(rec *repository.EnvelopeRecord) string {
		if rec.Direction == "" {
			return rec.LoadCaseName
		}
		return rec.LoadCaseName + "_" + rec.Direction
	})
}

type rowKey struct {
	elementID uint
	storyID   uint
}

// build groups records in the order received; EnvelopeRecords returns them
// by element name and ascending story sort order.
func build(records []repository.EnvelopeRecord, elements bool, suffix func(*repository.EnvelopeRecord) string) *dataset.Dataset {
	index := make(map[rowKey]int)
	var rows []dataset.Row
	var pairs []string
	seenPair := make(map[string]struct{})

	for i := range records {
		rec := &records[i]
		if rec.MaxValue == nil && rec.MinValue == nil {
			continue
		}

		key := rowKey{storyID: rec.StoryID}
		if elements {
			key.elementID = rec.ElementID
		}
		idx, ok := index[key]
		if !ok {
			idx = len(rows)
			index[key] = idx
			identity := []string{rec.StoryName}
			if elements {
				identity = []string{rec.ElementName, rec.StoryName}
			}
			rows = append(rows, dataset.Row{
				Identity:  identity,
				SortOrder: rec.SortOrder,
				Values:    make(map[string]float64),
			})
		}

		pair := suffix(rec)
		if _, ok := seenPair[pair]; !ok {
			seenPair[pair] = struct{}{}
			pairs = append(pairs, pair)
		}
		if rec.MaxValue != nil {
			rows[idx].Values[MaxPrefix+pair] = *rec.MaxValue
		}
		if rec.MinValue != nil {
			rows[idx].Values[MinPrefix+pair] = *rec.MinValue
		}
	}
	if len(rows) == 0 {
		return nil
	}

	slices.Sort(pairs)
	columns := make([]string, 0, 2*len(pairs))
	for _, p := range pairs {
		columns = append(columns, MaxPrefix+p, MinPrefix+p)
	}

	identity := []string{dataset.ColumnStory}
	if elements {
		identity = []string{dataset.ColumnElement, dataset.ColumnStory}
	}
	return &dataset.Dataset{
		IdentityColumns: identity,
		LoadCaseColumns: columns,
		Rows:            rows,
	}
}

// AbsoluteMaxMin derives one column per load case and direction holding
// whichever of the Max and Min value has the larger magnitude, with its sign.
// Ties favor Max. It returns nil for a nil dataset.
func AbsoluteMaxMin(ds *dataset.Dataset) *dataset.Dataset {
	if ds == nil {
		return nil
	}

	var pairs []string
	for _, col := range ds.LoadCaseColumns {
		if p, ok := strings.CutPrefix(col, MaxPrefix); ok {
			pairs = append(pairs, p)
		}
	}

	rows := make([]dataset.Row, 0, len(ds.Rows))
	for _, r := range ds.Rows {
		values := make(map[string]float64, len(pairs))
		for _, p := range pairs {
			hi, hasMax := r.Values[MaxPrefix+p]
			lo, hasMin := r.Values[MinPrefix+p]
			switch {
			case hasMax && hasMin:
				if math.Abs(hi) >= math.Abs(lo) {
					values[p] = hi
				} else {
					values[p] = lo
				}
			case hasMax:
				values[p] = hi
			case hasMin:
				values[p] = lo
			}
		}
		rows = append(rows, dataset.Row{
			Identity:  append([]string(nil), r.Identity...),
			SortOrder: r.SortOrder,
			Values:    values,
		})
	}

	meta := ds.Meta
	meta.DisplayName = strings.TrimSuffix(meta.DisplayName, " Max/Min") + " Absolute Max/Min"
	return &dataset.Dataset{
		Meta:            meta,
		IdentityColumns: append([]string(nil), ds.IdentityColumns...),
		LoadCaseColumns: pairs,
		Rows:            rows,
	}
}
