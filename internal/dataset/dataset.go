// Package dataset turns cache rows into display-ready tables.
//
// A Dataset has identity columns (Story, Element+Story or Shell Object+Unique
// Name), one column per decoded load case and trailing summary columns. The
// column lists are fixed when the dataset is built; renderers must not derive
// them from the rows.
//
// Providers memoize datasets per key in a bounded LRU. Returned datasets are
// shared with the memo and must be treated as read-only.
package dataset

import (
	"maps"
	"slices"
	"strings"

	"github.com/tphakala/rps-results/internal/datastore/entities"
	"github.com/tphakala/rps-results/internal/resulttypes"
)

// Identity column names.
const (
	ColumnStory       = "Story"
	ColumnElement     = "Element"
	ColumnShellObject = "Shell Object"
	ColumnUniqueName  = "Unique Name"
)

// Summary column labels. Story and element datasets use the short form,
// joint datasets the long form.
var (
	ShortSummaries = SummaryNames{Average: "Avg", Maximum: "Max", Minimum: "Min"}
	LongSummaries  = SummaryNames{Average: "Average", Maximum: "Maximum", Minimum: "Minimum"}
)

// SummaryNames labels the row-wise statistics.
type SummaryNames struct {
	Average string
	Maximum string
	Minimum string
}

// Meta describes what a dataset contains.
type Meta struct {
	ResultType    string
	Direction     string
	ResultSetID   uint
	ResultSetName string
	AnalysisType  entities.AnalysisType
	ElementID     uint
	ElementName   string

	DisplayName   string
	Unit          string
	DecimalPlaces int
	YLabel        string
	PlotMode      string
	ColorScheme   string
	Scope         resulttypes.Scope

	// Shorthand maps pushover load case names to their aliases.
	Shorthand map[string]string
}

// Row is one table row. Values are keyed by column name; a missing key is an
// empty cell.
type Row struct {
	Identity  []string
	SortOrder int
	Values    map[string]float64
}

// Key identifies the row across datasets of the same result type.
func (r *Row) Key() string {
	return strings.Join(r.Identity, "\x1f")
}

// Value returns the cell of column.
func (r *Row) Value(column string) (float64, bool) {
	v, ok := r.Values[column]
	return v, ok
}

// Dataset is a display-ready table.
type Dataset struct {
	Meta            Meta
	IdentityColumns []string
	LoadCaseColumns []string
	SummaryColumns  []string
	Rows            []Row
}

// Columns returns every column in display order.
func (d *Dataset) Columns() []string {
	cols := make([]string, 0, len(d.IdentityColumns)+len(d.LoadCaseColumns)+len(d.SummaryColumns))
	cols = append(cols, d.IdentityColumns...)
	cols = append(cols, d.LoadCaseColumns...)
	return append(cols, d.SummaryColumns...)
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Clone returns a deep copy.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Meta:            d.Meta,
		IdentityColumns: slices.Clone(d.IdentityColumns),
		LoadCaseColumns: slices.Clone(d.LoadCaseColumns),
		SummaryColumns:  slices.Clone(d.SummaryColumns),
		Rows:            make([]Row, len(d.Rows)),
	}
	out.Meta.Shorthand = maps.Clone(d.Meta.Shorthand)
	for i, r := range d.Rows {
		out.Rows[i] = Row{
			Identity:  slices.Clone(r.Identity),
			SortOrder: r.SortOrder,
			Values:    maps.Clone(r.Values),
		}
	}
	return out
}

// Reversed returns a copy with the row order reversed.
func (d *Dataset) Reversed() *Dataset {
	out := d.Clone()
	slices.Reverse(out.Rows)
	return out
}

// applySummaries appends the row-wise statistics of the load case columns to
// every row and returns the summary column list. Average is omitted for
// pushover results, which have no ensemble to average.
func applySummaries(rows []Row, loadCases []string, names SummaryNames, pushover bool) []string {
	cols := make([]string, 0, 3)
	if !pushover {
		cols = append(cols, names.Average)
	}
	cols = append(cols, names.Maximum, names.Minimum)

	for i := range rows {
		var sum, hi, lo float64
		n := 0
		for _, lc := range loadCases {
			v, ok := rows[i].Values[lc]
			if !ok {
				continue
			}
			if n == 0 || v > hi {
				hi = v
			}
			if n == 0 || v < lo {
				lo = v
			}
			sum += v
			n++
		}
		if n == 0 {
			continue
		}
		if !pushover {
			rows[i].Values[names.Average] = sum / float64(n)
		}
		rows[i].Values[names.Maximum] = hi
		rows[i].Values[names.Minimum] = lo
	}
	return cols
}

// decodeColumns maps raw matrix keys to column names with cfg. Keys of other
// directions are dropped. When two different load cases decode to the same
// short name, both keep their full name without the suffix.
func decodeColumns(cfg *resulttypes.Config, keys []string) map[string]string {
	short := make(map[string]string, len(keys))
	full := make(map[string]string, len(keys))
	owners := make(map[string]map[string]struct{})

	for _, key := range keys {
		stripped, ok := cfg.StripKey(key)
		if !ok {
			continue
		}
		name, _ := cfg.ColumnName(key)
		short[key] = name
		full[key] = stripped
		if owners[name] == nil {
			owners[name] = make(map[string]struct{})
		}
		owners[name][stripped] = struct{}{}
	}

	out := make(map[string]string, len(short))
	for key, name := range short {
		if len(owners[name]) > 1 {
			out[key] = full[key]
			continue
		}
		out[key] = name
	}
	return out
}

// sortedColumns returns the distinct values of a decode map in sorted order.
func sortedColumns(decoded map[string]string) []string {
	set := make(map[string]struct{}, len(decoded))
	for _, col := range decoded {
		set[col] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// metaFor fills the display fields of meta from cfg.
func metaFor(cfg *resulttypes.Config, rs *entities.ResultSet) Meta {
	return Meta{
		ResultSetID:   rs.ID,
		ResultSetName: rs.Name,
		AnalysisType:  rs.AnalysisType,
		DisplayName:   cfg.Label,
		Unit:          cfg.Unit,
		DecimalPlaces: cfg.DecimalPlaces,
		YLabel:        cfg.YLabel,
		PlotMode:      cfg.PlotMode,
		ColorScheme:   cfg.ColorScheme,
		Scope:         cfg.Scope,
	}
}

// Summarize recomputes the summary columns from the load case columns.
func (d *Dataset) Summarize(names SummaryNames) {
	for i := range d.Rows {
		for _, col := range d.SummaryColumns {
			delete(d.Rows[i].Values, col)
		}
	}
	d.SummaryColumns = applySummaries(d.Rows, d.LoadCaseColumns, names, d.Meta.AnalysisType == entities.AnalysisPushover)
}

// SummaryNamesFor returns the summary labels used for a scope.
func SummaryNamesFor(scope resulttypes.Scope) SummaryNames {
	if scope == resulttypes.ScopeJoint {
		return LongSummaries
	}
	return ShortSummaries
}
