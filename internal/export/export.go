// Package export writes datasets as spreadsheets, YAML or JSON.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/rps-results/internal/dataset"
	"github.com/tphakala/rps-results/internal/errors"
)

// maxSheetName is the sheet name limit of the workbook format.
const maxSheetName = 31

// Table is the serializable form of a dataset. Values are rounded to the
// dataset's decimal places; missing values are null.
type Table struct {
	ResultType  string            `json:"result_type" yaml:"result_type"`
	Direction   string            `json:"direction,omitempty" yaml:"direction,omitempty"`
	ResultSetID uint              `json:"result_set_id" yaml:"result_set_id"`
	ResultSet   string            `json:"result_set,omitempty" yaml:"result_set,omitempty"`
	DisplayName string            `json:"display_name" yaml:"display_name"`
	Unit        string            `json:"unit,omitempty" yaml:"unit,omitempty"`
	Shorthand   map[string]string `json:"shorthand,omitempty" yaml:"shorthand,omitempty"`
	Columns     []string          `json:"columns" yaml:"columns"`
	Rows        [][]any           `json:"rows" yaml:"rows"`
}

// NewTable converts ds. Nil datasets give nil.
func NewTable(ds *dataset.Dataset) *Table {
	if ds == nil {
		return nil
	}
	t := &Table{
		ResultType:  ds.Meta.ResultType,
		Direction:   ds.Meta.Direction,
		ResultSetID: ds.Meta.ResultSetID,
		ResultSet:   ds.Meta.ResultSetName,
		DisplayName: ds.Meta.DisplayName,
		Unit:        ds.Meta.Unit,
		Shorthand:   ds.Meta.Shorthand,
		Columns:     ds.Columns(),
		Rows:        make([][]any, 0, len(ds.Rows)),
	}

	valueColumns := t.Columns[len(ds.IdentityColumns):]
	for _, r := range ds.Rows {
		row := make([]any, 0, len(t.Columns))
		for _, id := range r.Identity {
			row = append(row, id)
		}
		for _, col := range valueColumns {
			if v, ok := r.Value(col); ok {
				row = append(row, Round(v, ds.Meta.DecimalPlaces))
			} else {
				row = append(row, nil)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Round rounds v to places decimals. Negative places leave v unchanged.
func Round(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

func tables(datasets []*dataset.Dataset) []*Table {
	out := make([]*Table, 0, len(datasets))
	for _, ds := range datasets {
		if t := NewTable(ds); t != nil {
			out = append(out, t)
		}
	}
	return out
}

// WriteJSON writes the datasets as an indented JSON array.
func WriteJSON(w io.Writer, datasets ...*dataset.Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tables(datasets)); err != nil {
		return exportError(err, "json")
	}
	return nil
}

// WriteYAML writes the datasets as a YAML sequence.
func WriteYAML(w io.Writer, datasets ...*dataset.Dataset) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tables(datasets)); err != nil {
		return exportError(err, "yaml")
	}
	if err := enc.Close(); err != nil {
		return exportError(err, "yaml")
	}
	return nil
}

// WriteXLSX writes one worksheet per dataset. Each sheet starts with the
// display name and unit, followed by the header row and the values.
func WriteXLSX(w io.Writer, datasets ...*dataset.Dataset) error {
	list := tables(datasets)
	if len(list) == 0 {
		return errors.Newf("no datasets to export").
			Component("export").
			Category(errors.CategoryValidation).
			Build()
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	defaultSheet := f.GetSheetName(0)
	used := make(map[string]bool)
	for i, t := range list {
		name := sheetName(t, used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return exportError(err, "xlsx")
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return exportError(err, "xlsx")
		}
		if err := writeSheet(f, name, t); err != nil {
			return exportError(err, "xlsx")
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return exportError(err, "xlsx")
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t *Table) error {
	title := t.DisplayName
	if t.Unit != "" {
		title = fmt.Sprintf("%s [%s]", title, t.Unit)
	}
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A3", &header); err != nil {
		return err
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// sheetName derives a unique worksheet name within the length limit.
func sheetName(t *Table, used map[string]bool) string {
	base := t.ResultType
	if t.Direction != "" {
		base += "_" + t.Direction
	}
	if t.ResultSet != "" {
		base += " " + t.ResultSet
	}
	base = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, base)
	if base == "" {
		base = "Sheet"
	}

	for n := 1; ; n++ {
		name := truncate(base, maxSheetName)
		if n > 1 {
			suffix := fmt.Sprintf(" (%d)", n)
			name = truncate(base, maxSheetName-len(suffix)) + suffix
		}
		// sheet names are unique regardless of case
		if key := strings.ToLower(name); !used[key] {
			used[key] = true
			return name
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func exportError(err error, format string) error {
	return errors.New(err).
		Component("export").
		Category(errors.CategoryExport).
		Context("format", format).
		Build()
}
