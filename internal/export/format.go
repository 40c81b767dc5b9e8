package export

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tphakala/rps-results/internal/dataset"
	"github.com/tphakala/rps-results/internal/errors"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatXLSX = "xlsx"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatYAML, FormatXLSX}

// Write writes datasets in format.
func Write(w io.Writer, format string, datasets ...*dataset.Dataset) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return WriteJSON(w, datasets...)
	case FormatYAML, "yml":
		return WriteYAML(w, datasets...)
	case FormatXLSX:
		return WriteXLSX(w, datasets...)
	default:
		return errors.Newf("unsupported export format %q", format).
			Component("export").
			Category(errors.CategoryValidation).
			Build()
	}
}

// FormatFor returns the format implied by a file extension, or fallback.
func FormatFor(path, fallback string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".xlsx":
		return FormatXLSX
	default:
		return fallback
	}
}

// WriteFile writes datasets to path in the format implied by its extension,
// or in fallback when the extension is unknown.
func WriteFile(path, fallback string, datasets ...*dataset.Dataset) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return exportError(err, fallback)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = exportError(cerr, fallback)
		}
	}()
	return Write(f, FormatFor(path, fallback), datasets...)
}
