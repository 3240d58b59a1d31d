// Package export serializes filtered, selected rows to downloadable
// artifacts. Export happens entirely client-side from already-fetched pages;
// it never round-trips through the catalog service.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/catalens/catalens/internal/catalog"
	"github.com/catalens/catalens/internal/pager"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use csv or json)", s)
	}
}

// Write serializes rows to w in the given format, emitting cells in column
// order. Rows are expected to be the pager's currently-filtered,
// currently-selected set.
func Write(w io.Writer, format Format, columns []catalog.DataColumn, rows []pager.IndexedRow) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, columns, rows)
	default:
		return writeCSV(w, columns, rows)
	}
}

// WriteFile serializes rows to a file, creating parent directories.
func WriteFile(path string, format Format, columns []catalog.DataColumn, rows []pager.IndexedRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := Write(f, format, columns, rows); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, columns []catalog.DataColumn, rows []pager.IndexedRow) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(columns))
	for _, ir := range rows {
		for i, c := range columns {
			record[i] = cellString(ir.Row[c.Name])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, columns []catalog.DataColumn, rows []pager.IndexedRow) error {
	out := make([]map[string]any, 0, len(rows))
	for _, ir := range rows {
		row := make(map[string]any, len(columns))
		for _, c := range columns {
			row[c.Name] = ir.Row[c.Name]
		}
		out = append(out, row)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		// nested lists/objects keep their JSON shape in CSV cells
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
