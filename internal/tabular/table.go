// Package tabular reads and writes the row tables used for batch input
// and output: CSV, TSV and XLSX (first sheet).
package tabular

import (
	"path/filepath"
	"strings"
)

// Format is a table file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

// FormatFor picks the format from the file extension; unknown → CSV.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab", ".txt":
		return FormatTSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// Table is a header row plus data rows. Rows may be shorter than Header.
type Table struct {
	Header []string
	Rows   [][]string
}

// Index returns the column index of name (trimmed, case-insensitive) or -1.
func (t *Table) Index(name string) int {
	name = strings.TrimSpace(name)
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// Cell returns row r, column c, or "" when the row is short.
func (t *Table) Cell(r, c int) string {
	if c < 0 || r < 0 || r >= len(t.Rows) || c >= len(t.Rows[r]) {
		return ""
	}
	return t.Rows[r][c]
}

// AddColumn appends a column whose value for row i is value(i).
func (t *Table) AddColumn(name string, value func(i int) string) {
	width := len(t.Header)
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		for len(t.Rows[i]) < width {
			t.Rows[i] = append(t.Rows[i], "")
		}
		t.Rows[i] = append(t.Rows[i], value(i))
	}
}
