// internal/tabular/write.go
package tabular

import (
	"encoding/csv"
	"io"
	"math"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"

	"probekit/internal/errors"
	"probekit/internal/fsutil"
)

// Write stores t at path in the format implied by its extension. The file
// appears only when the whole table was written.
func Write(path string, t *Table) error {
	f := FormatFor(path)
	err := fsutil.WriteAtomic(path, func(w io.Writer) error { return Encode(w, t, f) })
	if err != nil {
		return errors.New(err).Component("tabular").Category(errors.CategoryFileIO).Context("path", path).Build()
	}
	return nil
}

// Encode writes t to w in format f.
func Encode(w io.Writer, t *Table, f Format) error {
	switch f {
	case FormatXLSX:
		return encodeXLSX(w, t)
	case FormatTSV:
		return encodeDelimited(w, t, '\t')
	default:
		return encodeDelimited(w, t, ',')
	}
}

func encodeDelimited(w io.Writer, t *Table, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

const sheetName = "Sheet1"

func encodeXLSX(w io.Writer, t *Table) error {
	x := excelize.NewFile()
	defer x.Close()

	write := func(r int, cells []string) error {
		cell, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return err
		}
		row := make([]any, len(cells))
		for i, c := range cells {
			row[i] = xlsxValue(c)
		}
		return x.SetSheetRow(sheetName, cell, &row)
	}
	if err := write(1, t.Header); err != nil {
		return err
	}
	for i, r := range t.Rows {
		if err := write(i+2, r); err != nil {
			return err
		}
	}
	return x.Write(w)
}

// xlsxValue stores finite numeric text as numbers and everything else as text.
func xlsxValue(s string) any {
	if s == "" {
		return s
	}
	v, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return s
	}
	return v
}
