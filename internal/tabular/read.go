// internal/tabular/read.go
package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"probekit/internal/errors"
)

func parseErr(err error, path string) error {
	return errors.New(err).Component("tabular").Category(errors.CategoryFileParsing).Context("path", path).Build()
}

// Read loads path according to its extension. Comma-separated input that
// does not parse, or that parses into a single tab-containing column, is
// re-read as tab-separated.
func Read(path string) (*Table, error) {
	if FormatFor(path) == FormatXLSX {
		return readXLSX(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(err).Component("tabular").Category(errors.CategoryFileIO).Context("path", path).Build()
	}
	if FormatFor(path) == FormatTSV {
		t, err := parseDelimited(data, '\t')
		if err != nil {
			return nil, parseErr(err, path)
		}
		return t, nil
	}
	t, err := parseDelimited(data, ',')
	if err != nil || (len(t.Header) == 1 && strings.Contains(t.Header[0], "\t")) {
		t2, err2 := parseDelimited(data, '\t')
		if err2 != nil {
			if err == nil {
				err = err2
			}
			return nil, parseErr(err, path)
		}
		return t2, nil
	}
	return t, nil
}

// ReadFrom parses delimited text from r (CSV or TSV only).
func ReadFrom(r io.Reader, f Format) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if f == FormatTSV {
		return parseDelimited(data, '\t')
	}
	return parseDelimited(data, ',')
}

func parseDelimited(data []byte, comma rune) (*Table, error) {
	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return fromRecords(recs)
}

func fromRecords(recs [][]string) (*Table, error) {
	if len(recs) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	t := &Table{Header: recs[0]}
	for _, r := range recs[1:] {
		if len(r) == 1 && strings.TrimSpace(r[0]) == "" {
			continue
		}
		t.Rows = append(t.Rows, r)
	}
	return t, nil
}

func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.New(err).Component("tabular").Category(errors.CategoryFileIO).Context("path", path).Build()
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, parseErr(fmt.Errorf("workbook has no sheets"), path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, parseErr(err, path)
	}
	t, err := fromRecords(rows)
	if err != nil {
		return nil, parseErr(err, path)
	}
	return t, nil
}
