package writers

import (
	"io"
	"strconv"

	"probekit/internal/specificity"
	"probekit/internal/tabular"
)

// Columns is the flat export header; ColumnHits is appended when hits are shown.
var Columns = []string{"id", "sequence", "rna_fragment", "start", "end", "gc_content", "tm", "complexity", "specificity"}

const ColumnHits = "blast_hits"

func init() {
	Register("csv", tableWriter(tabular.FormatCSV))
	Register("tsv", tableWriter(tabular.FormatTSV))
	Register("xlsx", tableWriter(tabular.FormatXLSX))
}

func fmtFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// Table lays an export out as rows.
func Table(e Export) *tabular.Table {
	t := &tabular.Table{Header: append([]string(nil), Columns...)}
	if e.WithHits {
		t.Header = append(t.Header, ColumnHits)
	}
	for _, ap := range e.Probes {
		row := []string{
			strconv.Itoa(ap.ID),
			ap.Sequence,
			ap.SourceFragment,
			strconv.Itoa(ap.Start),
			strconv.Itoa(ap.End),
			fmtFloat(ap.GC),
			fmtFloat(ap.Tm),
			fmtFloat(ap.Complexity),
			string(ap.Tier),
		}
		if e.WithHits {
			row = append(row, specificity.FormatHits(ap.Hits))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func tableWriter(f tabular.Format) WriterFunc {
	return func(w io.Writer, e Export) error {
		return tabular.Encode(w, Table(e), f)
	}
}
