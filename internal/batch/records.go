// internal/batch/records.go
package batch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"probekit/internal/blast"
	"probekit/internal/errors"
	"probekit/internal/specificity"
	"probekit/internal/tabular"
)

const (
	ColID       = "id"
	ColSequence = "sequence"
)

// OutputHeader is the column order of batch results.
var OutputHeader = []string{"id", "sequence", "valid_sequence", "tm", "gc_content"}

// ReadRecords loads a CSV/TSV/XLSX table and extracts its records.
func ReadRecords(path string) ([]Record, error) {
	t, err := tabular.Read(path)
	if err != nil {
		return nil, err
	}
	return LoadRecords(t)
}

// LoadRecords maps table rows to records. The sequence column is required;
// a missing or empty id becomes probe_<row>. Other columns are ignored.
func LoadRecords(t *tabular.Table) ([]Record, error) {
	sc := t.Index(ColSequence)
	if sc < 0 {
		return nil, errors.New(fmt.Errorf("missing required column %q (columns: %s)", ColSequence, strings.Join(t.Header, ", "))).
			Component("batch").
			Category(errors.CategoryFileParsing).
			Build()
	}
	ic := t.Index(ColID)
	recs := make([]Record, len(t.Rows))
	for i := range t.Rows {
		id := strings.TrimSpace(t.Cell(i, ic))
		if id == "" {
			id = "probe_" + strconv.Itoa(i+1)
		}
		recs[i] = Record{ID: id, Sequence: strings.TrimSpace(t.Cell(i, sc))}
	}
	return recs, nil
}

func formatOpt(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ResultsTable renders results with OutputHeader columns.
func ResultsTable(results []Result) *tabular.Table {
	t := &tabular.Table{Header: append([]string(nil), OutputHeader...)}
	for _, r := range results {
		t.Rows = append(t.Rows, []string{r.ID, r.Sequence, strconv.FormatBool(r.Valid), formatOpt(r.Tm), formatOpt(r.GC)})
	}
	return t
}

// Queries returns the valid results as search queries.
func Queries(results []Result) []blast.Query {
	return lo.FilterMap(results, func(r Result, _ int) (blast.Query, bool) {
		return blast.Query{ID: r.ID, Sequence: r.Sequence}, r.Valid
	})
}

// MergeReport appends blast_hits_count and, for i=1..5, blast_hit_i,
// blast_identity_i, blast_evalue_i and blast_bitscore_i, matching rows by
// their id column.
func MergeReport(t *tabular.Table, rep *blast.Report) error {
	ic := t.Index(ColID)
	if ic < 0 {
		return errors.New(fmt.Errorf("missing required column %q", ColID)).
			Component("batch").
			Category(errors.CategoryFileParsing).
			Build()
	}
	hitsOf := func(i int) []blast.Hit {
		h, _ := rep.Hits(blast.QueryID(t.Cell(i, ic)))
		return h
	}
	t.AddColumn("blast_hits_count", func(i int) string { return strconv.Itoa(len(hitsOf(i))) })
	for n := 0; n < specificity.MaxRetained; n++ {
		field := func(i int, f func(blast.Hit) string) string {
			h := hitsOf(i)
			if n >= len(h) {
				return ""
			}
			return f(h[n])
		}
		k := strconv.Itoa(n + 1)
		t.AddColumn("blast_hit_"+k, func(i int) string { return field(i, func(h blast.Hit) string { return h.SubjectID }) })
		t.AddColumn("blast_identity_"+k, func(i int) string {
			return field(i, func(h blast.Hit) string { return strconv.FormatFloat(h.PercentIdentity, 'f', -1, 64) })
		})
		t.AddColumn("blast_evalue_"+k, func(i int) string {
			return field(i, func(h blast.Hit) string { return strconv.FormatFloat(h.EValue, 'g', -1, 64) })
		})
		t.AddColumn("blast_bitscore_"+k, func(i int) string {
			return field(i, func(h blast.Hit) string { return strconv.FormatFloat(h.BitScore, 'f', -1, 64) })
		})
	}
	return nil
}

// Summary aggregates a batch run.
type Summary struct {
	Total  int
	Valid  int
	Scored int
	MeanTm float64
	MeanGC float64
}

func Summarize(results []Result) Summary {
	scored := lo.Filter(results, func(r Result, _ int) bool { return r.Tm != nil })
	s := Summary{
		Total:  len(results),
		Valid:  lo.CountBy(results, func(r Result) bool { return r.Valid }),
		Scored: len(scored),
	}
	if len(scored) > 0 {
		n := float64(len(scored))
		s.MeanTm = lo.SumBy(scored, func(r Result) float64 { return *r.Tm }) / n
		s.MeanGC = lo.SumBy(scored, func(r Result) float64 { return *r.GC }) / n
	}
	return s
}
