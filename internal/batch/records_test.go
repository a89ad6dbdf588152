package batch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"probekit/internal/blast"
	"probekit/internal/errors"
	"probekit/internal/tabular"
)

func f64(v float64) *float64 { return &v }

func TestLoadRecords(t *testing.T) {
	tb := &tabular.Table{
		Header: []string{"name", "ID", "sequence"},
		Rows: [][]string{
			{"x", "p1", " ACGT "},
			{"y", "", "GGCC"},
			{"z"},
		},
	}
	recs, err := LoadRecords(tb)
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{ID: "p1", Sequence: "ACGT"},
		{ID: "probe_2", Sequence: "GGCC"},
		{ID: "probe_3", Sequence: ""},
	}, recs)
}

func TestLoadRecords_NoIDColumn(t *testing.T) {
	recs, err := LoadRecords(&tabular.Table{Header: []string{"sequence"}, Rows: [][]string{{"A"}, {"C"}}})
	require.NoError(t, err)
	assert.Equal(t, "probe_1", recs[0].ID)
	assert.Equal(t, "probe_2", recs[1].ID)
}

func TestLoadRecords_MissingSequence(t *testing.T) {
	_, err := LoadRecords(&tabular.Table{Header: []string{"id", "seq"}})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing))
	assert.Contains(t, err.Error(), "id, seq")
}

func TestReadRecords(t *testing.T) {
	p := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(p, []byte("id\tsequence\nq\tACGT\n"), 0o644))
	recs, err := ReadRecords(p)
	require.NoError(t, err)
	assert.Equal(t, []Record{{ID: "q", Sequence: "ACGT"}}, recs)
}

func TestResultsTableAndQueries(t *testing.T) {
	res := []Result{
		{ID: "a", Sequence: "ACGT", Valid: true, Tm: f64(12), GC: f64(50)},
		{ID: "b", Sequence: "AXGT"},
	}
	tb := ResultsTable(res)
	assert.Equal(t, OutputHeader, tb.Header)
	assert.Equal(t, []string{"a", "ACGT", "true", "12", "50"}, tb.Rows[0])
	assert.Equal(t, []string{"b", "AXGT", "false", "", ""}, tb.Rows[1])

	assert.Equal(t, []blast.Query{{ID: "a", Sequence: "ACGT"}}, Queries(res))
}

func TestMergeReport(t *testing.T) {
	rep, err := blast.ParseFile("../blast/testdata/hits.outfmt7")
	require.NoError(t, err)

	tb := ResultsTable([]Result{{ID: "1", Valid: true}, {ID: "2"}, {ID: "9"}})
	require.NoError(t, MergeReport(tb, rep))

	require.Len(t, tb.Header, len(OutputHeader)+1+4*5)
	assert.Equal(t, "blast_hits_count", tb.Header[5])
	assert.Equal(t, []string{"blast_hit_1", "blast_identity_1", "blast_evalue_1", "blast_bitscore_1"}, tb.Header[6:10])
	assert.Equal(t, "blast_bitscore_5", tb.Header[len(tb.Header)-1])

	ci := tb.Index("blast_hits_count")
	assert.Equal(t, "3", tb.Cell(0, ci))
	assert.Equal(t, "0", tb.Cell(1, ci))
	assert.Equal(t, "0", tb.Cell(2, ci))

	assert.Equal(t, "NM_000001.1", tb.Cell(0, tb.Index("blast_hit_1")))
	assert.Equal(t, "100", tb.Cell(0, tb.Index("blast_identity_1")))
	assert.Equal(t, "1.2e-06", tb.Cell(0, tb.Index("blast_evalue_1")))
	assert.Equal(t, "40.1", tb.Cell(0, tb.Index("blast_bitscore_1")))
	assert.Equal(t, "NM_000003.1", tb.Cell(0, tb.Index("blast_hit_3")))
	assert.Equal(t, "", tb.Cell(0, tb.Index("blast_hit_4")))
}

func TestMergeReport_WhitespaceID(t *testing.T) {
	rep, err := blast.Parse(strings.NewReader("# Query: seq_1\n" +
		"seq_1\tNM_000009.1\t99.000\t20\t0\t0\t1\t20\t1\t20\t1e-05\t38.2\n"))
	require.NoError(t, err)

	res := []Result{{ID: "seq 1", Sequence: "ACGT", Valid: true}}
	assert.Equal(t, []blast.Query{{ID: "seq 1", Sequence: "ACGT"}}, Queries(res))

	tb := ResultsTable(res)
	require.NoError(t, MergeReport(tb, rep))
	assert.Equal(t, "seq 1", tb.Cell(0, tb.Index(ColID)))
	assert.Equal(t, "1", tb.Cell(0, tb.Index("blast_hits_count")))
	assert.Equal(t, "NM_000009.1", tb.Cell(0, tb.Index("blast_hit_1")))
}

func TestMergeReport_NeedsID(t *testing.T) {
	err := MergeReport(&tabular.Table{Header: []string{"sequence"}}, nil)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Result{
		{Valid: true, Tm: f64(50), GC: f64(40)},
		{Valid: true, Tm: f64(60), GC: f64(60)},
		{Valid: true},
		{},
	})
	assert.Equal(t, Summary{Total: 4, Valid: 3, Scored: 2, MeanTm: 55, MeanGC: 50}, s)
	assert.Equal(t, Summary{}, Summarize(nil))
}
