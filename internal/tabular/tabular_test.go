package tabular

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"probekit/internal/errors"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatCSV, FormatFor("a.csv"))
	assert.Equal(t, FormatCSV, FormatFor("a"))
	assert.Equal(t, FormatTSV, FormatFor("a.TSV"))
	assert.Equal(t, FormatXLSX, FormatFor("dir/a.xlsx"))
}

func TestRead_CSV(t *testing.T) {
	p := writeFile(t, "in.csv", "\xef\xbb\xbfid,sequence,note\np1,ACGT,x\np2,GGCC\n\n")
	tb, err := Read(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "sequence", "note"}, tb.Header)
	require.Len(t, tb.Rows, 2)
	assert.Equal(t, 1, tb.Index("sequence"))
	assert.Equal(t, 1, tb.Index(" Sequence "))
	assert.Equal(t, -1, tb.Index("tm"))
	assert.Equal(t, "GGCC", tb.Cell(1, 1))
	assert.Equal(t, "", tb.Cell(1, 2))
	assert.Equal(t, "", tb.Cell(9, 0))
}

func TestIndex_TrimsBothSides(t *testing.T) {
	tb := Table{Header: []string{"id", "Sequence "}}
	assert.Equal(t, 1, tb.Index(" Sequence "))
	assert.Equal(t, 1, tb.Index("sequence"))
	assert.Equal(t, 0, tb.Index("\tID"))
	assert.Equal(t, -1, tb.Index(" "))
}

func TestRead_TabFallback(t *testing.T) {
	p := writeFile(t, "in.csv", "id\tsequence\np1\tACGT\n")
	tb, err := Read(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "sequence"}, tb.Header)
	assert.Equal(t, "ACGT", tb.Cell(0, 1))
}

func TestRead_TSVByExtension(t *testing.T) {
	p := writeFile(t, "in.tsv", "sequence\tid\nACGT\tq,1\n")
	tb, err := Read(p)
	require.NoError(t, err)
	assert.Equal(t, "q,1", tb.Cell(0, 1))
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.csv"))
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))

	_, err = Read(writeFile(t, "empty.csv", ""))
	assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing))
}

func TestWriteRead_RoundTrip(t *testing.T) {
	src := &Table{
		Header: []string{"id", "sequence", "valid_sequence", "tm"},
		Rows: [][]string{
			{"p1", "ACGTACGT", "true", "24.5"},
			{"p2", "AXG", "false", ""},
		},
	}
	for _, ext := range []string{".csv", ".tsv", ".xlsx"} {
		t.Run(ext, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "out"+ext)
			require.NoError(t, Write(p, src))
			got, err := Read(p)
			require.NoError(t, err)
			assert.Equal(t, src.Header, got.Header)
			require.Len(t, got.Rows, 2)
			assert.Equal(t, "ACGTACGT", got.Cell(0, 1))
			assert.Equal(t, "24.5", got.Cell(0, 3))
			assert.Equal(t, "AXG", got.Cell(1, 1))
		})
	}
}

func TestEncode_CSV(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, Encode(&sb, &Table{Header: []string{"a", "b"}, Rows: [][]string{{"1", "x,y"}}}, FormatCSV))
	assert.Equal(t, "a,b\n1,\"x,y\"\n", sb.String())
}

func TestAddColumn(t *testing.T) {
	tb := &Table{Header: []string{"id", "sequence"}, Rows: [][]string{{"p1"}, {"p2", "AC"}}}
	tb.AddColumn("reverse_complement", func(i int) string { return []string{"X", "GT"}[i] })
	assert.Equal(t, []string{"id", "sequence", "reverse_complement"}, tb.Header)
	assert.Equal(t, []string{"p1", "", "X"}, tb.Rows[0])
	assert.Equal(t, []string{"p2", "AC", "GT"}, tb.Rows[1])
}

func TestXLSXValue(t *testing.T) {
	assert.Equal(t, 24.5, xlsxValue("24.5"))
	assert.Equal(t, "ACGT", xlsxValue("ACGT"))
	assert.Equal(t, "NaN", xlsxValue("NaN"))
	assert.Equal(t, "", xlsxValue(""))
}
