package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"probekit/internal/store"
	"probekit/pkg/api"
)

const target24 = "ATCGATCGATCGATCGATCGATCG"

// permissive accepts every full window of target24.
var permissive = []string{
	"--length", "10", "--spacing", "1",
	"--min-gc", "0", "--max-gc", "100",
	"--min-tm=-1000", "--max-tm", "1000",
	"--min-complexity", "0", "--filter-repeats=false", "--max-homopolymer", "1000",
}

const report = `# BLASTN 2.15.0+
# Query: 1
# Fields: query acc.ver, subject acc.ver, % identity, alignment length, mismatches, gap opens, q. start, q. end, s. start, s. end, evalue, bit score
# 1 hits found
1	NM_000001.1	100.000	10	0	0	1	10	101	110	1.2e-06	40.1
# BLASTN 2.15.0+
# Query: 2
# 0 hits found
# BLAST processed 2 queries
`

// sandbox isolates the run from any probekit.yaml on the machine.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	return dir
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func run(t *testing.T, ctx context.Context, args ...string) (int, string, string) {
	t.Helper()
	var out, errB bytes.Buffer
	code := RunContext(ctx, args, &out, &errB)
	return code, out.String(), errB.String()
}

func lines(s string) []string { return strings.Split(strings.TrimSpace(s), "\n") }

func TestVersion(t *testing.T) {
	sandbox(t)
	code, out, _ := run(t, context.Background(), "version")
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "probekit version dev\n", out)
}

func TestUsageErrors(t *testing.T) {
	dir := sandbox(t)
	fa := writeFile(t, dir, "t.fa", ">t\n"+target24+"\n")
	cases := map[string][]string{
		"unknown command": {"bogus"},
		"missing target":  {"design"},
		"unknown flag":    {"design", "--nope", fa},
		"bad tm method":   {"design", "--tm-method", "primer3", fa},
		"bad gc range":    {"design", "--min-gc", "70", fa},
		"bad format":      {"design", "--format", "fasta", fa},
		"report+search":   {"design", "--report", "x", "--search", fa},
		"bad log format":  {"design", "--log-format", "xml", fa},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			code, _, stderr := run(t, context.Background(), args...)
			assert.Equal(t, ExitUsage, code, stderr)
			assert.Contains(t, stderr, "error:")
		})
	}
}

func TestDesign_CSVToStdout(t *testing.T) {
	dir := sandbox(t)
	fa := writeFile(t, dir, "t.fa", ">tgt demo\n"+target24[:12]+"\n"+target24[12:]+"\n")

	code, out, stderr := run(t, context.Background(), append([]string{"design", "-q"}, append(permissive, fa)...)...)
	require.Equal(t, ExitOK, code, stderr)

	rows := lines(out)
	require.Len(t, rows, 3)
	assert.Equal(t, "id,sequence,rna_fragment,start,end,gc_content,tm,complexity,specificity", rows[0])
	assert.True(t, strings.HasPrefix(rows[1], "1,ATCGATCGAT,ATCGATCGAT,1,10,"), rows[1])
	assert.True(t, strings.HasPrefix(rows[2], "2,"), rows[2])
	assert.True(t, strings.HasSuffix(rows[2], ",unchecked"), rows[2])
}

func TestDesign_NoMatchExitCode(t *testing.T) {
	dir := sandbox(t)
	fa := writeFile(t, dir, "t.txt", target24)

	code, out, stderr := run(t, context.Background(), "design", "--min-gc", "99", "--max-gc", "100", fa)
	assert.Equal(t, ExitNoMatch, code)
	assert.Len(t, lines(out), 1, "header only")
	assert.NotContains(t, stderr, "error:")

	code, _, _ = run(t, context.Background(), "design", "--min-gc", "99", "--max-gc", "100", "--no-match-exit-code", "0", fa)
	assert.Equal(t, ExitOK, code)
}

func TestDesign_InvalidTarget(t *testing.T) {
	dir := sandbox(t)
	fa := writeFile(t, dir, "t.fa", ">t\nACGTXACGT\n")
	code, _, stderr := run(t, context.Background(), "design", fa)
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, "invalid base")
}

func TestDesign_MissingTarget(t *testing.T) {
	dir := sandbox(t)
	code, _, _ := run(t, context.Background(), "design", filepath.Join(dir, "nope.fa"))
	assert.Equal(t, ExitRuntime, code)
}

func TestDesign_ReportToJSONFile(t *testing.T) {
	dir := sandbox(t)
	fa := writeFile(t, dir, "t.fa", ">tgt\n"+target24+"\n")
	rep := writeFile(t, dir, "hits.tsv", report)
	out := filepath.Join(dir, "probes.json")

	args := append([]string{"design", "--report", rep, "-o", out}, append(permissive, fa)...)
	code, _, stderr := run(t, context.Background(), args...)
	require.Equal(t, ExitOK, code, stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var got api.DesignRunV1
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "tgt", got.TargetName)
	assert.Equal(t, 24, got.TargetLength)
	require.Len(t, got.Probes, 2)
	assert.Equal(t, "high", got.Probes[0].Specificity)
	assert.Equal(t, 1, got.Probes[0].BlastHitCount)
	assert.Equal(t, "NM_000001.1", got.Probes[0].BlastHits[0].Subject)
	assert.Equal(t, "no match", got.Probes[1].Specificity)
}

func TestDesign_StoreAndMetrics(t *testing.T) {
	dir := sandbox(t)
	fa := writeFile(t, dir, "t.fa", ">tgt\n"+target24+"\n")
	rep := writeFile(t, dir, "hits.tsv", report)
	db := filepath.Join(dir, "runs.db")
	prom := filepath.Join(dir, "probekit.prom")

	args := append([]string{"design", "--store", db, "--metrics-file", prom, "--report", rep, "--format", "yaml"}, append(permissive, fa)...)
	code, out, stderr := run(t, context.Background(), args...)
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, out, "run_id:")

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].ProbeCount)

	loaded, err := st.LoadRun(context.Background(), runs[0].ID)
	require.NoError(t, err)
	require.Len(t, loaded.Probes, 2)
	assert.Equal(t, "high", string(loaded.Probes[0].Tier))

	m, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(m), "probekit_probes_accepted_total 2")
	assert.Contains(t, string(m), `probekit_specificity_total{tier="high"} 1`)
}

func TestDesign_SearchWithoutTool(t *testing.T) {
	dir := sandbox(t)
	fa := writeFile(t, dir, "t.fa", ">tgt\n"+target24+"\n")
	args := append([]string{"design", "--search", "--blast-exe", filepath.Join(dir, "no-such-blastn"), "--blast-db", "refs"}, append(permissive, fa)...)
	code, _, stderr := run(t, context.Background(), args...)
	assert.Equal(t, ExitTool, code, stderr)
}

func TestDesign_FlagBeatsEnv(t *testing.T) {
	dir := sandbox(t)
	fa := writeFile(t, dir, "t.fa", ">tgt\n"+target24+"\n")
	t.Setenv("PROBEKIT_DESIGN_SPACING", "2")
	code, out, stderr := run(t, context.Background(), append([]string{"design"}, append(permissive, fa)...)...)
	require.Equal(t, ExitOK, code, stderr)
	// the --spacing flag wins over the environment
	assert.True(t, strings.HasPrefix(lines(out)[2], "2,"))
	assert.Contains(t, lines(out)[2], ",11,20,")
}

func TestDesign_ConfigFile(t *testing.T) {
	dir := sandbox(t)
	fa := writeFile(t, dir, "t.fa", ">tgt\n"+target24+"\n")
	writeFile(t, dir, "probekit.yaml", `
design:
  probe_length: 10
  spacing: 2
  min_gc: 0
  max_gc: 100
  min_tm: -1000
  max_tm: 1000
  min_complexity: 0
  filter_repeats: false
  max_homopolymer: 1000
`)
	code, out, stderr := run(t, context.Background(), "design", fa)
	require.Equal(t, ExitOK, code, stderr)
	rows := lines(out)
	require.Len(t, rows, 3)
	assert.Contains(t, rows[2], ",12,21,")
}

func TestDesign_Cancelled(t *testing.T) {
	dir := sandbox(t)
	fa := writeFile(t, dir, "t.fa", ">tgt\n"+target24+"\n")
	out := filepath.Join(dir, "probes.csv")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code, _, _ := run(t, ctx, append([]string{"design", "-o", out}, append(permissive, fa)...)...)
	assert.Equal(t, ExitCancelled, code)
	assert.NoFileExists(t, out)
}

func TestBatch_CSV(t *testing.T) {
	dir := sandbox(t)
	in := writeFile(t, dir, "in.csv", "id,sequence,note\na,ATCGATCGATCGATCGATCG,x\n,ACGTX,y\n")

	code, out, stderr := run(t, context.Background(), "batch", "-q", in)
	require.Equal(t, ExitOK, code, stderr)
	rows := lines(out)
	require.Len(t, rows, 3)
	assert.Equal(t, "id,sequence,valid_sequence,tm,gc_content", rows[0])
	assert.True(t, strings.HasPrefix(rows[1], "a,ATCGATCGATCGATCGATCG,true,"), rows[1])
	assert.True(t, strings.HasSuffix(rows[1], ",50"), rows[1])
	assert.Equal(t, "probe_2,ACGTX,false,,", rows[2])
}

func TestBatch_ReportMergeToTSV(t *testing.T) {
	dir := sandbox(t)
	in := writeFile(t, dir, "in.csv", "id,sequence\n1,ATCGATCGAT\n2,GGGCCCAATT\n")
	rep := writeFile(t, dir, "hits.tsv", report)
	out := filepath.Join(dir, "out.tsv")

	code, _, stderr := run(t, context.Background(), "batch", "--report", rep, "-o", out, in)
	require.Equal(t, ExitOK, code, stderr)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	rows := lines(string(data))
	require.Len(t, rows, 3)
	header := strings.Split(rows[0], "\t")
	assert.Equal(t, "blast_hits_count", header[5])
	assert.Len(t, header, 5+1+4*5)
	first := strings.Split(rows[1], "\t")
	assert.Equal(t, "1", first[5])
	assert.Equal(t, "NM_000001.1", first[6])
	assert.Equal(t, "0", strings.Split(rows[2], "\t")[5])
}

func TestBatch_MissingSequenceColumn(t *testing.T) {
	dir := sandbox(t)
	in := writeFile(t, dir, "in.csv", "id,seq\n1,ACGT\n")
	code, _, stderr := run(t, context.Background(), "batch", in)
	assert.Equal(t, ExitRuntime, code)
	assert.Contains(t, stderr, `missing required column "sequence"`)
}

func TestBatch_Cancelled(t *testing.T) {
	dir := sandbox(t)
	in := writeFile(t, dir, "in.csv", "sequence\nACGT\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	code, _, _ := run(t, ctx, "batch", in)
	assert.Equal(t, ExitCancelled, code)
}

func TestClassify(t *testing.T) {
	dir := sandbox(t)
	rep := writeFile(t, dir, "hits.tsv", report)
	code, out, stderr := run(t, context.Background(), "classify", rep)
	require.Equal(t, ExitOK, code, stderr)
	assert.Equal(t, []string{
		"query,specificity,blast_hits_count,blast_hits",
		"1,high,1,NM_000001.1(100%)",
		"2,no match,0,",
	}, lines(out))
}

func TestClassify_BadReport(t *testing.T) {
	dir := sandbox(t)
	rep := writeFile(t, dir, "hits.tsv", "# Query: 1\n1\tS\tabc\t1\t0\t0\t1\t1\t1\t1\t0.1\t1\n")
	code, _, _ := run(t, context.Background(), "classify", rep)
	assert.Equal(t, ExitRuntime, code)
}

func TestRevcomp(t *testing.T) {
	dir := sandbox(t)
	in := writeFile(t, dir, "in.csv", "name,probe\nx,aacg\ny,ZZ\nz,\n")
	out := filepath.Join(dir, "out.csv")

	code, _, stderr := run(t, context.Background(), "revcomp", "--column", "probe", in, out)
	require.Equal(t, ExitOK, code, stderr)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"name,probe,reverse_complement",
		"x,aacg,CGTT",
		"y,ZZ,",
		"z,,",
	}, lines(string(data)))

	code, _, _ = run(t, context.Background(), "revcomp", "--column", "missing", in)
	assert.Equal(t, ExitUsage, code)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, 7, ExitCode(&exitError{code: 7, err: errNoProbes}))
	assert.Equal(t, ExitCancelled, ExitCode(context.Canceled))
	assert.Equal(t, ExitUsage, ExitCode(usagef("x")))
	assert.Equal(t, ExitRuntime, ExitCode(os.ErrNotExist))
}
