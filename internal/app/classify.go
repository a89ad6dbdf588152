package app

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"probekit/internal/blast"
	"probekit/internal/specificity"
	"probekit/internal/tabular"
)

// ClassifyHeader is the column order of classify output.
var ClassifyHeader = []string{"query", "specificity", "blast_hits_count", "blast_hits"}

func (e *env) classifyCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "classify [flags] REPORT",
		Short: "Grade every query of an alignment report by specificity",
		Long: `Read a BLAST tabular report with comment lines (-outfmt 7) and grade each
query from its best hit and total hit count: high, medium, low,
not recommended, or no match.`,
		Example: `  probekit classify hits.tsv
  probekit classify hits.tsv -o grades.xlsx`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runClassify(cmd.Context(), args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", `output table, format from extension ("-" for CSV on stdout)`)
	return cmd
}

// ClassifyTable grades every query of rep, in report order.
func ClassifyTable(rep *blast.Report) (*tabular.Table, map[specificity.Tier]int) {
	t := &tabular.Table{Header: append([]string(nil), ClassifyHeader...)}
	counts := map[specificity.Tier]int{}
	for _, q := range rep.Queries() {
		hits, _ := rep.Hits(q)
		a := specificity.Annotate(hits)
		counts[a.Tier]++
		t.Rows = append(t.Rows, []string{q, string(a.Tier), strconv.Itoa(a.HitCount), specificity.FormatHits(a.Hits)})
	}
	return t, counts
}

func (e *env) runClassify(_ context.Context, path, output string) (err error) {
	start := time.Now()
	defer func() { err = e.finish("classify", start, err) }()

	rep, err := blast.ParseFile(path)
	if err != nil {
		return err
	}
	t, counts := ClassifyTable(rep)
	e.metrics.RecordSpecificity(counts)
	e.logger.Info("report classified", "queries", len(t.Rows), "high", counts[specificity.TierHigh], "no_match", counts[specificity.TierNoMatch])

	format := tabular.FormatCSV
	if output != "-" && output != "" {
		format = tabular.FormatFor(output)
	}
	return e.writeOutput(output, func(w io.Writer) error { return tabular.Encode(w, t, format) })
}
