package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"probekit/internal/errors"
	"probekit/internal/seq"
	"probekit/internal/tabular"
)

// ColReverseComplement is appended by revcomp.
const ColReverseComplement = "reverse_complement"

// revcompAlphabet is DNA/RNA plus N; other cells are left blank.
const revcompAlphabet seq.Alphabet = "ACGTUN"

func (e *env) revcompCommand() *cobra.Command {
	var column string
	cmd := &cobra.Command{
		Use:   "revcomp [flags] INPUT [OUTPUT]",
		Short: "Append the reverse complement of a sequence column",
		Long: `Read a CSV, TSV or XLSX table and append a reverse_complement column
computed from --column. OUTPUT defaults to CSV on stdout.`,
		Example: `  probekit revcomp oligos.csv oligos_rc.csv
  probekit revcomp --column probe oligos.xlsx oligos_rc.xlsx`,
		Args: rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := "-"
			if len(args) == 2 {
				out = args[1]
			}
			return e.runRevcomp(cmd.Context(), args[0], out, column)
		},
	}
	cmd.Flags().StringVar(&column, "column", "sequence", "column holding the sequences")
	return cmd
}

// ReverseComplementColumn appends ColReverseComplement to t and returns the
// number of cells that could not be complemented.
func ReverseComplementColumn(t *tabular.Table, column string) (int, error) {
	c := t.Index(column)
	if c < 0 {
		return 0, errors.New(fmt.Errorf("column %q not found (columns: %s)", column, strings.Join(t.Header, ", "))).
			Component("revcomp").
			Category(errors.CategoryValidation).
			Build()
	}
	skipped := 0
	t.AddColumn(ColReverseComplement, func(i int) string {
		s := seq.Normalize(t.Cell(i, c))
		if s == "" {
			return ""
		}
		if !seq.IsValid(s, revcompAlphabet) {
			skipped++
			return ""
		}
		return seq.RevComp(s)
	})
	return skipped, nil
}

func (e *env) runRevcomp(_ context.Context, in, out, column string) (err error) {
	start := time.Now()
	defer func() { err = e.finish("revcomp", start, err) }()

	t, err := tabular.Read(in)
	if err != nil {
		return err
	}
	skipped, err := ReverseComplementColumn(t, column)
	if err != nil {
		return err
	}
	if skipped > 0 {
		e.logger.Warn("left invalid sequences blank", "count", skipped, "column", column)
	}
	e.logger.Info("reverse complements added", "rows", len(t.Rows))

	format := tabular.FormatCSV
	if out != "-" {
		format = tabular.FormatFor(out)
	}
	return e.writeOutput(out, func(w io.Writer) error { return tabular.Encode(w, t, format) })
}
