package app

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"probekit/internal/batch"
	"probekit/internal/pipeline"
	"probekit/internal/progress"
	"probekit/internal/tabular"
)

type batchOptions struct {
	output string
	report reportOptions
}

func (e *env) batchCommand() *cobra.Command {
	var o batchOptions
	cmd := &cobra.Command{
		Use:   "batch [flags] INPUT",
		Short: "Score candidate sequences from a table",
		Long: `Read INPUT (CSV, TSV or XLSX with a header row and a "sequence" column,
optionally "id") and report validity, melting temperature and GC content for
every row, in input order.

While running, SIGUSR1 toggles pause; interrupt cancels without writing
output.`,
		Example: `  probekit batch candidates.csv -o scored.xlsx
  probekit batch --tm-method wallace --report hits.tsv candidates.tsv -o scored.tsv`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runBatch(cmd.Context(), args[0], o)
		},
	}
	f := cmd.Flags()
	f.String("tm-method", "santalucia", "Tm method: "+methodNames())
	f.Duration("poll-interval", batch.DefaultPollInterval, "how often a paused run checks for resume")
	f.StringVarP(&o.output, "output", "o", "-", `output table, format from extension ("-" for CSV on stdout)`)
	o.report.register(cmd)
	e.bindings[cmd] = withBindings(map[string]string{
		"batch.tm_method":     "tm-method",
		"batch.poll_interval": "poll-interval",
	}, blastBindings)
	return cmd
}

func (e *env) runBatch(ctx context.Context, path string, o batchOptions) (err error) {
	start := time.Now()
	defer func() { err = e.finish("batch", start, err) }()

	if err := o.report.validate(); err != nil {
		return err
	}
	method, err := e.settings.BatchMethod()
	if err != nil {
		return usageError{err}
	}
	records, err := batch.ReadRecords(path)
	if err != nil {
		return err
	}
	e.logger.Info("analyzing records", "input", path, "records", len(records), "tm_method", method.String())

	ctrl := &batch.Control{}
	stop := watchPause(ctrl)
	defer stop()

	results, err := pipeline.Run[[]batch.Result](ctx, e.pipelineConfig(), func(ctx context.Context, sink progress.Sink) ([]batch.Result, error) {
		a := batch.NewAnalyzer(
			batch.WithSink(sink),
			batch.WithControl(ctrl),
			batch.WithPollInterval(e.settings.Batch.PollInterval),
			batch.WithObserver(e.metrics),
		)
		return a.Analyze(ctx, records, method)
	})
	if err != nil {
		return err
	}
	sum := batch.Summarize(results)
	e.logger.Info("batch complete",
		"total", sum.Total,
		"valid", sum.Valid,
		"scored", sum.Scored,
		"mean_tm", sum.MeanTm,
		"mean_gc", sum.MeanGC)

	table := batch.ResultsTable(results)
	rep, err := e.resolveReport(ctx, o.report, batch.Queries(results))
	if err != nil {
		return err
	}
	if rep != nil {
		if err := batch.MergeReport(table, rep); err != nil {
			return err
		}
	}

	format := tabular.FormatCSV
	if o.output != "-" && o.output != "" {
		format = tabular.FormatFor(o.output)
	}
	return e.writeOutput(o.output, func(w io.Writer) error { return tabular.Encode(w, table, format) })
}
