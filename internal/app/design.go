package app

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"probekit/internal/blast"
	"probekit/internal/design"
	"probekit/internal/errors"
	"probekit/internal/fasta"
	"probekit/internal/pipeline"
	"probekit/internal/progress"
	"probekit/internal/seq"
	"probekit/internal/specificity"
	"probekit/internal/store"
	"probekit/internal/thermo"
	"probekit/internal/writers"
)

type designOptions struct {
	output          string
	format          string
	noMatchExitCode int
	report          reportOptions
}

var designBindings = map[string]string{
	"design.probe_length":    "length",
	"design.min_gc":          "min-gc",
	"design.max_gc":          "max-gc",
	"design.min_tm":          "min-tm",
	"design.max_tm":          "max-tm",
	"design.spacing":         "spacing",
	"design.min_complexity":  "min-complexity",
	"design.filter_repeats":  "filter-repeats",
	"design.max_homopolymer": "max-homopolymer",
	"design.tm_method":       "tm-method",
}

func methodNames() string {
	return strings.Join(lo.Map(thermo.Methods(), func(m thermo.Method, _ int) string { return m.String() }), ", ")
}

func (e *env) designCommand() *cobra.Command {
	var o designOptions
	cmd := &cobra.Command{
		Use:   "design [flags] TARGET",
		Short: "Tile probes along a target sequence",
		Long: `Scan TARGET (FASTA, first record, or plain sequence; "-" for stdin) with a
sliding window and keep every window whose reverse complement passes the GC,
Tm, complexity, repeat and homopolymer criteria. After an accepted probe the
scan skips ahead by the probe length plus spacing.

With --report or --search, each probe is graded by specificity against the
alignment hits of its reverse complement.`,
		Example: `  probekit design target.fa -o probes.csv
  probekit design --length 25 --spacing 5 --tm-method nn target.fa -o probes.json
  probekit design --search --blast-db refs/mrna --store runs.db target.fa -o probes.tsv`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runDesign(cmd.Context(), args[0], o)
		},
	}

	d := design.DefaultParams()
	f := cmd.Flags()
	f.Int("length", d.ProbeLength, "probe length (nt)")
	f.Float64("min-gc", d.MinGC, "minimum GC content (%)")
	f.Float64("max-gc", d.MaxGC, "maximum GC content (%)")
	f.Float64("min-tm", d.MinTm, "minimum melting temperature (°C)")
	f.Float64("max-tm", d.MaxTm, "maximum melting temperature (°C)")
	f.Int("spacing", d.Spacing, "gap added after each accepted probe (>= 1)")
	f.Float64("min-complexity", d.MinComplexity, "minimum sequence complexity (0-1)")
	f.Bool("filter-repeats", d.FilterRepeats, "reject windows with repeated 6-mers or re-occurring in the target")
	f.Int("max-homopolymer", d.MaxHomopolymer, "longest allowed single-base run")
	f.String("tm-method", d.TmMethod.String(), "Tm method: "+methodNames())
	f.StringVarP(&o.output, "output", "o", "-", `output file ("-" for stdout)`)
	f.StringVar(&o.format, "format", "", "export format: "+strings.Join(writers.Formats(), ", ")+" (default from --output extension)")
	f.IntVar(&o.noMatchExitCode, "no-match-exit-code", ExitNoMatch, "exit code when no probe passes")
	o.report.register(cmd)
	e.bindings[cmd] = withBindings(designBindings, blastBindings)
	return cmd
}

func (e *env) runDesign(ctx context.Context, path string, o designOptions) (err error) {
	start := time.Now()
	defer func() { err = e.finish("design", start, err) }()

	if err := o.report.validate(); err != nil {
		return err
	}
	format := o.format
	if format == "" {
		format = writers.FormatFor(o.output)
	}
	if !lo.Contains(writers.Formats(), format) {
		return usagef("unknown export format %q (have %s)", format, strings.Join(writers.Formats(), ", "))
	}
	params, err := e.settings.DesignParams()
	if err != nil {
		return errors.ValidationError(err.Error())
	}

	rec, err := fasta.ReadTarget(path)
	if err != nil {
		return errors.New(err).Component("design").Category(errors.CategoryFileIO).Context("path", path).Build()
	}
	target, err := seq.Validate(string(rec.Seq), seq.DesignAlphabet)
	if err != nil {
		return errors.New(err).Component("design").Category(errors.CategoryValidation).Context("path", path).Build()
	}
	name := rec.ID
	if name == "" {
		name = filepath.Base(path)
	}

	e.logger.Info("designing probes",
		"target", name,
		"target_length", len(target),
		"probe_length", params.ProbeLength,
		"tm_method", params.TmMethod.String())
	probes, err := pipeline.Run[[]design.Probe](ctx, e.pipelineConfig(), func(ctx context.Context, sink progress.Sink) ([]design.Probe, error) {
		return design.New(design.WithSink(sink), design.WithObserver(e.metrics)).Design(ctx, target, params)
	})
	if err != nil {
		return err
	}
	sum := design.Summarize(probes)
	e.logger.Info("design complete", "probes", sum.Count, "mean_gc", sum.MeanGC, "mean_tm", sum.MeanTm)

	rep, err := e.resolveReport(ctx, o.report, specificity.Queries(probes))
	if err != nil {
		return err
	}
	ann := specificity.AnnotateProbes(probes, rep)
	if rep != nil {
		counts := ann.Counts(probes)
		e.metrics.RecordSpecificity(counts)
		e.logger.Info("specificity graded", lo.FlatMap(specificity.Tiers(), func(t specificity.Tier, _ int) []any {
			return []any{string(t), counts[t]}
		})...)
	}

	var runID string
	if dsn := e.settings.Store.DSN; dsn != "" {
		if runID, err = e.saveRun(ctx, dsn, store.Target{Name: name, Length: len(target)}, params, probes, rep, ann); err != nil {
			return err
		}
	}

	exp := writers.Export{
		RunID:        runID,
		TargetName:   name,
		TargetLength: len(target),
		Probes:       specificity.Join(probes, ann),
		WithHits:     rep != nil,
	}
	if err := e.writeOutput(o.output, func(w io.Writer) error { return writers.Write(format, w, exp) }); err != nil {
		return err
	}
	if len(probes) == 0 {
		e.logger.Warn(errNoProbes.Error())
		return &exitError{code: o.noMatchExitCode, err: errNoProbes}
	}
	return nil
}

func (e *env) saveRun(ctx context.Context, dsn string, target store.Target, params design.Params, probes []design.Probe, rep *blast.Report, ann specificity.Annotations) (string, error) {
	st, err := store.Open(dsn)
	if err != nil {
		return "", err
	}
	defer st.Close()

	id, err := st.SaveRun(ctx, target, params, probes)
	if err != nil {
		return "", err
	}
	if rep != nil {
		if err := st.SaveAnnotations(ctx, id, ann); err != nil {
			return "", err
		}
	}
	e.logger.Info("design run recorded", "run_id", id, "store", dsn)
	return id, nil
}
