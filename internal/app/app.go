// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"probekit/internal/batch"
	"probekit/internal/blast"
	"probekit/internal/config"
	"probekit/internal/errors"
	"probekit/internal/fsutil"
	"probekit/internal/logging"
	"probekit/internal/metrics"
	"probekit/internal/pipeline"
	"probekit/internal/writers"
)

// env is the state shared by the commands of one invocation.
type env struct {
	stdout, stderr io.Writer

	v       *viper.Viper
	cfgFile string
	quiet   bool

	// config key → flag name, per command; bound just before config load
	// so only the invoked command's flags take part.
	bindings map[*cobra.Command]map[string]string

	settings *config.Settings
	logger   *slog.Logger
	metrics  *metrics.ProbeMetrics
}

// RunContext executes one command line and returns the exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	e := &env{
		stdout:   stdout,
		stderr:   stderr,
		v:        config.New(),
		bindings: map[*cobra.Command]map[string]string{},
		logger:   slog.New(slog.NewTextHandler(stderr, nil)),
	}
	root := e.rootCommand()
	root.SetArgs(argv)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(parent)
	code := ExitCode(err)
	var ee *exitError
	if err != nil && !errors.As(err, &ee) {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		var enh *errors.EnhancedError
		if errors.As(err, &enh) {
			e.logger.Debug("error details", enh.LogAttrs()...)
		}
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// setup binds flags, loads configuration and builds logging and metrics.
func (e *env) setup(cmd *cobra.Command) error {
	for _, c := range []*cobra.Command{cmd.Root(), cmd} {
		for key, name := range e.bindings[c] {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := e.v.BindPFlag(key, f); err != nil {
					return err
				}
			}
		}
	}
	s, err := config.Load(e.v, e.cfgFile)
	if err != nil {
		return err
	}
	level := s.Log.Level
	if e.quiet {
		level = "warn"
	}
	logger, err := logging.Setup(e.stderr, level, s.Log.Format)
	if err != nil {
		return usageError{err}
	}
	m, err := metrics.NewProbeMetrics(prometheus.NewRegistry())
	if err != nil {
		return err
	}
	e.settings, e.logger, e.metrics = s, logger, m
	return nil
}

// finish records the run duration and writes the metrics textfile.
func (e *env) finish(command string, start time.Time, err error) error {
	outcome := batch.OutcomeOf(err).String()
	var ee *exitError
	if errors.As(err, &ee) {
		outcome = "no_match"
	}
	e.metrics.ObserveRun(command, outcome, time.Since(start))
	if path := e.settings.Metrics.File; path != "" {
		if werr := e.metrics.WriteTextfile(path); werr != nil {
			e.logger.Warn("writing metrics failed", "path", path, "error", werr)
		}
	}
	return err
}

func (e *env) pipelineConfig() pipeline.Config {
	return pipeline.Config{
		Logger:     e.logger,
		OnProgress: func(p int) { e.logger.Debug("progress", "percent", p) },
	}
}

// writeOutput fills path atomically, or stdout for "" and "-".
func (e *env) writeOutput(path string, fill func(io.Writer) error) error {
	if path == "" || path == "-" {
		bw := bufio.NewWriter(e.stdout)
		err := fill(bw)
		if err == nil {
			err = bw.Flush()
		}
		if err = writers.IgnoreBrokenPipe(err); err != nil {
			return errors.New(err).Component("app").Category(errors.CategoryFileIO).Context("path", "stdout").Build()
		}
		return nil
	}
	if err := fsutil.WriteAtomic(path, fill); err != nil {
		return errors.New(err).Component("app").Category(errors.CategoryFileIO).Context("path", path).Build()
	}
	e.logger.Info("wrote output", "path", path)
	return nil
}

// reportOptions selects where alignment results come from.
type reportOptions struct {
	report string // existing outfmt-7 report
	search bool   // run the alignment tool
	keep   string // where the tool writes its report; temp when empty
}

func (r *reportOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	d := blast.DefaultConfig()
	f.StringVar(&r.report, "report", "", "classify against an existing alignment report (BLAST outfmt 7)")
	f.BoolVar(&r.search, "search", false, "run the alignment tool against --blast-db")
	f.StringVar(&r.keep, "keep-report", "", "keep the report written by --search at this path")
	f.String("blast-exe", d.Executable, "alignment executable")
	f.String("blast-db", "", "alignment database prefix")
	f.Float64("evalue", d.EValue, "search e-value cutoff")
	f.Int("max-target-seqs", d.MaxTargetSeqs, "maximum subjects per query")
	f.Duration("blast-timeout", d.Timeout, "abort the search after this long (0 waits)")
}

var blastBindings = map[string]string{
	"blast.executable":      "blast-exe",
	"blast.db":              "blast-db",
	"blast.evalue":          "evalue",
	"blast.max_target_seqs": "max-target-seqs",
	"blast.timeout":         "blast-timeout",
}

func (r *reportOptions) validate() error {
	if r.report != "" && r.search {
		return usagef("--report and --search cannot be combined")
	}
	if r.keep != "" && !r.search {
		return usagef("--keep-report requires --search")
	}
	return nil
}

// resolveReport returns the report to classify against, or nil when none was
// requested.
func (e *env) resolveReport(ctx context.Context, r reportOptions, queries []blast.Query) (*blast.Report, error) {
	switch {
	case r.report != "":
		return blast.ParseFile(r.report)
	case !r.search:
		return nil, nil
	case len(queries) == 0:
		e.logger.Warn("nothing to search")
		return nil, nil
	}

	out := r.keep
	if out == "" {
		f, err := os.CreateTemp("", "probekit-report-*.tsv")
		if err != nil {
			return nil, errors.New(err).Component("app").Category(errors.CategoryFileIO).Build()
		}
		out = f.Name()
		_ = f.Close()
		defer os.Remove(out)
	}
	return blast.NewRunner(e.settings.BlastConfig(), e.logger).Search(ctx, queries, out)
}

func withBindings(maps ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
