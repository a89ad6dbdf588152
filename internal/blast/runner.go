// internal/blast/runner.go
package blast

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/liserjrqlxue/goUtil/osUtil"
	"github.com/samber/lo"

	"probekit/internal/errors"
)

// Config selects the alignment executable and its search limits.
type Config struct {
	Executable    string        // path or name on $PATH, e.g. blastn
	DB            string        // database prefix
	EValue        float64       // -evalue
	MaxTargetSeqs int           // -max_target_seqs
	Timeout       time.Duration // 0 waits for the tool indefinitely
}

// DefaultConfig matches the stock search limits.
func DefaultConfig() Config {
	return Config{Executable: "blastn", EValue: 0.1, MaxTargetSeqs: 30}
}

// Query is one FASTA record submitted to the tool.
type Query struct {
	ID       string
	Sequence string
}

// QueryID is the form of id the tool reports back: a FASTA defline is cut
// at the first whitespace, so inner whitespace runs become underscores.
func QueryID(id string) string {
	return strings.Join(strings.Fields(id), "_")
}

// Searcher runs a search for queries and returns the parsed report, which
// is also kept at out.
type Searcher interface {
	Search(ctx context.Context, queries []Query, out string) (*Report, error)
}

// Runner invokes the external alignment tool as a blocking subprocess.
type Runner struct {
	cfg    Config
	logger *slog.Logger
}

func NewRunner(cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, logger: logger}
}

func toolError(err error, msg string) *errors.ErrorBuilder {
	return errors.New(fmt.Errorf("%s: %w", msg, err)).
		Component("blast").
		Category(errors.CategoryCommandExecution)
}

// Preflight checks that the executable and database files exist.
func (r *Runner) Preflight() error {
	exe := r.cfg.Executable
	if exe == "" {
		return toolError(errors.NewStd("no executable configured"), "alignment tool").Build()
	}
	if strings.ContainsRune(exe, filepath.Separator) || strings.ContainsRune(exe, '/') {
		if !osUtil.FileExists(exe) {
			return toolError(os.ErrNotExist, "alignment executable").Context("executable", exe).Build()
		}
	} else if _, err := exec.LookPath(exe); err != nil {
		return toolError(err, "alignment executable").Context("executable", exe).Build()
	}

	if r.cfg.DB == "" {
		return toolError(errors.NewStd("no database configured"), "alignment database").Build()
	}
	dir, base := filepath.Split(r.cfg.DB)
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return toolError(err, "alignment database").Context("db", r.cfg.DB).Build()
	}
	if !lo.ContainsBy(entries, func(e os.DirEntry) bool { return strings.HasPrefix(e.Name(), base) }) {
		return toolError(os.ErrNotExist, "alignment database").Context("db", r.cfg.DB).Build()
	}
	return nil
}

// Args builds the tool command line for a query file and report path.
func (r *Runner) Args(queryPath, out string) []string {
	return []string{
		"-db", r.cfg.DB,
		"-query", queryPath,
		"-outfmt", "7",
		"-max_target_seqs", strconv.Itoa(r.cfg.MaxTargetSeqs),
		"-evalue", strconv.FormatFloat(r.cfg.EValue, 'g', -1, 64),
		"-out", out,
	}
}

// Search writes queries to a temporary FASTA file, runs the tool and
// parses the report it wrote to out. The temporary query is always removed.
func (r *Runner) Search(ctx context.Context, queries []Query, out string) (*Report, error) {
	if len(queries) == 0 {
		return nil, errors.New(errors.NewStd("no sequences to search")).
			Component("blast").
			Category(errors.CategoryValidation).
			Build()
	}
	if err := r.Preflight(); err != nil {
		return nil, err
	}

	qpath, err := writeQueryFASTA(queries)
	if err != nil {
		return nil, err
	}
	defer os.Remove(qpath)

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.cfg.Executable, r.Args(qpath, out)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	r.logger.Info("running alignment search", "CMD", cmd.String(), "queries", len(queries))

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr == context.Canceled {
			return nil, errors.New(ctxErr).Component("blast").Category(errors.CategoryCancellation).Build()
		}
		return nil, toolError(err, "alignment search failed").
			Context("executable", r.cfg.Executable).
			Context("stderr", strings.TrimSpace(stderr.String())).
			Build()
	}
	r.logger.Info("alignment search finished", "out", out, "elapsed", time.Since(start).Round(time.Millisecond))
	return ParseFile(out)
}

func writeQueryFASTA(queries []Query) (string, error) {
	f, err := os.CreateTemp("", "probekit-query-*.fasta")
	if err != nil {
		return "", errors.New(err).Component("blast").Category(errors.CategoryFileIO).Build()
	}
	w := bufio.NewWriter(f)
	for _, q := range queries {
		fmt.Fprintf(w, ">%s\n%s\n", QueryID(q.ID), q.Sequence)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", errors.New(err).Component("blast").Category(errors.CategoryFileIO).Build()
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", errors.New(err).Component("blast").Category(errors.CategoryFileIO).Build()
	}
	return f.Name(), nil
}
