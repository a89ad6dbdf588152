// internal/batch/analyzer.go
package batch

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"probekit/internal/errors"
	"probekit/internal/progress"
	"probekit/internal/seq"
	"probekit/internal/thermo"
)

// ErrCancelled is returned when a batch stops because its context ended.
// It matches context.Canceled via errors.Is.
var ErrCancelled = errors.New(context.Canceled).Component("batch").Category(errors.CategoryCancellation).Build()

// DefaultPollInterval is how often a paused batch re-checks its switches.
const DefaultPollInterval = 500 * time.Millisecond

// logEvery is the record cadence of per-record log lines.
const logEvery = 10

// Record is one input row.
type Record struct {
	ID       string
	Sequence string
}

// Result is the scored form of a Record. Tm and GC are both set or both nil.
type Result struct {
	ID       string
	Sequence string
	Valid    bool
	Tm       *float64
	GC       *float64
}

// Observer receives per-record counters. internal/metrics implements it.
type Observer interface {
	RecordAnalyzed(valid bool)
}

type nopObserver struct{}

func (nopObserver) RecordAnalyzed(bool) {}

// Analyzer scores records one by one on the calling goroutine.
type Analyzer struct {
	sink progress.Sink
	ctrl *Control
	poll time.Duration
	obs  Observer
}

type Option func(*Analyzer)

func WithSink(s progress.Sink) Option {
	return func(a *Analyzer) {
		if s != nil {
			a.sink = s
		}
	}
}

func WithControl(c *Control) Option { return func(a *Analyzer) { a.ctrl = c } }

func WithPollInterval(d time.Duration) Option {
	return func(a *Analyzer) {
		if d > 0 {
			a.poll = d
		}
	}
}

func WithObserver(o Observer) Option {
	return func(a *Analyzer) {
		if o != nil {
			a.obs = o
		}
	}
}

func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{sink: progress.Discard, poll: DefaultPollInterval, obs: nopObserver{}}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze scores records in order and returns exactly one Result per
// record. Invalid sequences never abort the run. The context is checked
// before every record and while paused; cancellation discards the partial
// results and returns ErrCancelled.
func (a *Analyzer) Analyze(ctx context.Context, records []Record, method thermo.Method) ([]Result, error) {
	scorer := thermo.NewScorer(method)
	out := make([]Result, 0, len(records))
	last := -1
	for i, rec := range records {
		if err := a.checkpoint(ctx); err != nil {
			a.sink.Log(slog.LevelWarn, "analysis cancelled", "done", i, "total", len(records))
			return nil, err
		}

		r := score(rec, scorer)
		out = append(out, r)
		a.obs.RecordAnalyzed(r.Valid)

		if i%logEvery == 0 {
			a.sink.Log(slog.LevelInfo, "analyzing record", "id", rec.ID, "n", i+1, "total", len(records), "valid", r.Valid)
		}
		if pct := (i + 1) * 100 / len(records); pct != last {
			a.sink.Progress(pct)
			last = pct
		}
	}
	return out, nil
}

// checkpoint honours cancellation, then blocks while paused.
func (a *Analyzer) checkpoint(ctx context.Context) error {
	if ctx.Err() != nil {
		return ErrCancelled
	}
	if !a.ctrl.Paused() {
		return nil
	}
	a.sink.Log(slog.LevelInfo, "analysis paused")
	t := time.NewTicker(a.poll)
	defer t.Stop()
	for a.ctrl.Paused() {
		select {
		case <-ctx.Done():
			return ErrCancelled
		case <-t.C:
		}
	}
	a.sink.Log(slog.LevelInfo, "analysis resumed")
	return nil
}

func score(rec Record, s *thermo.Scorer) Result {
	r := Result{ID: rec.ID, Sequence: rec.Sequence}
	if !seq.IsValidForThermo(rec.Sequence) {
		return r
	}
	r.Valid = true
	dna := seq.ToDNA(strings.TrimSpace(rec.Sequence))
	tm, ok := s.Tm(dna)
	if !ok {
		return r
	}
	gc := math.Round(seq.GCContent(dna)*100) / 100
	r.Tm, r.GC = &tm, &gc
	return r
}
