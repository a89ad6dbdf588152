// internal/design/engine.go
package design

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"probekit/internal/progress"
	"probekit/internal/thermo"
)

// Observer receives per-window counters. internal/metrics implements it.
type Observer interface {
	WindowScanned()
	WindowRejected(reason Reason)
	ProbeAccepted()
}

type nopObserver struct{}

func (nopObserver) WindowScanned()        {}
func (nopObserver) WindowRejected(Reason) {}
func (nopObserver) ProbeAccepted()        {}

// Engine runs design scans. It holds no per-scan state and may be reused.
type Engine struct {
	sink progress.Sink
	obs  Observer
}

type Option func(*Engine)

// WithSink routes progress percentages and accept logs to s.
func WithSink(s progress.Sink) Option {
	return func(e *Engine) {
		if s != nil {
			e.sink = s
		}
	}
}

func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.obs = o
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{sink: progress.Discard, obs: nopObserver{}}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Design scans target left to right and returns accepted probes in start
// order. A target shorter than ProbeLength yields no probes and no error.
// ctx is checked once per scanned position; on cancellation the partial
// result is discarded and ctx.Err() returned.
func (e *Engine) Design(ctx context.Context, target string, p Params) ([]Probe, error) {
	target = strings.ToUpper(target)
	n, L := len(target), p.ProbeLength

	tm := thermo.NewScorer(p.TmMethod).Tm
	advance := max(L+p.Spacing-1, 1)

	var probes []Probe
	last := -1
	for cursor := 0; cursor < n-L; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if pct := cursor * 100 / n; pct != last {
			e.sink.Progress(pct)
			last = pct
		}

		fragment := target[cursor : cursor+L]
		c := score(fragment, target, p, tm)
		e.obs.WindowScanned()

		if r := p.Check(c); r != Accepted {
			e.obs.WindowRejected(r)
			cursor++
			continue
		}

		pr := Probe{
			ID:             len(probes) + 1,
			Sequence:       c.Sequence,
			SourceFragment: fragment,
			Start:          cursor + 1,
			End:            cursor + L,
			GC:             c.GC,
			Tm:             c.Tm,
			Complexity:     c.Complexity,
		}
		probes = append(probes, pr)
		e.obs.ProbeAccepted()
		e.sink.Log(slog.LevelInfo, "accepted probe",
			"probe_id", pr.ID, "sequence", pr.Sequence, "start", pr.Start,
			"gc", round(pr.GC, 2), "tm", pr.Tm, "complexity", round(pr.Complexity, 3))
		cursor += advance
	}
	return probes, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
