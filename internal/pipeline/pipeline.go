package pipeline

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"probekit/internal/progress"
)

// Job is the worker half of a run. It reports through sink and must return
// once ctx is done.
type Job[T any] func(ctx context.Context, sink progress.Sink) (T, error)

// Config controls the consumer half.
type Config struct {
	Logger     *slog.Logger // nil means slog.Default()
	OnProgress func(percent int)
}

// Run executes job and forwards its events until the job finishes and the
// queue is drained. The job's own error is returned unchanged.
func Run[T any](ctx context.Context, cfg Config, job Job[T]) (T, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	q := progress.NewQueue()
	var (
		out    T
		jobErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		defer q.Close()
		out, jobErr = job(ctx, q)
		return nil
	})
	g.Go(func() error {
		// Not bound to ctx: the queue is closed by the worker, and the tail of a
		// cancelled run still has to reach the log.
		return progress.Forward(context.WithoutCancel(ctx), q, logger, cfg.OnProgress)
	})
	if err := g.Wait(); err != nil && jobErr == nil {
		jobErr = err
	}
	return out, jobErr
}
