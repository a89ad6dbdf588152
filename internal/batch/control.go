// internal/batch/control.go
package batch

import (
	"context"
	"sync/atomic"

	"probekit/internal/errors"
)

// Control is the cross-goroutine pause switch for a running batch.
// Cancellation is carried by the context passed to Analyze.
type Control struct {
	paused atomic.Bool
}

func (c *Control) Pause()       { c.paused.Store(true) }
func (c *Control) Resume()      { c.paused.Store(false) }
func (c *Control) Paused() bool { return c != nil && c.paused.Load() }

// Outcome is how a batch run ended.
type Outcome int

const (
	Succeeded Outcome = iota
	Cancelled
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Cancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// OutcomeOf classifies the error returned by Analyze (or a whole batch
// operation).
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return Succeeded
	case isCancel(err):
		return Cancelled
	default:
		return Failed
	}
}

func isCancel(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}
