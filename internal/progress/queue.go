// internal/progress/queue.go
package progress

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Kind tags an Event.
type Kind int

const (
	KindProgress Kind = iota // Percent is set
	KindLog                  // Message/Level/Attrs are set
)

// Event is one progress or log notification.
type Event struct {
	Kind    Kind
	Percent int
	Level   slog.Level
	Message string
	Attrs   []any
}

// Sink is the producer-side contract used by the design engine and the
// batch analyzer.
type Sink interface {
	Progress(percent int)
	Log(level slog.Level, msg string, attrs ...any)
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Progress(int) {}
func (discard) Log(slog.Level, string, ...any) {}

// Queue is an unbounded, ordered, thread-safe event queue. The zero value
// is not usable; call NewQueue.
type Queue struct {
	mu     sync.Mutex
	items  []Event
	closed bool
	ready  chan struct{} // cap 1; signalled on publish/close
}

func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Publish appends e. It never blocks. Events published after Close are dropped.
func (q *Queue) Publish(e Event) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, e)
	q.mu.Unlock()
	q.signal()
}

func (q *Queue) Progress(percent int) {
	q.Publish(Event{Kind: KindProgress, Percent: percent})
}

func (q *Queue) Log(level slog.Level, msg string, attrs ...any) {
	q.Publish(Event{Kind: KindLog, Level: level, Message: msg, Attrs: attrs})
}

// Close marks the end of the stream. Pending events remain receivable.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

// TryRecv pops the oldest event without blocking.
func (q *Queue) TryRecv() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Event{}, false
	}
	e := q.items[0]
	q.items[0] = Event{}
	q.items = q.items[1:]
	return e, true
}

// Recv blocks until an event is available, the queue is closed and drained
// (io.EOF), or ctx is done.
func (q *Queue) Recv(ctx context.Context) (Event, error) {
	for {
		if e, ok := q.TryRecv(); ok {
			return e, nil
		}
		q.mu.Lock()
		done := q.closed && len(q.items) == 0
		q.mu.Unlock()
		if done {
			return Event{}, io.EOF
		}
		select {
		case <-ctx.Done():
			return Event{}, ctx.Err()
		case <-q.ready:
		}
	}
}

// Len reports the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Forward drains q into logger until the queue is closed or ctx is done.
// Progress events go through onProgress when non-nil.
func Forward(ctx context.Context, q *Queue, logger *slog.Logger, onProgress func(int)) error {
	for {
		e, err := q.Recv(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch e.Kind {
		case KindProgress:
			if onProgress != nil {
				onProgress(e.Percent)
			}
		case KindLog:
			logger.Log(ctx, e.Level, e.Message, e.Attrs...)
		default:
			logger.Warn("unknown progress event", "kind", fmt.Sprint(e.Kind))
		}
	}
}
