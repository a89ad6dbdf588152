// Package progress carries progress and log events from a single worker to
// an independent consumer. Publishing never blocks; the queue is unbounded
// and delivers events in publish order.
package progress
