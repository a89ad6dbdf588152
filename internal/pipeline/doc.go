// Package pipeline runs one scan or batch job on a worker goroutine while a
// consumer drains its progress queue into the logger and a progress callback.
//
// The worker owns the queue and closes it when it returns, so the consumer
// always sees every event the job published, including the ones emitted on
// the way out of a cancelled run.
package pipeline
