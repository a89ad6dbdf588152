// internal/writers/json.go
package writers

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"gopkg.in/yaml.v3"
)

func init() {
	Register("json", writeJSON)
	Register("jsonl", writeJSONL)
	Register("yaml", writeYAML)
}

func writeJSON(w io.Writer, e Export) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToAPIRun(e))
}

func writeYAML(w io.Writer, e Export) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ToAPIRun(e)); err != nil {
		return err
	}
	return enc.Close()
}

// Reuse a 64 KiB buffered writer across JSONL streams.
var bwPool = sync.Pool{
	New: func() any { return bufio.NewWriterSize(io.Discard, 64<<10) },
}

// StartJSONL spins up an encoder goroutine writing one JSON line per value.
// Close the returned channel, then read the single result from done.
// Broken pipes are not errors.
func StartJSONL[T any](out io.Writer, bufSize int, encode func(*json.Encoder, T) error) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan T, bufSize)
	done := make(chan error, 1)

	go func() {
		bw := bwPool.Get().(*bufio.Writer)
		bw.Reset(out)
		defer func() {
			bw.Reset(io.Discard)
			bwPool.Put(bw)
		}()

		enc := json.NewEncoder(bw)
		var err error
		for v := range in {
			if err != nil {
				continue // drain so the sender never blocks
			}
			err = encode(enc, v)
		}
		if err == nil {
			err = bw.Flush()
		}
		done <- IgnoreBrokenPipe(err)
	}()

	return in, done
}

func writeJSONL(w io.Writer, e Export) error {
	in, done := StartJSONL(w, len(e.Probes), func(enc *json.Encoder, v int) error {
		return enc.Encode(ToAPIProbe(e.Probes[v], e.WithHits))
	})
	for i := range e.Probes {
		in <- i
	}
	close(in)
	return <-done
}
