// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"probekit/internal/specificity"
)

// Export is one design run ready for serialisation.
type Export struct {
	RunID        string
	TargetName   string
	TargetLength int
	Probes       []specificity.AnnotatedProbe
	// WithHits adds the blast_hits column (and hit lists in structured
	// formats). Set once a report was applied.
	WithHits bool
}

// WriterFunc serialises an export.
type WriterFunc func(w io.Writer, e Export) error

// Format → handler. Register in init() blocks of the format files.
var registry = map[string]WriterFunc{}

// Register installs fn for format (last wins).
func Register(format string, fn WriterFunc) { registry[format] = fn }

// Formats lists the registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(registry))
	for f := range registry {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Write dispatches to the writer registered for format.
func Write(format string, w io.Writer, e Export) error {
	fn, ok := registry[format]
	if !ok {
		return fmt.Errorf("unknown export format %q (have %s)", format, strings.Join(Formats(), ", "))
	}
	return fn(w, e)
}

// FormatFor picks the export format from a file extension; unknown → csv.
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab", ".txt":
		return "tsv"
	case ".json":
		return "json"
	case ".jsonl", ".ndjson":
		return "jsonl"
	case ".yaml", ".yml":
		return "yaml"
	case ".xlsx":
		return "xlsx"
	default:
		return "csv"
	}
}
