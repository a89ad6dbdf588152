// internal/blast/report.go
package blast

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cast"

	"probekit/internal/errors"
)

// Hit is one data row of a tabular-with-comments (outfmt 7) report.
type Hit struct {
	SubjectID       string
	PercentIdentity float64
	EValue          float64
	BitScore        float64
}

// Report holds hits per query id, in file order. Hits keep the tool's
// best-first ranking.
type Report struct {
	hits  map[string][]Hit
	order []string
}

// Hits returns the hits for query and whether the query appeared in the
// report at all. A query searched without results has ok=true and no hits.
func (r *Report) Hits(query string) ([]Hit, bool) {
	if r == nil {
		return nil, false
	}
	h, ok := r.hits[query]
	return h, ok
}

// Queries lists query ids in first-seen order.
func (r *Report) Queries() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}

const minFields = 12

// Parse reads an outfmt 7 report. "# Query: <id>" opens a block (the third
// whitespace token is the id); other '#' lines and blank lines are skipped;
// data lines with fewer than 12 tab-separated fields are ignored. A later
// block for the same query replaces the earlier one.
func Parse(rd io.Reader) (*Report, error) {
	rep := &Report{hits: make(map[string][]Hit)}
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		current string
		open    bool
		lineNo  int
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "# Query:"):
			f := strings.Fields(line)
			if len(f) < 3 {
				open = false
				continue
			}
			current, open = f[2], true
			if _, seen := rep.hits[current]; !seen {
				rep.order = append(rep.order, current)
			}
			rep.hits[current] = nil
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		default:
			if !open {
				continue
			}
			parts := strings.Split(line, "\t")
			if len(parts) < minFields {
				continue
			}
			h, err := parseHit(parts)
			if err != nil {
				return nil, errors.New(fmt.Errorf("report line %d: %w", lineNo, err)).
					Component("blast").
					Category(errors.CategoryFileParsing).
					Context("line", lineNo).
					Build()
			}
			rep.hits[current] = append(rep.hits[current], h)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.New(err).Component("blast").Category(errors.CategoryFileIO).Build()
	}
	return rep, nil
}

func parseHit(parts []string) (Hit, error) {
	id, err := cast.ToFloat64E(strings.TrimSpace(parts[2]))
	if err != nil {
		return Hit{}, fmt.Errorf("percent identity %q: %w", parts[2], err)
	}
	ev, err := cast.ToFloat64E(strings.TrimSpace(parts[10]))
	if err != nil {
		return Hit{}, fmt.Errorf("e-value %q: %w", parts[10], err)
	}
	bs, err := cast.ToFloat64E(strings.TrimSpace(parts[11]))
	if err != nil {
		return Hit{}, fmt.Errorf("bit score %q: %w", parts[11], err)
	}
	return Hit{SubjectID: strings.TrimSpace(parts[1]), PercentIdentity: id, EValue: ev, BitScore: bs}, nil
}

// ParseFile opens path and parses it as an outfmt 7 report.
func ParseFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Component("blast").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer f.Close()
	return Parse(f)
}
