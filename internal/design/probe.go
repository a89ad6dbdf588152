// internal/design/probe.go
package design

import "github.com/samber/lo"

// Probe is an accepted window. Values are never modified after the scan;
// specificity results live in a separate annotation map keyed by ID.
type Probe struct {
	ID             int     // 1-based, acceptance order
	Sequence       string  // reverse complement of SourceFragment (DNA)
	SourceFragment string  // target-strand window as read
	Start          int     // 1-based inclusive
	End            int     // 1-based inclusive
	GC             float64 // percent
	Tm             float64 // °C
	Complexity     float64
}

// Len is the probe length in bases.
func (p Probe) Len() int { return p.End - p.Start + 1 }

// Summary aggregates a design result.
type Summary struct {
	Count  int
	MeanGC float64
	MeanTm float64
}

func Summarize(probes []Probe) Summary {
	if len(probes) == 0 {
		return Summary{}
	}
	n := float64(len(probes))
	return Summary{
		Count:  len(probes),
		MeanGC: lo.SumBy(probes, func(p Probe) float64 { return p.GC }) / n,
		MeanTm: lo.SumBy(probes, func(p Probe) float64 { return p.Tm }) / n,
	}
}
