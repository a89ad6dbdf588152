// internal/design/evaluate.go
package design

import (
	"probekit/internal/composition"
	"probekit/internal/seq"
)

// Reason names the first failed acceptance criterion of a window.
type Reason string

const (
	Accepted         Reason = ""
	RejectNoTm       Reason = "tm_unavailable"
	RejectGC         Reason = "gc"
	RejectTm         Reason = "tm"
	RejectComplexity Reason = "complexity"
	RejectRepeats    Reason = "repeats"
	RejectHomopoly   Reason = "homopolymer"
)

// Reasons lists every rejection reason, in evaluation order.
func Reasons() []Reason {
	return []Reason{RejectNoTm, RejectGC, RejectTm, RejectComplexity, RejectRepeats, RejectHomopoly}
}

// Candidate is the scored form of one window.
type Candidate struct {
	Sequence    string
	GC          float64
	Tm          float64
	TmOK        bool
	Complexity  float64
	Repeats     bool
	Homopolymer bool
}

type tmFunc func(string) (float64, bool)

// score derives and scores the probe for fragment. Repeats are looked up
// on the target strand, everything else on the probe.
func score(fragment, target string, p Params, tm tmFunc) Candidate {
	probe := seq.RevComp(seq.ToDNA(fragment))
	c := Candidate{
		Sequence:    probe,
		GC:          seq.GCContent(probe),
		Complexity:  composition.Complexity(probe),
		Homopolymer: composition.HasHomopolymer(probe, p.MaxHomopolymer),
	}
	c.Tm, c.TmOK = tm(probe)
	if p.FilterRepeats {
		c.Repeats = composition.HasRepeats(fragment, target, composition.DefaultMinRepeat)
	}
	return c
}

// Check returns Accepted or the first failed criterion.
func (p Params) Check(c Candidate) Reason {
	switch {
	case !c.TmOK:
		return RejectNoTm
	case c.GC < p.MinGC || c.GC > p.MaxGC:
		return RejectGC
	case c.Tm < p.MinTm || c.Tm > p.MaxTm:
		return RejectTm
	case c.Complexity < p.MinComplexity:
		return RejectComplexity
	case c.Repeats:
		return RejectRepeats
	case c.Homopolymer:
		return RejectHomopoly
	}
	return Accepted
}
