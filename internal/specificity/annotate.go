// internal/specificity/annotate.go
package specificity

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"probekit/internal/blast"
	"probekit/internal/design"
)

// Annotation is the search outcome for one probe. HitCount is the true
// total; Hits keeps at most MaxRetained of them.
type Annotation struct {
	Tier     Tier
	Hits     []blast.Hit
	HitCount int
}

// Unchecked is the annotation of a probe that was never searched.
func Unchecked() Annotation { return Annotation{Tier: TierUnchecked} }

// Annotate classifies hits and trims the retained list.
func Annotate(hits []blast.Hit) Annotation {
	a := Annotation{Tier: Classify(hits, len(hits)), HitCount: len(hits)}
	if len(hits) > 0 {
		a.Hits = append([]blast.Hit(nil), hits[:min(len(hits), MaxRetained)]...)
	}
	return a
}

// Annotations maps probe id to its annotation.
type Annotations map[int]Annotation

// Get returns the annotation for id, or Unchecked.
func (a Annotations) Get(id int) Annotation {
	if v, ok := a[id]; ok {
		return v
	}
	return Unchecked()
}

// Counts tallies annotations of probes per tier.
func (a Annotations) Counts(probes []design.Probe) map[Tier]int {
	return lo.CountValuesBy(probes, func(p design.Probe) Tier { return a.Get(p.ID).Tier })
}

// QueryID is the FASTA/report identifier of a probe.
func QueryID(p design.Probe) string { return strconv.Itoa(p.ID) }

// Queries converts probes to search queries.
func Queries(probes []design.Probe) []blast.Query {
	return lo.Map(probes, func(p design.Probe, _ int) blast.Query {
		return blast.Query{ID: QueryID(p), Sequence: p.Sequence}
	})
}

// AnnotateProbes builds the annotation map for probes from rep. A nil
// report leaves every probe unchecked; a probe missing from a report, or
// present without hits, has no match.
func AnnotateProbes(probes []design.Probe, rep *blast.Report) Annotations {
	out := make(Annotations, len(probes))
	for _, p := range probes {
		if rep == nil {
			out[p.ID] = Unchecked()
			continue
		}
		hits, _ := rep.Hits(QueryID(p))
		out[p.ID] = Annotate(hits)
	}
	return out
}

// AnnotatedProbe is the read-time join of a probe and its annotation.
type AnnotatedProbe struct {
	design.Probe
	Annotation
}

// Join pairs every probe with its annotation, preserving probe order.
func Join(probes []design.Probe, ann Annotations) []AnnotatedProbe {
	return lo.Map(probes, func(p design.Probe, _ int) AnnotatedProbe {
		return AnnotatedProbe{Probe: p, Annotation: ann.Get(p.ID)}
	})
}

// FormatHits renders "subject(identity%); subject(identity%); ...".
func FormatHits(hits []blast.Hit) string {
	return strings.Join(lo.Map(hits, func(h blast.Hit, _ int) string {
		return h.SubjectID + "(" + strconv.FormatFloat(h.PercentIdentity, 'f', -1, 64) + "%)"
	}), "; ")
}
