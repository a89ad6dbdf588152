// Package specificity folds alignment-search results back onto designed
// probes. Probe facts stay untouched; results are kept in a separate
// annotation map keyed by probe id and joined at read time.
package specificity

import "probekit/internal/blast"

// Tier is the predicted binding uniqueness of a probe.
type Tier string

const (
	TierUnchecked      Tier = "unchecked"
	TierHigh           Tier = "high"
	TierMedium         Tier = "medium"
	TierLow            Tier = "low"
	TierNotRecommended Tier = "not recommended"
	TierNoMatch        Tier = "no match"
)

// Tiers lists every tier, best first, with unchecked last.
func Tiers() []Tier {
	return []Tier{TierHigh, TierMedium, TierLow, TierNotRecommended, TierNoMatch, TierUnchecked}
}

// MaxRetained is the number of hits kept for reporting.
const MaxRetained = 5

type rule struct {
	minIdentity float64 // exclusive
	maxEValue   float64 // exclusive
	maxHits     int     // exclusive
	tier        Tier
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{99, 1e-5, 5, TierHigh},
	{95, 1e-4, 10, TierMedium},
	{75, 0.01, 20, TierLow},
}

// Classify grades a probe from its best hit (hits[0], the tool's ranking)
// and the total number of hits, which may exceed len(hits).
func Classify(hits []blast.Hit, total int) Tier {
	if len(hits) == 0 {
		return TierNoMatch
	}
	best := hits[0]
	for _, r := range rules {
		if best.PercentIdentity > r.minIdentity && best.EValue < r.maxEValue && total < r.maxHits {
			return r.tier
		}
	}
	return TierNotRecommended
}
