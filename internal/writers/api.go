package writers

import (
	"github.com/samber/lo"

	"probekit/internal/blast"
	"probekit/internal/specificity"
	"probekit/pkg/api"
)

// ToAPIProbe converts an annotated probe to the v1 wire type.
func ToAPIProbe(ap specificity.AnnotatedProbe, withHits bool) api.ProbeV1 {
	out := api.ProbeV1{
		ID:          ap.ID,
		Sequence:    ap.Sequence,
		RNAFragment: ap.SourceFragment,
		Start:       ap.Start,
		End:         ap.End,
		GCContent:   ap.GC,
		Tm:          ap.Tm,
		Complexity:  ap.Complexity,
		Specificity: string(ap.Tier),
	}
	if withHits {
		out.BlastHitCount = ap.HitCount
		out.BlastHits = lo.Map(ap.Hits, func(h blast.Hit, _ int) api.HitV1 {
			return api.HitV1{Subject: h.SubjectID, Identity: h.PercentIdentity, EValue: h.EValue, BitScore: h.BitScore}
		})
	}
	return out
}

// ToAPIRun converts a whole export.
func ToAPIRun(e Export) api.DesignRunV1 {
	return api.DesignRunV1{
		RunID:        e.RunID,
		TargetName:   e.TargetName,
		TargetLength: e.TargetLength,
		Probes: lo.Map(e.Probes, func(ap specificity.AnnotatedProbe, _ int) api.ProbeV1 {
			return ToAPIProbe(ap, e.WithHits)
		}),
	}
}
