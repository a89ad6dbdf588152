// pkg/api/probes_v1.go
package api

// ProbeV1 is the stable JSON/JSONL/YAML schema for one designed probe.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ProbeV1 struct {
	ID          int     `json:"id" yaml:"id"`
	Sequence    string  `json:"sequence" yaml:"sequence"`
	RNAFragment string  `json:"rna_fragment" yaml:"rna_fragment"`
	Start       int     `json:"start" yaml:"start"`
	End         int     `json:"end" yaml:"end"`
	GCContent   float64 `json:"gc_content" yaml:"gc_content"`
	Tm          float64 `json:"tm" yaml:"tm"`
	Complexity  float64 `json:"complexity" yaml:"complexity"`
	Specificity string  `json:"specificity" yaml:"specificity"`

	// Alignment overlay, present once a report was applied.
	BlastHitCount int     `json:"blast_hits_count,omitempty" yaml:"blast_hits_count,omitempty"`
	BlastHits     []HitV1 `json:"blast_hits,omitempty" yaml:"blast_hits,omitempty"`
}

// HitV1 is one retained alignment hit.
type HitV1 struct {
	Subject  string  `json:"subject" yaml:"subject"`
	Identity float64 `json:"identity" yaml:"identity"`
	EValue   float64 `json:"evalue" yaml:"evalue"`
	BitScore float64 `json:"bitscore" yaml:"bitscore"`
}

// DesignRunV1 wraps a whole design export (JSON and YAML documents).
type DesignRunV1 struct {
	RunID        string    `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	TargetName   string    `json:"target_name,omitempty" yaml:"target_name,omitempty"`
	TargetLength int       `json:"target_length" yaml:"target_length"`
	Probes       []ProbeV1 `json:"probes" yaml:"probes"`
}
