// internal/design/params.go
package design

import (
	"fmt"

	"probekit/internal/thermo"
)

// Params are the design criteria. The engine uses them as given; range
// checks belong to the caller (see Validate).
type Params struct {
	ProbeLength    int
	MinGC, MaxGC   float64 // percent
	MinTm, MaxTm   float64 // °C
	Spacing        int
	MinComplexity  float64
	FilterRepeats  bool
	MaxHomopolymer int
	TmMethod       thermo.Method
}

// DefaultParams mirrors the stock design settings.
func DefaultParams() Params {
	return Params{
		ProbeLength:    20,
		MinGC:          40,
		MaxGC:          60,
		MinTm:          50,
		MaxTm:          65,
		Spacing:        2,
		MinComplexity:  0.7,
		FilterRepeats:  true,
		MaxHomopolymer: 3,
		TmMethod:       thermo.MethodSantaLucia,
	}
}

// Validate checks ranges before Params reach the engine.
func (p Params) Validate() error {
	switch {
	case p.ProbeLength < 2:
		return fmt.Errorf("probe length must be >= 2 (got %d)", p.ProbeLength)
	case p.Spacing < 1:
		return fmt.Errorf("spacing must be >= 1 (got %d)", p.Spacing)
	case p.MinGC < 0 || p.MaxGC > 100 || p.MinGC > p.MaxGC:
		return fmt.Errorf("gc range must satisfy 0 <= min <= max <= 100 (got %g..%g)", p.MinGC, p.MaxGC)
	case p.MinTm > p.MaxTm:
		return fmt.Errorf("tm range min %g exceeds max %g", p.MinTm, p.MaxTm)
	case p.MinComplexity < 0 || p.MinComplexity > 1:
		return fmt.Errorf("min complexity must be within [0,1] (got %g)", p.MinComplexity)
	case p.MaxHomopolymer < 1:
		return fmt.Errorf("max homopolymer must be >= 1 (got %d)", p.MaxHomopolymer)
	}
	if _, err := thermo.ParseMethod(p.TmMethod.String()); err != nil {
		return err
	}
	return nil
}
