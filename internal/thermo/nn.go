// internal/thermo/nn.go
// Nearest-neighbor thermodynamics for DNA duplexes.
// Units: ΔH in kcal/mol, ΔS in cal/(K·mol). Tm in °C.
//
// Steps:
//  1. Sum initiation + terminal pair terms + per-stack ΔH/ΔS.
//  2. Salt correction to ΔS for monovalent ions: ΔS += 0.368*(N−1)*ln[Na+].
//  3. Two-state Tm (K): Tm = ΔH*1000 / (ΔS + R ln k) − 273.15 (°C),
//     k = (c1 − c2/2) for a non-self-complementary duplex.
//
// Default solution: 25 nM of each strand, 50 mM Na+.

package thermo

import (
	"errors"
	"fmt"
	"math"
)

const (
	// Gas constant in cal/(K·mol)
	Rcal = 1.987

	strandConcNM = 25.0 // each strand, nM
	naMM         = 50.0 // monovalent cations, mM
)

// NNParams holds nearest-neighbor propagation parameters.
type NNParams struct {
	DH float64 // kcal/mol
	DS float64 // cal/(K·mol)
}

type nnTable struct {
	name string

	init   NNParams
	termAT NNParams // per terminal A·T pair
	termGC NNParams // per terminal G·C pair
	oneGC  NNParams // at least one G/C in the duplex
	allAT  NNParams // duplex of A/T only
	fiveT  NNParams // 5' T penalty
	stacks map[string]NNParams
}

// SantaLucia & Hicks (2004), unified set, 1 M Na+. Dimers 5'→3' top/bottom.
var unifiedTable = &nnTable{
	name:   "santalucia-hicks-2004",
	init:   NNParams{0.2, -5.7},
	termAT: NNParams{2.2, 6.9},
	stacks: map[string]NNParams{
		"AA/TT": {-7.6, -21.3},
		"AT/TA": {-7.2, -20.4},
		"TA/AT": {-7.2, -20.4},
		"CA/GT": {-8.5, -22.7},
		"GT/CA": {-8.4, -22.4},
		"CT/GA": {-7.8, -21.0},
		"GA/CT": {-8.2, -22.2},
		"CG/GC": {-10.6, -27.2},
		"GC/CG": {-9.8, -24.4},
		"GG/CC": {-8.0, -19.0},
	},
}

// Allawi & SantaLucia (1997), 1 M Na+.
var alternateTable = &nnTable{
	name:   "allawi-santalucia-1997",
	termAT: NNParams{2.3, 4.1},
	termGC: NNParams{0.1, -2.8},
	stacks: map[string]NNParams{
		"AA/TT": {-7.9, -22.2},
		"AT/TA": {-7.2, -20.4},
		"TA/AT": {-7.2, -21.3},
		"CA/GT": {-8.5, -22.7},
		"GT/CA": {-8.4, -22.4},
		"CT/GA": {-7.8, -21.0},
		"GA/CT": {-8.2, -22.2},
		"CG/GC": {-10.6, -27.2},
		"GC/CG": {-9.8, -24.4},
		"GG/CC": {-8.0, -19.9},
	},
}

// tm expects an upper-case DNA sequence.
func (t *nnTable) tm(s string) (float64, error) {
	n := len(s)
	if n < 2 {
		return 0, errors.New("nn: sequence too short")
	}
	bot := make([]byte, n)
	for i := 0; i < n; i++ {
		c, ok := wcPartner(s[i])
		if !ok {
			return 0, fmt.Errorf("nn: unsupported base %q at %d", s[i], i+1)
		}
		bot[i] = c
	}

	dh, ds := t.init.DH, t.init.DS
	add := func(p NNParams) { dh += p.DH; ds += p.DS }

	if hasGC(s) {
		add(t.oneGC)
	} else {
		add(t.allAT)
	}
	if s[0] == 'T' {
		add(t.fiveT)
	}
	if bot[n-1] == 'T' {
		add(t.fiveT)
	}
	for _, b := range []byte{s[0], s[n-1]} {
		if b == 'A' || b == 'T' {
			add(t.termAT)
		} else {
			add(t.termGC)
		}
	}

	for i := 0; i < n-1; i++ {
		key := s[i:i+2] + "/" + string(bot[i:i+2])
		prm, ok := t.stacks[key]
		if !ok {
			prm, ok = t.stacks[reverse(key)]
		}
		if !ok {
			return 0, fmt.Errorf("nn: missing params for dimer %q in %s", key, t.name)
		}
		add(prm)
	}

	ds += 0.368 * float64(n-1) * math.Log(naMM*1e-3)
	k := (strandConcNM - strandConcNM/2) * 1e-9
	den := ds + Rcal*math.Log(k)
	if den == 0 {
		return 0, errors.New("nn: degenerate entropy")
	}
	return (1000*dh)/den - 273.15, nil
}

// ---------- helpers ----------

func wcPartner(b byte) (byte, bool) {
	switch b {
	case 'A':
		return 'T', true
	case 'C':
		return 'G', true
	case 'G':
		return 'C', true
	case 'T':
		return 'A', true
	default:
		return 0, false
	}
}

func hasGC(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == 'G' || s[i] == 'C' {
			return true
		}
	}
	return false
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
