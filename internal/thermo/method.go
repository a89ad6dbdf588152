// internal/thermo/method.go
package thermo

import (
	"fmt"
	"math"
	"strings"

	"probekit/internal/seq"
)

// Method selects one of the four Tm strategies. The set is closed.
type Method int

const (
	// MethodSantaLucia is the unified nearest-neighbour model (default).
	MethodSantaLucia Method = iota
	// MethodWallace is the 2(A+T)+4(G+C) rule.
	MethodWallace
	// MethodGC is the empirical %GC/length formula.
	MethodGC
	// MethodNN is the alternate nearest-neighbour parameter set.
	MethodNN
)

var methodNames = [...]string{
	MethodSantaLucia: "santalucia",
	MethodWallace:    "wallace",
	MethodGC:         "gc",
	MethodNN:         "nn",
}

// strategies is indexed by Method; every Method has exactly one entry.
var strategies = [...]func(string) (float64, error){
	MethodSantaLucia: unifiedTable.tm,
	MethodWallace:    tmWallace,
	MethodGC:         tmGC,
	MethodNN:         alternateTable.tm,
}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// Methods lists every method in declaration order.
func Methods() []Method {
	return []Method{MethodSantaLucia, MethodWallace, MethodGC, MethodNN}
}

// ParseMethod maps a method name (case-insensitive) to a Method.
func ParseMethod(name string) (Method, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range methodNames {
		if s == n {
			return Method(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tm method %q (want one of %s)", name, strings.Join(methodNames[:], ", "))
}

// MarshalText lets Method round-trip through config and JSON.
func (m Method) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Method) UnmarshalText(b []byte) error {
	v, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Tm returns the melting temperature of s in °C, rounded to 2 decimals.
// The second result is false when the sequence cannot be scored by the
// chosen method (too short, unsupported symbol, degenerate result).
func Tm(s string, m Method) (float64, bool) {
	if m < 0 || int(m) >= len(strategies) {
		return 0, false
	}
	d := seq.ToDNA(strings.TrimSpace(s))
	if !seq.IsValid(d, seq.ThermoAlphabet) {
		return 0, false
	}
	v, err := strategies[m](d)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return round2(v), true
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
