// internal/thermo/empirical.go
package thermo

import "math"

// tmWallace: 4 °C per G/C, 2 °C per A/T, 3 °C per N.
func tmWallace(s string) (float64, error) {
	var t float64
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'G', 'C':
			t += 4
		case 'A', 'T':
			t += 2
		case 'N':
			t += 3
		}
	}
	return t, nil
}

// tmGC: 81.5 + 0.41(%GC) − 600/N + 16.6·log10[Na+]. N counts half toward %GC.
func tmGC(s string) (float64, error) {
	n := float64(len(s))
	var gc float64
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'G', 'C':
			gc++
		case 'N':
			gc += 0.5
		}
	}
	pct := gc / n * 100
	return 81.5 + 0.41*pct - 600/n + 16.6*math.Log10(naMM*1e-3), nil
}
