// Package composition holds the compositional filters used by the design
// scan: base-entropy complexity, k-mer/target repeats and homopolymer runs.
package composition

import "math"

// Complexity is the base-2 Shannon entropy of the base distribution of s
// divided by 2, the entropy of a uniform 4-letter alphabet. Sequences of
// length ≤1 score 0. Alphabets wider than ACGT are capped at 1.
func Complexity(s string) float64 {
	n := len(s)
	if n <= 1 {
		return 0
	}
	var counts [256]int
	for i := 0; i < n; i++ {
		counts[s[i]]++
	}
	var h float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(n)
		h -= p * math.Log2(p)
	}
	return math.Min(h/2, 1)
}
