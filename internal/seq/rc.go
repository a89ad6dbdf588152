// internal/seq/rc.go
package seq

var complement = [256]byte{
	'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A', 'U': 'A',
	'R': 'Y', 'Y': 'R', // A/G  <->  C/T
	'S': 'S', 'W': 'W',
	'K': 'M', 'M': 'K',
	'B': 'V', 'V': 'B',
	'D': 'H', 'H': 'D',
	'N': 'N',
}

// RevComp returns the DNA reverse complement of s. Input case is folded;
// U pairs with A; unknown symbols become N.
func RevComp(s string) string {
	n := len(s)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		b := s[n-1-i]
		if 'a' <= b && b <= 'z' {
			b -= 'a' - 'A'
		}
		if c := complement[b]; c != 0 {
			out[i] = c
		} else {
			out[i] = 'N'
		}
	}
	return string(out)
}

// GCContent is the percentage of G/C bases in s (0 for empty s).
func GCContent(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	gc := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'G', 'C', 'g', 'c':
			gc++
		}
	}
	return float64(gc) / float64(len(s)) * 100
}
