package composition

import "strings"

// DefaultMinRepeat is the k-mer length used by the design scan.
const DefaultMinRepeat = 6

// HasRepeats reports whether some k-mer of fragment occurs more than once
// in fragment (non-overlapping count), or whether the whole fragment
// occurs at more than one offset of target.
func HasRepeats(fragment, target string, k int) bool {
	if k > 0 {
		for i := 0; i+k <= len(fragment); i++ {
			if strings.Count(fragment, fragment[i:i+k]) > 1 {
				return true
			}
		}
	}
	return len(Occurrences(target, fragment, 2)) > 1
}

// Occurrences returns the start offsets of needle in hay, scanning for the
// next match strictly after the previous match's start. limit > 0 stops
// the scan once that many offsets are recorded.
func Occurrences(hay, needle string, limit int) []int {
	if needle == "" {
		return nil
	}
	var offs []int
	from := 0
	for from <= len(hay) {
		i := strings.Index(hay[from:], needle)
		if i < 0 {
			break
		}
		offs = append(offs, from+i)
		if limit > 0 && len(offs) >= limit {
			break
		}
		from += i + 1
	}
	return offs
}

// HasHomopolymer reports whether any base repeats maxLen+1 or more times
// in a row.
func HasHomopolymer(s string, maxLen int) bool {
	return LongestRun(s) > maxLen
}

// LongestRun returns the length of the longest single-base run in s,
// ignoring case.
func LongestRun(s string) int {
	best, run := 0, 0
	var prev byte
	for i := 0; i < len(s); i++ {
		b := s[i] &^ 0x20
		if i > 0 && b == prev {
			run++
		} else {
			run = 1
		}
		prev = b
		if run > best {
			best = run
		}
	}
	return best
}
