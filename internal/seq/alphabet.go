// internal/seq/alphabet.go
package seq

import (
	"fmt"
	"strings"
	"unicode"
)

// Alphabet is a set of permitted upper-case bases.
type Alphabet string

const (
	// DesignAlphabet is accepted for design targets (DNA or RNA).
	DesignAlphabet Alphabet = "ACGTU"
	// ThermoAlphabet is accepted for Tm/GC scoring after U→T.
	ThermoAlphabet Alphabet = "ACGTN"
)

func (a Alphabet) has(r rune) bool { return strings.ContainsRune(string(a), r) }

// Normalize removes whitespace/quotes and uppercases bases.
func Normalize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '\'' || r == '"' {
			continue
		}
		out = append(out, unicode.ToUpper(r))
	}
	return string(out)
}

// ToDNA upper-cases s and replaces U with T.
func ToDNA(s string) string {
	return strings.ReplaceAll(strings.ToUpper(s), "U", "T")
}

// IsValid reports whether s is non-empty and every upper-cased rune is in a.
func IsValid(s string, a Alphabet) bool {
	if s == "" {
		return false
	}
	for _, r := range strings.ToUpper(s) {
		if !a.has(r) {
			return false
		}
	}
	return true
}

// IsValidForThermo is IsValid against ThermoAlphabet after trimming and U→T.
func IsValidForThermo(s string) bool {
	return IsValid(ToDNA(strings.TrimSpace(s)), ThermoAlphabet)
}

// Validate returns the normalized sequence or an error naming the first bad base.
func Validate(raw string, a Alphabet) (string, error) {
	s := Normalize(raw)
	if s == "" {
		return s, fmt.Errorf("empty sequence")
	}
	for i, r := range s {
		if !a.has(r) {
			return "", fmt.Errorf("invalid base %q at %d; allowed: %s", r, i+1, strings.Join(strings.Split(string(a), ""), " "))
		}
	}
	return s, nil
}
