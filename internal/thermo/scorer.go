// internal/thermo/scorer.go
package thermo

import (
	"github.com/patrickmn/go-cache"
)

type tmResult struct {
	tm float64
	ok bool
}

// Scorer memoises Tm for one method. Entries never expire and no janitor
// goroutine is started, so a Scorer can be dropped without cleanup.
// Safe for concurrent use.
type Scorer struct {
	method Method
	memo   *cache.Cache
}

func NewScorer(m Method) *Scorer {
	return &Scorer{method: m, memo: cache.New(cache.NoExpiration, 0)}
}

func (s *Scorer) Method() Method { return s.method }

// Tm is thermo.Tm with memoisation keyed by the raw input.
func (s *Scorer) Tm(seq string) (float64, bool) {
	if v, found := s.memo.Get(seq); found {
		r := v.(tmResult)
		return r.tm, r.ok
	}
	tm, ok := Tm(seq, s.method)
	s.memo.Set(seq, tmResult{tm: tm, ok: ok}, cache.NoExpiration)
	return tm, ok
}

// Len reports the number of memoised sequences.
func (s *Scorer) Len() int { return s.memo.ItemCount() }
