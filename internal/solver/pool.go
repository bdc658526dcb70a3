// apps/solver/internal/solver/pool.go
//
// Candidate pool: the ordered set of answers still consistent with all
// feedback seen so far.
//
// Notes:
//   - Order is dictionary insertion order and is the selection tie-break.
//   - The pool only ever shrinks. Narrowing rebuilds the slice from the
//     entries that pass, so no removal happens while iterating.

package solver

import (
	"fmt"

	"github.com/samber/lo"
)

// Pool is an ordered, shrink-only collection of candidate words.
// It is owned by a single session and is not safe for concurrent use.
type Pool struct {
	words   []string
	present map[string]struct{}
	length  int
}

// NewPool builds a pool from an already-filtered dictionary.
// Every word must have the given length, be lowercase a–z and appear once;
// anything else is a ConfigError since the loader should have filtered it.
func NewPool(words []string, length int) (*Pool, error) {
	if len(words) == 0 {
		return nil, configErr("empty dictionary", nil)
	}
	p := &Pool{
		words:   make([]string, 0, len(words)),
		present: make(map[string]struct{}, len(words)),
		length:  length,
	}
	for _, w := range words {
		if len(w) != length || !isLower(w) {
			return nil, configErr(fmt.Sprintf("dictionary word %q is not %d lowercase letters", w, length), nil)
		}
		if _, dup := p.present[w]; dup {
			return nil, configErr(fmt.Sprintf("dictionary word %q is duplicated", w), nil)
		}
		p.present[w] = struct{}{}
		p.words = append(p.words, w)
	}
	return p, nil
}

// Len returns the number of candidates.
func (p *Pool) Len() int { return len(p.words) }

// WordLength returns the fixed word length of the pool.
func (p *Pool) WordLength() int { return p.length }

// Words returns a snapshot copy in pool order.
func (p *Pool) Words() []string { return append([]string(nil), p.words...) }

// Contains reports whether w is still a candidate.
func (p *Pool) Contains(w string) bool {
	_, ok := p.present[w]
	return ok
}

// Remove drops w from the pool and reports whether it was present.
func (p *Pool) Remove(w string) bool {
	if _, ok := p.present[w]; !ok {
		return false
	}
	delete(p.present, w)
	p.words = lo.Without(p.words, w)
	return true
}

// Retain keeps only the candidates for which keep returns true and returns
// how many were removed.
func (p *Pool) Retain(keep func(string) bool) int {
	before := len(p.words)
	p.words = lo.Filter(p.words, func(w string, _ int) bool {
		if keep(w) {
			return true
		}
		delete(p.present, w)
		return false
	})
	return before - len(p.words)
}

// isLower reports whether s is all lowercase ASCII letters.
func isLower(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
