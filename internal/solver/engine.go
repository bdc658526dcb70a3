// apps/solver/internal/solver/engine.go
//
// Constraint engine: narrows a candidate pool with one guess and its
// classified feedback.
//
// Rules per position i (letter c, status s):
//   - Correct: keep words with c at i.
//   - Present: keep words containing c, but not at i.
//   - Absent:  if every occurrence of c in the guess is Absent, drop words
//              containing c anywhere; otherwise (c also scored Correct/Present
//              elsewhere) only drop words with c at i.
//
// Repeated letters: when a letter occurs k>1 times in the guess and none of
// its occurrences is Absent, the answer is taken to have exactly k copies of
// it. An answer holding more than k copies is dropped by this rule.
// A multiset mixing Absent with Correct/Present would pin the count to the
// number of non-Absent occurrences, but that case is left unfiltered here.
// See DESIGN.md, "Open questions".
//
// All rules are pure predicates, so Apply is order independent and idempotent.

package solver

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// letterRule collects what one guess says about a single letter.
type letterRule struct {
	letter   byte
	statuses []Status // in guess-position order
}

func (r letterRule) allAbsent() bool {
	return lo.EveryBy(r.statuses, func(s Status) bool { return s == Absent })
}

func (r letterRule) anyAbsent() bool {
	return lo.Contains(r.statuses, Absent)
}

// Apply narrows pool with guess and row and returns the number of removed
// candidates. On an Indeterminate status it returns an
// *IndeterminateFeedbackError and leaves the pool untouched.
func Apply(pool *Pool, guess string, row Row) (int, error) {
	if len(row) != len(guess) {
		return 0, fmt.Errorf("feedback row has %d positions for %d-letter guess %q", len(row), len(guess), guess)
	}
	if pos := row.FirstIndeterminate(); pos >= 0 {
		return 0, &IndeterminateFeedbackError{Position: pos, Letter: guess[pos]}
	}
	return pool.Retain(Consistent(guess, row)), nil
}

// Consistent returns the predicate a candidate must satisfy to remain
// possible after guess scored row. The row must be fully classified.
func Consistent(guess string, row Row) func(string) bool {
	rules := groupLetters(guess, row)

	// exact[c] is the required count of c; only set for repeated letters
	// with no Absent occurrence.
	exact := map[byte]int{}
	for c, r := range rules {
		if len(r.statuses) > 1 && !r.anyAbsent() {
			exact[c] = len(r.statuses)
		}
	}

	return func(word string) bool {
		if len(word) != len(guess) {
			return false
		}
		for i := 0; i < len(guess); i++ {
			c := guess[i]
			switch row[i] {
			case Correct:
				if word[i] != c {
					return false
				}
			case Present:
				if word[i] == c || strings.IndexByte(word, c) < 0 {
					return false
				}
			case Absent:
				if rules[c].allAbsent() {
					if strings.IndexByte(word, c) >= 0 {
						return false
					}
				} else if word[i] == c {
					return false
				}
			default:
				return false
			}
		}
		for c, k := range exact {
			if strings.Count(word, string(c)) != k {
				return false
			}
		}
		return true
	}
}

// groupLetters maps each guess letter to its statuses in position order.
func groupLetters(guess string, row Row) map[byte]letterRule {
	rules := make(map[byte]letterRule, len(guess))
	for i := 0; i < len(guess); i++ {
		r := rules[guess[i]]
		r.letter = guess[i]
		r.statuses = append(r.statuses, row[i])
		rules[guess[i]] = r
	}
	return rules
}
