// apps/solver/internal/feedback/simulator.go
//
// Simulated game surface: scores guesses against a known answer.
// Used by the CLI's -answer/-daily/-bench modes and as ground truth in tests.

package feedback

import (
	"context"
	"fmt"

	"github.com/robalobadob/wordle/apps/solver/internal/solver"
)

// Simulator is a FeedbackSource with a known answer.
type Simulator struct {
	Answer string
}

// Feedback scores guess against the answer.
func (s Simulator) Feedback(_ context.Context, _ int, guess string) (solver.Row, error) {
	if len(guess) != len(s.Answer) {
		return nil, fmt.Errorf("guess %q does not match answer length %d", guess, len(s.Answer))
	}
	return Score(s.Answer, guess), nil
}

// Score implements the standard two-pass Wordle scoring.
//
// Pass 1:
//   - Mark exact matches Correct.
//   - Count the remaining (non-correct) answer letters.
//
// Pass 2:
//   - For each other guess letter: Present if a copy is left (and consume
//     it), otherwise Absent.
//
// Presents are therefore capped at the answer's multiplicity of each letter.
func Score(answer, guess string) solver.Row {
	n := len(guess)
	res := make(solver.Row, n)
	var counts [26]int

	for i := 0; i < n; i++ {
		if guess[i] == answer[i] {
			res[i] = solver.Correct
		} else if j := idx(answer[i]); j >= 0 && j < 26 {
			counts[j]++
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == solver.Correct {
			continue
		}
		j := idx(guess[i])
		if j >= 0 && j < 26 && counts[j] > 0 {
			res[i] = solver.Present
			counts[j]--
		} else {
			res[i] = solver.Absent
		}
	}
	return res
}

// idx maps a lowercase ASCII letter to 0..25; anything else is out of range.
func idx(b byte) int { return int(b) - 'a' }
