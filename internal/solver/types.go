// apps/solver/internal/solver/types.go
//
// Core type definitions for the constraint solver.
// Defines:
//   - Status: classified per-letter feedback (correct/present/absent/indeterminate).
//   - Row: one round of feedback, one Status per guess position.
//   - State: lifecycle of a solving session.

package solver

import "strings"

// DefaultMaxRounds is the classic board height.
const DefaultMaxRounds = 6

// Status is the classified outcome for a single letter of a guess.
// The zero value is Indeterminate so that an unset position is never mistaken
// for a real signal.
type Status int

const (
	Indeterminate Status = iota // the signal could not be classified
	Correct                     // letter sits at this exact position
	Present                     // letter is in the answer, elsewhere
	Absent                      // letter is not in the answer (see repeated letters)
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case Correct:
		return "correct"
	case Present:
		return "present"
	case Absent:
		return "absent"
	default:
		return "indeterminate"
	}
}

// Row holds the feedback for one guess.
type Row []Status

// Solved reports whether every position is Correct.
func (r Row) Solved() bool {
	if len(r) == 0 {
		return false
	}
	for _, s := range r {
		if s != Correct {
			return false
		}
	}
	return true
}

// FirstIndeterminate returns the first unclassified position, or -1.
func (r Row) FirstIndeterminate() int {
	for i, s := range r {
		if s != Correct && s != Present && s != Absent {
			return i
		}
	}
	return -1
}

// String renders the row compactly: c=correct, p=present, a=absent, ?=indeterminate.
func (r Row) String() string {
	var b strings.Builder
	for _, s := range r {
		switch s {
		case Correct:
			b.WriteByte('c')
		case Present:
			b.WriteByte('p')
		case Absent:
			b.WriteByte('a')
		default:
			b.WriteByte('?')
		}
	}
	return b.String()
}

// State is the lifecycle position of a Session.
type State string

const (
	StateAwaitingFeedback State = "awaiting_feedback"
	StateSolved           State = "solved"
	StateExhausted        State = "exhausted" // round limit reached
	StateFailed           State = "failed"    // fatal error
)

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateSolved || s == StateExhausted || s == StateFailed
}

// Result is the observable outcome of a session.
type Result struct {
	State     State    `json:"state"`
	Rounds    int      `json:"rounds"`              // rounds whose feedback was received
	Guesses   []string `json:"guesses"`             // submitted guesses, in order
	Solution  string   `json:"solution,omitempty"`  // set when solved
	NextGuess string   `json:"nextGuess,omitempty"` // pending guess when exhausted
	Remaining int      `json:"remaining"`           // candidates still consistent
}
