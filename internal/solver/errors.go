package solver

import (
	"context"
	"errors"
	"fmt"
)

// ErrLookup is wrapped by oracles when a word has no frequency score.
var ErrLookup = errors.New("frequency lookup failed")

// ConfigError is a fatal, pre-session (or oracle coverage) problem:
// bad opening word, empty dictionary, frequency table gaps.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return "configuration error: " + e.Reason + ": " + e.Err.Error()
	}
	return "configuration error: " + e.Reason
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IndeterminateFeedbackError reports an unclassifiable feedback position.
type IndeterminateFeedbackError struct {
	Round    int
	Position int
	Letter   byte
}

func (e *IndeterminateFeedbackError) Error() string {
	return fmt.Sprintf("indeterminate feedback in round %d at position %d (%q)", e.Round, e.Position, e.Letter)
}

// ExhaustedCandidatesError means the pool emptied before a solution was found.
type ExhaustedCandidatesError struct {
	Round int
}

func (e *ExhaustedCandidatesError) Error() string {
	return fmt.Sprintf("no candidates left after round %d", e.Round)
}

// RoundLimitError is the reported (non-fatal) outcome of running out of rounds.
type RoundLimitError struct {
	Rounds    int
	Remaining int
	NextGuess string
}

func (e *RoundLimitError) Error() string {
	return fmt.Sprintf("round limit %d reached with %d candidates remaining", e.Rounds, e.Remaining)
}

// Fatal reports whether err ended a session abnormally. A RoundLimitError is an
// expected outcome of the heuristic and is not fatal.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	var rl *RoundLimitError
	return !errors.As(err, &rl)
}

// Interrupted reports whether err comes from a cancelled or expired context.
// Interruptions are not session outcomes; the round can be retried.
func Interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func configErr(reason string, err error) error {
	return &ConfigError{Reason: reason, Err: err}
}
