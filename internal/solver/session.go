// apps/solver/internal/solver/session.go
//
// Solver loop for a single solving session.
// Responsibilities:
//   - Validate the opening word and oracle coverage before round 1.
//   - Evaluate each round's feedback: solved / failed / narrow + select.
//   - Track state transitions: awaiting_feedback → solved | exhausted | failed.
//
// Notes:
//   - Submit is the Evaluating step; Run drives Submit from a FeedbackSource.
//   - Between Submit calls the session is AwaitingFeedback, the only point
//     where a driver may block or abandon the session.

package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// FeedbackSource classifies a submitted guess. It may block (UI settling,
// network, a human at a prompt) and owns its own retry/timeout policy.
type FeedbackSource interface {
	Feedback(ctx context.Context, round int, guess string) (Row, error)
}

// Coverage is implemented by oracles that can tell up front whether a word
// resolves, letting sessions reject incomplete tables before round 1.
type Coverage interface {
	Has(word string) bool
}

// Options configures a Session.
type Options struct {
	Opening   string            // first guess; must be a candidate or allowed
	MaxRounds int               // defaults to DefaultMaxRounds
	Allowed   func(string) bool // extra valid guesses beyond the dictionary
	Logger    *zerolog.Logger   // defaults to a no-op logger
}

// Session is one solving run. It exclusively owns its pool.
type Session struct {
	pool      *Pool
	oracle    Oracle
	maxRounds int
	log       zerolog.Logger

	round     int
	guess     string
	state     State
	guesses   []string
	solution  string
	nextGuess string
	err       error

	// pendingCandidate is false only while an allowed-but-not-dictionary
	// opening word awaits feedback.
	pendingCandidate bool
}

// NewSession validates configuration and returns a session waiting for the
// opening word's feedback. All failures are *ConfigError.
func NewSession(pool *Pool, oracle Oracle, opts Options) (*Session, error) {
	if pool == nil || pool.Len() == 0 {
		return nil, configErr("empty dictionary", nil)
	}
	if oracle == nil {
		return nil, configErr("no frequency oracle", nil)
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	lg := zerolog.Nop()
	if opts.Logger != nil {
		lg = *opts.Logger
	}

	opening := opts.Opening
	if len(opening) != pool.WordLength() || !isLower(opening) {
		return nil, configErr(fmt.Sprintf("opening word %q is not %d lowercase letters", opening, pool.WordLength()), nil)
	}
	if !pool.Contains(opening) && (opts.Allowed == nil || !opts.Allowed(opening)) {
		return nil, configErr(fmt.Sprintf("opening word %q is not in the dictionary or allowed guesses", opening), nil)
	}
	if cov, ok := oracle.(Coverage); ok {
		for _, w := range pool.words {
			if !cov.Has(w) {
				return nil, configErr(fmt.Sprintf("frequency table has no entry for %q", w), ErrLookup)
			}
		}
	}

	// The opening word can never be suggested again.
	inPool := pool.Remove(opening)

	return &Session{
		pool:             pool,
		oracle:           oracle,
		maxRounds:        opts.MaxRounds,
		log:              lg,
		round:            1,
		guess:            opening,
		state:            StateAwaitingFeedback,
		pendingCandidate: inPool,
	}, nil
}

// Guess returns the word awaiting feedback (empty once terminal).
func (s *Session) Guess() string {
	if s.state.Terminal() {
		return ""
	}
	return s.guess
}

// Round returns the current round number, starting at 1.
func (s *Session) Round() int { return s.round }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Err returns the error that ended the session, if any.
func (s *Session) Err() error { return s.err }

// Remaining returns the number of candidates still consistent with all
// feedback, counting the pending guess when it is itself a candidate.
func (s *Session) Remaining() int {
	switch s.state {
	case StateSolved:
		return 1
	case StateFailed:
		return s.pool.Len()
	}
	if s.pendingCandidate {
		return s.pool.Len() + 1
	}
	return s.pool.Len()
}

// Candidates returns a snapshot of the pool in order.
func (s *Session) Candidates() []string { return s.pool.Words() }

// Result summarises the session.
func (s *Session) Result() Result {
	return Result{
		State:     s.state,
		Rounds:    len(s.guesses),
		Guesses:   append([]string(nil), s.guesses...),
		Solution:  s.solution,
		NextGuess: s.nextGuess,
		Remaining: s.Remaining(),
	}
}

// Submit evaluates the feedback for the current guess. On success the
// session either terminates or advances to the next round's guess.
//
// A malformed row (wrong length) is rejected without changing state, and so
// is a round interrupted by ctx while the next guess is being selected. Any
// terminal transition other than Solved returns the terminal error.
func (s *Session) Submit(ctx context.Context, row Row) error {
	if s.state.Terminal() {
		return fmt.Errorf("session finished (%s)", s.state)
	}
	if len(row) != len(s.guess) {
		return fmt.Errorf("feedback row has %d positions, want %d", len(row), len(s.guess))
	}
	lg := s.log.With().Int("round", s.round).Str("guess", s.guess).Str("row", row.String()).Logger()

	if row.Solved() {
		s.guesses = append(s.guesses, s.guess)
		s.solution = s.guess
		s.state = StateSolved
		lg.Info().Msg("solved")
		return nil
	}
	if pos := row.FirstIndeterminate(); pos >= 0 {
		return s.fail(lg, &IndeterminateFeedbackError{Round: s.round, Position: pos, Letter: s.guess[pos]})
	}
	before := s.pool.Len()
	removed, err := Apply(s.pool, s.guess, row)
	if err != nil {
		s.guesses = append(s.guesses, s.guess)
		return s.fail(lg, err)
	}
	lg.Debug().Int("before", before).Int("removed", removed).Int("after", s.pool.Len()).Msg("applied feedback")

	next, err := Select(ctx, s.pool, s.oracle)
	if err != nil {
		// Interrupted mid-round: stay on this guess. Apply is idempotent, so
		// the same row can be submitted again.
		if Interrupted(err) {
			lg.Warn().Err(err).Msg("selection interrupted")
			return err
		}
		s.guesses = append(s.guesses, s.guess)
		var ex *ExhaustedCandidatesError
		if errors.As(err, &ex) {
			ex.Round = s.round
		}
		return s.fail(lg, err)
	}

	s.guesses = append(s.guesses, s.guess)
	s.pendingCandidate = true
	s.round++
	if s.round > s.maxRounds {
		s.nextGuess = next
		s.state = StateExhausted
		s.err = &RoundLimitError{Rounds: s.maxRounds, Remaining: s.pool.Len() + 1, NextGuess: next}
		lg.Warn().Int("remaining", s.pool.Len()+1).Msg("round limit reached")
		return s.err
	}
	s.guess = next
	lg.Debug().Str("next", next).Msg("next guess")
	return nil
}

func (s *Session) fail(lg zerolog.Logger, err error) error {
	s.state = StateFailed
	s.err = err
	lg.Error().Err(err).Msg("session failed")
	return err
}

// Run drives the session to a terminal state, blocking on src once per
// round. Cancelling ctx stops the loop between rounds and leaves the session
// awaiting feedback. A source error is returned wrapped and likewise leaves
// the session where it was.
func Run(ctx context.Context, s *Session, src FeedbackSource) (Result, error) {
	for !s.state.Terminal() {
		if err := ctx.Err(); err != nil {
			return s.Result(), err
		}
		row, err := src.Feedback(ctx, s.round, s.guess)
		if err != nil {
			return s.Result(), fmt.Errorf("feedback for round %d: %w", s.round, err)
		}
		if err := s.Submit(ctx, row); err != nil {
			return s.Result(), err
		}
	}
	return s.Result(), s.err
}
