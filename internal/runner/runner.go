// apps/solver/internal/runner/runner.go
//
// Wiring between configuration and the solver core.
// Responsibilities:
//   - Build the frequency oracle from config (embedded table, file, or remote API).
//   - Create fresh sessions over a new pool per run.
//   - Drive sessions to completion and record them in a store.

package runner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle/apps/solver/assets"
	"github.com/robalobadob/wordle/apps/solver/internal/config"
	"github.com/robalobadob/wordle/apps/solver/internal/freq"
	"github.com/robalobadob/wordle/apps/solver/internal/solver"
	"github.com/robalobadob/wordle/apps/solver/internal/store"
	"github.com/robalobadob/wordle/apps/solver/internal/words"
)

// Oracle builds the frequency oracle described by cfg.
// db may be nil; when set, remote lookups are cached in it.
func Oracle(cfg config.Config, db *sql.DB) (solver.Oracle, error) {
	if cfg.FreqAPIURL != "" {
		var cache freq.Cache
		if db != nil {
			cache = store.NewFrequencyCache(db)
		}
		return freq.NewRemote(cfg.FreqAPIURL, cfg.FreqAPIKey, cfg.FreqAPIRPS, cache), nil
	}
	if cfg.FreqFile != "" {
		t, err := freq.LoadTableFile(cfg.FreqFile)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	f, err := assets.Frequencies()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := freq.LoadTable(f)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Factory creates sessions that share read-only lists and oracle.
type Factory struct {
	Lists     *words.Lists
	Oracle    solver.Oracle
	Opening   string
	MaxRounds int
	Logger    zerolog.Logger
}

// New starts a session. An empty opening uses the factory default.
func (f *Factory) New(opening string) (*solver.Session, error) {
	if opening == "" {
		opening = f.Opening
	}
	pool, err := solver.NewPool(f.Lists.Answers, f.Lists.Length)
	if err != nil {
		return nil, err
	}
	lg := f.Logger.With().Str("opening", opening).Logger()
	return solver.NewSession(pool, f.Oracle, solver.Options{
		Opening:   opening,
		MaxRounds: f.MaxRounds,
		Allowed:   f.Lists.IsAllowed,
		Logger:    &lg,
	})
}

// Meta describes a run for its record.
type Meta struct {
	ID      string
	Opening string
	Answer  string
	Source  string
	Started time.Time
}

// NewMeta stamps a run with a fresh ID and start time.
func NewMeta(opening, answer, source string) Meta {
	return Meta{ID: uuid.NewString(), Opening: opening, Answer: answer, Source: source, Started: time.Now().UTC()}
}

// Record converts a session into a store.Run.
func Record(m Meta, s *solver.Session) *store.Run {
	res := s.Result()
	r := &store.Run{
		ID:        m.ID,
		Opening:   m.Opening,
		Answer:    m.Answer,
		Source:    m.Source,
		State:     string(res.State),
		Rounds:    res.Rounds,
		Guesses:   res.Guesses,
		Solution:  res.Solution,
		Remaining: res.Remaining,
		StartedAt: m.Started,
	}
	if err := s.Err(); err != nil {
		r.Error = err.Error()
	}
	if res.State.Terminal() {
		now := time.Now().UTC()
		r.FinishedAt = &now
	}
	return r
}

// Solve runs one full session against src and records it (st may be nil).
// Empty meta fields are filled in: ID, start time, and the default opening.
// The returned error is the session's terminal error, if any.
func (f *Factory) Solve(ctx context.Context, st store.Store, meta Meta, src solver.FeedbackSource) (solver.Result, error) {
	if meta.Opening == "" {
		meta.Opening = f.Opening
	}
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.Started.IsZero() {
		meta.Started = time.Now().UTC()
	}
	sess, err := f.New(meta.Opening)
	if err != nil {
		return solver.Result{}, err
	}
	res, runErr := solver.Run(ctx, sess, src)
	if st != nil {
		// record even when ctx was cancelled mid-run
		if err := st.Save(context.WithoutCancel(ctx), Record(meta, sess)); err != nil {
			return res, errors.Join(runErr, fmt.Errorf("save run: %w", err))
		}
	}
	return res, runErr
}
