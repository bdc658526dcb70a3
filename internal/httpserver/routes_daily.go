// apps/solver/internal/httpserver/routes_daily.go
//
// HTTP routes for the daily benchmark.
// Exposes two endpoints under /daily:
//   - POST /daily/solve       → solve the day's answer from an opening word
//   - GET  /daily/leaderboard → openings ranked for today (or a given date)
//
// The day's answer is picked deterministically from date + salt, so every
// opening word competes on the same word. Each (date, opening) is solved
// once; later requests return the recorded result.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/solver/internal/daily"
	"github.com/robalobadob/wordle/apps/solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/solver/internal/runner"
	"github.com/robalobadob/wordle/apps/solver/internal/solver"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily() {
	s.r.Route("/daily", func(r chi.Router) {
		r.Post("/solve", s.handleDailySolve)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

// dayOf parses YYYY-MM-DD, defaulting to today (UTC).
func dayOf(v string) (time.Time, error) {
	if v == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", v)
}

type dailySolveReq struct {
	Opening string `json:"opening"`
	Date    string `json:"date"`
}

type dailySolveRes struct {
	Result  daily.Result `json:"result"`
	Guesses []string     `json:"guesses,omitempty"` // only on the first solve
	Played  bool         `json:"played"`            // result was already recorded
}

// handleDailySolve simulates the day's game from the requested opening.
func (s *Server) handleDailySolve(w http.ResponseWriter, r *http.Request) {
	var req dailySolveReq
	_ = json.NewDecoder(r.Body).Decode(&req) // empty body means defaults
	opening := strings.ToLower(strings.TrimSpace(req.Opening))
	if opening == "" {
		opening = s.deps.Factory.Opening
	}
	day, err := dayOf(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	date := daily.DateKey(day)

	if prev, ok, err := s.deps.Daily.Get(r.Context(), date, opening); err != nil {
		log.Error().Err(err).Msg("daily lookup")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	} else if ok {
		_ = json.NewEncoder(w).Encode(dailySolveRes{Result: *prev, Played: true})
		return
	}

	answers := s.deps.Factory.Lists.Answers
	idx := daily.WordIndex(day, s.deps.DailySalt, len(answers))
	meta := runner.NewMeta(opening, answers[idx], "daily")

	res, err := s.deps.Factory.Solve(r.Context(), s.deps.Store, meta, feedback.Simulator{Answer: answers[idx]})
	var cfgErr *solver.ConfigError
	if errors.As(err, &cfgErr) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": describe(err)})
		return
	}
	if err != nil && !res.State.Terminal() {
		// cancelled or timed out; nothing worth recording
		writeError(w, http.StatusServiceUnavailable, "interrupted")
		return
	}

	out := daily.Result{
		Date:      date,
		Opening:   opening,
		WordIndex: idx,
		State:     string(res.State),
		Rounds:    res.Rounds,
		RunID:     meta.ID,
	}
	if err := s.deps.Daily.InsertResult(r.Context(), out); err != nil {
		log.Warn().Err(err).Str("date", date).Str("opening", opening).Msg("record daily result")
	}
	log.Info().Str("date", date).Str("opening", opening).Str("state", out.State).Int("rounds", out.Rounds).Msg("daily solved")
	_ = json.NewEncoder(w).Encode(dailySolveRes{Result: out, Guesses: res.Guesses})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the openings ranked for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	day, err := dayOf(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	date := daily.DateKey(day)
	rows, err := s.deps.Daily.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
