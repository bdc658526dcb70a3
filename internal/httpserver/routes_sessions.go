// apps/solver/internal/httpserver/routes_sessions.go
//
// HTTP routes for step-wise solving sessions:
//   - POST /sessions               → start a session (optional opening word)
//   - GET  /sessions/{id}          → current view (live, or the recorded run)
//   - POST /sessions/{id}/feedback → submit the classified row for the current guess
//
// Feedback is either a compact row ("cpaac") or a list of raw marks
// (["hit","miss",...]); unknown marks classify as indeterminate and fail the
// session, exactly as in the CLI.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/solver/internal/runner"
	"github.com/robalobadob/wordle/apps/solver/internal/solver"
	"github.com/robalobadob/wordle/apps/solver/internal/store"
)

// liveSession is an in-progress session; mu serialises its rounds.
type liveSession struct {
	mu   sync.Mutex
	meta runner.Meta
	sess *solver.Session

	lastAccess time.Time // guarded by Server.mu
}

type newSessionReq struct {
	Opening string `json:"opening"`
}

type feedbackReq struct {
	Row   string   `json:"row"`
	Marks []string `json:"marks"`
}

// sessionView is the JSON shape returned for a session.
type sessionView struct {
	ID        string       `json:"id"`
	State     solver.State `json:"state"`
	Round     int          `json:"round"`
	Guess     string       `json:"guess,omitempty"`
	Guesses   []string     `json:"guesses"`
	Solution  string       `json:"solution,omitempty"`
	Remaining int          `json:"remaining"`
	Error     *errorView   `json:"error,omitempty"`
}

type errorView struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Round    int    `json:"round,omitempty"`
	Position *int   `json:"position,omitempty"`
}

// mountSessions registers all /sessions routes.
func (s *Server) mountSessions() {
	s.r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleNewSession)
		r.Get("/{id}", s.handleGetSession)
		r.Post("/{id}/feedback", s.handleFeedback)
	})
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	_ = json.NewDecoder(r.Body).Decode(&req) // empty body means defaults
	opening := strings.ToLower(strings.TrimSpace(req.Opening))

	sess, err := s.deps.Factory.New(opening)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": describe(err)})
		return
	}
	if opening == "" {
		opening = s.deps.Factory.Opening
	}
	ls := &liveSession{meta: runner.NewMeta(opening, "", "http"), sess: sess}

	s.mu.Lock()
	s.sweepLocked(time.Now())
	ls.lastAccess = time.Now()
	s.sessions[ls.meta.ID] = ls
	s.mu.Unlock()

	s.save(r, ls)
	log.Info().Str("session", ls.meta.ID).Str("opening", opening).Msg("session started")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(view(ls))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if ls := s.live(id); ls != nil {
		ls.mu.Lock()
		defer ls.mu.Unlock()
		_ = json.NewEncoder(w).Encode(view(ls))
		return
	}
	run, err := s.deps.Store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	out := sessionView{
		ID:        run.ID,
		State:     solver.State(run.State),
		Round:     run.Rounds,
		Guesses:   run.Guesses,
		Solution:  run.Solution,
		Remaining: run.Remaining,
	}
	if run.Error != "" {
		out.Error = &errorView{Kind: "recorded", Message: run.Error}
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	ls := s.live(chi.URLParam(r, "id"))
	if ls == nil {
		writeError(w, http.StatusNotFound, "no_live_session")
		return
	}
	var req feedbackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	var row solver.Row
	switch {
	case len(req.Marks) > 0:
		row = feedback.MarkPalette.Row(req.Marks)
	case req.Row != "":
		row = feedback.ParseRow(req.Row)
	default:
		writeError(w, http.StatusBadRequest, "missing_feedback")
		return
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.sess.State().Terminal() {
		writeError(w, http.StatusConflict, "session_finished")
		return
	}
	if len(row) != len(ls.sess.Guess()) {
		writeError(w, http.StatusBadRequest, "row_length")
		return
	}

	// Terminal errors are session outcomes, reported in the view.
	if err := ls.sess.Submit(r.Context(), row); err != nil && !ls.sess.State().Terminal() {
		// timed out choosing the next guess; the client may resend the row
		log.Warn().Err(err).Str("session", ls.meta.ID).Msg("feedback interrupted")
		writeError(w, http.StatusServiceUnavailable, "interrupted")
		return
	}

	if ls.sess.State().Terminal() {
		s.mu.Lock()
		delete(s.sessions, ls.meta.ID)
		s.mu.Unlock()
		log.Info().Str("session", ls.meta.ID).Str("state", string(ls.sess.State())).Msg("session finished")
	}
	s.save(r, ls)
	_ = json.NewEncoder(w).Encode(view(ls))
}

// live returns the in-memory session or nil, dropping it if it has idled
// past the session timeout.
func (s *Server) live(id string) *liveSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	ls, ok := s.sessions[id]
	if !ok {
		return nil
	}
	now := time.Now()
	if now.Sub(ls.lastAccess) > s.deps.SessionTimeout {
		delete(s.sessions, id)
		log.Info().Str("session", id).Msg("session expired")
		return nil
	}
	ls.lastAccess = now
	return ls
}

// sweepLocked drops every session idle past the timeout. Caller holds s.mu.
// Expired sessions keep their last recorded state in the run store.
func (s *Server) sweepLocked(now time.Time) {
	for id, ls := range s.sessions {
		if now.Sub(ls.lastAccess) > s.deps.SessionTimeout {
			delete(s.sessions, id)
			log.Info().Str("session", id).Msg("session expired")
		}
	}
}

// save records the session (best effort, non-fatal if it fails).
func (s *Server) save(r *http.Request, ls *liveSession) {
	if s.deps.Store == nil {
		return
	}
	if err := s.deps.Store.Save(r.Context(), runner.Record(ls.meta, ls.sess)); err != nil {
		log.Warn().Err(err).Str("session", ls.meta.ID).Msg("save run")
	}
}

func view(ls *liveSession) sessionView {
	res := ls.sess.Result()
	v := sessionView{
		ID:        ls.meta.ID,
		State:     res.State,
		Round:     ls.sess.Round(),
		Guess:     ls.sess.Guess(),
		Guesses:   res.Guesses,
		Solution:  res.Solution,
		Remaining: res.Remaining,
	}
	if err := ls.sess.Err(); err != nil {
		v.Error = describe(err)
	}
	return v
}

// describe classifies a solver error for clients.
func describe(err error) *errorView {
	var (
		cfg *solver.ConfigError
		ind *solver.IndeterminateFeedbackError
		exh *solver.ExhaustedCandidatesError
		lim *solver.RoundLimitError
	)
	v := &errorView{Kind: "internal", Message: err.Error()}
	switch {
	case errors.As(err, &cfg):
		v.Kind = "configuration"
	case errors.As(err, &ind):
		pos := ind.Position
		v.Kind, v.Round, v.Position = "indeterminate_feedback", ind.Round, &pos
	case errors.As(err, &exh):
		v.Kind, v.Round = "exhausted_candidates", exh.Round
	case errors.As(err, &lim):
		v.Kind, v.Round = "round_limit", lim.Rounds
	}
	return v
}
