// apps/solver/internal/httpserver/server.go
//
// HTTP server wiring for the solver service.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Session endpoints: POST /sessions, GET /sessions/{id},
//     POST /sessions/{id}/feedback (see routes_sessions.go).
//   - Run history (require auth): GET /runs, /runs/stats, /runs/{id}.
//   - Token minting: POST /auth/token (see auth.go).
//   - Daily benchmark: /daily/solve, /daily/leaderboard when a database is
//     configured (see routes_daily.go).
//
// Notes:
//   - A client drives each session: it submits the suggested guess to its game
//     surface, then posts the classified feedback back here.
//   - Finished sessions are recorded in the run store and dropped from memory.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/solver/internal/daily"
	"github.com/robalobadob/wordle/apps/solver/internal/runner"
	"github.com/robalobadob/wordle/apps/solver/internal/store"
)

// Deps are the collaborators the server needs.
type Deps struct {
	Factory      *runner.Factory
	Store        store.Store
	JWTSecret    string
	AdminKeyHash string // bcrypt hash; empty disables POST /auth/token
	ClientOrigin string

	SessionTimeout time.Duration // idle live sessions are dropped after this

	Daily     *daily.Store // nil disables /daily
	DailySalt string
}

// Server bundles router, live sessions and the run store.
type Server struct {
	r    *chi.Mux
	deps Deps

	mu       sync.Mutex              // guards sessions
	sessions map[string]*liveSession // keyed by run ID
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.ClientOrigin == "" {
		d.ClientOrigin = "http://localhost:5173"
	}
	if d.SessionTimeout <= 0 {
		d.SessionTimeout = 2 * time.Hour
	}
	s := &Server{r: chi.NewRouter(), deps: d, sessions: make(map[string]*liveSession)}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(30 * time.Second)) // bound handler time (remote oracle lookups)
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(d.ClientOrigin))            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordle-solver","endpoints":["/health","POST /sessions","POST /sessions/{id}/feedback","/runs","/auth/token","POST /daily/solve","/daily/leaderboard"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		a, g := d.Factory.Lists.Stats()
		_ = json.NewEncoder(w).Encode(map[string]int{"answers": a, "allowed": g, "length": d.Factory.Lists.Length})
	})

	s.mountSessions()
	s.mountAuth()
	if d.Daily != nil {
		s.mountDaily()
	}

	s.r.Route("/runs", func(r chi.Router) {
		r.Use(s.requireAuth())
		r.Get("/", s.handleListRuns)
		r.Get("/stats", s.handleRunStats)
		r.Get("/{id}", s.handleGetRun)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- RUNS --------------------------------------

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.deps.Store.List(r.Context(), 50)
	if err != nil {
		log.Error().Err(err).Str("subject", subject(r)).Msg("list runs")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	log.Debug().Str("subject", subject(r)).Int("runs", len(runs)).Msg("runs listed")
	_ = json.NewEncoder(w).Encode(runs)
}

func (s *Server) handleRunStats(w http.ResponseWriter, r *http.Request) {
	sum, err := s.deps.Store.Summary(r.Context())
	if err != nil {
		log.Error().Err(err).Str("subject", subject(r)).Msg("run summary")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(sum)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.deps.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("subject", subject(r)).Msg("get run")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(run)
}

// writeError writes {"error": code} with status.
func writeError(w http.ResponseWriter, status int, code string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
