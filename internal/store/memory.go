// apps/solver/internal/store/memory.go
//
// Run records and the in-memory Store implementation.
//
// Characteristics:
//   - Stores *Run objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (HTTP handlers read while sessions finish).
//   - State is lost when the process restarts; see sqlite.go for durability.

package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is returned by Get for unknown IDs.
var ErrNotFound = errors.New("not found")

// Run is the persisted summary of one solving session.
type Run struct {
	ID         string     `json:"id"`
	Opening    string     `json:"opening"`
	Answer     string     `json:"answer,omitempty"` // known only for simulated runs
	Source     string     `json:"source"`           // prompt | simulator | remote | http
	State      string     `json:"state"`
	Rounds     int        `json:"rounds"`
	Guesses    []string   `json:"guesses"`
	Solution   string     `json:"solution,omitempty"`
	Remaining  int        `json:"remaining"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// Summary aggregates runs by outcome.
type Summary struct {
	Total     int     `json:"total"`
	Solved    int     `json:"solved"`
	Exhausted int     `json:"exhausted"`
	Failed    int     `json:"failed"`
	AvgRounds float64 `json:"avgRounds"` // over solved runs
}

// Store persists run records.
// Implementations: in-memory (this file) and SQLite (sqlite.go).
type Store interface {
	// Save inserts or replaces a run.
	Save(ctx context.Context, r *Run) error

	// Get returns the run with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns the most recent runs first, at most limit (<=0 means 50).
	List(ctx context.Context, limit int) ([]*Run, error)

	// Summary aggregates every stored run.
	Summary(ctx context.Context) (Summary, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu   sync.RWMutex    // guards runs
	runs map[string]*Run // keyed by Run.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{runs: make(map[string]*Run)}
}

func (m *memory) Save(ctx context.Context, r *Run) error {
	if r == nil || r.ID == "" {
		return errors.New("run has no id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[r.ID] = clone(r)
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.runs[id]; ok {
		return clone(r), nil
	}
	return nil, ErrNotFound
}

func (m *memory) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	m.mu.RLock()
	out := make([]*Run, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, clone(r))
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memory) Summary(ctx context.Context) (Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var s Summary
	solvedRounds := 0
	for _, r := range m.runs {
		s.Total++
		switch r.State {
		case "solved":
			s.Solved++
			solvedRounds += r.Rounds
		case "exhausted":
			s.Exhausted++
		case "failed":
			s.Failed++
		}
	}
	if s.Solved > 0 {
		s.AvgRounds = float64(solvedRounds) / float64(s.Solved)
	}
	return s, nil
}

// clone copies r so callers never share the stored guesses slice.
func clone(r *Run) *Run {
	cp := *r
	cp.Guesses = append([]string(nil), r.Guesses...)
	return &cp
}
