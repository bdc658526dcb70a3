package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/wordle/apps/solver/internal/store"
)

func TestWordIndexDeterministic(t *testing.T) {
	day := time.Date(2026, 3, 1, 23, 30, 0, 0, time.FixedZone("x", -5*3600))
	if DateKey(day) != "2026-03-02" {
		t.Errorf("DateKey = %s, want UTC date 2026-03-02", DateKey(day))
	}

	a := WordIndex(day, "salt", 253)
	if b := WordIndex(day.UTC(), "salt", 253); a != b {
		t.Errorf("same date gave %d and %d", a, b)
	}
	if a < 0 || a >= 253 {
		t.Errorf("index %d out of range", a)
	}

	seen := map[int]bool{}
	for i := 0; i < 30; i++ {
		seen[WordIndex(day.AddDate(0, 0, i), "salt", 253)] = true
	}
	if len(seen) < 10 {
		t.Errorf("only %d distinct indexes over 30 days", len(seen))
	}
}

func TestAnswer(t *testing.T) {
	if got := Answer(time.Now(), "salt", nil); got != "" {
		t.Errorf("Answer(empty) = %q", got)
	}
	answers := []string{"crane", "trace", "brake"}
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if got, want := Answer(day, "salt", answers), answers[WordIndex(day, "salt", 3)]; got != want {
		t.Errorf("Answer = %q, want %q", got, want)
	}
}

func TestStoreLeaderboard(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "solver.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()
	s := NewStore(db)

	for _, r := range []Result{
		{Date: "2026-03-01", Opening: "crane", WordIndex: 4, State: "solved", Rounds: 4, RunID: "r1"},
		{Date: "2026-03-01", Opening: "slate", WordIndex: 4, State: "solved", Rounds: 3, RunID: "r2"},
		{Date: "2026-03-01", Opening: "adieu", WordIndex: 4, State: "exhausted", Rounds: 6, RunID: "r3"},
		{Date: "2026-03-01", Opening: "crane", WordIndex: 4, State: "solved", Rounds: 2, RunID: "dup"},
		{Date: "2026-03-02", Opening: "crane", WordIndex: 9, State: "solved", Rounds: 1, RunID: "r4"},
	} {
		if err := s.InsertResult(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	got, ok, err := s.Get(ctx, "2026-03-01", "crane")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if got.Rounds != 4 || got.RunID != "r1" {
		t.Errorf("duplicate overwrote the first result: %+v", got)
	}
	if _, ok, _ := s.Get(ctx, "2026-03-01", "stare"); ok {
		t.Error("Get(stare) found a result")
	}

	top, err := s.Leaderboard(ctx, "2026-03-01", 20)
	if err != nil {
		t.Fatal(err)
	}
	var order []string
	for _, r := range top {
		order = append(order, r.Opening)
	}
	if len(order) != 3 || order[0] != "slate" || order[1] != "crane" || order[2] != "adieu" {
		t.Errorf("leaderboard = %v, want [slate crane adieu]", order)
	}

	empty, err := s.Leaderboard(ctx, "2020-01-01", 20)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("empty leaderboard = %v, %v", empty, err)
	}
}
