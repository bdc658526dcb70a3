package solver_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/robalobadob/wordle/apps/solver/internal/freq"
	"github.com/robalobadob/wordle/apps/solver/internal/solver"
)

// ranked scores words in descending order of appearance.
func ranked(words ...string) freq.Table {
	t := freq.Table{}
	for i, w := range words {
		t[w] = float64(len(words) - i)
	}
	return t
}

type oracleFunc func(ctx context.Context, word string) (float64, error)

func (f oracleFunc) Score(ctx context.Context, word string) (float64, error) { return f(ctx, word) }

func TestSelectHighestScore(t *testing.T) {
	p := newPool(t, "crane", "trace", "brake")
	table := freq.Table{"crane": 1, "trace": 3, "brake": 2}

	got, err := solver.Select(context.Background(), p, table)
	if err != nil {
		t.Fatal(err)
	}
	if got != "trace" {
		t.Errorf("Select = %q, want trace", got)
	}
	if want := []string{"crane", "brake"}; !slices.Equal(p.Words(), want) {
		t.Errorf("pool = %v, want %v", p.Words(), want)
	}
}

func TestSelectTieKeepsEarliest(t *testing.T) {
	tests := []struct {
		name  string
		table freq.Table
		want  string
	}{
		{"two-way tie after a lower score", freq.Table{"crane": 1, "trace": 3, "brake": 3}, "trace"},
		{"all equal", freq.Table{"crane": 2, "trace": 2, "brake": 2}, "crane"},
		{"all zero", freq.Table{"crane": 0, "trace": 0, "brake": 0}, "crane"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPool(t, "crane", "trace", "brake")
			got, err := solver.Select(context.Background(), p, tt.table)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Select = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelectNeverRepeats(t *testing.T) {
	words := []string{"crane", "trace", "brake", "stake", "cello"}
	p := newPool(t, words...)
	table := freq.Table{"crane": 1, "trace": 1, "brake": 5, "stake": 2, "cello": 5}

	var picked []string
	for p.Len() > 0 {
		w, err := solver.Select(context.Background(), p, table)
		if err != nil {
			t.Fatal(err)
		}
		if slices.Contains(picked, w) {
			t.Fatalf("%q selected twice", w)
		}
		picked = append(picked, w)
	}
	if want := []string{"brake", "cello", "stake", "crane", "trace"}; !slices.Equal(picked, want) {
		t.Errorf("selection order = %v, want %v", picked, want)
	}
}

func TestSelectEmptyPool(t *testing.T) {
	p := newPool(t, "crane")
	p.Remove("crane")

	_, err := solver.Select(context.Background(), p, ranked("crane"))
	var ex *solver.ExhaustedCandidatesError
	if !errors.As(err, &ex) {
		t.Fatalf("err = %v, want ExhaustedCandidatesError", err)
	}
}

func TestSelectMissingScoreIsConfigError(t *testing.T) {
	p := newPool(t, "crane", "trace")
	before := p.Words()

	_, err := solver.Select(context.Background(), p, freq.Table{"crane": 1})
	var cfg *solver.ConfigError
	if !errors.As(err, &cfg) {
		t.Fatalf("err = %v, want ConfigError", err)
	}
	if !errors.Is(err, solver.ErrLookup) {
		t.Errorf("err = %v, want it to wrap ErrLookup", err)
	}
	if !slices.Equal(p.Words(), before) {
		t.Errorf("pool changed on failed selection")
	}
}

func TestSelectPassesThroughCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	oracle := oracleFunc(func(ctx context.Context, _ string) (float64, error) {
		return 0, ctx.Err()
	})

	_, err := solver.Select(ctx, newPool(t, "crane"), oracle)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	var cfg *solver.ConfigError
	if errors.As(err, &cfg) {
		t.Errorf("cancellation reported as configuration error")
	}
}

func TestSubmitInterruptedSelectionKeepsRound(t *testing.T) {
	words := []string{"crane", "trace", "brake", "stake", "pilot", "moist"}
	table := ranked(words...)
	ctx, cancel := context.WithCancel(context.Background())
	interrupt := true
	oracle := oracleFunc(func(ctx context.Context, w string) (float64, error) {
		if interrupt {
			cancel()
			return 0, ctx.Err()
		}
		return table.Score(ctx, w)
	})
	s, err := solver.NewSession(newPool(t, words...), oracle, solver.Options{Opening: "crane"})
	if err != nil {
		t.Fatal(err)
	}
	row := solver.Row{solver.Absent, solver.Absent, solver.Absent, solver.Absent, solver.Absent}

	err = s.Submit(ctx, row)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if s.State() != solver.StateAwaitingFeedback || s.Guess() != "crane" || s.Round() != 1 {
		t.Fatalf("after interruption: state %s guess %q round %d", s.State(), s.Guess(), s.Round())
	}
	if g := s.Result().Guesses; len(g) != 0 {
		t.Errorf("guesses = %v, want none recorded", g)
	}

	interrupt = false
	if err := s.Submit(context.Background(), row); err != nil {
		t.Fatal(err)
	}
	res := s.Result()
	if s.Guess() != "pilot" || s.Round() != 2 || !slices.Equal(res.Guesses, []string{"crane"}) || res.Remaining != 2 {
		t.Errorf("after retry: guess %q round %d result %+v", s.Guess(), s.Round(), res)
	}
}
