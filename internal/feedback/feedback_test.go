package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robalobadob/wordle/apps/solver/internal/solver"
)

func TestScore(t *testing.T) {
	tests := []struct {
		answer, guess, want string
	}{
		{"crane", "crane", "ccccc"},
		{"enter", "sheen", "aapcp"},
		{"emcee", "eerie", "cpaac"},
		{"where", "eerie", "papac"},
		{"abbey", "bobby", "papac"},
		{"geese", "sheen", "pacpa"},
		{"cello", "llama", "ppaaa"},
		{"spell", "sells", "cppca"},
	}
	for _, tt := range tests {
		t.Run(tt.answer+"/"+tt.guess, func(t *testing.T) {
			if got := Score(tt.answer, tt.guess).String(); got != tt.want {
				t.Errorf("Score(%s, %s) = %s, want %s", tt.answer, tt.guess, got, tt.want)
			}
		})
	}
}

func TestSimulatorRejectsLengthMismatch(t *testing.T) {
	if _, err := (Simulator{Answer: "crane"}).Feedback(context.Background(), 1, "cranes"); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseRow(t *testing.T) {
	tests := []struct {
		in   string
		want solver.Row
	}{
		{"cpaac", solver.Row{solver.Correct, solver.Present, solver.Absent, solver.Absent, solver.Correct}},
		{" GY..G ", solver.Row{solver.Correct, solver.Present, solver.Absent, solver.Absent, solver.Correct}},
		{"+-bx+", solver.Row{solver.Correct, solver.Absent, solver.Absent, solver.Absent, solver.Correct}},
		{"c?a", solver.Row{solver.Correct, solver.Indeterminate, solver.Absent}},
	}
	for _, tt := range tests {
		if got := ParseRow(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("ParseRow(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestPaletteClassify(t *testing.T) {
	p := NewPalette([]string{"#6aaa64"}, []string{"#c9b458"}, []string{"#787c7e"})
	row := p.Row([]string{"#6AAA64", " #c9b458", "#787c7e", "#ff00ff"})
	want := solver.Row{solver.Correct, solver.Present, solver.Absent, solver.Indeterminate}
	if !slices.Equal(row, want) {
		t.Errorf("row = %s, want %s", row, want)
	}
	if got := MarkPalette.Classify("HIT"); got != solver.Correct {
		t.Errorf("MarkPalette HIT = %s", got)
	}
	if got := MarkPalette.Classify("yellowish"); got != solver.Indeterminate {
		t.Errorf("unknown mark = %s, want indeterminate", got)
	}
}

func TestPromptAsksAgainOnWrongLength(t *testing.T) {
	var out strings.Builder
	p := NewPrompt(strings.NewReader("cp\ncpaac\n"), &out)

	row, err := p.Feedback(context.Background(), 1, "crane")
	if err != nil {
		t.Fatal(err)
	}
	if row.String() != "cpaac" {
		t.Errorf("row = %s", row)
	}
	if !strings.Contains(out.String(), "need 5 characters, got 2") {
		t.Errorf("prompt output = %q", out.String())
	}
}

func TestPromptEOFAndCancel(t *testing.T) {
	var out strings.Builder
	if _, err := NewPrompt(strings.NewReader(""), &out).Feedback(context.Background(), 1, "crane"); err == nil {
		t.Error("EOF: expected error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewPrompt(strings.NewReader("ccccc\n"), &out).Feedback(ctx, 1, "crane"); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: err = %v", err)
	}
}

// fakeGame serves /game/new and /game/guess for a fixed answer.
func fakeGame(t *testing.T, answer string, failFirst int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	marks := map[solver.Status]string{solver.Correct: "hit", solver.Present: "present", solver.Absent: "miss"}

	mux := http.NewServeMux()
	mux.HandleFunc("/game/new", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"gameId": "g1"})
	})
	mux.HandleFunc("/game/guess", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= failFirst {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		var req guessReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameID != "g1" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if len(req.Guess) != len(answer) {
			http.Error(w, "invalid guess", http.StatusUnprocessableEntity)
			return
		}
		var out []string
		for _, st := range Score(answer, req.Guess) {
			out = append(out, marks[st])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"marks": out, "state": "in_progress"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestGameClientFeedback(t *testing.T) {
	srv, _ := fakeGame(t, "enter", 0)
	c := NewGameClient(srv.URL + "/")

	id, err := c.Start(context.Background(), "")
	if err != nil || id != "g1" {
		t.Fatalf("Start = %q, %v", id, err)
	}
	row, err := c.Feedback(context.Background(), 1, "sheen")
	if err != nil {
		t.Fatal(err)
	}
	if row.String() != "aapcp" {
		t.Errorf("row = %s, want aapcp", row)
	}
}

func TestGameClientNumericMarks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/game/new" {
			_, _ = w.Write([]byte(`{"gameId":"n"}`))
			return
		}
		_, _ = w.Write([]byte(`{"marks":[2,1,0,0,7],"state":"in_progress"}`))
	}))
	defer srv.Close()

	row, err := NewGameClient(srv.URL).Feedback(context.Background(), 1, "crane")
	if err != nil {
		t.Fatal(err)
	}
	if row.String() != "cpaa?" {
		t.Errorf("row = %s, want cpaa?", row)
	}
}

func TestGameClientRetriesServerErrors(t *testing.T) {
	srv, calls := fakeGame(t, "crane", 2)
	c := NewGameClient(srv.URL)
	c.Backoff = time.Millisecond

	row, err := c.Feedback(context.Background(), 1, "crane")
	if err != nil {
		t.Fatal(err)
	}
	if !row.Solved() {
		t.Errorf("row = %s", row)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("guess calls = %d, want 3", got)
	}
}

func TestGameClientDoesNotRetryClientErrors(t *testing.T) {
	srv, calls := fakeGame(t, "crane", 0)
	c := NewGameClient(srv.URL)
	c.Backoff = time.Millisecond

	_, err := c.Feedback(context.Background(), 1, "cranes")
	var st *errStatus
	if err == nil || !strings.Contains(err.Error(), "422") {
		t.Fatalf("err = %v, want 422", err)
	}
	if !errors.As(err, &st) {
		t.Errorf("err = %T, want *errStatus", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("guess calls = %d, want 1", got)
	}
}
