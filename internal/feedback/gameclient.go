// apps/solver/internal/feedback/gameclient.go
//
// FeedbackSource backed by a remote Wordle game server.
//
// Protocol (JSON over HTTP):
//   POST {base}/game/new    {"answer": "..."}              → {"gameId": "..."}
//   POST {base}/game/guess  {"gameId": "...", "guess": "..."} → {"marks": [...], "state": "..."}
//
// Marks are mapped through a Palette; unknown marks become Indeterminate.
// Transient failures (transport errors, 5xx) are retried with a linear
// backoff; 4xx responses are returned immediately.

package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/solver/internal/solver"
)

// GameClient plays one remote game.
type GameClient struct {
	BaseURL string
	HTTP    *http.Client
	Palette Palette
	Retries int
	Backoff time.Duration

	gameID string
}

// NewGameClient returns a client with sensible defaults.
func NewGameClient(baseURL string) *GameClient {
	return &GameClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Palette: MarkPalette,
		Retries: 3,
		Backoff: 500 * time.Millisecond,
	}
}

type newGameReq struct {
	Answer string `json:"answer,omitempty"`
}
type newGameRes struct {
	GameID string `json:"gameId"`
}
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Marks []json.RawMessage `json:"marks"`
	State string            `json:"state"`
}

// errStatus is a non-retryable HTTP status.
type errStatus struct {
	code int
	body string
}

func (e *errStatus) Error() string { return fmt.Sprintf("game server: %d %s", e.code, e.body) }

// Start creates a new game. answer may be empty to let the server choose.
func (c *GameClient) Start(ctx context.Context, answer string) (string, error) {
	var res newGameRes
	if err := c.post(ctx, "/game/new", newGameReq{Answer: answer}, &res); err != nil {
		return "", err
	}
	if res.GameID == "" {
		return "", errors.New("game server returned no game id")
	}
	c.gameID = res.GameID
	log.Debug().Str("gameId", c.gameID).Msg("remote game started")
	return c.gameID, nil
}

// Feedback submits guess to the current game and classifies the marks.
func (c *GameClient) Feedback(ctx context.Context, round int, guess string) (solver.Row, error) {
	if c.gameID == "" {
		if _, err := c.Start(ctx, ""); err != nil {
			return nil, err
		}
	}
	var res guessRes
	if err := c.post(ctx, "/game/guess", guessReq{GameID: c.gameID, Guess: guess}, &res); err != nil {
		return nil, err
	}
	signals := make([]string, len(res.Marks))
	for i, m := range res.Marks {
		signals[i] = strings.Trim(string(m), `"`)
	}
	row := c.Palette.Row(signals)
	log.Debug().Int("round", round).Str("guess", guess).Strs("marks", signals).Str("state", res.State).Msg("remote feedback")
	return row, nil
}

func (c *GameClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	var lastErr error
	for attempt := 0; attempt <= c.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * c.Backoff):
			}
		}
		lastErr = c.do(ctx, path, payload, out)
		if lastErr == nil {
			return nil
		}
		var st *errStatus
		if errors.As(lastErr, &st) || ctx.Err() != nil {
			return lastErr
		}
		log.Warn().Err(lastErr).Str("path", path).Int("attempt", attempt+1).Msg("game server request failed")
	}
	return lastErr
}

func (c *GameClient) do(ctx context.Context, path string, payload []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("game server: %d %s", resp.StatusCode, strings.TrimSpace(string(data)))
	case resp.StatusCode >= 400:
		return &errStatus{code: resp.StatusCode, body: strings.TrimSpace(string(data))}
	}
	return json.Unmarshal(data, out)
}
