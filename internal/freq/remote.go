package freq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/robalobadob/wordle/apps/solver/internal/solver"
)

// Cache stores scores fetched from a remote oracle.
type Cache interface {
	Get(ctx context.Context, word string) (float64, bool, error)
	Put(ctx context.Context, word string, score float64) error
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu sync.RWMutex
	m  map[string]float64
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache { return &MemoryCache{m: map[string]float64{}} }

func (c *MemoryCache) Get(_ context.Context, word string) (float64, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.m[word]
	return s, ok, nil
}

func (c *MemoryCache) Put(_ context.Context, word string, score float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[word] = score
	return nil
}

// Remote looks up word frequency from a WordsAPI-compatible endpoint:
//
//	GET {BaseURL}/words/{word}/frequency
//	X-RapidAPI-Key: {APIKey}
//	→ {"word": "crane", "frequency": {"zipf": 3.2, ...}}   or {"frequency": 3.2}
//
// Hits are served from Cache; misses are throttled by Limiter.
type Remote struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	Limiter *rate.Limiter
	Cache   Cache
}

// NewRemote builds a Remote limited to rps requests per second.
// A nil cache uses a MemoryCache.
func NewRemote(baseURL, apiKey string, rps float64, cache Cache) *Remote {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if rps <= 0 {
		rps = 5
	}
	return &Remote{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Limiter: rate.NewLimiter(rate.Limit(rps), 1),
		Cache:   cache,
	}
}

type frequencyRes struct {
	Word      string          `json:"word"`
	Frequency json.RawMessage `json:"frequency"`
}

// Score returns the cached score or fetches it.
func (r *Remote) Score(ctx context.Context, word string) (float64, error) {
	if s, ok, err := r.Cache.Get(ctx, word); err != nil {
		log.Warn().Err(err).Str("word", word).Msg("frequency cache read")
	} else if ok {
		return s, nil
	}

	if err := r.Limiter.Wait(ctx); err != nil {
		if ctx.Err() == nil {
			// the wait would outlast ctx's deadline
			err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		return 0, err
	}
	s, err := r.fetch(ctx, word)
	if err != nil {
		return 0, err
	}
	if err := r.Cache.Put(ctx, word, s); err != nil {
		log.Warn().Err(err).Str("word", word).Msg("frequency cache write")
	}
	return s, nil
}

func (r *Remote) fetch(ctx context.Context, word string) (float64, error) {
	u := r.BaseURL + "/words/" + url.PathEscape(word) + "/frequency"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	if r.APIKey != "" {
		req.Header.Set("X-RapidAPI-Key", r.APIKey)
	}
	resp, err := r.HTTP.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", solver.ErrLookup, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("%w: %q: status %d", solver.ErrLookup, word, resp.StatusCode)
	}
	var body frequencyRes
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: %q: %w", solver.ErrLookup, word, err)
	}
	return parseFrequency(word, body.Frequency)
}

// parseFrequency accepts either a bare number or an object with "zipf".
func parseFrequency(word string, raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("%w: %q: no frequency", solver.ErrLookup, word)
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var obj struct {
		Zipf *float64 `json:"zipf"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj.Zipf == nil {
		return 0, fmt.Errorf("%w: %q: unrecognised frequency %s", solver.ErrLookup, word, string(raw))
	}
	return *obj.Zipf, nil
}
