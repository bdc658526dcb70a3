package solver

import (
	"context"
	"fmt"
)

// Oracle scores words by popularity. Implementations may be a static table
// or a cached remote lookup; the solver only needs Score.
type Oracle interface {
	Score(ctx context.Context, word string) (float64, error)
}

// Select picks the most popular candidate and removes it from the pool, so a
// word is never suggested twice in one session.
//
// Candidates are scanned in pool order and the first strictly greater score
// wins; ties keep the earlier word. An empty pool yields
// *ExhaustedCandidatesError (round is left for the caller to fill in), and an
// unresolvable word yields *ConfigError.
func Select(ctx context.Context, pool *Pool, oracle Oracle) (string, error) {
	if pool.Len() == 0 {
		return "", &ExhaustedCandidatesError{}
	}
	var (
		best      string
		bestScore float64
	)
	for i, w := range pool.words {
		score, err := oracle.Score(ctx, w)
		if err != nil {
			if Interrupted(err) {
				return "", err
			}
			return "", configErr(fmt.Sprintf("no frequency score for %q", w), err)
		}
		if i == 0 || score > bestScore {
			best, bestScore = w, score
		}
	}
	pool.Remove(best)
	return best, nil
}
