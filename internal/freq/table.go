// apps/solver/internal/freq/table.go
//
// Frequency oracles used to rank candidates.
//   - Table:  static word → score map, loaded from JSON ({"word": score}).
//   - Remote: HTTP frequency API with a rate limiter and a Cache.
//
// Both satisfy solver.Oracle; only Table can answer coverage up front.

package freq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/robalobadob/wordle/apps/solver/internal/solver"
)

// Table is a read-only popularity table.
type Table map[string]float64

// LoadTable decodes a JSON object of word → non-negative score.
func LoadTable(r io.Reader) (Table, error) {
	raw := map[string]float64{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode frequency table: %w", err)
	}
	t := make(Table, len(raw))
	for w, s := range raw {
		if s < 0 {
			return nil, fmt.Errorf("frequency for %q is negative", w)
		}
		t[strings.ToLower(strings.TrimSpace(w))] = s
	}
	return t, nil
}

// LoadTableFile opens path and calls LoadTable.
func LoadTableFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadTable(f)
}

// Score returns the table entry or wraps solver.ErrLookup.
func (t Table) Score(_ context.Context, word string) (float64, error) {
	s, ok := t[word]
	if !ok {
		return 0, fmt.Errorf("%w: %q not in table", solver.ErrLookup, word)
	}
	return s, nil
}

// Has reports whether word has an entry.
func (t Table) Has(word string) bool {
	_, ok := t[word]
	return ok
}

// Missing lists the words without an entry, in input order.
func (t Table) Missing(words []string) []string {
	var out []string
	for _, w := range words {
		if !t.Has(w) {
			out = append(out, w)
		}
	}
	return out
}
