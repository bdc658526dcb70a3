package daily

import (
	"context"
	"database/sql"
	"errors"
)

// Result is the outcome of solving one day's answer from one opening word.
type Result struct {
	Date      string `json:"date"`
	Opening   string `json:"opening"`
	WordIndex int    `json:"wordIndex"`
	State     string `json:"state"`
	Rounds    int    `json:"rounds"`
	RunID     string `json:"runId"`
}

// Store keeps daily results in the daily_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Get returns the recorded result for (date, opening), if any.
func (s *Store) Get(ctx context.Context, date, opening string) (*Result, bool, error) {
	r := Result{Date: date, Opening: opening}
	err := s.db.QueryRowContext(ctx,
		`SELECT word_index, state, rounds, run_id FROM daily_results WHERE date=? AND opening=?`,
		date, opening,
	).Scan(&r.WordIndex, &r.State, &r.Rounds, &r.RunID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &r, true, nil
}

// InsertResult records r unless (date, opening) already has a result.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(date, opening, word_index, state, rounds, run_id)
         VALUES(?,?,?,?,?,?)`, r.Date, r.Opening, r.WordIndex, r.State, r.Rounds, r.RunID,
	)
	return err
}

// LBRow is one leaderboard entry.
type LBRow struct {
	Opening string `json:"opening"`
	State   string `json:"state"`
	Rounds  int    `json:"rounds"`
}

// Leaderboard ranks the openings tried on date: solved first, then fewest
// rounds, then earliest.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT opening, state, rounds
         FROM daily_results
         WHERE date=?
         ORDER BY state='solved' DESC, rounds ASC, created_at ASC
         LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.Opening, &r.State, &r.Rounds); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
