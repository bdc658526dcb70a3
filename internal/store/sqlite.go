// apps/solver/internal/store/sqlite.go
//
// SQLite-backed persistence.
// Responsibilities:
//   - Opening SQLite with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations from sql/*.sql (idempotent, recorded in _migrations).
//   - Run records (Store) and the remote frequency cache (FrequencyCache).

package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed sql/*.sql
var migrations embed.FS

/**
 * Open opens (and creates if missing) a SQLite database file and migrates it.
 *
 * - Ensures parent directory exists for relative DSNs (e.g. ./data/solver.db).
 * - Configures busy timeout and WAL journaling mode.
 * - Enforces foreign keys.
 */
func Open(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if err := migrate(db, migrations); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

/**
 * migrate applies *.sql files from fsys in lexical order.
 *
 * - Uses a _migrations table to track applied files.
 * - Each file runs inside its own transaction.
 */
func migrate(db *sql.DB, fsys fs.FS) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	var files []string
	if err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("walk migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

/* ------------------------------ run records ------------------------------ */

// timeLayout is fixed width so started_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore is a Store over the runs table.
type sqliteStore struct{ db *sql.DB }

// NewSQLiteStore wraps an opened (and migrated) database.
func NewSQLiteStore(db *sql.DB) Store { return &sqliteStore{db: db} }

func (s *sqliteStore) Save(ctx context.Context, r *Run) error {
	if r == nil || r.ID == "" {
		return errors.New("run has no id")
	}
	var finished any
	if r.FinishedAt != nil {
		finished = r.FinishedAt.UTC().Format(timeLayout)
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT OR REPLACE INTO runs
            (id, opening, answer, source, state, rounds, guesses, solution, remaining, error, started_at, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Opening, r.Answer, r.Source, r.State, r.Rounds, strings.Join(r.Guesses, ","),
		r.Solution, r.Remaining, r.Error, r.StartedAt.UTC().Format(timeLayout), finished,
	)
	return err
}

const runColumns = `id, opening, answer, source, state, rounds, guesses, solution, remaining, error, started_at, COALESCE(finished_at, '')`

func (s *sqliteStore) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id=?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

func (s *sqliteStore) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs
        ORDER BY started_at DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*Run, 0, limit)
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
        SELECT COUNT(1),
               COALESCE(SUM(state='solved'), 0),
               COALESCE(SUM(state='exhausted'), 0),
               COALESCE(SUM(state='failed'), 0),
               AVG(CASE WHEN state='solved' THEN rounds END)
        FROM runs`).Scan(&sum.Total, &sum.Solved, &sum.Exhausted, &sum.Failed, &avg)
	if err != nil {
		return Summary{}, err
	}
	if avg.Valid {
		sum.AvgRounds = avg.Float64
	}
	return sum, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		r                 Run
		guesses           string
		started, finished string
	)
	if err := sc.Scan(&r.ID, &r.Opening, &r.Answer, &r.Source, &r.State, &r.Rounds, &guesses,
		&r.Solution, &r.Remaining, &r.Error, &started, &finished); err != nil {
		return nil, err
	}
	if guesses != "" {
		r.Guesses = strings.Split(guesses, ",")
	}
	r.StartedAt = parseTime(started)
	if finished != "" {
		t := parseTime(finished)
		r.FinishedAt = &t
	}
	return &r, nil
}

// parseTime parses RFC3339 timestamps; on error returns zero time.
func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

/* ---------------------------- frequency cache ---------------------------- */

// FrequencyCache persists remote frequency lookups across runs.
type FrequencyCache struct{ db *sql.DB }

// NewFrequencyCache wraps an opened (and migrated) database.
func NewFrequencyCache(db *sql.DB) *FrequencyCache { return &FrequencyCache{db: db} }

// Get returns the cached score for word, if any.
func (c *FrequencyCache) Get(ctx context.Context, word string) (float64, bool, error) {
	var score float64
	err := c.db.QueryRowContext(ctx, `SELECT score FROM frequency_cache WHERE word=?`, word).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

// Put stores or refreshes the score for word.
func (c *FrequencyCache) Put(ctx context.Context, word string, score float64) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO frequency_cache(word, score, fetched_at) VALUES (?, ?, ?)`,
		word, score, time.Now().UTC().Format(time.RFC3339))
	return err
}
