// Package history keeps a SQLite log of suite runs and per-case execution
// times, so timings can be compared across runs.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/abdul-hamid-achik/restcheck/packages/core/suite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	passed      INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	errored     INTEGER NOT NULL,
	skipped     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS cases (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	name        TEXT NOT NULL,
	test        TEXT NOT NULL,
	status      TEXT NOT NULL,
	started_at  INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	error       TEXT
);
CREATE INDEX IF NOT EXISTS cases_name ON cases(name);
`

// Run is one recorded suite run.
type Run struct {
	ID       string
	Start    time.Time
	Duration time.Duration
	Passed   int
	Failed   int
	Errored  int
	Skipped  int
}

// CaseStats aggregates the executed (not skipped) occurrences of one case.
type CaseStats struct {
	Name    string
	Runs    int
	Average time.Duration
	Max     time.Duration
	Last    time.Duration
}

// Store is a history database handle.
type Store struct {
	db      *sql.DB
	timeout time.Duration
}

// Open opens or creates the database at path. A "sqlite:" or "sqlite://"
// prefix is accepted; ":memory:" gives a private in-memory store.
func Open(path string) (*Store, error) {
	dsn := strings.TrimSpace(path)
	dsn = strings.TrimPrefix(dsn, "sqlite://")
	dsn = strings.TrimPrefix(dsn, "sqlite:")
	if dsn == "" {
		return nil, errors.New("history: empty database path")
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{db: db, timeout: 30 * time.Second}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores run and all its cases in one transaction.
func (s *Store) Record(ctx context.Context, run *suite.RunResult) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, duration_ms, passed, failed, errored, skipped) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Start.UnixMilli(), run.Duration.Milliseconds(), run.Passed, run.Failed, run.Errored, run.Skipped)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cases (run_id, name, test, status, started_at, duration_ms, error) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare case insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range run.Cases {
		var errText sql.NullString
		if c.Err != nil {
			errText = sql.NullString{String: c.Err.Error(), Valid: true}
		}
		started := c.Start
		if started.IsZero() {
			started = run.Start
		}
		if _, err := stmt.ExecContext(ctx, run.ID, c.Name, c.Test, c.Status.String(), started.UnixMilli(), c.Duration.Milliseconds(), errText); err != nil {
			return fmt.Errorf("insert case %s: %w", c.Name, err)
		}
	}

	return tx.Commit()
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, passed, failed, errored, skipped FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r              Run
			startMs, durMs int64
		)
		if err := rows.Scan(&r.ID, &startMs, &durMs, &r.Passed, &r.Failed, &r.Errored, &r.Skipped); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		r.Start = time.UnixMilli(startMs)
		r.Duration = time.Duration(durMs) * time.Millisecond
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return runs, nil
}

// Stats returns per-case timing aggregates ordered by average duration,
// slowest first.
func (s *Store) Stats(ctx context.Context) ([]CaseStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name, COUNT(*), AVG(c.duration_ms), MAX(c.duration_ms),
			(SELECT l.duration_ms FROM cases l
			 WHERE l.name = c.name AND l.status != 'skipped'
			 ORDER BY l.started_at DESC, l.rowid DESC LIMIT 1)
		FROM cases c
		WHERE c.status != 'skipped'
		GROUP BY c.name
		ORDER BY AVG(c.duration_ms) DESC, c.name`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var stats []CaseStats
	for rows.Next() {
		var (
			cs          CaseStats
			avg         float64
			maxMs, last int64
		)
		if err := rows.Scan(&cs.Name, &cs.Runs, &avg, &maxMs, &last); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		cs.Average = time.Duration(avg * float64(time.Millisecond))
		cs.Max = time.Duration(maxMs) * time.Millisecond
		cs.Last = time.Duration(last) * time.Millisecond
		stats = append(stats, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return stats, nil
}

// Average returns the mean execution time of the named case across all
// recorded runs, and how many runs contributed.
func (s *Store) Average(ctx context.Context, name string) (time.Duration, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		avg sql.NullFloat64
		n   int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT AVG(duration_ms), COUNT(*) FROM cases WHERE name = ? AND status != 'skipped'`, name).Scan(&avg, &n)
	if err != nil {
		return 0, 0, fmt.Errorf("query failed: %w", err)
	}
	if !avg.Valid {
		return 0, 0, nil
	}
	return time.Duration(avg.Float64 * float64(time.Millisecond)), n, nil
}
