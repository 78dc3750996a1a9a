package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DBFile is the database file name inside the data directory.
const DBFile = "history.db"

// ErrNotFound is returned when no run matches a query.
var ErrNotFound = errors.New("no recorded run")

// Run is one recorded validation of one file.
type Run struct {
	ID           int64
	Path         string
	Fingerprint  string
	Size         uint64
	CheckedAt    time.Time
	OK           bool
	TotalTiles   int
	InvalidCount int
	Warnings     int

	// Error is set when the file could not be validated at all.
	Error string

	// ReportJSON is the full report as rendered by the JSON writer.
	ReportJSON string
}

// Store is a SQLite-backed run history.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the history database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	path := filepath.Join(dir, DBFile)
	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, path: path}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		size INTEGER NOT NULL,
		checked_at INTEGER NOT NULL,
		ok INTEGER NOT NULL,
		total_tiles INTEGER NOT NULL,
		invalid_count INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		report_json TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_runs_path ON runs(path, checked_at);
	CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON runs(fingerprint);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Record stores a run and sets its ID. A zero CheckedAt is set to now.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.CheckedAt.IsZero() {
		run.CheckedAt = time.Now()
	}

	query := `
	INSERT INTO runs (path, fingerprint, size, checked_at, ok, total_tiles, invalid_count, warnings, error, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		run.Path,
		run.Fingerprint,
		int64(run.Size), //nolint:gosec // file sizes fit in int64
		run.CheckedAt.UnixNano(),
		run.OK,
		run.TotalTiles,
		run.InvalidCount,
		run.Warnings,
		run.Error,
		run.ReportJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	run.ID, err = res.LastInsertId()
	return err
}

const runColumns = `id, path, fingerprint, size, checked_at, ok, total_tiles, invalid_count, warnings, error, report_json`

// Latest returns the most recent run for path, or ErrNotFound.
func (s *Store) Latest(ctx context.Context, path string) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE path = ? ORDER BY checked_at DESC, id DESC LIMIT 1`

	run, err := scanRun(s.db.QueryRowContext(ctx, query, path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// Unchanged reports whether the latest run for path passed cleanly with
// the same fingerprint.
func (s *Store) Unchanged(ctx context.Context, path, fingerprint string) (bool, error) {
	run, err := s.Latest(ctx, path)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return run.OK && run.Fingerprint == fingerprint, nil
}

// List returns recorded runs, newest first. An empty path lists every
// file; limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, path string, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if path != "" {
		query += ` WHERE path = ?`
		args = append(args, path)
	}
	query += ` ORDER BY checked_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run       Run
		size      int64
		checkedAt int64
	)
	err := row.Scan(
		&run.ID,
		&run.Path,
		&run.Fingerprint,
		&size,
		&checkedAt,
		&run.OK,
		&run.TotalTiles,
		&run.InvalidCount,
		&run.Warnings,
		&run.Error,
		&run.ReportJSON,
	)
	if err != nil {
		return nil, err
	}
	run.Size = uint64(size) //nolint:gosec // stored from a uint64
	run.CheckedAt = time.Unix(0, checkedAt)
	return &run, nil
}
