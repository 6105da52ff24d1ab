// Package history keeps a local SQLite record of past analysis runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Run is one completed (or failed) CLI invocation.
type Run struct {
	ID         uuid.UUID
	Command    string
	ModelID    string
	InputPath  string
	Status     string
	Pages      int
	Duration   time.Duration
	OutputPath string
	CreatedAt  time.Time
}

// Store persists runs in a local SQLite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	command     TEXT NOT NULL,
	model_id    TEXT NOT NULL,
	input_path  TEXT NOT NULL,
	status      TEXT NOT NULL,
	pages       INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	output_path TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
`

// Open creates or opens the store at the given path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}

	return &Store{db: db}, nil
}

// Record inserts a run. A zero ID and CreatedAt are filled in.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO runs (id, command, model_id, input_path, status, pages, duration_ms, output_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.ID.String(), run.Command, run.ModelID, run.InputPath, run.Status,
		run.Pages, run.Duration.Milliseconds(), run.OutputPath, run.CreatedAt,
	)
	return err
}

// Recent returns the newest runs, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, command, model_id, input_path, status, pages, duration_ms, output_path, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var id string
		var durationMS int64
		if err := rows.Scan(&id, &run.Command, &run.ModelID, &run.InputPath, &run.Status,
			&run.Pages, &durationMS, &run.OutputPath, &run.CreatedAt); err != nil {
			return nil, err
		}
		run.ID, _ = uuid.Parse(id)
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
