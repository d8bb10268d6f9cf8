// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records split runs in a SQLite database: which inputs were
// processed, their content hashes, and the section files written for them.
// The split stage consults it to skip inputs that have not changed.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/beansplit/pkg/types"
)

// Ledger is an open ledger database.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the ledger at path, creating parent directories
// and the schema as needed.
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	l := &Ledger{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			split INTEGER NOT NULL DEFAULT 0,
			empty INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS inputs (
			path TEXT PRIMARY KEY,
			content_hash TEXT NOT NULL,
			status TEXT NOT NULL,
			brand TEXT,
			period TEXT,
			error TEXT,
			run_id TEXT REFERENCES runs(id),
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outputs (
			path TEXT PRIMARY KEY,
			input_path TEXT NOT NULL REFERENCES inputs(path) ON DELETE CASCADE,
			section TEXT NOT NULL,
			entries INTEGER NOT NULL,
			chunk INTEGER NOT NULL DEFAULT 0,
			run_id TEXT REFERENCES runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outputs_input_path ON outputs(input_path)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun starts a run and returns its id.
func (l *Ledger) BeginRun(ctx context.Context) (string, error) {
	id := uuid.New().String()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at) VALUES (?, ?)`,
		id, l.now().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("beginning run: %w", err)
	}
	return id, nil
}

// FinishRun stores the final counts of a run.
func (l *Ledger) FinishRun(ctx context.Context, runID string, r types.BatchResult) error {
	res, err := l.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, split = ?, empty = ?, skipped = ?, failed = ? WHERE id = ?`,
		l.now().Format(time.RFC3339Nano), r.Split, r.Empty, r.Skipped, r.Failed, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", runID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finishing run %s: no such run", runID)
	}
	return nil
}

// Run returns the stored counts of a run.
func (l *Ledger) Run(ctx context.Context, runID string) (types.BatchResult, error) {
	var r types.BatchResult
	err := l.db.QueryRowContext(ctx,
		`SELECT split, empty, skipped, failed FROM runs WHERE id = ?`, runID,
	).Scan(&r.Split, &r.Empty, &r.Skipped, &r.Failed)
	if err != nil {
		return r, fmt.Errorf("reading run %s: %w", runID, err)
	}
	return r, nil
}

// Unchanged reports whether path was last split successfully with the
// same content hash.
func (l *Ledger) Unchanged(ctx context.Context, path, hash string) (bool, error) {
	var storedHash, status string
	err := l.db.QueryRowContext(ctx,
		`SELECT content_hash, status FROM inputs WHERE path = ?`, path,
	).Scan(&storedHash, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up %s: %w", path, err)
	}
	return storedHash == hash && types.SplitStatus(status) == types.SplitDone, nil
}

// Record stores the outcome of one input, replacing its earlier outputs.
func (l *Ledger) Record(ctx context.Context, runID string, res types.FileResult) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	errText := ""
	if res.Err != nil {
		errText = res.Err.Error()
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO inputs (path, content_hash, status, brand, period, error, run_id, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			content_hash=excluded.content_hash, status=excluded.status,
			brand=excluded.brand, period=excluded.period, error=excluded.error,
			run_id=excluded.run_id, updated_at=excluded.updated_at`,
		res.Path, res.ContentHash, string(res.Status), res.Brand, res.Period, errText,
		runID, l.now().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting input %s: %w", res.Path, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM outputs WHERE input_path = ?`, res.Path); err != nil {
		return fmt.Errorf("deleting old outputs: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO outputs (path, input_path, section, entries, chunk, run_id)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range res.Outputs {
		if _, err := stmt.ExecContext(ctx, o.Path, res.Path, string(o.Section), o.Entries, o.Chunk, runID); err != nil {
			return fmt.Errorf("inserting output %s: %w", o.Path, err)
		}
	}

	return tx.Commit()
}

// Outputs returns the files recorded for inputPath, ordered by path.
func (l *Ledger) Outputs(ctx context.Context, inputPath string) ([]types.OutputFile, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT path, section, entries, chunk FROM outputs WHERE input_path = ? ORDER BY path`, inputPath)
	if err != nil {
		return nil, fmt.Errorf("querying outputs: %w", err)
	}
	defer rows.Close()

	var out []types.OutputFile
	for rows.Next() {
		var o types.OutputFile
		var section string
		if err := rows.Scan(&o.Path, &section, &o.Entries, &o.Chunk); err != nil {
			return nil, fmt.Errorf("scanning output: %w", err)
		}
		o.Section = types.SectionKind(section)
		out = append(out, o)
	}
	return out, rows.Err()
}
