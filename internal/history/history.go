// Package history keeps a local record of submitted batches so the user
// can find a batch identifier again without the server's help.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/Kyle6012/plagiarism-detection/api/schemas"
)

// Entry is one recorded submission.
type Entry struct {
	BatchID     string
	Mode        schemas.AnalysisMode
	FileCount   int
	SubmittedAt time.Time
}

// Store is a SQLite-backed submission log. Purely local convenience
// state; losing it never affects the server-side account.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open opens or creates the history database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func Open(dbPath string, logger *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{db: db, log: logger.Named("history")}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS submissions (
		batch_id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		file_count INTEGER NOT NULL,
		submitted_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_submissions_submitted_at ON submissions(submitted_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Record stores one accepted submission. The batch id is the primary
// key; recording the same batch twice is an error the caller can ignore.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if entry.SubmittedAt.IsZero() {
		entry.SubmittedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (batch_id, mode, file_count, submitted_at) VALUES (?, ?, ?, ?)`,
		entry.BatchID, string(entry.Mode), entry.FileCount, entry.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record submission %s: %w", entry.BatchID, err)
	}
	s.log.Debug("Recorded submission", zap.String("batch_id", entry.BatchID))
	return nil
}

// Recent returns up to limit submissions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT batch_id, mode, file_count, submitted_at
		 FROM submissions ORDER BY submitted_at DESC, batch_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var mode string
		if err := rows.Scan(&e.BatchID, &mode, &e.FileCount, &e.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Mode = schemas.AnalysisMode(mode)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during history iteration: %w", err)
	}
	return entries, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
