// Package history persists successfully answered queries so the UI can
// offer them as suggestions. Storage is a small SQLite file beside the
// data directory.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// maxEntries caps the log; the oldest rows beyond it are pruned on write.
const maxEntries = 100

// Entry is one answered query.
type Entry struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Description string    `json:"description"`
	Operation   string    `json:"operation"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is a SQLite-backed query log.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path and runs the
// migration.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %s: %w", pragma, err)
		}
	}

	const migration = `
CREATE TABLE IF NOT EXISTS query_history (
	id          TEXT PRIMARY KEY,
	query       TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL,
	operation   TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_query_history_created_at ON query_history(created_at);
`
	if _, err := db.Exec(migration); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save records an answered query. A repeated question is a no-op rather
// than a duplicate row, and the log is pruned to its cap afterwards.
func (s *Store) Save(ctx context.Context, query, description, operation string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO query_history (id, query, description, operation, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(query) DO NOTHING`,
		uuid.New().String(), query, description, operation, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save query: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM query_history WHERE id NOT IN (
		     SELECT id FROM query_history ORDER BY created_at DESC LIMIT ?
		 )`,
		maxEntries,
	)
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, description, operation, created_at
		 FROM query_history
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Query, &e.Description, &e.Operation, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}
