// Package sqlite provides a SQLite-backed cache store, useful when the
// service runs without a Redis deployment.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/querylens-ai/querylens/pkg/cache"
)

// Store is an exact-match query cache backed by SQLite.
type Store struct {
	db *sql.DB
}

const createCacheTable = `
CREATE TABLE IF NOT EXISTS query_cache (
	key TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	ttl_seconds INTEGER NOT NULL
);
`

// New opens (creating if needed) the cache database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if _, err := db.Exec(createCacheTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &Store{db: db}, nil
}

// Get retrieves a cached payload. Expired entries count as misses.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	var createdAt time.Time
	var ttlSeconds int64

	err := s.db.QueryRowContext(ctx,
		`SELECT payload, created_at, ttl_seconds FROM query_cache WHERE key = ?`,
		key,
	).Scan(&payload, &createdAt, &ttlSeconds)
	if err == sql.ErrNoRows {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	if time.Since(createdAt) > time.Duration(ttlSeconds)*time.Second {
		return nil, cache.ErrNotFound
	}
	return payload, nil
}

// Set stores a payload under key. Re-writing a key replaces the entry.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO query_cache (key, payload, created_at, ttl_seconds)
		 VALUES (?, ?, ?, ?)`,
		key, value, time.Now().UTC(), int64(ttl.Seconds()),
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Entries returns the number of stored entries, expired ones included.
func (s *Store) Entries(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM query_cache`).Scan(&count); err != nil {
		return 0, fmt.Errorf("cache entries: %w", err)
	}
	return count, nil
}

// Clear removes cache entries. If expiredOnly is true, only expired entries
// are removed.
func (s *Store) Clear(ctx context.Context, expiredOnly bool) error {
	query := `DELETE FROM query_cache`
	if expiredOnly {
		query = `DELETE FROM query_cache WHERE (julianday('now') - julianday(created_at)) * 86400 > ttl_seconds`
	}
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
