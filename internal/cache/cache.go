// Package cache provides a small SQLite-backed TTL cache for GitHub API
// responses. Caching is strictly advisory: every error degrades to a miss and
// the pipeline proceeds against the live API.
package cache

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed response cache.
// Use ":memory:" for an in-memory database, or a file path for persistence.
type Store struct {
	db     *sql.DB
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// DefaultPath returns the default on-disk cache location under the user
// cache directory, falling back to the system temp directory.
func DefaultPath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "repoexplain", "api-cache.db")
	}
	return filepath.Join(os.TempDir(), "repoexplain-api-cache.db")
}

// Open opens (creating if needed) the cache database at dbPath.
func Open(dbPath string, ttl time.Duration, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	store := &Store{
		db:     db,
		ttl:    ttl,
		logger: logger.With("component", "cache"),
		now:    time.Now,
	}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize cache schema: %w", err)
	}

	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS api_cache (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_created_at ON api_cache(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the cached payload for key, or a miss when absent or expired.
// Implements the github.Cache interface; all errors degrade to a miss.
func (s *Store) Get(key string) ([]byte, bool) {
	var payload []byte
	var createdAt int64
	err := s.db.QueryRow(
		"SELECT payload, created_at FROM api_cache WHERE key = ?", key,
	).Scan(&payload, &createdAt)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Debug("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	if s.now().Unix()-createdAt > int64(s.ttl.Seconds()) {
		return nil, false
	}
	return payload, true
}

// Put stores a payload under key, replacing any previous entry.
func (s *Store) Put(key string, payload []byte) {
	_, err := s.db.Exec(
		"INSERT INTO api_cache (key, payload, created_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at",
		key, payload, s.now().Unix(),
	)
	if err != nil {
		s.logger.Debug("cache write failed", "key", key, "error", err)
	}
}

// Prune removes expired entries. Called opportunistically at startup.
func (s *Store) Prune() error {
	cutoff := s.now().Add(-s.ttl).Unix()
	res, err := s.db.Exec("DELETE FROM api_cache WHERE created_at < ?", cutoff)
	if err != nil {
		return fmt.Errorf("prune cache: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.logger.Debug("pruned expired cache entries", "count", n)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
