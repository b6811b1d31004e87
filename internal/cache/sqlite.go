package cache

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLite is a Store backed by a SQLite file, so cached API pages and
// merged tables survive across CLI invocations.
type SQLite struct {
	conn *sql.DB
	now  func() time.Time
}

// OpenSQLite opens (or creates) the cache database at the given path and
// applies the schema. Use ":memory:" for an ephemeral database.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{conn: conn, now: time.Now}, nil
}

// Get returns the value for key if present and unexpired. Expired rows
// are deleted on read.
func (s *SQLite) Get(key string) ([]byte, bool, error) {
	var value []byte
	var expiresAt int64
	err := s.conn.QueryRow(
		"SELECT value, expires_at FROM cache_entries WHERE key = ?", key,
	).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	if s.now().Unix() > expiresAt {
		if _, err := s.conn.Exec("DELETE FROM cache_entries WHERE key = ?", key); err != nil {
			return nil, false, fmt.Errorf("cache evict: %w", err)
		}
		return nil, false, nil
	}
	return value, true, nil
}

// Set stores value under key for the given lifetime.
func (s *SQLite) Set(key string, value []byte, ttl time.Duration) error {
	expiresAt := s.now().Add(ttl).Unix()
	_, err := s.conn.Exec(
		"INSERT OR REPLACE INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)",
		key, value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// DeletePrefix removes every entry whose key starts with prefix. Cache
// keys never contain SQL LIKE metacharacters.
func (s *SQLite) DeletePrefix(prefix string) error {
	_, err := s.conn.Exec("DELETE FROM cache_entries WHERE key LIKE ? || '%'", prefix)
	if err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}
