package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Cache is SQLite-backed general storage for non-secret session data: the
// cached user profile and last-known screen snapshots for offline rendering.
type Cache struct {
	conn *sql.DB
}

// NewCache opens (creating if needed) the cache database at the given path
func NewCache(path string) (*Cache, error) {
	if path == "" {
		return nil, fmt.Errorf("cache path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// Single writer; the cache is only touched from one process
	conn.SetMaxOpenConns(1)

	c := &Cache{conn: conn}
	if err := c.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return c, nil
}

func (c *Cache) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS storage (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := c.conn.Exec(schema)
	return err
}

// Put stores a value under the key, replacing any existing value
func (c *Cache) Put(key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}

	query := `
		INSERT INTO storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := c.conn.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to write cache entry %q: %w", key, err)
	}
	return nil
}

// Get returns the value stored under the key, or nil when the key is absent
func (c *Cache) Get(key string) ([]byte, error) {
	var value []byte
	err := c.conn.QueryRow("SELECT value FROM storage WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry %q: %w", key, err)
	}
	return value, nil
}

// Delete removes the key. Deleting an absent key is a no-op.
func (c *Cache) Delete(key string) error {
	if _, err := c.conn.Exec("DELETE FROM storage WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete cache entry %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database
func (c *Cache) Close() error {
	return c.conn.Close()
}
