package cache

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteCache is a translation cache persisted in a SQLite file, so a
// single-node deployment keeps its warm cache across restarts.
type SQLiteCache struct {
	db     *sql.DB
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

const createTranslationsTable = `
CREATE TABLE IF NOT EXISTS translations (
	cache_key  TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
`

// NewSQLiteCache opens (or creates) the cache database at path.
// A zero ttl keeps entries forever.
func NewSQLiteCache(path string, ttl time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	// One writer at a time; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTranslationsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	if ttl < 0 {
		ttl = 0
	}
	return &SQLiteCache{db: db, ttl: ttl}, nil
}

// Get retrieves a value. Missing, expired and unreadable rows are misses.
func (c *SQLiteCache) Get(key string) (string, bool) {
	var value string
	var createdAt int64

	err := c.db.QueryRow(
		`SELECT value, created_at FROM translations WHERE cache_key = ?`, key,
	).Scan(&value, &createdAt)
	if err != nil {
		c.misses.Add(1)
		return "", false
	}

	if c.ttl > 0 && time.Since(time.Unix(0, createdAt)) > c.ttl {
		c.misses.Add(1)
		return "", false
	}

	c.hits.Add(1)
	return value, true
}

// Set stores a value, replacing any previous one.
func (c *SQLiteCache) Set(key string, value string) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO translations (cache_key, value, created_at) VALUES (?, ?, ?)`,
		key, value, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Stats returns the row count and lookup counters.
func (c *SQLiteCache) Stats() (Stats, error) {
	var count int64
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM translations`).Scan(&count); err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	return Stats{
		Entries: count,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}, nil
}

// Clear removes every entry.
func (c *SQLiteCache) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM translations`); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

// ClearExpired removes entries older than the TTL and returns how many
// were deleted. Without a TTL nothing expires.
func (c *SQLiteCache) ClearExpired() (int64, error) {
	if c.ttl == 0 {
		return 0, nil
	}

	cutoff := time.Now().Add(-c.ttl).UnixNano()
	res, err := c.db.Exec(`DELETE FROM translations WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cache clear expired: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the database connection.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

var (
	_ TranslationCache = (*SQLiteCache)(nil)
	_ Store            = (*SQLiteCache)(nil)
)
