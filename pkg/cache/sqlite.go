package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cache_entries_expires ON cache_entries (expires_at);
`

// SQLiteCache implements Service on an embedded SQLite file so cached market
// data survives restarts without an external store.
type SQLiteCache struct {
	db         *sql.DB
	defaultTTL time.Duration
}

// NewSQLiteCache opens (or creates) the cache database at path.
func NewSQLiteCache(path string, opts ...SQLiteOption) (*SQLiteCache, error) {
	cfg := &SQLiteConfig{
		DefaultTTL: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	return &SQLiteCache{db: db, defaultTTL: cfg.DefaultTTL}, nil
}

func (c *SQLiteCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := marshalValue(value)
	if err != nil {
		return err
	}

	if expiration <= 0 {
		expiration = c.defaultTTL
	}
	expiresAt := time.Now().Add(expiration).UnixMilli()

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, data, expiresAt)
	return err
}

func (c *SQLiteCache) Get(ctx context.Context, key string, dest interface{}) error {
	var data []byte
	var expiresAt int64

	row := c.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM cache_entries WHERE key = ?`, key)
	if err := row.Scan(&data, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCacheMiss
		}
		return err
	}

	if expiresAt <= time.Now().UnixMilli() {
		_, _ = c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
		return ErrCacheMiss
	}

	return unmarshalValue(data, dest)
}

func (c *SQLiteCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	_, err := c.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE key IN (`+placeholders+`)`, args...)
	return err
}

func (c *SQLiteCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	for _, key := range keys {
		var expiresAt int64
		row := c.db.QueryRowContext(ctx,
			`SELECT expires_at FROM cache_entries WHERE key = ?`, key)
		if err := row.Scan(&expiresAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return false, err
		}
		if expiresAt > time.Now().UnixMilli() {
			return true, nil
		}
	}
	return false, nil
}

func (c *SQLiteCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	var expiresAt int64
	row := c.db.QueryRowContext(ctx,
		`SELECT expires_at FROM cache_entries WHERE key = ?`, key)
	if err := row.Scan(&expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrCacheMiss
		}
		return 0, err
	}

	remaining := time.Duration(expiresAt-time.Now().UnixMilli()) * time.Millisecond
	if remaining <= 0 {
		return 0, ErrCacheMiss
	}
	return remaining, nil
}

// Purge removes expired rows. The scheduler calls it periodically to keep the
// file from growing unbounded.
func (c *SQLiteCache) Purge(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE expires_at <= ?`, time.Now().UnixMilli())
	return err
}

// Close closes the database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
