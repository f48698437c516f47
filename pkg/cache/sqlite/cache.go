// Package sqlite is a Cache backend that keeps entries in a local SQLite
// file. It serves offline use and development without a triple store.
package sqlite

import (
	"context"
	"database/sql"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/gait-ai/gait/pkg/cache"
	"github.com/gait-ai/gait/pkg/errors"
	"github.com/gait-ai/gait/pkg/logger"
	"github.com/gait-ai/gait/pkg/models"
)

// Cache is an exact-match prompt cache backed by SQLite.
type Cache struct {
	db     *sql.DB
	ttl    time.Duration
	now    cache.Clock
	log    *zap.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

var _ cache.Cache = (*Cache)(nil)

const createCacheTable = `
CREATE TABLE IF NOT EXISTS cache_entries (
	prompt_key TEXT PRIMARY KEY,
	prompt TEXT NOT NULL,
	result TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
`

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the wall clock used for timestamps and expiry.
func WithClock(now cache.Clock) Option {
	return func(c *Cache) { c.now = now }
}

// New opens (or creates) the cache database at dbPath.
func New(dbPath string, ttl time.Duration, l *zap.Logger, opts ...Option) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open cache db")
	}

	if _, err := db.Exec(createCacheTable); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate cache db")
	}

	c := &Cache{db: db, ttl: ttl, now: cache.SystemClock, log: logger.Component(l, "cache.sqlite")}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the entry for prompt. An expired entry is deleted and reported
// as a miss.
func (c *Cache) Get(ctx context.Context, prompt string) (models.CacheEntry, bool) {
	key := cache.KeyFor(prompt)

	var e models.CacheEntry
	var createdAt int64
	err := c.db.QueryRowContext(ctx,
		`SELECT prompt, result, created_at FROM cache_entries WHERE prompt_key = ?`, key,
	).Scan(&e.Prompt, &e.Result, &createdAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.log.Warn("cache read failed, treating as miss",
				zap.String(logger.FieldPromptKey, key), zap.Error(err))
		}
		c.misses.Add(1)
		return models.CacheEntry{}, false
	}
	e.PromptKey = key
	e.CreatedAt = time.Unix(0, createdAt).UTC()

	if e.Expired(c.now(), c.ttl) {
		if err := c.Delete(ctx, prompt); err != nil {
			c.log.Warn("delete expired entry", zap.String(logger.FieldPromptKey, key), zap.Error(err))
		}
		c.misses.Add(1)
		return models.CacheEntry{}, false
	}

	c.hits.Add(1)
	return e, true
}

// Put stores payload for prompt, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, prompt, payload string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cache_entries (prompt_key, prompt, result, created_at)
		 VALUES (?, ?, ?, ?)`,
		cache.KeyFor(prompt), cache.Normalize(prompt), payload, c.now().UnixNano(),
	)
	if err != nil {
		return errors.Wrap(errors.Mark(err, errors.ErrCacheUnavailable), "cache put")
	}
	return nil
}

// Delete removes the entry for prompt if there is one.
func (c *Cache) Delete(ctx context.Context, prompt string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE prompt_key = ?`, cache.KeyFor(prompt))
	if err != nil {
		return errors.Wrap(errors.Mark(err, errors.ErrCacheUnavailable), "cache delete")
	}
	return nil
}

// Stats returns cache performance metrics.
func (c *Cache) Stats(ctx context.Context) (models.CacheStats, error) {
	var count int64
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cache_entries`).Scan(&count)
	if err != nil {
		return models.CacheStats{}, errors.Wrap(err, "cache stats")
	}
	return models.CacheStats{
		Entries: count,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}, nil
}

// Clear removes cache entries. If expiredOnly is true, only expired entries are removed.
func (c *Cache) Clear(ctx context.Context, expiredOnly bool) error {
	var err error
	if expiredOnly {
		cutoff := c.now().Add(-c.ttl).UnixNano()
		_, err = c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE created_at <= ?`, cutoff)
	} else {
		_, err = c.db.ExecContext(ctx, `DELETE FROM cache_entries`)
	}
	if err != nil {
		return errors.Wrap(err, "cache clear")
	}
	return nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}
