// Package cache provides a TTL cache for upstream catalog responses backed by BadgerDB.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const keyPrefix = "resp:"

// Cache stores JSON-encoded values with a fixed time to live.
// A nil *Cache is valid and never hits.
type Cache struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
}

// Open opens (or creates) a cache at path. An empty path keeps the cache in memory.
func Open(path string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil
	opts.ValueLogFileSize = 16 << 20

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}

	logger.Debug("response cache opened", "path", path, "ttl", ttl)
	return &Cache{db: db, ttl: ttl, logger: logger}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}

// Ping verifies the cache accepts reads.
func (c *Cache) Ping(_ context.Context) error {
	if c == nil {
		return errors.New("cache not configured")
	}
	if c.db.IsClosed() {
		return errors.New("cache closed")
	}
	return c.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyPrefix + "ping"))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// Get decodes the cached value for key into dest.
// Reports false when the key is absent or expired.
func (c *Cache) Get(_ context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key for the cache TTL.
func (c *Cache) Set(_ context.Context, key string, value any) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}

	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(keyPrefix+key), data)
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Delete removes key. Missing keys are not an error.
func (c *Cache) Delete(_ context.Context, key string) error {
	if c == nil {
		return nil
	}
	return c.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(keyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// Fetch returns the cached value for key, calling fn and caching its result on a miss.
// Cache read and write failures are logged and otherwise ignored.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	if hit, err := c.Get(ctx, key, &cached); err != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
	} else if hit {
		return cached, nil
	}

	v, err := fn(ctx)
	if err != nil {
		return v, err
	}

	if err := c.Set(ctx, key, v); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
	return v, nil
}
