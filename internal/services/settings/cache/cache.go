// Package cache keeps the settings snapshot in Redis
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	perr "confsrv/internal/platform/errors"
	"confsrv/internal/services/settings/domain"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how stale a cached snapshot can get when invalidation is missed
const DefaultTTL = 5 * time.Minute

// Redis is a domain.Cache over one key per conference
type Redis struct {
	rdb redis.UniversalClient
	key string
	ttl time.Duration
}

// Key is the cache key for a conference's settings
func Key(confID string) string { return "confsrv:" + confID + ":settings" }

// New returns the cache; ttl <= 0 means DefaultTTL
func New(rdb redis.UniversalClient, confID string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{rdb: rdb, key: Key(confID), ttl: ttl}
}

// Get returns the cached snapshot; ok is false on a miss
func (c *Redis) Get(ctx context.Context) (domain.Snapshot, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Snapshot{}, false, nil
	}
	if err != nil {
		return domain.Snapshot{}, false, perr.Wrap(err, perr.ErrorCodeUnavailable, "read settings cache")
	}
	var rows []domain.Setting
	if err := json.Unmarshal(raw, &rows); err != nil {
		// a corrupt entry is a miss; the next Put overwrites it
		return domain.Snapshot{}, false, nil
	}
	return domain.NewSnapshot(rows), true, nil
}

// Put stores s with the cache TTL
func (c *Redis) Put(ctx context.Context, s domain.Snapshot) error {
	raw, err := json.Marshal(s.Rows())
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode settings cache")
	}
	if err := c.rdb.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "write settings cache")
	}
	return nil
}

// Drop invalidates the cached snapshot
func (c *Redis) Drop(ctx context.Context) error {
	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "drop settings cache")
	}
	return nil
}
