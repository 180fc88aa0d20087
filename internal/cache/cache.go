package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Key layout shared with earlier deployments; changing it orphans
// entries until they expire.
const listKey = "collect_list_v1"

func detailKey(id uuid.UUID) string { return "collect_detail_" + id.String() }
func feedKey(id uuid.UUID) string   { return "collect_feed_" + id.String() }

// Cache is the redis-backed read-through cache for the query surface
// and the consumer of the core's mutation events. A nil *Cache is
// valid and does nothing, so the core runs unchanged without redis.
type Cache struct {
	rdb *goredis.Client
	ttl time.Duration
	log zerolog.Logger
}

// New connects to redis and verifies the connection. When addr is
// empty, nil is returned: caching is optional.
func New(addr string, ttl time.Duration, log zerolog.Logger) (*Cache, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Cache{rdb: rdb, ttl: ttl, log: log}, nil
}

// Close releases the redis connection.
func (c *Cache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// GetJSON loads a cached value into dest, reporting whether it was
// present. Cache failures are logged and treated as misses; the store
// remains the source of truth.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache entry corrupt, dropping")
		c.rdb.Del(ctx, key)
		return false
	}
	return true
}

// SetJSON stores a value under key for the configured lifetime.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache marshal failed")
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// ListKey returns the collection listing cache key.
func (c *Cache) ListKey() string { return listKey }

// DetailKey returns the cache key for one collection's detail view.
func (c *Cache) DetailKey(id uuid.UUID) string { return detailKey(id) }

// FeedKey returns the cache key for one collection's payment feed.
func (c *Cache) FeedKey(id uuid.UUID) string { return feedKey(id) }
