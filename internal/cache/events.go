package cache

import (
	"context"

	"github.com/google/uuid"
)

// Cache implements domain.MutationEvents by dropping the affected keys.
// The core fires these after every successful mutation; what happens to
// the cached entries is decided here, not in the engine.

// OnCollectionListChanged invalidates the collection listing.
func (c *Cache) OnCollectionListChanged(ctx context.Context) {
	c.del(ctx, listKey)
}

// OnCollectionChanged invalidates one collection's detail view.
func (c *Cache) OnCollectionChanged(ctx context.Context, id uuid.UUID) {
	c.del(ctx, detailKey(id))
}

// OnCollectionPaymentsChanged invalidates one collection's payment feed.
func (c *Cache) OnCollectionPaymentsChanged(ctx context.Context, id uuid.UUID) {
	c.del(ctx, feedKey(id))
}

func (c *Cache) del(ctx context.Context, key string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache invalidation failed")
	}
}
