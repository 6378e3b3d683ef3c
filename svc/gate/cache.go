package gate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/confeitech/bakekit/pkg/plan"
)

// CountCache decorates a DataStore with a short-TTL Redis cache for
// record counts, which run on every create attempt. Cache failures fall
// through to the wrapped store: a broken cache slows checks down but never
// changes their answer.
//
// Fetches are never cached; the partitioner always sees fresh lists.
type CountCache struct {
	next DataStore
	rdb  *redis.Client
	ttl  time.Duration
}

// NewCountCache wraps next with a count cache. Panics if next or rdb is
// nil. A non-positive TTL defaults to 30 seconds.
func NewCountCache(next DataStore, rdb *redis.Client, ttl time.Duration) *CountCache {
	if next == nil {
		panic("gate: wrapped data store is required")
	}
	if rdb == nil {
		panic("gate: redis client is required")
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CountCache{next: next, rdb: rdb, ttl: ttl}
}

func countKey(tenantID uuid.UUID, res plan.Resource, since *time.Time) string {
	if since == nil {
		return fmt.Sprintf("bakekit:count:%s:%s", tenantID, res)
	}
	return fmt.Sprintf("bakekit:count:%s:%s:%d", tenantID, res, since.Unix())
}

// CountRecords implements DataStore.
func (c *CountCache) CountRecords(ctx context.Context, tenantID uuid.UUID, res plan.Resource, since *time.Time) (int64, error) {
	key := countKey(tenantID, res, since)

	if cached, err := c.rdb.Get(ctx, key).Result(); err == nil {
		if count, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
			return count, nil
		}
	}

	count, err := c.next.CountRecords(ctx, tenantID, res, since)
	if err != nil {
		return 0, err
	}

	// Best effort: a failed SET only costs the next call a recount.
	c.rdb.Set(ctx, key, strconv.FormatInt(count, 10), c.ttl)

	return count, nil
}

// FetchRecords implements DataStore by delegating to the wrapped store.
func (c *CountCache) FetchRecords(ctx context.Context, tenantID uuid.UUID, res plan.Resource) ([]Record, error) {
	return c.next.FetchRecords(ctx, tenantID, res)
}

// Invalidate implements Invalidator: it drops the tenant's cached counts
// for a resource so the next check recounts against the store.
func (c *CountCache) Invalidate(ctx context.Context, tenantID uuid.UUID, res plan.Resource) {
	pattern := fmt.Sprintf("bakekit:count:%s:%s*", tenantID, res)

	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		c.rdb.Del(ctx, iter.Val())
	}
}
