// Package redis provides the Redis-backed item cache and login rate limiter.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/domain"
)

// DefaultItemTTL is used when NewItemCache is given a non-positive TTL.
const DefaultItemTTL = 15 * time.Minute

var _ domain.ItemCache = (*ItemCache)(nil)

// ItemCache stores catalogue items as JSON under item:<id>.
type ItemCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

// NewItemCache creates a cache whose entries live for baseTTL plus jitter.
func NewItemCache(client *redis.Client, baseTTL time.Duration) *ItemCache {
	if baseTTL <= 0 {
		baseTTL = DefaultItemTTL
	}
	return &ItemCache{client: client, baseTTL: baseTTL}
}

// GetItem returns domain.ErrCacheMiss when the key is absent.
func (c *ItemCache) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	data, err := c.client.Get(ctx, itemKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var it domain.Item
	if err := json.Unmarshal(data, &it); err != nil {
		return nil, fmt.Errorf("unmarshal item failed: %w", err)
	}
	return &it, nil
}

// SetItem caches the item. Expiry is spread by up to a fifth of the base TTL
// so entries written together do not expire together.
func (c *ItemCache) SetItem(ctx context.Context, it *domain.Item) error {
	data, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("marshal item failed: %w", err)
	}
	if err := c.client.Set(ctx, itemKey(it.ID), data, c.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *ItemCache) ttl() time.Duration {
	spread := int64(c.baseTTL / 5)
	if spread <= 0 {
		return c.baseTTL
	}
	return c.baseTTL + time.Duration(rand.Int63n(spread))
}

func itemKey(id int64) string {
	return fmt.Sprintf("item:%d", id)
}
