package query

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Costin94/LiveOn-Ecommerce/internal/dto"
)

const productKeyPrefix = "product:view:"

// DefaultProductCacheTTL bounds how stale a cached product view may get.
const DefaultProductCacheTTL = 5 * time.Minute

// ProductCache is a read-through Redis cache for single-product views.
// A nil client disables caching; every method becomes a no-op miss.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache creates a product view cache. Pass a nil client to run
// without Redis.
func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = DefaultProductCacheTTL
	}
	return &ProductCache{client: client, ttl: ttl}
}

// Get returns the cached view for a product, or nil on a miss. Cache
// errors are reported so callers can log and fall through to the store.
func (c *ProductCache) Get(ctx context.Context, id int64) (*dto.ProductView, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get product view: %w", err)
	}

	var view dto.ProductView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("unmarshal product view: %w", err)
	}
	return &view, nil
}

// Set stores a view with the configured TTL.
func (c *ProductCache) Set(ctx context.Context, view *dto.ProductView) error {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal product view: %w", err)
	}
	if err := c.client.Set(ctx, productKey(view.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set product view: %w", err)
	}
	return nil
}

// Invalidate drops the cached view for a product.
func (c *ProductCache) Invalidate(ctx context.Context, id int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, productKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del product view: %w", err)
	}
	return nil
}

func productKey(id int64) string {
	return fmt.Sprintf("%s%d", productKeyPrefix, id)
}
