package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"storefront/internal/entity"
)

const productCacheTTL = 1 * time.Minute

// RedisProductCache is a read-through cache for single products, keyed
// product:<id>.
type RedisProductCache struct {
	rdb *redis.Client
}

func NewRedisProductCache(rdb *redis.Client) *RedisProductCache {
	return &RedisProductCache{rdb: rdb}
}

func (c *RedisProductCache) Get(ctx context.Context, productID int) (*entity.Product, error) {
	val, err := c.rdb.Get(ctx, productKey(productID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var product entity.Product
	if err := json.Unmarshal([]byte(val), &product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (c *RedisProductCache) Set(ctx context.Context, product entity.Product) error {
	payload, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, productKey(product.ID), payload, productCacheTTL).Err()
}

func productKey(productID int) string {
	return fmt.Sprintf("product:%d", productID)
}
