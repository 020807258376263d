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

const cartSnapshotTTL = 15 * time.Minute

// RedisCartCache stores the per-user cart snapshot as JSON under
// cart:<userID>.
type RedisCartCache struct {
	rdb *redis.Client
}

func NewRedisCartCache(rdb *redis.Client) *RedisCartCache {
	return &RedisCartCache{rdb: rdb}
}

func (c *RedisCartCache) Get(ctx context.Context, userID int) (*entity.Cart, error) {
	val, err := c.rdb.Get(ctx, cartKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cart entity.Cart
	if err := json.Unmarshal([]byte(val), &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

func (c *RedisCartCache) Set(ctx context.Context, userID int, cart entity.Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cartKey(userID), payload, cartSnapshotTTL).Err()
}

func (c *RedisCartCache) Invalidate(ctx context.Context, userID int) error {
	return c.rdb.Del(ctx, cartKey(userID)).Err()
}

func cartKey(userID int) string {
	return fmt.Sprintf("cart:%d", userID)
}
