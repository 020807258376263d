package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const idempotencyTTL = 24 * time.Hour

// RedisIdempotencyStore claims checkout idempotency keys with SETNX under
// idempotent-key:<key>. Claim reports false when the key was already taken.
type RedisIdempotencyStore struct {
	rdb *redis.Client
}

func NewRedisIdempotencyStore(rdb *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{rdb: rdb}
}

func (s *RedisIdempotencyStore) Claim(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("idempotent-key:%s", key)
	return s.rdb.SetNX(ctx, redisKey, "exists", idempotencyTTL).Result()
}
