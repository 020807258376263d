package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisSessionStore keeps issued tokens under session:<email>. Get returns
// an empty string when no session exists.
type RedisSessionStore struct {
	rdb *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func (s *RedisSessionStore) Set(ctx context.Context, email, token string, ttl time.Duration) error {
	return s.rdb.Set(ctx, sessionKey(email), token, ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, email string) (string, error) {
	val, err := s.rdb.Get(ctx, sessionKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return val, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, sessionKey(email)).Err()
}

func sessionKey(email string) string {
	return fmt.Sprintf("session:%s", email)
}
