package idem

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store interface {
	// PutNX claims key for ttl; false means it was already claimed.
	PutNX(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type redisStore struct{ r *redis.Client }

func New(rdb *redis.Client) Store {
	return &redisStore{r: rdb}
}

func (s *redisStore) PutNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.r.SetNX(ctx, "idem:"+key, "1", ttl).Result()
}

func (s *redisStore) Release(ctx context.Context, key string) error {
	return s.r.Del(ctx, "idem:"+key).Err()
}

// Nop accepts every key; used when no Redis is configured.
type Nop struct{}

func (Nop) PutNX(context.Context, string, time.Duration) (bool, error) { return true, nil }
func (Nop) Release(context.Context, string) error                      { return nil }
