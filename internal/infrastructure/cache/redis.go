package cache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yankele13-cmyk/gaddoors-sub000/internal/usecase/interfaces"
)

type redisCache struct {
	client      *redis.Client
	serviceName string
}

var _ interfaces.ICache = (*redisCache)(nil)

// NewRedisCache returns the Redis-backed cache used by the dashboard read
// side. addr is host:port.
func NewRedisCache(addr, serviceName string) interfaces.ICache {
	return &redisCache{
		client:      redis.NewClient(&redis.Options{Addr: addr}),
		serviceName: serviceName,
	}
}

// NewRedisCacheFromEnv returns nil when REDIS_ADDR is unset; callers treat a
// nil cache as "recompute every time".
func NewRedisCacheFromEnv(serviceName string) interfaces.ICache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	return NewRedisCache(addr, serviceName)
}

func (r *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *redisCache) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.serviceName, operation, key)
}
