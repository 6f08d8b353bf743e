package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend is a Redis-backed cache layer, grounded on
// sweetpotato0-ai-allin's memory/store/redis.go client construction and
// namespacing-prefix pattern. Unlike LocalBackend, expiry is native to
// Redis (SET ... EX), so CompactExpired-style work is unnecessary and
// Keys returns empty.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// RedisConfig configures a RedisBackend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisBackend builds a RedisBackend from config.
func NewRedisBackend(cfg RedisConfig) *RedisBackend {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisBackend{client: client, prefix: cfg.Prefix}
}

func (b *RedisBackend) key(k string) string {
	return b.prefix + k
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := b.client.Get(ctx, b.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.client.Set(ctx, b.key(key), value, ttl).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	return b.client.Del(ctx, b.key(key)).Err()
}

// Keys returns nil: Redis expires entries natively, so the background
// maintainer has nothing to compact for this backend.
func (b *RedisBackend) Keys(context.Context) ([]string, error) {
	return nil, nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}

// Ping checks connectivity, used by the health reporter.
func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

var _ Backend = (*RedisBackend)(nil)
