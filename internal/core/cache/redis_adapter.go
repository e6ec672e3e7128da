package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoExpiry is returned when a coordination key is written without a TTL.
var ErrNoExpiry = errors.New("coordination keys require a ttl")

var advanceMarkScript = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if tonumber(ARGV[1]) > current then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
end
return current
`)

var restoreMarkScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[2]) <= 0 then
	redis.call("DEL", KEYS[1])
	return 1
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl > 0 then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ttl)
else
	redis.call("SET", KEYS[1], ARGV[2])
end
return 1
`)

// Option customizes a RedisAdapter.
type Option func(*RedisAdapter)

// WithNamespace prefixes every key written through the adapter.
func WithNamespace(ns string) Option {
	return func(r *RedisAdapter) { r.namespace = ns }
}

// RedisAdapter implements Cache on top of Redis.
type RedisAdapter struct {
	client    redis.UniversalClient
	namespace string
}

// NewRedisAdapter dials Redis from a URL of the form
// redis://[:password@]host[:port][/database]. poolSize <= 0 keeps the
// driver default.
func NewRedisAdapter(redisURL string, poolSize int, opts ...Option) (*RedisAdapter, error) {
	parsed, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if poolSize > 0 {
		parsed.PoolSize = poolSize
	}
	return NewRedisAdapterFromClient(redis.NewClient(parsed), opts...), nil
}

// NewRedisAdapterFromClient wraps an existing connection.
func NewRedisAdapterFromClient(client redis.UniversalClient, opts ...Option) *RedisAdapter {
	r := &RedisAdapter{client: client}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RedisAdapter) key(k string) string {
	if r.namespace == "" {
		return k
	}
	return r.namespace + ":" + k
}

// SetNX claims key for ttl.
func (r *RedisAdapter) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, fmt.Errorf("setnx %s: %w", key, ErrNoExpiry)
	}
	ok, err := r.client.SetNX(ctx, r.key(key), value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to setnx key %s: %w", key, err)
	}
	return ok, nil
}

// AdvanceMark raises the mark under key atomically.
func (r *RedisAdapter) AdvanceMark(ctx context.Context, key string, mark int64, ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return 0, fmt.Errorf("advance %s: %w", key, ErrNoExpiry)
	}
	prev, err := advanceMarkScript.Run(ctx, r.client, []string{r.key(key)}, mark, ttl.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to advance mark %s: %w", key, err)
	}
	return prev, nil
}

// RestoreMark rolls key back to previous if no newer mark was written since.
func (r *RedisAdapter) RestoreMark(ctx context.Context, key string, mark, previous int64) error {
	if err := restoreMarkScript.Run(ctx, r.client, []string{r.key(key)}, mark, previous).Err(); err != nil {
		return fmt.Errorf("failed to restore mark %s: %w", key, err)
	}
	return nil
}

// Ping checks if Redis is reachable.
func (r *RedisAdapter) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Client exposes the underlying connection for the shipment store, which
// needs transactions and sorted sets.
func (r *RedisAdapter) Client() redis.UniversalClient {
	return r.client
}

// Close closes the Redis connection.
func (r *RedisAdapter) Close() error {
	return r.client.Close()
}
