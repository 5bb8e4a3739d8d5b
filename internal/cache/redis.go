package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis is a Store backed by a shared Redis instance, for deployments running
// more than one process. Backend errors degrade to cache misses; enrichment
// must never fail because the cache is down.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// NewRedis creates a Redis-backed store. The prefix namespaces keys so the
// brand and market caches can share one database.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, prefix: prefix, logger: logger}
}

func (r *Redis) key(k string) string {
	return r.prefix + ":" + k
}

// Get returns the cached value if present.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		r.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return val, true
}

// Set stores value under key with the store's TTL.
func (r *Redis) Set(ctx context.Context, key string, value []byte) {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		r.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Has reports whether an entry exists for key.
func (r *Redis) Has(ctx context.Context, key string) bool {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		r.logger.Warn("cache exists failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return n > 0
}
