// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package composition

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLookupCache implements [LookupCache] on a shared Redis client.
//
// # Degradation
//
// The cache sits in front of the execute hot path, so it must never make a
// request worse than a cache miss: every Redis or codec failure is swallowed,
// logged at debug level, and treated as a miss. Entries are JSON-encoded and
// expire after the configured TTL; writes to the cached entities invalidate
// eagerly and the TTL is the staleness backstop.
type RedisLookupCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisLookupCache constructs a lookup cache with the given TTL.
func NewRedisLookupCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisLookupCache {
	return &RedisLookupCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get loads and decodes the entry for key into target. False means miss.
func (cache *RedisLookupCache) Get(context context.Context, key string, target any) bool {
	payload, err := cache.client.Get(context, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			cache.logger.Debug("lookup_cache_read_failed",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}
		return false
	}

	if err := json.Unmarshal(payload, target); err != nil {
		cache.logger.Debug("lookup_cache_decode_failed", slog.String("key", key))
		return false
	}

	return true
}

// Set stores value under key, best effort.
func (cache *RedisLookupCache) Set(context context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		cache.logger.Debug("lookup_cache_encode_failed", slog.String("key", key))
		return
	}

	if err := cache.client.Set(context, key, payload, cache.ttl).Err(); err != nil {
		cache.logger.Debug("lookup_cache_write_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}

// Delete drops the given keys, best effort.
func (cache *RedisLookupCache) Delete(context context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}

	if err := cache.client.Del(context, keys...).Err(); err != nil {
		cache.logger.Debug("lookup_cache_delete_failed", slog.Any("error", err))
	}
}
