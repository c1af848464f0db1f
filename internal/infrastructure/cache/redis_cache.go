package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"

	"ai-analysis-gateway/internal/infrastructure/logger"
)

// RedisCache 基于Redis的请求缓存。TTL由Redis原生过期实现，
// 命中/未命中计数在本进程内维护。
type RedisCache struct {
	client *redis.Client
	prefix string
	logger logger.Logger

	hits   int64
	misses int64
}

// NewRedisCache 创建Redis缓存，keyTag用于隔离不同用途的键空间
func NewRedisCache(client *redis.Client, keyTag string, log logger.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: fmt.Sprintf("cache:%s:", keyTag),
		logger: log,
	}
}

// Lookup 按指纹查找缓存结果
func (c *RedisCache) Lookup(ctx context.Context, fingerprint string) (string, bool) {
	result, err := c.client.Get(ctx, c.prefix+fingerprint).Result()
	if err == redis.Nil {
		atomic.AddInt64(&c.misses, 1)
		return "", false
	}
	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"fingerprint": fingerprint,
			"error":       err.Error(),
		}).Warn("Redis cache lookup failed, treating as miss")
		atomic.AddInt64(&c.misses, 1)
		return "", false
	}

	atomic.AddInt64(&c.hits, 1)
	return result, true
}

// Store 写入缓存条目
func (c *RedisCache) Store(ctx context.Context, fingerprint string, result string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+fingerprint, result, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Invalidate 删除指定指纹的条目
func (c *RedisCache) Invalidate(ctx context.Context, fingerprint string) error {
	if err := c.client.Del(ctx, c.prefix+fingerprint).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache entry: %w", err)
	}
	return nil
}

// Clear 清空本键空间下的所有条目，返回删除数量。
// 使用SCAN分批删除，避免KEYS阻塞Redis。
func (c *RedisCache) Clear(ctx context.Context) (int, error) {
	var total int
	var cursor uint64

	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", 500).Result()
		if err != nil {
			return total, fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return total, fmt.Errorf("failed to delete cache keys: %w", err)
			}
			total += int(deleted)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return total, nil
}

// Stats 获取缓存统计。条目数通过SCAN近似统计。
func (c *RedisCache) Stats(ctx context.Context) CacheStats {
	var entries int64
	var cursor uint64

	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", 500).Result()
		if err != nil {
			break
		}
		entries += int64(len(keys))
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return CacheStats{
		Hits:    atomic.LoadInt64(&c.hits),
		Misses:  atomic.LoadInt64(&c.misses),
		Entries: entries,
	}
}

// 保证实现满足接口
var _ RequestCache = (*RedisCache)(nil)
