package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// memoryEntry 内存缓存条目，写入后不可变
type memoryEntry struct {
	result    string
	createdAt time.Time
	ttl       time.Duration
}

// expired 检查条目是否已过期
func (e *memoryEntry) expired(now time.Time) bool {
	return now.After(e.createdAt.Add(e.ttl))
}

// MemoryCache 进程内请求缓存。读路径在命中过期条目时惰性清除，
// 另有后台janitor定期清扫，TTL语义不依赖外部存储。
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry

	hits   int64
	misses int64

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewMemoryCache 创建内存缓存，sweepInterval为后台清扫间隔（0表示不启动janitor）
func NewMemoryCache(sweepInterval time.Duration) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]*memoryEntry),
		stopCh:  make(chan struct{}),
	}
	if sweepInterval > 0 {
		go c.janitor(sweepInterval)
	}
	return c
}

// Lookup 按指纹查找缓存结果
func (c *MemoryCache) Lookup(ctx context.Context, fingerprint string) (string, bool) {
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.entries[fingerprint]
	c.mu.RUnlock()

	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return "", false
	}

	if entry.expired(now) {
		// 惰性清除过期条目
		c.mu.Lock()
		if cur, ok := c.entries[fingerprint]; ok && cur.expired(now) {
			delete(c.entries, fingerprint)
		}
		c.mu.Unlock()
		atomic.AddInt64(&c.misses, 1)
		return "", false
	}

	atomic.AddInt64(&c.hits, 1)
	return entry.result, true
}

// Store 写入缓存条目
func (c *MemoryCache) Store(ctx context.Context, fingerprint string, result string, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[fingerprint] = &memoryEntry{
		result:    result,
		createdAt: time.Now(),
		ttl:       ttl,
	}
	c.mu.Unlock()
	return nil
}

// Invalidate 删除指定指纹的条目
func (c *MemoryCache) Invalidate(ctx context.Context, fingerprint string) error {
	c.mu.Lock()
	delete(c.entries, fingerprint)
	c.mu.Unlock()
	return nil
}

// Clear 清空缓存，返回删除的条目数
func (c *MemoryCache) Clear(ctx context.Context) (int, error) {
	c.mu.Lock()
	count := len(c.entries)
	c.entries = make(map[string]*memoryEntry)
	c.mu.Unlock()
	return count, nil
}

// Stats 获取缓存统计
func (c *MemoryCache) Stats(ctx context.Context) CacheStats {
	c.mu.RLock()
	entries := int64(len(c.entries))
	c.mu.RUnlock()

	return CacheStats{
		Hits:    atomic.LoadInt64(&c.hits),
		Misses:  atomic.LoadInt64(&c.misses),
		Entries: entries,
	}
}

// Close 停止后台清扫
func (c *MemoryCache) Close() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

// janitor 定期清除过期条目，限制内存占用
func (c *MemoryCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, entry := range c.entries {
				if entry.expired(now) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// 保证实现满足接口
var _ RequestCache = (*MemoryCache)(nil)
