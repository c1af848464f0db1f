package cache

import (
	"context"
	"time"
)

// CacheStats 缓存统计信息
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int64 `json:"entries"`
}

// RequestCache 分析结果缓存接口。指纹由调用方计算，
// 条目写入后不可变，过期条目视同不存在（允许惰性清除）。
type RequestCache interface {
	// Lookup 按指纹查找缓存结果，过期条目视为未命中
	Lookup(ctx context.Context, fingerprint string) (string, bool)

	// Store 写入缓存条目
	Store(ctx context.Context, fingerprint string, result string, ttl time.Duration) error

	// Invalidate 删除指定指纹的条目
	Invalidate(ctx context.Context, fingerprint string) error

	// Clear 清空缓存，返回删除的条目数（管理操作，可与在途请求并发）
	Clear(ctx context.Context) (int, error)

	// Stats 获取命中/未命中/条目数统计
	Stats(ctx context.Context) CacheStats
}
