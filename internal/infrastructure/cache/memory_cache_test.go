package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("写入后应该能按指纹查到结果", func(t *testing.T) {
		c := NewMemoryCache(time.Minute)
		defer c.Close()

		err := c.Store(ctx, "fp-1", "result-1", time.Hour)
		assert.NoError(t, err)

		result, hit := c.Lookup(ctx, "fp-1")
		assert.True(t, hit)
		assert.Equal(t, "result-1", result)
	})

	t.Run("未写入的指纹应该未命中", func(t *testing.T) {
		c := NewMemoryCache(time.Minute)
		defer c.Close()

		_, hit := c.Lookup(ctx, "missing")
		assert.False(t, hit)
	})

	t.Run("过期条目应该视同不存在", func(t *testing.T) {
		c := NewMemoryCache(time.Minute)
		defer c.Close()

		err := c.Store(ctx, "fp-expire", "result", 10*time.Millisecond)
		assert.NoError(t, err)

		_, hit := c.Lookup(ctx, "fp-expire")
		assert.True(t, hit)

		time.Sleep(20 * time.Millisecond)

		_, hit = c.Lookup(ctx, "fp-expire")
		assert.False(t, hit)
	})

	t.Run("Invalidate应该删除指定条目", func(t *testing.T) {
		c := NewMemoryCache(time.Minute)
		defer c.Close()

		assert.NoError(t, c.Store(ctx, "fp-1", "result", time.Hour))
		assert.NoError(t, c.Invalidate(ctx, "fp-1"))

		_, hit := c.Lookup(ctx, "fp-1")
		assert.False(t, hit)
	})

	t.Run("Clear应该返回删除的条目数", func(t *testing.T) {
		c := NewMemoryCache(time.Minute)
		defer c.Close()

		for i := 0; i < 5; i++ {
			assert.NoError(t, c.Store(ctx, fmt.Sprintf("fp-%d", i), "result", time.Hour))
		}

		removed, err := c.Clear(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 5, removed)

		stats := c.Stats(ctx)
		assert.Equal(t, int64(0), stats.Entries)
	})

	t.Run("统计应该区分命中与未命中", func(t *testing.T) {
		c := NewMemoryCache(time.Minute)
		defer c.Close()

		assert.NoError(t, c.Store(ctx, "fp-1", "result", time.Hour))

		c.Lookup(ctx, "fp-1")
		c.Lookup(ctx, "fp-1")
		c.Lookup(ctx, "missing")

		stats := c.Stats(ctx)
		assert.Equal(t, int64(2), stats.Hits)
		assert.Equal(t, int64(1), stats.Misses)
		assert.Equal(t, int64(1), stats.Entries)
	})

	t.Run("并发读写不应该丢失数据或竞争", func(t *testing.T) {
		c := NewMemoryCache(time.Minute)
		defer c.Close()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func(n int) {
				defer wg.Done()
				_ = c.Store(ctx, fmt.Sprintf("fp-%d", n), "result", time.Hour)
			}(i)
			go func(n int) {
				defer wg.Done()
				c.Lookup(ctx, fmt.Sprintf("fp-%d", n))
			}(i)
		}
		wg.Wait()

		stats := c.Stats(ctx)
		assert.Equal(t, int64(50), stats.Entries)
	})
}
