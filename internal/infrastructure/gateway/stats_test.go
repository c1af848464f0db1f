package gateway

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestStatsTracker_Record(t *testing.T) {
	newTracker := func() (*StatsTracker, *MockProviderRepository) {
		repo := &MockProviderRepository{}
		repo.On("RecordUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		repo.On("ResetStats", mock.Anything, mock.Anything).Return(nil)
		return NewStatsTracker(repo, &MockLogger{}), repo
	}

	t.Run("并发记录N次成功后计数应该恰好为N", func(t *testing.T) {
		tracker, _ := newTracker()
		const n = 200

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tracker.RecordSuccess(context.Background(), 1, 100)
			}()
		}
		wg.Wait()

		snapshot := tracker.Snapshot(1)
		assert.Equal(t, int64(n), snapshot.UsageCount)
		assert.Equal(t, int64(n), snapshot.SuccessCount)
		assert.Equal(t, int64(0), snapshot.ErrorCount)
	})

	t.Run("成功与失败混合记录时计数不应该丢失", func(t *testing.T) {
		tracker, _ := newTracker()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				tracker.RecordSuccess(context.Background(), 1, 100)
			}()
			go func() {
				defer wg.Done()
				tracker.RecordError(context.Background(), 1)
			}()
		}
		wg.Wait()

		snapshot := tracker.Snapshot(1)
		assert.Equal(t, int64(100), snapshot.UsageCount)
		assert.Equal(t, int64(50), snapshot.SuccessCount)
		assert.Equal(t, int64(50), snapshot.ErrorCount)
	})

	t.Run("平均延迟应该按指数平滑更新", func(t *testing.T) {
		tracker, _ := newTracker()

		tracker.RecordSuccess(context.Background(), 1, 100)
		assert.Equal(t, float64(100), tracker.Snapshot(1).AvgResponseTimeMs)

		tracker.RecordSuccess(context.Background(), 1, 200)
		expected := ewmaAlpha*200 + (1-ewmaAlpha)*100
		assert.InDelta(t, expected, tracker.Snapshot(1).AvgResponseTimeMs, 0.001)
	})

	t.Run("失败不应该影响平均延迟", func(t *testing.T) {
		tracker, _ := newTracker()

		tracker.RecordSuccess(context.Background(), 1, 100)
		tracker.RecordError(context.Background(), 1)

		assert.Equal(t, float64(100), tracker.Snapshot(1).AvgResponseTimeMs)
	})

	t.Run("不同提供商的统计应该互相独立", func(t *testing.T) {
		tracker, _ := newTracker()

		tracker.RecordSuccess(context.Background(), 1, 100)
		tracker.RecordError(context.Background(), 2)

		assert.Equal(t, int64(1), tracker.Snapshot(1).SuccessCount)
		assert.Equal(t, int64(0), tracker.Snapshot(1).ErrorCount)
		assert.Equal(t, int64(1), tracker.Snapshot(2).ErrorCount)
	})

	t.Run("重置后统计应该归零并写透到仓库", func(t *testing.T) {
		tracker, repo := newTracker()

		tracker.RecordSuccess(context.Background(), 1, 100)
		err := tracker.Reset(context.Background(), 1)

		assert.NoError(t, err)
		assert.Equal(t, ProviderStats{}, tracker.Snapshot(1))
		repo.AssertCalled(t, "ResetStats", mock.Anything, int64(1))
	})

	t.Run("未记录过的提供商快照应该为零值", func(t *testing.T) {
		tracker, _ := newTracker()
		assert.Equal(t, ProviderStats{}, tracker.Snapshot(99))
	})
}
