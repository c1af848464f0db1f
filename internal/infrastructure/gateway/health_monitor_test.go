package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ai-analysis-gateway/internal/domain/entities"
	"ai-analysis-gateway/internal/infrastructure/config"
)

func newTestMonitor(repo *MockProviderRepository, llm *MockLLMClient) *HealthMonitor {
	cfg := &config.HealthCheckConfig{
		Enabled:  true,
		Interval: time.Hour, // 测试中不触发周期检查
		Timeout:  time.Second,
	}
	return NewHealthMonitor(repo, llm, cfg, &MockLogger{})
}

func TestHealthMonitor_TriggerNow(t *testing.T) {
	viper.Set("health_check.interval", time.Hour)
	t.Cleanup(func() { viper.Set("health_check.interval", nil) })

	t.Run("手动触发应该探测所有启用的提供商并写回状态", func(t *testing.T) {
		repo := &MockProviderRepository{}
		llm := &MockLLMClient{}
		monitor := newTestMonitor(repo, llm)

		healthy := textProvider(1, "healthy", 1, entities.HealthStatusUnknown, 0)
		broken := textProvider(2, "broken", 2, entities.HealthStatusUnknown, 0)
		repo.On("List", mock.Anything, true).Return([]entities.Provider{healthy, broken}, nil)
		repo.On("UpdateHealth", mock.Anything, int64(1), entities.HealthStatusAvailable, mock.Anything).Return(nil)
		repo.On("UpdateHealth", mock.Anything, int64(2), entities.HealthStatusUnavailable, mock.Anything).Return(nil)

		llm.On("HealthCheck", mock.Anything, mock.MatchedBy(func(p *entities.Provider) bool { return p.ID == 1 })).Return(nil)
		llm.On("HealthCheck", mock.Anything, mock.MatchedBy(func(p *entities.Provider) bool { return p.ID == 2 })).
			Return(errors.New("connection refused"))

		monitor.Start(context.Background())
		defer monitor.Stop()

		results, err := monitor.TriggerNow(context.Background())

		assert.NoError(t, err)
		assert.Len(t, results, 2)

		byID := make(map[int64]entities.HealthCheckResult)
		for _, r := range results {
			byID[r.ProviderID] = r
		}
		assert.True(t, byID[1].IsSuccess)
		assert.False(t, byID[2].IsSuccess)
		assert.Equal(t, "connection refused", byID[2].ErrorMessage)

		repo.AssertCalled(t, "UpdateHealth", mock.Anything, int64(1), entities.HealthStatusAvailable, mock.Anything)
		repo.AssertCalled(t, "UpdateHealth", mock.Anything, int64(2), entities.HealthStatusUnavailable, mock.Anything)
	})

	t.Run("触发后LastResults应该返回最近一轮结果", func(t *testing.T) {
		repo := &MockProviderRepository{}
		llm := &MockLLMClient{}
		monitor := newTestMonitor(repo, llm)

		provider := textProvider(1, "p", 1, entities.HealthStatusUnknown, 0)
		repo.On("List", mock.Anything, true).Return([]entities.Provider{provider}, nil)
		repo.On("UpdateHealth", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		llm.On("HealthCheck", mock.Anything, mock.Anything).Return(nil)

		monitor.Start(context.Background())
		defer monitor.Stop()

		assert.Empty(t, monitor.LastResults())

		_, err := monitor.TriggerNow(context.Background())
		assert.NoError(t, err)

		last := monitor.LastResults()
		assert.Len(t, last, 1)
		assert.Equal(t, int64(1), last[0].ProviderID)
		assert.True(t, last[0].IsSuccess)
	})

	t.Run("监控器停止后触发应该直接执行一轮检查", func(t *testing.T) {
		repo := &MockProviderRepository{}
		llm := &MockLLMClient{}
		monitor := newTestMonitor(repo, llm)

		provider := textProvider(1, "p", 1, entities.HealthStatusUnknown, 0)
		repo.On("List", mock.Anything, true).Return([]entities.Provider{provider}, nil)
		repo.On("UpdateHealth", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		llm.On("HealthCheck", mock.Anything, mock.Anything).Return(nil)

		monitor.Start(context.Background())
		monitor.Stop()

		results, err := monitor.TriggerNow(context.Background())
		assert.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("列表查询失败时应该返回空结果而不崩溃", func(t *testing.T) {
		repo := &MockProviderRepository{}
		llm := &MockLLMClient{}
		monitor := newTestMonitor(repo, llm)

		repo.On("List", mock.Anything, true).Return(nil, errors.New("db down"))

		monitor.Start(context.Background())
		defer monitor.Stop()

		results, err := monitor.TriggerNow(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, results)
	})
}
