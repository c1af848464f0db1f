package gateway

import (
	"context"
	"sync"

	"ai-analysis-gateway/internal/domain/repositories"
	"ai-analysis-gateway/internal/infrastructure/logger"
)

// ewmaAlpha 平均延迟的指数平滑系数，只保留滚动均值不存历史
const ewmaAlpha = 0.3

// ProviderStats 单个提供商的统计快照
type ProviderStats struct {
	UsageCount        int64   `json:"usage_count"`
	SuccessCount      int64   `json:"success_count"`
	ErrorCount        int64   `json:"error_count"`
	AvgResponseTimeMs float64 `json:"avg_response_time_ms"`
}

// StatsTracker 并发安全的提供商使用统计。内存中维护计数与EWMA延迟，
// 每次记录后以单条原子SQL写透到仓库，调度器与健康检查可同时写入。
type StatsTracker struct {
	mu     sync.Mutex
	stats  map[int64]*ProviderStats
	repo   repositories.ProviderRepository
	logger logger.Logger
}

// NewStatsTracker 创建统计跟踪器
func NewStatsTracker(repo repositories.ProviderRepository, log logger.Logger) *StatsTracker {
	return &StatsTracker{
		stats:  make(map[int64]*ProviderStats),
		repo:   repo,
		logger: log,
	}
}

// RecordSuccess 记录一次成功调用及其延迟
func (t *StatsTracker) RecordSuccess(ctx context.Context, providerID int64, elapsedMs int64) {
	t.mu.Lock()
	s := t.ensure(providerID)
	s.UsageCount++
	s.SuccessCount++
	if s.AvgResponseTimeMs == 0 {
		s.AvgResponseTimeMs = float64(elapsedMs)
	} else {
		s.AvgResponseTimeMs = ewmaAlpha*float64(elapsedMs) + (1-ewmaAlpha)*s.AvgResponseTimeMs
	}
	avg := s.AvgResponseTimeMs
	t.mu.Unlock()

	t.persist(ctx, providerID, true, avg)
}

// RecordError 记录一次失败调用
func (t *StatsTracker) RecordError(ctx context.Context, providerID int64) {
	t.mu.Lock()
	s := t.ensure(providerID)
	s.UsageCount++
	s.ErrorCount++
	avg := s.AvgResponseTimeMs
	t.mu.Unlock()

	t.persist(ctx, providerID, false, avg)
}

// Snapshot 获取提供商的统计快照
func (t *StatsTracker) Snapshot(providerID int64) ProviderStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.stats[providerID]; ok {
		return *s
	}
	return ProviderStats{}
}

// Reset 重置提供商统计（管理操作，可与在途请求并发执行）
func (t *StatsTracker) Reset(ctx context.Context, providerID int64) error {
	t.mu.Lock()
	delete(t.stats, providerID)
	t.mu.Unlock()

	if err := t.repo.ResetStats(ctx, providerID); err != nil {
		return err
	}
	return nil
}

// ensure 调用方必须持有锁
func (t *StatsTracker) ensure(providerID int64) *ProviderStats {
	s, ok := t.stats[providerID]
	if !ok {
		s = &ProviderStats{}
		t.stats[providerID] = s
	}
	return s
}

// persist 写透到仓库，失败只告警不影响请求路径
func (t *StatsTracker) persist(ctx context.Context, providerID int64, success bool, avgMs float64) {
	if err := t.repo.RecordUsage(ctx, providerID, success, avgMs); err != nil {
		t.logger.WithFields(map[string]interface{}{
			"provider_id": providerID,
			"error":       err.Error(),
		}).Warn("Failed to persist provider usage stats")
	}
}
