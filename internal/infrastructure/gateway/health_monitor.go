package gateway

import (
	"context"
	"sync"
	"time"

	"ai-analysis-gateway/internal/domain/entities"
	"ai-analysis-gateway/internal/domain/repositories"
	"ai-analysis-gateway/internal/infrastructure/clients"
	"ai-analysis-gateway/internal/infrastructure/config"
	"ai-analysis-gateway/internal/infrastructure/logger"
)

// HealthMonitor 后台健康监控器。独立于请求路径按固定间隔探测所有
// 启用的提供商，结果写回注册表；支持管理端手动触发一轮检查而不打乱
// 周期调度。探测与请求调度共享提供商状态但不共享控制路径。
type HealthMonitor struct {
	providerRepo repositories.ProviderRepository
	llmClient    clients.LLMClient
	cfg          *config.HealthCheckConfig
	logger       logger.Logger

	mu          sync.RWMutex
	lastResults map[int64]entities.HealthCheckResult

	triggerCh chan chan []entities.HealthCheckResult
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewHealthMonitor 创建健康监控器
func NewHealthMonitor(
	providerRepo repositories.ProviderRepository,
	llmClient clients.LLMClient,
	cfg *config.HealthCheckConfig,
	log logger.Logger,
) *HealthMonitor {
	return &HealthMonitor{
		providerRepo: providerRepo,
		llmClient:    llmClient,
		cfg:          cfg,
		logger:       log,
		lastResults:  make(map[int64]entities.HealthCheckResult),
		triggerCh:    make(chan chan []entities.HealthCheckResult),
		stopCh:       make(chan struct{}),
	}
}

// Start 启动周期检查循环
func (m *HealthMonitor) Start(ctx context.Context) {
	m.wg.Add(1)
	go m.run(ctx)
	m.logger.WithField("interval", m.interval().String()).Info("Health monitor started")
}

// Stop 停止监控器并等待循环退出
func (m *HealthMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
	m.wg.Wait()
}

// TriggerNow 立即执行一轮健康检查并返回结果（管理操作）。
// 通过channel交给调度循环执行，不与周期检查并发竞争。
func (m *HealthMonitor) TriggerNow(ctx context.Context) ([]entities.HealthCheckResult, error) {
	resultCh := make(chan []entities.HealthCheckResult, 1)
	select {
	case m.triggerCh <- resultCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.stopCh:
		// 监控器未运行时直接执行
		return m.runCycle(ctx), nil
	}

	select {
	case results := <-resultCh:
		return results, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// LastResults 获取每个提供商最近一次的检查结果
func (m *HealthMonitor) LastResults() []entities.HealthCheckResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]entities.HealthCheckResult, 0, len(m.lastResults))
	for _, r := range m.lastResults {
		results = append(results, r)
	}
	return results
}

// run 调度循环。间隔每轮重新读取，配置热加载后下一轮生效。
func (m *HealthMonitor) run(ctx context.Context) {
	defer m.wg.Done()

	timer := time.NewTimer(m.interval())
	defer timer.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ctx.Done():
			return
		case resultCh := <-m.triggerCh:
			resultCh <- m.runCycle(ctx)
		case <-timer.C:
			m.runCycle(ctx)
			timer.Reset(m.interval())
		}
	}
}

// runCycle 对所有启用的提供商执行一轮探测，探测之间并发执行
func (m *HealthMonitor) runCycle(ctx context.Context) []entities.HealthCheckResult {
	providers, err := m.providerRepo.List(ctx, true)
	if err != nil {
		m.logger.WithField("error", err.Error()).Error("Failed to list providers for health check")
		return nil
	}

	results := make([]entities.HealthCheckResult, len(providers))
	var wg sync.WaitGroup

	for i := range providers {
		wg.Add(1)
		go func(idx int, provider entities.Provider) {
			defer wg.Done()
			results[idx] = m.probe(ctx, &provider)
		}(i, providers[i])
	}
	wg.Wait()

	for _, result := range results {
		m.record(ctx, result)
	}

	return results
}

// probe 对单个提供商执行一次带超时的轻量探测
func (m *HealthMonitor) probe(ctx context.Context, provider *entities.Provider) entities.HealthCheckResult {
	probeCtx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	start := time.Now()
	err := m.llmClient.HealthCheck(probeCtx, provider)
	elapsed := time.Since(start)

	result := entities.HealthCheckResult{
		ProviderID:     provider.ID,
		ProviderName:   provider.Name,
		IsSuccess:      err == nil,
		ResponseTimeMs: elapsed.Milliseconds(),
		CheckedAt:      time.Now(),
	}
	if err != nil {
		result.ErrorMessage = err.Error()
	}

	return result
}

// record 保存检查结果并写回注册表
func (m *HealthMonitor) record(ctx context.Context, result entities.HealthCheckResult) {
	m.mu.Lock()
	m.lastResults[result.ProviderID] = result
	m.mu.Unlock()

	if err := m.providerRepo.UpdateHealth(ctx, result.ProviderID, result.Status(), result.CheckedAt); err != nil {
		m.logger.WithFields(map[string]interface{}{
			"provider_id": result.ProviderID,
			"error":       err.Error(),
		}).Error("Failed to update provider health status")
		return
	}

	if !result.IsSuccess {
		m.logger.WithFields(map[string]interface{}{
			"provider":         result.ProviderName,
			"response_time_ms": result.ResponseTimeMs,
			"error":            result.ErrorMessage,
		}).Warn("Provider health check failed")
	}
}

// interval 当前检查间隔（热加载）
func (m *HealthMonitor) interval() time.Duration {
	if interval := config.HealthCheckInterval(); interval > 0 {
		return interval
	}
	return m.cfg.Interval
}
