package services

import (
	"context"
	"fmt"

	"ai-analysis-gateway/internal/application/dto"
	"ai-analysis-gateway/internal/domain/entities"
	"ai-analysis-gateway/internal/domain/repositories"
	"ai-analysis-gateway/internal/infrastructure/crypto"
	"ai-analysis-gateway/internal/infrastructure/gateway"
	"ai-analysis-gateway/internal/infrastructure/logger"
)

// ProviderService 提供商注册表管理服务接口
type ProviderService interface {
	// CreateProvider 注册新提供商
	CreateProvider(ctx context.Context, req *dto.CreateProviderRequest) (*dto.ProviderResponse, error)

	// GetProvider 获取提供商详情
	GetProvider(ctx context.Context, id int64) (*dto.ProviderResponse, error)

	// ListProviders 获取提供商列表
	ListProviders(ctx context.Context, activeOnly bool) ([]*dto.ProviderResponse, error)

	// UpdateProvider 更新提供商配置
	UpdateProvider(ctx context.Context, id int64, req *dto.UpdateProviderRequest) (*dto.ProviderResponse, error)

	// DeleteProvider 删除提供商
	DeleteProvider(ctx context.Context, id int64) error

	// ToggleProvider 启用/停用提供商
	ToggleProvider(ctx context.Context, id int64, active bool) (*dto.ProviderResponse, error)

	// TriggerHealthCheck 手动触发一轮健康检查
	TriggerHealthCheck(ctx context.Context) ([]*dto.HealthCheckResultResponse, error)

	// LastHealthResults 获取最近一轮健康检查结果
	LastHealthResults(ctx context.Context) []*dto.HealthCheckResultResponse

	// GetProviderStats 获取提供商使用统计
	GetProviderStats(ctx context.Context, id int64) (*dto.ProviderResponse, error)

	// ResetProviderStats 重置提供商使用统计
	ResetProviderStats(ctx context.Context, id int64) (*dto.ProviderResponse, error)
}

// providerServiceImpl 提供商注册表管理服务实现
type providerServiceImpl struct {
	providerRepo  repositories.ProviderRepository
	keyCipher     *crypto.KeyCipher
	healthMonitor *gateway.HealthMonitor
	stats         *gateway.StatsTracker
	logger        logger.Logger
}

// NewProviderService 创建提供商管理服务
func NewProviderService(
	providerRepo repositories.ProviderRepository,
	keyCipher *crypto.KeyCipher,
	healthMonitor *gateway.HealthMonitor,
	stats *gateway.StatsTracker,
	log logger.Logger,
) ProviderService {
	return &providerServiceImpl{
		providerRepo:  providerRepo,
		keyCipher:     keyCipher,
		healthMonitor: healthMonitor,
		stats:         stats,
		logger:        log,
	}
}

// CreateProvider 注册新提供商
func (s *providerServiceImpl) CreateProvider(ctx context.Context, req *dto.CreateProviderRequest) (*dto.ProviderResponse, error) {
	existing, err := s.providerRepo.GetByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check provider name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("provider name already exists: %s", req.Name)
	}

	encrypted, err := s.keyCipher.Encrypt(req.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt api key: %w", err)
	}

	provider := &entities.Provider{
		Name:            req.Name,
		APIBase:         req.APIBase,
		APIKeyEncrypted: &encrypted,
		Model:           req.Model,
		Priority:        req.Priority,
		IsActive:        true,
		SupportsText:    true,
		HealthStatus:    entities.HealthStatusUnknown,
	}

	if req.IsActive != nil {
		provider.IsActive = *req.IsActive
	}
	if req.SupportsText != nil {
		provider.SupportsText = *req.SupportsText
	}
	if req.SupportsImage != nil {
		provider.SupportsImage = *req.SupportsImage
	}
	if req.SupportsVideo != nil {
		provider.SupportsVideo = *req.SupportsVideo
	}
	if req.SupportsGIF != nil {
		provider.SupportsGIF = *req.SupportsGIF
	}

	if err := s.providerRepo.Create(ctx, provider); err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"provider_id": provider.ID,
		"name":        provider.Name,
	}).Info("Provider registered")

	return toProviderResponse(provider), nil
}

// GetProvider 获取提供商详情
func (s *providerServiceImpl) GetProvider(ctx context.Context, id int64) (*dto.ProviderResponse, error) {
	provider, err := s.providerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("provider not found: %d", id)
	}
	return toProviderResponse(provider), nil
}

// ListProviders 获取提供商列表
func (s *providerServiceImpl) ListProviders(ctx context.Context, activeOnly bool) ([]*dto.ProviderResponse, error) {
	providers, err := s.providerRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}

	responses := make([]*dto.ProviderResponse, 0, len(providers))
	for i := range providers {
		responses = append(responses, toProviderResponse(&providers[i]))
	}
	return responses, nil
}

// UpdateProvider 更新提供商配置
func (s *providerServiceImpl) UpdateProvider(ctx context.Context, id int64, req *dto.UpdateProviderRequest) (*dto.ProviderResponse, error) {
	provider, err := s.providerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("provider not found: %d", id)
	}

	if req.Name != nil {
		provider.Name = *req.Name
	}
	if req.APIBase != nil {
		provider.APIBase = *req.APIBase
	}
	if req.APIKey != nil {
		encrypted, err := s.keyCipher.Encrypt(*req.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt api key: %w", err)
		}
		provider.APIKeyEncrypted = &encrypted
	}
	if req.Model != nil {
		provider.Model = *req.Model
	}
	if req.Priority != nil {
		provider.Priority = *req.Priority
	}
	if req.IsActive != nil {
		provider.IsActive = *req.IsActive
	}
	if req.SupportsText != nil {
		provider.SupportsText = *req.SupportsText
	}
	if req.SupportsImage != nil {
		provider.SupportsImage = *req.SupportsImage
	}
	if req.SupportsVideo != nil {
		provider.SupportsVideo = *req.SupportsVideo
	}
	if req.SupportsGIF != nil {
		provider.SupportsGIF = *req.SupportsGIF
	}

	if err := s.providerRepo.Update(ctx, provider); err != nil {
		return nil, fmt.Errorf("failed to update provider: %w", err)
	}

	return toProviderResponse(provider), nil
}

// DeleteProvider 删除提供商
func (s *providerServiceImpl) DeleteProvider(ctx context.Context, id int64) error {
	provider, err := s.providerRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get provider: %w", err)
	}
	if provider == nil {
		return fmt.Errorf("provider not found: %d", id)
	}

	if err := s.providerRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete provider: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"provider_id": id,
		"name":        provider.Name,
	}).Info("Provider deleted")
	return nil
}

// ToggleProvider 启用/停用提供商
func (s *providerServiceImpl) ToggleProvider(ctx context.Context, id int64, active bool) (*dto.ProviderResponse, error) {
	provider, err := s.providerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("provider not found: %d", id)
	}

	if err := s.providerRepo.SetActive(ctx, id, active); err != nil {
		return nil, fmt.Errorf("failed to toggle provider: %w", err)
	}

	provider.IsActive = active
	s.logger.WithFields(map[string]interface{}{
		"provider_id": id,
		"is_active":   active,
	}).Info("Provider toggled")
	return toProviderResponse(provider), nil
}

// TriggerHealthCheck 手动触发一轮健康检查
func (s *providerServiceImpl) TriggerHealthCheck(ctx context.Context) ([]*dto.HealthCheckResultResponse, error) {
	results, err := s.healthMonitor.TriggerNow(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run health check: %w", err)
	}
	return toHealthResultResponses(results), nil
}

// LastHealthResults 获取最近一轮健康检查结果
func (s *providerServiceImpl) LastHealthResults(ctx context.Context) []*dto.HealthCheckResultResponse {
	return toHealthResultResponses(s.healthMonitor.LastResults())
}

// GetProviderStats 获取提供商使用统计
func (s *providerServiceImpl) GetProviderStats(ctx context.Context, id int64) (*dto.ProviderResponse, error) {
	return s.GetProvider(ctx, id)
}

// ResetProviderStats 重置提供商使用统计
func (s *providerServiceImpl) ResetProviderStats(ctx context.Context, id int64) (*dto.ProviderResponse, error) {
	provider, err := s.providerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("provider not found: %d", id)
	}

	if err := s.stats.Reset(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to reset provider stats: %w", err)
	}

	provider.UsageCount = 0
	provider.SuccessCount = 0
	provider.ErrorCount = 0
	provider.AvgResponseTimeMs = 0
	return toProviderResponse(provider), nil
}

// toProviderResponse 转换实体为响应DTO（不含密钥）
func toProviderResponse(p *entities.Provider) *dto.ProviderResponse {
	return &dto.ProviderResponse{
		ID:                p.ID,
		Name:              p.Name,
		APIBase:           p.APIBase,
		Model:             p.Model,
		Priority:          p.Priority,
		IsActive:          p.IsActive,
		SupportsText:      p.SupportsText,
		SupportsImage:     p.SupportsImage,
		SupportsVideo:     p.SupportsVideo,
		SupportsGIF:       p.SupportsGIF,
		HealthStatus:      string(p.HealthStatus),
		LastCheckedAt:     p.LastCheckedAt,
		UsageCount:        p.UsageCount,
		SuccessCount:      p.SuccessCount,
		ErrorCount:        p.ErrorCount,
		AvgResponseTimeMs: p.AvgResponseTimeMs,
		CreatedAt:         p.CreatedAt,
	}
}

// toHealthResultResponses 转换健康检查结果为响应DTO
func toHealthResultResponses(results []entities.HealthCheckResult) []*dto.HealthCheckResultResponse {
	responses := make([]*dto.HealthCheckResultResponse, 0, len(results))
	for i := range results {
		r := &results[i]
		responses = append(responses, &dto.HealthCheckResultResponse{
			ProviderID:     r.ProviderID,
			ProviderName:   r.ProviderName,
			IsSuccess:      r.IsSuccess,
			ResponseTimeMs: r.ResponseTimeMs,
			ErrorMessage:   r.ErrorMessage,
			CheckedAt:      r.CheckedAt,
		})
	}
	return responses
}
