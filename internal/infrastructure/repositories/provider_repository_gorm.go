package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"ai-analysis-gateway/internal/domain/entities"
	"ai-analysis-gateway/internal/domain/repositories"
)

// providerRepositoryGorm GORM提供商仓储实现
type providerRepositoryGorm struct {
	db *gorm.DB
}

// NewProviderRepositoryGorm 创建GORM提供商仓储
func NewProviderRepositoryGorm(db *gorm.DB) repositories.ProviderRepository {
	return &providerRepositoryGorm{db: db}
}

// Create 创建提供商
func (r *providerRepositoryGorm) Create(ctx context.Context, provider *entities.Provider) error {
	if err := r.db.WithContext(ctx).Create(provider).Error; err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

// GetByID 根据ID获取提供商
func (r *providerRepositoryGorm) GetByID(ctx context.Context, id int64) (*entities.Provider, error) {
	var provider entities.Provider
	if err := r.db.WithContext(ctx).First(&provider, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get provider by id: %w", err)
	}
	return &provider, nil
}

// GetByName 根据名称获取提供商
func (r *providerRepositoryGorm) GetByName(ctx context.Context, name string) (*entities.Provider, error) {
	var provider entities.Provider
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&provider).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get provider by name: %w", err)
	}
	return &provider, nil
}

// List 获取提供商列表
func (r *providerRepositoryGorm) List(ctx context.Context, activeOnly bool) ([]entities.Provider, error) {
	var providers []entities.Provider
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("priority ASC, id ASC").Find(&providers).Error; err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	return providers, nil
}

// Update 更新提供商配置
func (r *providerRepositoryGorm) Update(ctx context.Context, provider *entities.Provider) error {
	if err := r.db.WithContext(ctx).Save(provider).Error; err != nil {
		return fmt.Errorf("failed to update provider: %w", err)
	}
	return nil
}

// Delete 删除提供商
func (r *providerRepositoryGorm) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&entities.Provider{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete provider: %w", err)
	}
	return nil
}

// SetActive 启用/停用提供商
func (r *providerRepositoryGorm) SetActive(ctx context.Context, id int64, active bool) error {
	if err := r.db.WithContext(ctx).Model(&entities.Provider{}).Where("id = ?", id).Update("is_active", active).Error; err != nil {
		return fmt.Errorf("failed to set provider active state: %w", err)
	}
	return nil
}

// UpdateHealth 更新健康状态与检查时间。
// 单条UPDATE只触碰健康字段，与调度器的统计写入互不覆盖。
func (r *providerRepositoryGorm) UpdateHealth(ctx context.Context, id int64, status entities.HealthStatus, checkedAt time.Time) error {
	updates := map[string]interface{}{
		"health_status":   status,
		"last_checked_at": checkedAt,
	}
	if err := r.db.WithContext(ctx).Model(&entities.Provider{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update provider health: %w", err)
	}
	return nil
}

// RecordUsage 记录一次调用的使用统计。
// 计数用gorm.Expr原子自增，并发调度下不会丢失更新。
func (r *providerRepositoryGorm) RecordUsage(ctx context.Context, id int64, success bool, avgMs float64) error {
	updates := map[string]interface{}{
		"usage_count":          gorm.Expr("usage_count + 1"),
		"avg_response_time_ms": avgMs,
	}
	if success {
		updates["success_count"] = gorm.Expr("success_count + 1")
	} else {
		updates["error_count"] = gorm.Expr("error_count + 1")
	}

	if err := r.db.WithContext(ctx).Model(&entities.Provider{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to record provider usage: %w", err)
	}
	return nil
}

// ResetStats 重置使用统计
func (r *providerRepositoryGorm) ResetStats(ctx context.Context, id int64) error {
	updates := map[string]interface{}{
		"usage_count":          0,
		"success_count":        0,
		"error_count":          0,
		"avg_response_time_ms": 0,
	}
	if err := r.db.WithContext(ctx).Model(&entities.Provider{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to reset provider stats: %w", err)
	}
	return nil
}
