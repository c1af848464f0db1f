package repositories

import (
	"context"
	"time"

	"ai-analysis-gateway/internal/domain/entities"
)

// ProviderRepository LLM提供商仓库接口。
// 健康状态仅由健康监控器写入，使用统计仅由调度器写入，
// 两类写入均为单条SQL原子更新，并发下不会互相覆盖。
type ProviderRepository interface {
	// Create 创建提供商
	Create(ctx context.Context, provider *entities.Provider) error

	// GetByID 根据ID获取提供商
	GetByID(ctx context.Context, id int64) (*entities.Provider, error)

	// GetByName 根据名称获取提供商
	GetByName(ctx context.Context, name string) (*entities.Provider, error)

	// List 获取提供商列表，activeOnly为true时只返回启用的提供商
	List(ctx context.Context, activeOnly bool) ([]entities.Provider, error)

	// Update 更新提供商配置
	Update(ctx context.Context, provider *entities.Provider) error

	// Delete 删除提供商
	Delete(ctx context.Context, id int64) error

	// SetActive 启用/停用提供商
	SetActive(ctx context.Context, id int64, active bool) error

	// UpdateHealth 更新健康状态与检查时间
	UpdateHealth(ctx context.Context, id int64, status entities.HealthStatus, checkedAt time.Time) error

	// RecordUsage 记录一次调用的使用统计（原子更新，avgMs为平滑后的平均延迟）
	RecordUsage(ctx context.Context, id int64, success bool, avgMs float64) error

	// ResetStats 重置使用统计
	ResetStats(ctx context.Context, id int64) error
}
