package repositories

import (
	"context"

	"ai-analysis-gateway/internal/domain/entities"
)

// PostRepository 帖子仓库接口
type PostRepository interface {
	// Create 创建帖子
	Create(ctx context.Context, post *entities.Post) error

	// GetByID 根据ID获取帖子
	GetByID(ctx context.Context, id int64) (*entities.Post, error)

	// GetByExternalID 根据源平台ID获取帖子
	GetByExternalID(ctx context.Context, externalID string) (*entities.Post, error)

	// ListPending 获取待分析的帖子，按创建时间升序，最多limit条
	ListPending(ctx context.Context, limit int) ([]entities.Post, error)

	// Update 更新帖子（含分析结果字段）
	Update(ctx context.Context, post *entities.Post) error

	// CountByStatus 按状态统计帖子数量
	CountByStatus(ctx context.Context, status entities.PostStatus) (int64, error)
}
