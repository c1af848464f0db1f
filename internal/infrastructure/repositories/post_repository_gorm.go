package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"ai-analysis-gateway/internal/domain/entities"
	"ai-analysis-gateway/internal/domain/repositories"
)

// postRepositoryGorm GORM帖子仓储实现
type postRepositoryGorm struct {
	db *gorm.DB
}

// NewPostRepositoryGorm 创建GORM帖子仓储
func NewPostRepositoryGorm(db *gorm.DB) repositories.PostRepository {
	return &postRepositoryGorm{db: db}
}

// Create 创建帖子
func (r *postRepositoryGorm) Create(ctx context.Context, post *entities.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID 根据ID获取帖子
func (r *postRepositoryGorm) GetByID(ctx context.Context, id int64) (*entities.Post, error) {
	var post entities.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	return &post, nil
}

// GetByExternalID 根据源平台ID获取帖子
func (r *postRepositoryGorm) GetByExternalID(ctx context.Context, externalID string) (*entities.Post, error) {
	var post entities.Post
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post by external id: %w", err)
	}
	return &post, nil
}

// ListPending 获取待分析的帖子
func (r *postRepositoryGorm) ListPending(ctx context.Context, limit int) ([]entities.Post, error) {
	var posts []entities.Post
	if err := r.db.WithContext(ctx).
		Where("status = ?", entities.PostStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending posts: %w", err)
	}
	return posts, nil
}

// Update 更新帖子
func (r *postRepositoryGorm) Update(ctx context.Context, post *entities.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

// CountByStatus 按状态统计帖子数量
func (r *postRepositoryGorm) CountByStatus(ctx context.Context, status entities.PostStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Post{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count posts by status: %w", err)
	}
	return count, nil
}
