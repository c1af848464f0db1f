package repositories

import (
	"gorm.io/gorm"

	"ai-analysis-gateway/internal/domain/repositories"
)

// RepositoryFactory 仓储工厂（基于GORM）
type RepositoryFactory struct {
	gormDB *gorm.DB
}

// NewRepositoryFactory 创建GORM仓储工厂
func NewRepositoryFactory(gormDB *gorm.DB) *RepositoryFactory {
	return &RepositoryFactory{
		gormDB: gormDB,
	}
}

// ProviderRepository 获取提供商仓储
func (f *RepositoryFactory) ProviderRepository() repositories.ProviderRepository {
	return NewProviderRepositoryGorm(f.gormDB)
}

// PostRepository 获取帖子仓储
func (f *RepositoryFactory) PostRepository() repositories.PostRepository {
	return NewPostRepositoryGorm(f.gormDB)
}
