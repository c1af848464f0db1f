package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ai-analysis-gateway/internal/domain/entities"
)

// GormConfig GORM数据库配置
type GormConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewGormDB 创建GORM数据库连接
func NewGormDB(config GormConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		config.Host, config.User, config.Password, config.DBName, config.Port, config.SSLMode, config.TimeZone)

	// 配置GORM日志
	gormConfig := &gorm.Config{
		Logger: logger.New(
			log.New(log.Writer(), "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 获取底层sql.DB对象进行连接池配置
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if config.MaxIdleConns <= 0 {
		config.MaxIdleConns = 5
	}
	if config.MaxOpenConns <= 0 {
		config.MaxOpenConns = 25
	}
	if config.ConnMaxLifetime <= 0 {
		config.ConnMaxLifetime = 5 * time.Minute
	}

	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	return db, nil
}

// InitializeDatabase 执行自动迁移与索引创建
func InitializeDatabase(db *gorm.DB) error {
	models := []interface{}{
		&entities.Provider{},
		&entities.Post{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return createIndexes(db)
}

// createIndexes 创建额外的复合索引
func createIndexes(db *gorm.DB) error {
	// 候选查询：启用状态 + 健康状态
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_providers_active_health ON providers(is_active, health_status)").Error; err != nil {
		return fmt.Errorf("failed to create providers active/health index: %w", err)
	}

	// 轮询查询：待分析帖子按创建时间
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_posts_status_created ON posts(status, created_at)").Error; err != nil {
		return fmt.Errorf("failed to create posts status/created index: %w", err)
	}

	return nil
}

// HealthCheck 检查数据库连接
func HealthCheck(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
