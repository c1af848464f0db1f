// @title AI Analysis Gateway
// @version 1.0.0
// @description LLM provider routing and resilience layer for social media post analysis. Routes analysis requests across multiple LLM providers with caching, health monitoring and sequential failover.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token for API authentication. Format: 'Bearer {token}'

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-analysis-gateway/internal/application/services"
	"ai-analysis-gateway/internal/infrastructure/config"
	"ai-analysis-gateway/internal/infrastructure/database"
	"ai-analysis-gateway/internal/infrastructure/logger"
	redisInfra "ai-analysis-gateway/internal/infrastructure/redis"
	"ai-analysis-gateway/internal/infrastructure/repositories"
	"ai-analysis-gateway/internal/presentation/routes"

	goredis "github.com/go-redis/redis/v8"

	_ "ai-analysis-gateway/docs" // Import generated docs
)

func main() {
	// 解析命令行参数
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	// 加载配置
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志记录器
	logger.InitGlobalLogger(&logger.LoggingConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	log := logger.GetLogger()

	log.Info("Starting AI Analysis Gateway")
	log.WithField("config", configPath).Info("Configuration loaded")

	// 初始化GORM数据库连接
	gormConfig := database.GormConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        "UTC",
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	gormDB, err := database.NewGormDB(gormConfig)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("Failed to connect to PostgreSQL with GORM")
	}

	// 执行数据库自动迁移
	if err := database.InitializeDatabase(gormDB); err != nil {
		log.WithField("error", err.Error()).Fatal("Database initialization failed")
	}

	// 进行健康检查
	if err := database.HealthCheck(gormDB); err != nil {
		log.WithField("error", err.Error()).Fatal("Database health check failed")
	}

	log.Info("PostgreSQL connection established with GORM")

	// 创建Redis客户端（可选，仅redis缓存后端需要）
	var redisClient *goredis.Client
	if cfg.Cache.Backend == "redis" {
		redisClient, err = redisInfra.NewClient(&cfg.Redis)
		if err != nil {
			log.WithField("error", err.Error()).Warn("Failed to connect to Redis, falling back to in-memory cache")
			redisClient = nil
		}
	}

	// 创建仓储工厂
	repoFactory := repositories.NewRepositoryFactory(gormDB)

	// 创建服务工厂
	serviceFactory, err := services.NewServiceFactory(repoFactory, redisClient, cfg, log)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("Failed to create service factory")
	}

	ctx := context.Background()

	// 启动健康监控器
	healthMonitor := serviceFactory.HealthMonitor()
	if cfg.HealthCheck.Enabled {
		healthMonitor.Start(ctx)
	}

	// 启动分析队列服务
	queueService := serviceFactory.AnalysisQueueService(nil)
	if err := queueService.StartWorkers(ctx, cfg.Pipeline.WorkerCount); err != nil {
		log.WithField("error", err.Error()).Fatal("Failed to start analysis queue workers")
	}

	// 监听配置文件变化（缓存开关、TTL、检查间隔等热加载）
	config.WatchConfig(func() {
		log.Info("Configuration reloaded")
	})

	// 创建路由器
	router := routes.NewRouter(cfg, log, serviceFactory, queueService, gormDB)
	router.SetupRoutes()

	// 创建HTTP服务器
	server := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 启动服务器
	go func() {
		log.WithField("address", server.Addr).Info("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithField("error", err.Error()).Fatal("Failed to start HTTP server")
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// 停止分析队列服务
	if err := queueService.StopWorkers(); err != nil {
		log.WithField("error", err.Error()).Error("Failed to stop analysis queue workers")
	}

	// 停止健康监控器
	if cfg.HealthCheck.Enabled {
		healthMonitor.Stop()
	}

	// 优雅关闭服务器
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithField("error", err.Error()).Fatal("Server forced to shutdown")
	} else {
		log.Info("Server shutdown complete")
	}
}
