package routes

import (
	"ai-analysis-gateway/internal/application/services"
	"ai-analysis-gateway/internal/infrastructure/config"
	"ai-analysis-gateway/internal/infrastructure/logger"
	"ai-analysis-gateway/internal/presentation/handlers"
	"ai-analysis-gateway/internal/presentation/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "ai-analysis-gateway/docs" // 导入swagger文档
)

// Router 路由器
type Router struct {
	engine         *gin.Engine
	config         *config.Config
	logger         logger.Logger
	serviceFactory *services.ServiceFactory
	queueService   services.AnalysisQueueService
	db             *gorm.DB
}

// NewRouter 创建路由器
func NewRouter(
	cfg *config.Config,
	log logger.Logger,
	serviceFactory *services.ServiceFactory,
	queueService services.AnalysisQueueService,
	db *gorm.DB,
) *Router {
	// 设置Gin模式
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Router{
		engine:         gin.New(),
		config:         cfg,
		logger:         log,
		serviceFactory: serviceFactory,
		queueService:   queueService,
		db:             db,
	}
}

// SetupRoutes 设置路由
func (r *Router) SetupRoutes() {
	// 创建中间件
	authMiddleware := middleware.NewAuthMiddleware(r.serviceFactory.AuthService(), r.logger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(&r.config.RateLimit, r.logger)

	// 全局中间件
	r.engine.Use(middleware.RecoveryMiddleware(r.logger))
	r.engine.Use(middleware.LoggingMiddleware(r.logger))
	r.engine.Use(middleware.CORSMiddleware())
	r.engine.Use(middleware.SecurityMiddleware())
	r.engine.Use(middleware.RequestIDMiddleware())

	// 创建处理器
	healthHandler := handlers.NewHealthHandler(r.db, r.logger)
	authHandler := handlers.NewAuthHandler(r.serviceFactory.AuthService(), r.logger)
	analysisHandler := handlers.NewAnalysisHandler(r.serviceFactory.AnalysisService(), r.logger)
	providerHandler := handlers.NewProviderHandler(r.serviceFactory.ProviderService(), r.logger)
	cacheHandler := handlers.NewCacheHandler(r.serviceFactory.RequestCache(), r.logger)
	pipelineHandler := handlers.NewPipelineHandler(r.queueService, r.logger)

	// 健康检查路由（无需认证）
	r.engine.GET("/health", healthHandler.HealthCheck)

	// 认证路由（无需认证）
	auth := r.engine.Group("/auth")
	auth.Use(rateLimitMiddleware.CustomRateLimit(5, 10)) // 登录接口严格限流
	{
		auth.POST("/login", authHandler.Login)
	}

	// Swagger文档路由（无需认证）
	swaggerGroup := r.engine.Group("/swagger")
	swaggerGroup.Use(func(c *gin.Context) {
		// 设置 CSP 头部以允许 Swagger UI 正常工作
		c.Header("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline' 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; font-src 'self'")
		c.Next()
	})
	swaggerGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 分析API路由
	v1 := r.engine.Group("/v1")
	v1.Use(authMiddleware.Authenticate())
	v1.Use(rateLimitMiddleware.RateLimit())
	{
		v1.POST("/analyze", analysisHandler.Analyze)
	}

	// 管理API路由
	admin := r.engine.Group("/admin")
	admin.Use(authMiddleware.Authenticate())
	admin.Use(rateLimitMiddleware.CustomRateLimit(200, 400)) // 管理API更高的限流
	{
		// 提供商管理路由
		providers := admin.Group("/providers")
		{
			providers.POST("/", providerHandler.CreateProvider)
			providers.GET("/", providerHandler.ListProviders)
			providers.POST("/health-check", providerHandler.TriggerHealthCheck)
			providers.GET("/health-check", providerHandler.LastHealthResults)
			providers.GET("/:id", providerHandler.GetProvider)
			providers.PUT("/:id", providerHandler.UpdateProvider)
			providers.DELETE("/:id", providerHandler.DeleteProvider)
			providers.POST("/:id/toggle", providerHandler.ToggleProvider)
			providers.GET("/:id/stats", providerHandler.GetProviderStats)
			providers.POST("/:id/stats/reset", providerHandler.ResetProviderStats)
		}

		// 缓存管理路由
		cacheRoutes := admin.Group("/cache")
		{
			cacheRoutes.GET("/stats", cacheHandler.GetCacheStats)
			cacheRoutes.DELETE("/", cacheHandler.ClearCache)
		}

		// 管道管理路由
		pipeline := admin.Group("/pipeline")
		{
			pipeline.GET("/stats", pipelineHandler.GetQueueStats)
		}
	}
}

// GetEngine 获取Gin引擎
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
