package services

import (
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	domainServices "ai-analysis-gateway/internal/domain/services"
	"ai-analysis-gateway/internal/infrastructure/cache"
	"ai-analysis-gateway/internal/infrastructure/clients"
	"ai-analysis-gateway/internal/infrastructure/config"
	"ai-analysis-gateway/internal/infrastructure/crypto"
	"ai-analysis-gateway/internal/infrastructure/gateway"
	"ai-analysis-gateway/internal/infrastructure/logger"
	"ai-analysis-gateway/internal/infrastructure/notify"
	infraRepos "ai-analysis-gateway/internal/infrastructure/repositories"
)

// ServiceFactory 服务工厂。调度器、健康监控器、统计跟踪器与缓存
// 实例在工厂创建时构建一次，各服务共享同一份。
type ServiceFactory struct {
	repoFactory *infraRepos.RepositoryFactory
	redisClient *goredis.Client
	config      *config.Config
	logger      logger.Logger

	keyCipher     *crypto.KeyCipher
	requestCache  cache.RequestCache
	llmClient     clients.LLMClient
	statsTracker  *gateway.StatsTracker
	dispatcher    *gateway.Dispatcher
	healthMonitor *gateway.HealthMonitor
}

// NewServiceFactory 创建服务工厂。redisClient可为nil（使用内存缓存）。
func NewServiceFactory(repoFactory *infraRepos.RepositoryFactory, redisClient *goredis.Client, cfg *config.Config, log logger.Logger) (*ServiceFactory, error) {
	keyCipher, err := crypto.NewKeyCipher(cfg.Security.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize key cipher: %w", err)
	}

	f := &ServiceFactory{
		repoFactory: repoFactory,
		redisClient: redisClient,
		config:      cfg,
		logger:      log,
		keyCipher:   keyCipher,
	}

	f.requestCache = f.buildRequestCache()

	httpClient := clients.NewHTTPClient(cfg.Dispatcher.AttemptTimeout)
	f.llmClient = clients.NewLLMClient(httpClient, keyCipher.Decrypt)

	providerRepo := repoFactory.ProviderRepository()
	f.statsTracker = gateway.NewStatsTracker(providerRepo, log)
	f.dispatcher = gateway.NewDispatcher(providerRepo, f.requestCache, f.llmClient, f.statsTracker, &cfg.Dispatcher, log)
	f.healthMonitor = gateway.NewHealthMonitor(providerRepo, f.llmClient, &cfg.HealthCheck, log)

	return f, nil
}

// buildRequestCache 根据配置选择缓存后端
func (f *ServiceFactory) buildRequestCache() cache.RequestCache {
	if f.config.Cache.Backend == "redis" && f.redisClient != nil {
		f.logger.WithField("key_tag", f.config.Cache.KeyTag).Info("Using redis request cache")
		return cache.NewRedisCache(f.redisClient, f.config.Cache.KeyTag, f.logger)
	}

	f.logger.Info("Using in-memory request cache")
	return cache.NewMemoryCache(10 * time.Minute)
}

// RequestCache 获取请求缓存
func (f *ServiceFactory) RequestCache() cache.RequestCache {
	return f.requestCache
}

// Dispatcher 获取请求调度器
func (f *ServiceFactory) Dispatcher() *gateway.Dispatcher {
	return f.dispatcher
}

// HealthMonitor 获取健康监控器
func (f *ServiceFactory) HealthMonitor() *gateway.HealthMonitor {
	return f.healthMonitor
}

// ProviderService 获取提供商管理服务
func (f *ServiceFactory) ProviderService() ProviderService {
	return NewProviderService(
		f.repoFactory.ProviderRepository(),
		f.keyCipher,
		f.healthMonitor,
		f.statsTracker,
		f.logger,
	)
}

// AnalysisService 获取内容分析服务
func (f *ServiceFactory) AnalysisService() AnalysisService {
	return NewAnalysisService(
		f.dispatcher,
		f.repoFactory.PostRepository(),
		f.NotifierAdapter(),
		f.logger,
	)
}

// AnalysisQueueService 获取分析队列服务
func (f *ServiceFactory) AnalysisQueueService(contentSource domainServices.ContentSource) AnalysisQueueService {
	return NewAnalysisQueueService(
		f.repoFactory.PostRepository(),
		f.AnalysisService(),
		contentSource,
		&f.config.Pipeline,
		f.logger,
	)
}

// AuthService 获取认证服务
func (f *ServiceFactory) AuthService() AuthService {
	return NewAuthService(&f.config.Admin, &f.config.JWT)
}

// NotifierAdapter 获取通知推送适配器，未启用时返回nil
func (f *ServiceFactory) NotifierAdapter() domainServices.NotifierAdapter {
	if !f.config.Notify.Enabled {
		return nil
	}

	httpClient := clients.NewHTTPClient(10 * time.Second)
	return notify.NewHTTPNotifier(httpClient, &f.config.Notify, f.logger)
}
