package gateway

import (
	"context"
	"errors"
	"time"

	"ai-analysis-gateway/internal/domain/entities"
	"ai-analysis-gateway/internal/domain/repositories"
	"ai-analysis-gateway/internal/infrastructure/cache"
	"ai-analysis-gateway/internal/infrastructure/clients"
	"ai-analysis-gateway/internal/infrastructure/config"
	"ai-analysis-gateway/internal/infrastructure/logger"
)

// AnalyzeRequest 一次分析请求
type AnalyzeRequest struct {
	Content        string
	MediaType      entities.MediaType
	MediaURL       string
	PromptTemplate string
}

// AnalyzeOutcome 一次分析的结果
type AnalyzeOutcome struct {
	Result     string // LLM原始回复文本
	ProviderID int64  // 实际命中的提供商，缓存命中时为0
	FromCache  bool
	ElapsedMs  int64
}

// Dispatcher 请求调度器。负责缓存短路、候选排序、顺序故障转移、
// 统计记录与尝试预算控制。同一请求内候选严格串行，绝不并发打多个
// 提供商，避免同一份工作被计费两次。
type Dispatcher struct {
	providerRepo repositories.ProviderRepository
	requestCache cache.RequestCache
	llmClient    clients.LLMClient
	stats        *StatsTracker
	cfg          *config.DispatcherConfig
	logger       logger.Logger
}

// NewDispatcher 创建请求调度器
func NewDispatcher(
	providerRepo repositories.ProviderRepository,
	requestCache cache.RequestCache,
	llmClient clients.LLMClient,
	stats *StatsTracker,
	cfg *config.DispatcherConfig,
	log logger.Logger,
) *Dispatcher {
	return &Dispatcher{
		providerRepo: providerRepo,
		requestCache: requestCache,
		llmClient:    llmClient,
		stats:        stats,
		cfg:          cfg,
		logger:       log,
	}
}

// Analyze 执行一次内容分析：
//  1. 计算指纹，缓存命中直接返回（不触碰提供商，不更新统计）；
//  2. 未命中时从注册表取候选并排序，无候选返回no_eligible_provider；
//  3. 按序尝试候选，每次尝试有独立超时，整个请求受外层截止时间与
//     最大尝试次数约束；parse错误在同一提供商上重试一次再转移；
//  4. 成功则记录统计、写入缓存并返回；候选耗尽返回
//     all_providers_exhausted并附带最后一次具体错误。
func (d *Dispatcher) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeOutcome, error) {
	fingerprint := cache.Fingerprint(req.Content, req.MediaType, req.PromptTemplate)

	cacheEnabled := config.CacheEnabled()
	if cacheEnabled {
		if result, hit := d.requestCache.Lookup(ctx, fingerprint); hit {
			d.logger.WithFields(map[string]interface{}{
				"fingerprint": fingerprint[:12],
				"media_type":  req.MediaType,
			}).Debug("Analysis cache hit")
			return &AnalyzeOutcome{Result: result, FromCache: true}, nil
		}
	}

	providers, err := d.providerRepo.List(ctx, true)
	if err != nil {
		return nil, err
	}

	candidates := Select(providers, req.MediaType)
	if len(candidates) == 0 {
		d.logger.WithFields(map[string]interface{}{
			"media_type":     req.MediaType,
			"provider_count": len(providers),
		}).Warn("No eligible provider for analysis request")
		return nil, &DispatchError{Type: ErrorTypeNoEligibleProvider}
	}

	// 外层截止时间约束整个请求，超出后不再尝试剩余候选
	ctx, cancel := context.WithTimeout(ctx, d.cfg.RequestTimeout)
	defer cancel()

	request := &clients.CompletionRequest{
		Messages: clients.BuildAnalysisMessages(req.Content, req.MediaType, req.MediaURL, req.PromptTemplate),
	}

	var lastErr error
	attempts := 0

	for _, candidate := range candidates {
		if attempts >= d.cfg.MaxAttempts {
			d.logger.WithFields(map[string]interface{}{
				"attempts":     attempts,
				"max_attempts": d.cfg.MaxAttempts,
			}).Warn("Attempt budget exhausted, stopping failover")
			break
		}
		if ctx.Err() != nil {
			break
		}

		provider := candidate
		outcome, perr := d.tryProvider(ctx, &provider, request)
		attempts++

		if perr == nil {
			if cacheEnabled {
				if err := d.requestCache.Store(ctx, fingerprint, outcome.Result, config.CacheTTL()); err != nil {
					d.logger.WithFields(map[string]interface{}{
						"provider": provider.Name,
						"error":    err.Error(),
					}).Warn("Failed to store analysis result in cache")
				}
			}
			return outcome, nil
		}

		lastErr = perr

		// parse错误可能只是临时的格式噪声，同一提供商上重试一次
		if isParseError(perr) && attempts < d.cfg.MaxAttempts && ctx.Err() == nil {
			d.logger.WithFields(map[string]interface{}{
				"provider": provider.Name,
			}).Info("Parse error, retrying once on the same provider")

			outcome, perr = d.tryProvider(ctx, &provider, request)
			attempts++
			if perr == nil {
				if cacheEnabled {
					if err := d.requestCache.Store(ctx, fingerprint, outcome.Result, config.CacheTTL()); err != nil {
						d.logger.WithField("error", err.Error()).Warn("Failed to store analysis result in cache")
					}
				}
				return outcome, nil
			}
			lastErr = perr
		}

		d.logger.WithFields(map[string]interface{}{
			"provider": provider.Name,
			"error":    perr.Error(),
		}).Warn("Provider attempt failed, failing over to next candidate")
	}

	return nil, &DispatchError{
		Type:     ErrorTypeAllProvidersExhausted,
		Attempts: attempts,
		LastErr:  lastErr,
	}
}

// tryProvider 对单个提供商执行一次带超时的调用，并记录统计
func (d *Dispatcher) tryProvider(ctx context.Context, provider *entities.Provider, request *clients.CompletionRequest) (*AnalyzeOutcome, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, d.cfg.AttemptTimeout)
	defer cancel()

	start := time.Now()
	result, err := d.llmClient.Complete(attemptCtx, provider, request)
	elapsed := time.Since(start)

	if err != nil {
		d.stats.RecordError(ctx, provider.ID)
		return nil, d.classify(provider, err)
	}

	elapsedMs := elapsed.Milliseconds()
	d.stats.RecordSuccess(ctx, provider.ID, elapsedMs)

	return &AnalyzeOutcome{
		Result:     result.Content,
		ProviderID: provider.ID,
		ElapsedMs:  elapsedMs,
	}, nil
}

// classify 将客户端错误映射为结构化的ProviderError
func (d *Dispatcher) classify(provider *entities.Provider, err error) *ProviderError {
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Type:         ClassifyStatusCode(apiErr.StatusCode),
			ProviderID:   provider.ID,
			ProviderName: provider.Name,
			StatusCode:   apiErr.StatusCode,
			Message:      apiErr.Body,
			Err:          err,
		}
	}

	var parseErr *clients.ParseError
	if errors.As(err, &parseErr) {
		return &ProviderError{
			Type:         ErrorTypeParse,
			ProviderID:   provider.ID,
			ProviderName: provider.Name,
			Message:      parseErr.Reason,
			Err:          err,
		}
	}

	return &ProviderError{
		Type:         ClassifyTransportError(err),
		ProviderID:   provider.ID,
		ProviderName: provider.Name,
		Message:      err.Error(),
		Err:          err,
	}
}

// isParseError 判断是否为响应解析错误
func isParseError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Type == ErrorTypeParse
}
