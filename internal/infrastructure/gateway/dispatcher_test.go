package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ai-analysis-gateway/internal/domain/entities"
	"ai-analysis-gateway/internal/infrastructure/cache"
	"ai-analysis-gateway/internal/infrastructure/clients"
	"ai-analysis-gateway/internal/infrastructure/config"
)

func newTestDispatcher(repo *MockProviderRepository, llm *MockLLMClient, maxAttempts int) (*Dispatcher, cache.RequestCache) {
	log := &MockLogger{}
	requestCache := cache.NewMemoryCache(time.Minute)
	cfg := &config.DispatcherConfig{
		MaxAttempts:    maxAttempts,
		AttemptTimeout: 5 * time.Second,
		RequestTimeout: 10 * time.Second,
	}
	stats := NewStatsTracker(repo, log)
	return NewDispatcher(repo, requestCache, llm, stats, cfg, log), requestCache
}

func enableCache(t *testing.T) {
	t.Helper()
	viper.Set("cache.enabled", true)
	viper.Set("cache.ttl", time.Hour)
	t.Cleanup(func() {
		viper.Set("cache.enabled", true)
	})
}

func TestDispatcher_Analyze(t *testing.T) {
	enableCache(t)

	t.Run("缓存命中时不应该触碰任何提供商", func(t *testing.T) {
		repo := &MockProviderRepository{}
		llm := &MockLLMClient{}
		dispatcher, _ := newTestDispatcher(repo, llm, 3)

		provider := textProvider(1, "openai", 10, entities.HealthStatusAvailable, 100)
		repo.On("List", mock.Anything, true).Return([]entities.Provider{provider}, nil)
		repo.On("RecordUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		llm.On("Complete", mock.Anything, mock.Anything, mock.Anything).
			Return(&clients.CompletionResult{Content: `{"is_relevant":true,"analytical_briefing":"ok"}`}, nil).Once()

		req := &AnalyzeRequest{Content: "hello world", MediaType: entities.MediaTypeText, PromptTemplate: "analyze"}

		first, err := dispatcher.Analyze(context.Background(), req)
		assert.NoError(t, err)
		assert.False(t, first.FromCache)
		assert.Equal(t, int64(1), first.ProviderID)

		second, err := dispatcher.Analyze(context.Background(), req)
		assert.NoError(t, err)
		assert.True(t, second.FromCache)
		assert.Equal(t, first.Result, second.Result)
		assert.Equal(t, int64(0), second.ProviderID)

		llm.AssertNumberOfCalls(t, "Complete", 1)
	})

	t.Run("无合格提供商时应该返回no_eligible_provider", func(t *testing.T) {
		repo := &MockProviderRepository{}
		llm := &MockLLMClient{}
		dispatcher, _ := newTestDispatcher(repo, llm, 3)

		repo.On("List", mock.Anything, true).Return([]entities.Provider{}, nil)

		_, err := dispatcher.Analyze(context.Background(), &AnalyzeRequest{
			Content:   "hello",
			MediaType: entities.MediaTypeText,
		})

		assert.Error(t, err)
		assert.True(t, IsNoEligibleProvider(err))
		assert.False(t, IsAllProvidersExhausted(err))
		llm.AssertNotCalled(t, "Complete")
	})

	t.Run("首选提供商失败时应该顺序转移到下一个候选", func(t *testing.T) {
		repo := &MockProviderRepository{}
		llm := &MockLLMClient{}
		dispatcher, _ := newTestDispatcher(repo, llm, 3)

		primary := textProvider(1, "primary", 1, entities.HealthStatusAvailable, 100)
		backup := textProvider(2, "backup", 2, entities.HealthStatusAvailable, 200)
		repo.On("List", mock.Anything, true).Return([]entities.Provider{primary, backup}, nil)
		repo.On("RecordUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		llm.On("Complete", mock.Anything, mock.MatchedBy(func(p *entities.Provider) bool { return p.ID == 1 }), mock.Anything).
			Return(nil, &clients.APIError{StatusCode: 500, Body: "internal error"}).Once()
		llm.On("Complete", mock.Anything, mock.MatchedBy(func(p *entities.Provider) bool { return p.ID == 2 }), mock.Anything).
			Return(&clients.CompletionResult{Content: "backup result"}, nil).Once()

		outcome, err := dispatcher.Analyze(context.Background(), &AnalyzeRequest{
			Content:   "failover test",
			MediaType: entities.MediaTypeText,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(2), outcome.ProviderID)
		assert.Equal(t, "backup result", outcome.Result)
	})

	t.Run("所有候选失败时应该返回all_providers_exhausted且不写缓存", func(t *testing.T) {
		repo := &MockProviderRepository{}
		llm := &MockLLMClient{}
		dispatcher, requestCache := newTestDispatcher(repo, llm, 3)

		a := textProvider(1, "a", 1, entities.HealthStatusAvailable, 100)
		b := textProvider(2, "b", 2, entities.HealthStatusAvailable, 200)
		repo.On("List", mock.Anything, true).Return([]entities.Provider{a, b}, nil)
		repo.On("RecordUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		llm.On("Complete", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &clients.APIError{StatusCode: 429, Body: "rate limited"})

		_, err := dispatcher.Analyze(context.Background(), &AnalyzeRequest{
			Content:   "exhaustion test",
			MediaType: entities.MediaTypeText,
		})

		assert.Error(t, err)
		assert.True(t, IsAllProvidersExhausted(err))

		var dispatchErr *DispatchError
		assert.ErrorAs(t, err, &dispatchErr)
		assert.Equal(t, 2, dispatchErr.Attempts)
		assert.NotNil(t, dispatchErr.LastErr)

		var providerErr *ProviderError
		assert.ErrorAs(t, dispatchErr.LastErr, &providerErr)
		assert.Equal(t, ErrorTypeRateLimit, providerErr.Type)

		stats := requestCache.Stats(context.Background())
		assert.Equal(t, int64(0), stats.Entries)
	})

	t.Run("parse错误应该在同一提供商上重试一次", func(t *testing.T) {
		repo := &MockProviderRepository{}
		llm := &MockLLMClient{}
		dispatcher, _ := newTestDispatcher(repo, llm, 3)

		provider := textProvider(1, "flaky", 1, entities.HealthStatusAvailable, 100)
		repo.On("List", mock.Anything, true).Return([]entities.Provider{provider}, nil)
		repo.On("RecordUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		llm.On("Complete", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &clients.ParseError{Reason: "empty choices"}).Once()
		llm.On("Complete", mock.Anything, mock.Anything, mock.Anything).
			Return(&clients.CompletionResult{Content: "retry succeeded"}, nil).Once()

		outcome, err := dispatcher.Analyze(context.Background(), &AnalyzeRequest{
			Content:   "parse retry test",
			MediaType: entities.MediaTypeText,
		})

		assert.NoError(t, err)
		assert.Equal(t, "retry succeeded", outcome.Result)
		assert.Equal(t, int64(1), outcome.ProviderID)
		llm.AssertNumberOfCalls(t, "Complete", 2)
	})

	t.Run("尝试次数达到上限后不应该再调用剩余候选", func(t *testing.T) {
		repo := &MockProviderRepository{}
		llm := &MockLLMClient{}
		dispatcher, _ := newTestDispatcher(repo, llm, 2)

		providers := []entities.Provider{
			textProvider(1, "a", 1, entities.HealthStatusAvailable, 100),
			textProvider(2, "b", 2, entities.HealthStatusAvailable, 200),
			textProvider(3, "c", 3, entities.HealthStatusAvailable, 300),
		}
		repo.On("List", mock.Anything, true).Return(providers, nil)
		repo.On("RecordUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		llm.On("Complete", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &clients.APIError{StatusCode: 503, Body: "unavailable"})

		_, err := dispatcher.Analyze(context.Background(), &AnalyzeRequest{
			Content:   "budget test",
			MediaType: entities.MediaTypeText,
		})

		assert.True(t, IsAllProvidersExhausted(err))
		llm.AssertNumberOfCalls(t, "Complete", 2)
	})

	t.Run("禁用缓存时成功结果不应该写入缓存", func(t *testing.T) {
		viper.Set("cache.enabled", false)
		defer viper.Set("cache.enabled", true)

		repo := &MockProviderRepository{}
		llm := &MockLLMClient{}
		dispatcher, requestCache := newTestDispatcher(repo, llm, 3)

		provider := textProvider(1, "openai", 10, entities.HealthStatusAvailable, 100)
		repo.On("List", mock.Anything, true).Return([]entities.Provider{provider}, nil)
		repo.On("RecordUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		llm.On("Complete", mock.Anything, mock.Anything, mock.Anything).
			Return(&clients.CompletionResult{Content: "fresh"}, nil)

		req := &AnalyzeRequest{Content: "no cache", MediaType: entities.MediaTypeText}

		_, err := dispatcher.Analyze(context.Background(), req)
		assert.NoError(t, err)

		second, err := dispatcher.Analyze(context.Background(), req)
		assert.NoError(t, err)
		assert.False(t, second.FromCache)

		stats := requestCache.Stats(context.Background())
		assert.Equal(t, int64(0), stats.Entries)
		llm.AssertNumberOfCalls(t, "Complete", 2)
	})
}

func TestDispatcher_ErrorClassification(t *testing.T) {
	repo := &MockProviderRepository{}
	llm := &MockLLMClient{}
	dispatcher, _ := newTestDispatcher(repo, llm, 3)
	provider := textProvider(1, "p", 1, entities.HealthStatusAvailable, 0)

	t.Run("应该按状态码分类API错误", func(t *testing.T) {
		cases := map[int]ErrorType{
			401: ErrorTypeAuth,
			403: ErrorTypeAuth,
			429: ErrorTypeRateLimit,
			500: ErrorTypeServer,
			503: ErrorTypeServer,
			400: ErrorTypeClient,
			404: ErrorTypeClient,
		}
		for status, expected := range cases {
			perr := dispatcher.classify(&provider, &clients.APIError{StatusCode: status})
			assert.Equal(t, expected, perr.Type, "status %d", status)
			assert.Equal(t, status, perr.StatusCode)
		}
	})

	t.Run("应该将超时归类为timeout", func(t *testing.T) {
		perr := dispatcher.classify(&provider, context.DeadlineExceeded)
		assert.Equal(t, ErrorTypeTimeout, perr.Type)
	})

	t.Run("应该将响应格式异常归类为parse", func(t *testing.T) {
		perr := dispatcher.classify(&provider, &clients.ParseError{Reason: "not json"})
		assert.Equal(t, ErrorTypeParse, perr.Type)
	})
}
