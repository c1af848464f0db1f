package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"ai-analysis-gateway/internal/domain/entities"
	domainServices "ai-analysis-gateway/internal/domain/services"
	"ai-analysis-gateway/internal/infrastructure/clients"
	"ai-analysis-gateway/internal/infrastructure/gateway"
	"ai-analysis-gateway/internal/infrastructure/logger"
)

// MockLogger 用于测试的mock logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(args ...interface{})                 {}
func (m *MockLogger) Debugf(format string, args ...interface{}) {}
func (m *MockLogger) Info(args ...interface{})                  {}
func (m *MockLogger) Infof(format string, args ...interface{})  {}
func (m *MockLogger) Warn(args ...interface{})                  {}
func (m *MockLogger) Warnf(format string, args ...interface{})  {}
func (m *MockLogger) Error(args ...interface{})                 {}
func (m *MockLogger) Errorf(format string, args ...interface{}) {}
func (m *MockLogger) Fatal(args ...interface{})                 {}
func (m *MockLogger) Fatalf(format string, args ...interface{}) {}
func (m *MockLogger) WithField(key string, value interface{}) logger.Logger {
	return m
}
func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return m
}

// MockPostRepository 用于测试的mock帖子仓库
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *entities.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id int64) (*entities.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Post), args.Error(1)
}

func (m *MockPostRepository) GetByExternalID(ctx context.Context, externalID string) (*entities.Post, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Post), args.Error(1)
}

func (m *MockPostRepository) ListPending(ctx context.Context, limit int) ([]entities.Post, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *entities.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) CountByStatus(ctx context.Context, status entities.PostStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockAnalysisService 用于测试的mock分析服务
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) AnalyzeContent(ctx context.Context, content string, mediaType entities.MediaType, mediaURL, promptTemplate string) (*entities.AnalysisResult, *gateway.AnalyzeOutcome, error) {
	args := m.Called(ctx, content, mediaType, mediaURL, promptTemplate)
	var result *entities.AnalysisResult
	if args.Get(0) != nil {
		result = args.Get(0).(*entities.AnalysisResult)
	}
	var outcome *gateway.AnalyzeOutcome
	if args.Get(1) != nil {
		outcome = args.Get(1).(*gateway.AnalyzeOutcome)
	}
	return result, outcome, args.Error(2)
}

func (m *MockAnalysisService) AnalyzePost(ctx context.Context, post *entities.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

// MockProviderRepository 用于测试的mock提供商仓库
type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) Create(ctx context.Context, provider *entities.Provider) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

func (m *MockProviderRepository) GetByID(ctx context.Context, id int64) (*entities.Provider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Provider), args.Error(1)
}

func (m *MockProviderRepository) GetByName(ctx context.Context, name string) (*entities.Provider, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Provider), args.Error(1)
}

func (m *MockProviderRepository) List(ctx context.Context, activeOnly bool) ([]entities.Provider, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Provider), args.Error(1)
}

func (m *MockProviderRepository) Update(ctx context.Context, provider *entities.Provider) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

func (m *MockProviderRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProviderRepository) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockProviderRepository) UpdateHealth(ctx context.Context, id int64, status entities.HealthStatus, checkedAt time.Time) error {
	args := m.Called(ctx, id, status, checkedAt)
	return args.Error(0)
}

func (m *MockProviderRepository) RecordUsage(ctx context.Context, id int64, success bool, avgMs float64) error {
	args := m.Called(ctx, id, success, avgMs)
	return args.Error(0)
}

func (m *MockProviderRepository) ResetStats(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLLMClient 用于测试的mock LLM客户端
type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Complete(ctx context.Context, provider *entities.Provider, request *clients.CompletionRequest) (*clients.CompletionResult, error) {
	args := m.Called(ctx, provider, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.CompletionResult), args.Error(1)
}

func (m *MockLLMClient) HealthCheck(ctx context.Context, provider *entities.Provider) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

// MockNotifierAdapter 用于测试的mock推送适配器
type MockNotifierAdapter struct {
	mock.Mock
}

func (m *MockNotifierAdapter) ListServers(ctx context.Context) ([]domainServices.NotifyServer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domainServices.NotifyServer), args.Error(1)
}

func (m *MockNotifierAdapter) Push(ctx context.Context, serverID, title, body string) error {
	args := m.Called(ctx, serverID, title, body)
	return args.Error(0)
}

// MockContentSource 用于测试的mock内容来源
type MockContentSource struct {
	mock.Mock
}

func (m *MockContentSource) FetchLatest(ctx context.Context, sinceExternalID string, limit int) ([]entities.Post, error) {
	args := m.Called(ctx, sinceExternalID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Post), args.Error(1)
}
