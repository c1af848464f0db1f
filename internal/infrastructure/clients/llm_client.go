package clients

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"ai-analysis-gateway/internal/domain/entities"
)

// CompletionRequest LLM补全请求（通用结构，OpenAI兼容）
type CompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

// ChatMessage 对话消息
type ChatMessage struct {
	Role    string      `json:"role"`    // "system", "user", "assistant"
	Content interface{} `json:"content"` // 字符串或内容块数组（多模态）
}

// ContentBlock 多模态内容块
type ContentBlock struct {
	Type     string    `json:"type"` // "text", "image_url"
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL 图像引用
type ImageURL struct {
	URL string `json:"url"`
}

// CompletionResult LLM补全结果
type CompletionResult struct {
	Content     string // 首个choice的文本内容
	Model       string
	TokensUsed  int
	RawResponse []byte // 原始响应，供诊断
}

// chatCompletionResponse OpenAI兼容的响应结构
type chatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// APIError 提供商返回的非2xx响应
type APIError struct {
	StatusCode int
	Body       string
}

// Error 实现error接口
func (e *APIError) Error() string {
	return fmt.Sprintf("provider API error: status %d: %s", e.StatusCode, e.Body)
}

// ParseError 提供商响应格式异常（2xx但内容不可用）
type ParseError struct {
	Reason string
}

// Error 实现error接口
func (e *ParseError) Error() string {
	return fmt.Sprintf("provider response parse error: %s", e.Reason)
}

// LLMClient LLM提供商客户端接口
type LLMClient interface {
	// Complete 发送补全请求到指定提供商
	Complete(ctx context.Context, provider *entities.Provider, request *CompletionRequest) (*CompletionResult, error)

	// HealthCheck 对提供商执行轻量健康探测
	HealthCheck(ctx context.Context, provider *entities.Provider) error
}

// llmClientImpl LLM提供商客户端实现
type llmClientImpl struct {
	httpClient HTTPClient
	decryptKey func(encrypted string) (string, error)
}

// NewLLMClient 创建LLM提供商客户端。decryptKey用于解密存储的API密钥。
func NewLLMClient(httpClient HTTPClient, decryptKey func(encrypted string) (string, error)) LLMClient {
	return &llmClientImpl{
		httpClient: httpClient,
		decryptKey: decryptKey,
	}
}

// Complete 发送补全请求到指定提供商
func (c *llmClientImpl) Complete(ctx context.Context, provider *entities.Provider, request *CompletionRequest) (*CompletionResult, error) {
	url := fmt.Sprintf("%s/v1/chat/completions", strings.TrimSuffix(provider.APIBase, "/"))

	headers, err := c.buildAuthHeaders(provider)
	if err != nil {
		return nil, err
	}

	// 调度器在故障转移时复用同一请求，模型解析只发生在
	// 本次发送的副本上，绝不写回调用方的请求
	payload := *request
	if payload.Model == "" {
		payload.Model = provider.Model
	}

	resp, err := c.httpClient.Post(ctx, url, &payload, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to provider %s: %w", provider.Name, err)
	}

	if !resp.IsSuccess() {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: truncate(string(resp.Body), 500)}
	}

	var completion chatCompletionResponse
	if err := resp.UnmarshalJSON(&completion); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("invalid JSON from provider %s: %v", provider.Name, err)}
	}

	if completion.Error != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("provider %s returned error: %s", provider.Name, completion.Error.Message)}
	}
	if len(completion.Choices) == 0 {
		return nil, &ParseError{Reason: fmt.Sprintf("provider %s returned no choices", provider.Name)}
	}

	return &CompletionResult{
		Content:     completion.Choices[0].Message.Content,
		Model:       completion.Model,
		TokensUsed:  completion.Usage.TotalTokens,
		RawResponse: resp.Body,
	}, nil
}

// HealthCheck 对提供商执行轻量健康探测。
// 使用模型列表端点，不产生计费调用。
func (c *llmClientImpl) HealthCheck(ctx context.Context, provider *entities.Provider) error {
	url := fmt.Sprintf("%s/v1/models", strings.TrimSuffix(provider.APIBase, "/"))

	headers, err := c.buildAuthHeaders(provider)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Get(ctx, url, headers)
	if err != nil {
		return fmt.Errorf("health check failed for provider %s: %w", provider.Name, err)
	}

	if !resp.IsSuccess() {
		return &APIError{StatusCode: resp.StatusCode, Body: truncate(string(resp.Body), 200)}
	}

	return nil
}

// buildAuthHeaders 根据提供商类型构造认证头
func (c *llmClientImpl) buildAuthHeaders(provider *entities.Provider) (map[string]string, error) {
	headers := map[string]string{
		"Content-Type": "application/json",
	}

	if provider.APIKeyEncrypted == nil || *provider.APIKeyEncrypted == "" {
		return headers, nil
	}

	apiKey, err := c.decryptKey(*provider.APIKeyEncrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt API key for provider %s: %w", provider.Name, err)
	}

	switch {
	case strings.EqualFold(provider.Name, "anthropic"):
		headers["x-api-key"] = apiKey
		headers["anthropic-version"] = "2023-06-01"
	default:
		headers["Authorization"] = fmt.Sprintf("Bearer %s", apiKey)
	}

	return headers, nil
}

// truncate 截断过长的响应体，回退到rune边界避免产生非法UTF-8
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// BuildAnalysisMessages 根据帖子内容与提示词模板构造对话消息。
// 图像/GIF类帖子附带image_url内容块（多模态请求）。
func BuildAnalysisMessages(content string, mediaType entities.MediaType, mediaURL, promptTemplate string) []ChatMessage {
	messages := []ChatMessage{
		{Role: "system", Content: promptTemplate},
	}

	switch mediaType {
	case entities.MediaTypeImage, entities.MediaTypeGIF:
		if mediaURL != "" {
			messages = append(messages, ChatMessage{
				Role: "user",
				Content: []ContentBlock{
					{Type: "text", Text: content},
					{Type: "image_url", ImageURL: &ImageURL{URL: mediaURL}},
				},
			})
			return messages
		}
		fallthrough
	default:
		messages = append(messages, ChatMessage{Role: "user", Content: content})
	}

	return messages
}

// 保证实现满足接口
var _ LLMClient = (*llmClientImpl)(nil)
