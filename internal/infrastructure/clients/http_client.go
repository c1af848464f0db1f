package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient HTTP客户端接口
type HTTPClient interface {
	// Get 发送GET请求
	Get(ctx context.Context, url string, headers map[string]string) (*HTTPResponse, error)

	// Post 发送POST请求，body会被序列化为JSON
	Post(ctx context.Context, url string, body interface{}, headers map[string]string) (*HTTPResponse, error)
}

// HTTPResponse HTTP响应
type HTTPResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsSuccess 检查响应是否成功
func (r *HTTPResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// UnmarshalJSON 将响应体解析到目标结构
func (r *HTTPResponse) UnmarshalJSON(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// httpClientImpl HTTP客户端实现
type httpClientImpl struct {
	client *http.Client
}

// NewHTTPClient 创建HTTP客户端
func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &httpClientImpl{
		client: &http.Client{Timeout: timeout},
	}
}

// Get 发送GET请求
func (c *httpClientImpl) Get(ctx context.Context, url string, headers map[string]string) (*HTTPResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	return c.do(req)
}

// Post 发送POST请求
func (c *httpClientImpl) Post(ctx context.Context, url string, body interface{}, headers map[string]string) (*HTTPResponse, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	return c.do(req)
}

func (c *httpClientImpl) do(req *http.Request) (*HTTPResponse, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}
