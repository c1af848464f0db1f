package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorType 调度错误分类
type ErrorType string

const (
	ErrorTypeNetwork   ErrorType = "network"    // 连接层错误
	ErrorTypeTimeout   ErrorType = "timeout"    // 超时
	ErrorTypeAuth      ErrorType = "auth"       // 401/403
	ErrorTypeRateLimit ErrorType = "rate_limit" // 429
	ErrorTypeServer    ErrorType = "server"     // 5xx
	ErrorTypeClient    ErrorType = "client"     // 其他4xx
	ErrorTypeParse     ErrorType = "parse"      // 响应格式异常

	ErrorTypeNoEligibleProvider    ErrorType = "no_eligible_provider"
	ErrorTypeAllProvidersExhausted ErrorType = "all_providers_exhausted"
)

// ProviderError 单个提供商调用失败的结构化错误
type ProviderError struct {
	Type         ErrorType
	ProviderID   int64
	ProviderName string
	StatusCode   int
	Message      string
	Err          error
}

// Error 实现error接口
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s: %s (status %d): %s", e.ProviderName, e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %s: %s: %s", e.ProviderName, e.Type, e.Message)
}

// Unwrap 返回底层错误
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Retryable 是否应故障转移到下一候选。
// auth和client虽记为失败但同样转移：一个提供商配置错误不应拖垮整个请求。
func (e *ProviderError) Retryable() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeTimeout, ErrorTypeServer, ErrorTypeRateLimit,
		ErrorTypeAuth, ErrorTypeClient, ErrorTypeParse:
		return true
	}
	return false
}

// DispatchError 终态调度错误，携带最后一次具体失败原因供诊断
type DispatchError struct {
	Type     ErrorType
	Attempts int
	LastErr  error
}

// Error 实现error接口
func (e *DispatchError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("%s after %d attempts: last error: %v", e.Type, e.Attempts, e.LastErr)
	}
	return string(e.Type)
}

// Unwrap 返回最后一次具体错误
func (e *DispatchError) Unwrap() error {
	return e.LastErr
}

// IsNoEligibleProvider 判断是否为无可用提供商错误
func IsNoEligibleProvider(err error) bool {
	var de *DispatchError
	return errors.As(err, &de) && de.Type == ErrorTypeNoEligibleProvider
}

// IsAllProvidersExhausted 判断是否为候选耗尽错误
func IsAllProvidersExhausted(err error) bool {
	var de *DispatchError
	return errors.As(err, &de) && de.Type == ErrorTypeAllProvidersExhausted
}

// ClassifyStatusCode 根据HTTP状态码分类错误
func ClassifyStatusCode(statusCode int) ErrorType {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return ErrorTypeAuth
	case statusCode == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case statusCode >= 500:
		return ErrorTypeServer
	case statusCode >= 400:
		return ErrorTypeClient
	}
	return ErrorTypeServer
}

// ClassifyTransportError 根据传输层错误分类
func ClassifyTransportError(err error) ErrorType {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorTypeTimeout
	}
	return ErrorTypeNetwork
}
