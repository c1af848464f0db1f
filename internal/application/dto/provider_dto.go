package dto

import "time"

// CreateProviderRequest 创建提供商请求。APIKey只写不读，
// 存库前加密，任何响应都不回显。
type CreateProviderRequest struct {
	Name          string `json:"name" binding:"required" example:"openai"`
	APIBase       string `json:"api_base" binding:"required" example:"https://api.openai.com"`
	APIKey        string `json:"api_key" binding:"required"`
	Model         string `json:"model" binding:"required" example:"gpt-4o-mini"`
	Priority      int    `json:"priority" example:"10"`
	IsActive      *bool  `json:"is_active,omitempty"`
	SupportsText  *bool  `json:"supports_text,omitempty"`
	SupportsImage *bool  `json:"supports_image,omitempty"`
	SupportsVideo *bool  `json:"supports_video,omitempty"`
	SupportsGIF   *bool  `json:"supports_gif,omitempty"`
}

// UpdateProviderRequest 更新提供商请求，均为可选字段
type UpdateProviderRequest struct {
	Name          *string `json:"name,omitempty"`
	APIBase       *string `json:"api_base,omitempty"`
	APIKey        *string `json:"api_key,omitempty"` // 提供时重新加密存储
	Model         *string `json:"model,omitempty"`
	Priority      *int    `json:"priority,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
	SupportsText  *bool   `json:"supports_text,omitempty"`
	SupportsImage *bool   `json:"supports_image,omitempty"`
	SupportsVideo *bool   `json:"supports_video,omitempty"`
	SupportsGIF   *bool   `json:"supports_gif,omitempty"`
}

// ProviderResponse 提供商信息响应（不含密钥）
type ProviderResponse struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	APIBase           string     `json:"api_base"`
	Model             string     `json:"model"`
	Priority          int        `json:"priority"`
	IsActive          bool       `json:"is_active"`
	SupportsText      bool       `json:"supports_text"`
	SupportsImage     bool       `json:"supports_image"`
	SupportsVideo     bool       `json:"supports_video"`
	SupportsGIF       bool       `json:"supports_gif"`
	HealthStatus      string     `json:"health_status"`
	LastCheckedAt     *time.Time `json:"last_checked_at,omitempty"`
	UsageCount        int64      `json:"usage_count"`
	SuccessCount      int64      `json:"success_count"`
	ErrorCount        int64      `json:"error_count"`
	AvgResponseTimeMs float64    `json:"avg_response_time_ms"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ToggleProviderRequest 启用/停用提供商请求
type ToggleProviderRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// HealthCheckResultResponse 健康检查结果响应
type HealthCheckResultResponse struct {
	ProviderID     int64     `json:"provider_id"`
	ProviderName   string    `json:"provider_name"`
	IsSuccess      bool      `json:"is_success"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	CheckedAt      time.Time `json:"checked_at"`
}
