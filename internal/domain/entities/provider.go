package entities

import "time"

// HealthStatus 提供商健康状态枚举
type HealthStatus string

const (
	HealthStatusUnknown     HealthStatus = "unknown"
	HealthStatusAvailable   HealthStatus = "available"
	HealthStatusUnavailable HealthStatus = "unavailable"
)

// MediaType 分析内容的媒体类型枚举
type MediaType string

const (
	MediaTypeText  MediaType = "text"
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeGIF   MediaType = "gif"
)

// Provider LLM提供商实体
type Provider struct {
	ID              int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name            string  `json:"name" gorm:"not null;size:100;uniqueIndex"`  // 提供商名称，如 openai
	APIBase         string  `json:"api_base" gorm:"not null;size:500"`          // API基础地址
	APIKeyEncrypted *string `json:"-" gorm:"size:500"`                          // 加密后的API密钥，永不回显
	Model           string  `json:"model" gorm:"not null;size:200"`             // 使用的模型名称
	Priority        int     `json:"priority" gorm:"not null;default:100;index"` // 优先级，数字越小越优先
	IsActive        bool    `json:"is_active" gorm:"not null;default:true;index"`

	// 媒体能力标记
	SupportsText  bool `json:"supports_text" gorm:"not null;default:true"`
	SupportsImage bool `json:"supports_image" gorm:"not null;default:false"`
	SupportsVideo bool `json:"supports_video" gorm:"not null;default:false"`
	SupportsGIF   bool `json:"supports_gif" gorm:"not null;default:false"`

	// 健康状态（仅由健康监控器写入）
	HealthStatus  HealthStatus `json:"health_status" gorm:"not null;size:20;default:'unknown';index"`
	LastCheckedAt *time.Time   `json:"last_checked_at,omitempty"`

	// 滚动统计（仅由调度器写入）
	UsageCount        int64   `json:"usage_count" gorm:"not null;default:0"`
	SuccessCount      int64   `json:"success_count" gorm:"not null;default:0"`
	ErrorCount        int64   `json:"error_count" gorm:"not null;default:0"`
	AvgResponseTimeMs float64 `json:"avg_response_time_ms" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;autoUpdateTime"`
}

// TableName 指定表名
func (Provider) TableName() string {
	return "providers"
}

// SupportsMedia 检查提供商是否支持指定媒体类型
func (p *Provider) SupportsMedia(mediaType MediaType) bool {
	switch mediaType {
	case MediaTypeText:
		return p.SupportsText
	case MediaTypeImage:
		return p.SupportsImage
	case MediaTypeVideo:
		return p.SupportsVideo
	case MediaTypeGIF:
		return p.SupportsGIF
	}
	return false
}

// HealthRank 健康状态排序权重，available最优先，unavailable仅作兜底
func (p *Provider) HealthRank() int {
	switch p.HealthStatus {
	case HealthStatusAvailable:
		return 0
	case HealthStatusUnknown:
		return 1
	default:
		return 2
	}
}

// SuccessRate 计算成功率
func (p *Provider) SuccessRate() float64 {
	if p.UsageCount == 0 {
		return 0
	}
	return float64(p.SuccessCount) / float64(p.UsageCount)
}

// ParseMediaType 解析媒体类型字符串
func ParseMediaType(s string) (MediaType, bool) {
	switch MediaType(s) {
	case MediaTypeText, MediaTypeImage, MediaTypeVideo, MediaTypeGIF:
		return MediaType(s), true
	}
	return "", false
}
