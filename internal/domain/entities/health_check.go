package entities

import "time"

// HealthCheckResult 单次健康检查结果（瞬态数据，汇入Provider记录）
type HealthCheckResult struct {
	ProviderID     int64     `json:"provider_id"`
	ProviderName   string    `json:"provider_name"`
	IsSuccess      bool      `json:"is_success"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	CheckedAt      time.Time `json:"checked_at"`
}

// Status 根据检查结果推导健康状态
func (r *HealthCheckResult) Status() HealthStatus {
	if r.IsSuccess {
		return HealthStatusAvailable
	}
	return HealthStatusUnavailable
}
