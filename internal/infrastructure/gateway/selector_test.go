package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ai-analysis-gateway/internal/domain/entities"
)

func textProvider(id int64, name string, priority int, health entities.HealthStatus, avgMs float64) entities.Provider {
	return entities.Provider{
		ID:                id,
		Name:              name,
		Priority:          priority,
		IsActive:          true,
		SupportsText:      true,
		HealthStatus:      health,
		AvgResponseTimeMs: avgMs,
	}
}

func TestSelect_FilterAndOrder(t *testing.T) {
	t.Run("应该过滤掉停用的提供商", func(t *testing.T) {
		inactive := textProvider(1, "a", 10, entities.HealthStatusAvailable, 100)
		inactive.IsActive = false
		active := textProvider(2, "b", 20, entities.HealthStatusAvailable, 100)

		result := Select([]entities.Provider{inactive, active}, entities.MediaTypeText)

		assert.Len(t, result, 1)
		assert.Equal(t, int64(2), result[0].ID)
	})

	t.Run("应该过滤掉不支持请求媒体类型的提供商", func(t *testing.T) {
		textOnly := textProvider(1, "text-only", 10, entities.HealthStatusAvailable, 100)
		multimodal := textProvider(2, "multimodal", 20, entities.HealthStatusAvailable, 100)
		multimodal.SupportsImage = true

		result := Select([]entities.Provider{textOnly, multimodal}, entities.MediaTypeImage)

		assert.Len(t, result, 1)
		assert.Equal(t, "multimodal", result[0].Name)
	})

	t.Run("应该按健康状态分区排序", func(t *testing.T) {
		unavailable := textProvider(1, "down", 1, entities.HealthStatusUnavailable, 10)
		unknown := textProvider(2, "new", 2, entities.HealthStatusUnknown, 10)
		available := textProvider(3, "up", 3, entities.HealthStatusAvailable, 10)

		result := Select([]entities.Provider{unavailable, unknown, available}, entities.MediaTypeText)

		assert.Len(t, result, 3)
		assert.Equal(t, "up", result[0].Name)
		assert.Equal(t, "new", result[1].Name)
		assert.Equal(t, "down", result[2].Name)
	})

	t.Run("不健康的提供商应该垫底而不是被剔除", func(t *testing.T) {
		down := textProvider(1, "down", 1, entities.HealthStatusUnavailable, 10)

		result := Select([]entities.Provider{down}, entities.MediaTypeText)

		assert.Len(t, result, 1)
		assert.Equal(t, "down", result[0].Name)
	})

	t.Run("同一分区内应该按优先级再按平均延迟排序", func(t *testing.T) {
		slow := textProvider(1, "slow", 10, entities.HealthStatusAvailable, 900)
		fast := textProvider(2, "fast", 10, entities.HealthStatusAvailable, 100)
		first := textProvider(3, "first", 5, entities.HealthStatusAvailable, 500)

		result := Select([]entities.Provider{slow, fast, first}, entities.MediaTypeText)

		assert.Equal(t, []string{"first", "fast", "slow"}, []string{result[0].Name, result[1].Name, result[2].Name})
	})

	t.Run("完全相同的指标应该按ID定序", func(t *testing.T) {
		a := textProvider(7, "a", 10, entities.HealthStatusAvailable, 100)
		b := textProvider(3, "b", 10, entities.HealthStatusAvailable, 100)

		result := Select([]entities.Provider{a, b}, entities.MediaTypeText)

		assert.Equal(t, int64(3), result[0].ID)
		assert.Equal(t, int64(7), result[1].ID)
	})

	t.Run("相同输入应该产生完全相同的顺序", func(t *testing.T) {
		providers := []entities.Provider{
			textProvider(1, "a", 10, entities.HealthStatusUnknown, 200),
			textProvider(2, "b", 10, entities.HealthStatusAvailable, 300),
			textProvider(3, "c", 5, entities.HealthStatusAvailable, 100),
			textProvider(4, "d", 10, entities.HealthStatusUnavailable, 50),
		}

		first := Select(providers, entities.MediaTypeText)
		second := Select(providers, entities.MediaTypeText)

		assert.Equal(t, first, second)
	})

	t.Run("无合格候选时应该返回空切片", func(t *testing.T) {
		textOnly := textProvider(1, "text-only", 10, entities.HealthStatusAvailable, 100)

		result := Select([]entities.Provider{textOnly}, entities.MediaTypeVideo)

		assert.Empty(t, result)
	})
}
