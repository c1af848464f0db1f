package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-analysis-gateway/internal/application/dto"
	"ai-analysis-gateway/internal/infrastructure/cache"
	"ai-analysis-gateway/internal/infrastructure/logger"
)

// CacheHandler 缓存管理处理器
type CacheHandler struct {
	requestCache cache.RequestCache
	logger       logger.Logger
}

// NewCacheHandler 创建缓存管理处理器
func NewCacheHandler(requestCache cache.RequestCache, logger logger.Logger) *CacheHandler {
	return &CacheHandler{
		requestCache: requestCache,
		logger:       logger,
	}
}

// GetCacheStats 获取缓存统计
// @Summary 缓存统计
// @Description 获取请求缓存的命中/未命中/条目数统计
// @Tags 缓存管理
// @Produce json
// @Success 200 {object} dto.Response{data=dto.CacheStatsResponse} "获取成功"
// @Security BearerAuth
// @Router /admin/cache/stats [get]
func (h *CacheHandler) GetCacheStats(c *gin.Context) {
	stats := h.requestCache.Stats(c.Request.Context())
	response := &dto.CacheStatsResponse{
		Hits:    stats.Hits,
		Misses:  stats.Misses,
		Entries: stats.Entries,
	}
	c.JSON(http.StatusOK, dto.SuccessResponse(response, "Cache stats retrieved successfully"))
}

// ClearCache 清空缓存
// @Summary 清空缓存
// @Description 清空所有缓存的分析结果，返回删除的条目数
// @Tags 缓存管理
// @Produce json
// @Success 200 {object} dto.Response{data=dto.ClearCacheResponse} "清空成功"
// @Failure 500 {object} dto.Response "清空失败"
// @Security BearerAuth
// @Router /admin/cache [delete]
func (h *CacheHandler) ClearCache(c *gin.Context) {
	removed, err := h.requestCache.Clear(c.Request.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to clear cache")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse(
			"CLEAR_CACHE_FAILED",
			"Failed to clear cache",
			map[string]interface{}{
				"details": err.Error(),
			},
		))
		return
	}

	h.logger.WithField("removed", removed).Info("Request cache cleared")
	c.JSON(http.StatusOK, dto.SuccessResponse(&dto.ClearCacheResponse{Removed: removed}, "Cache cleared successfully"))
}
