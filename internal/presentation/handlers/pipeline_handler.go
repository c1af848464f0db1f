package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-analysis-gateway/internal/application/dto"
	"ai-analysis-gateway/internal/application/services"
	"ai-analysis-gateway/internal/infrastructure/logger"
)

// PipelineHandler 内容处理管道处理器
type PipelineHandler struct {
	queueService services.AnalysisQueueService
	logger       logger.Logger
}

// NewPipelineHandler 创建管道处理器
func NewPipelineHandler(queueService services.AnalysisQueueService, logger logger.Logger) *PipelineHandler {
	return &PipelineHandler{
		queueService: queueService,
		logger:       logger,
	}
}

// GetQueueStats 获取分析队列统计
// @Summary 分析队列统计
// @Description 获取分析队列长度、工作进程数与各状态帖子数量
// @Tags 管道管理
// @Produce json
// @Success 200 {object} dto.Response{data=services.QueueStats} "获取成功"
// @Failure 500 {object} dto.Response "获取失败"
// @Security BearerAuth
// @Router /admin/pipeline/stats [get]
func (h *PipelineHandler) GetQueueStats(c *gin.Context) {
	stats, err := h.queueService.GetQueueStats(c.Request.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to get queue stats")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse(
			"QUEUE_STATS_FAILED",
			"Failed to get queue stats",
			nil,
		))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(stats, "Queue stats retrieved successfully"))
}
