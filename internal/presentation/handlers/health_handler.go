package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ai-analysis-gateway/internal/application/dto"
	"ai-analysis-gateway/internal/infrastructure/database"
	"ai-analysis-gateway/internal/infrastructure/logger"
)

// HealthHandler 服务健康检查处理器
type HealthHandler struct {
	db        *gorm.DB
	logger    logger.Logger
	startedAt time.Time
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(db *gorm.DB, logger logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:        db,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// HealthCheck 服务健康检查
// @Summary 服务健康检查
// @Description 检查服务与数据库连接状态
// @Tags 系统
// @Produce json
// @Success 200 {object} dto.Response "服务正常"
// @Failure 503 {object} dto.Response "服务异常"
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	}

	if err := database.HealthCheck(h.db); err != nil {
		h.logger.WithField("error", err.Error()).Error("Database health check failed")
		status["status"] = "degraded"
		status["database"] = "unreachable"
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse(
			"SERVICE_UNHEALTHY",
			"Database is unreachable",
			status,
		))
		return
	}

	status["database"] = "ok"
	c.JSON(http.StatusOK, dto.SuccessResponse(status, "Service is healthy"))
}
