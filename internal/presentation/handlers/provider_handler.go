package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ai-analysis-gateway/internal/application/dto"
	"ai-analysis-gateway/internal/application/services"
	"ai-analysis-gateway/internal/infrastructure/logger"
)

// ProviderHandler 提供商管理处理器
type ProviderHandler struct {
	providerService services.ProviderService
	logger          logger.Logger
}

// NewProviderHandler 创建提供商管理处理器
func NewProviderHandler(providerService services.ProviderService, logger logger.Logger) *ProviderHandler {
	return &ProviderHandler{
		providerService: providerService,
		logger:          logger,
	}
}

// CreateProvider 注册提供商
// @Summary 注册提供商
// @Description 注册一个新的LLM提供商，API密钥加密存储且永不回显
// @Tags 提供商管理
// @Accept json
// @Produce json
// @Param request body dto.CreateProviderRequest true "注册请求"
// @Success 201 {object} dto.Response{data=dto.ProviderResponse} "注册成功"
// @Failure 400 {object} dto.Response "请求参数错误"
// @Failure 409 {object} dto.Response "名称已存在"
// @Security BearerAuth
// @Router /admin/providers [post]
func (h *ProviderHandler) CreateProvider(c *gin.Context) {
	var req dto.CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse(
			"INVALID_REQUEST",
			"Invalid request body",
			map[string]interface{}{
				"details": err.Error(),
			},
		))
		return
	}

	provider, err := h.providerService.CreateProvider(c.Request.Context(), &req)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"name":  req.Name,
			"error": err.Error(),
		}).Error("Failed to create provider")

		c.JSON(http.StatusInternalServerError, dto.ErrorResponse(
			"CREATE_PROVIDER_FAILED",
			"Failed to create provider",
			map[string]interface{}{
				"details": err.Error(),
			},
		))
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(provider, "Provider created successfully"))
}

// GetProvider 获取提供商
// @Summary 获取提供商详情
// @Description 根据ID获取提供商配置、健康状态与使用统计
// @Tags 提供商管理
// @Produce json
// @Param id path int true "提供商ID"
// @Success 200 {object} dto.Response{data=dto.ProviderResponse} "获取成功"
// @Failure 404 {object} dto.Response "提供商不存在"
// @Security BearerAuth
// @Router /admin/providers/{id} [get]
func (h *ProviderHandler) GetProvider(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	provider, err := h.providerService.GetProvider(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse(
			"PROVIDER_NOT_FOUND",
			"Provider not found",
			nil,
		))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(provider, "Provider retrieved successfully"))
}

// ListProviders 获取提供商列表
// @Summary 提供商列表
// @Description 获取所有提供商，active_only=true时只返回启用的
// @Tags 提供商管理
// @Produce json
// @Param active_only query bool false "只返回启用的提供商"
// @Success 200 {object} dto.Response{data=[]dto.ProviderResponse} "获取成功"
// @Security BearerAuth
// @Router /admin/providers [get]
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	providers, err := h.providerService.ListProviders(c.Request.Context(), activeOnly)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list providers")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse(
			"LIST_PROVIDERS_FAILED",
			"Failed to list providers",
			nil,
		))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(providers, "Providers retrieved successfully"))
}

// UpdateProvider 更新提供商
// @Summary 更新提供商
// @Description 更新提供商配置，提供API密钥时重新加密存储
// @Tags 提供商管理
// @Accept json
// @Produce json
// @Param id path int true "提供商ID"
// @Param request body dto.UpdateProviderRequest true "更新请求"
// @Success 200 {object} dto.Response{data=dto.ProviderResponse} "更新成功"
// @Failure 400 {object} dto.Response "请求参数错误"
// @Failure 404 {object} dto.Response "提供商不存在"
// @Security BearerAuth
// @Router /admin/providers/{id} [put]
func (h *ProviderHandler) UpdateProvider(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse(
			"INVALID_REQUEST",
			"Invalid request body",
			map[string]interface{}{
				"details": err.Error(),
			},
		))
		return
	}

	provider, err := h.providerService.UpdateProvider(c.Request.Context(), id, &req)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"provider_id": id,
			"error":       err.Error(),
		}).Error("Failed to update provider")

		c.JSON(http.StatusInternalServerError, dto.ErrorResponse(
			"UPDATE_PROVIDER_FAILED",
			"Failed to update provider",
			map[string]interface{}{
				"details": err.Error(),
			},
		))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(provider, "Provider updated successfully"))
}

// DeleteProvider 删除提供商
// @Summary 删除提供商
// @Description 从注册表删除提供商
// @Tags 提供商管理
// @Produce json
// @Param id path int true "提供商ID"
// @Success 200 {object} dto.Response "删除成功"
// @Failure 404 {object} dto.Response "提供商不存在"
// @Security BearerAuth
// @Router /admin/providers/{id} [delete]
func (h *ProviderHandler) DeleteProvider(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.providerService.DeleteProvider(c.Request.Context(), id); err != nil {
		h.logger.WithFields(map[string]interface{}{
			"provider_id": id,
			"error":       err.Error(),
		}).Error("Failed to delete provider")

		c.JSON(http.StatusNotFound, dto.ErrorResponse(
			"PROVIDER_NOT_FOUND",
			"Provider not found",
			nil,
		))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(nil, "Provider deleted successfully"))
}

// ToggleProvider 启用/停用提供商
// @Summary 启用/停用提供商
// @Description 切换提供商的启用状态，停用的提供商不参与调度与健康检查
// @Tags 提供商管理
// @Accept json
// @Produce json
// @Param id path int true "提供商ID"
// @Param request body dto.ToggleProviderRequest true "切换请求"
// @Success 200 {object} dto.Response{data=dto.ProviderResponse} "切换成功"
// @Failure 400 {object} dto.Response "请求参数错误"
// @Failure 404 {object} dto.Response "提供商不存在"
// @Security BearerAuth
// @Router /admin/providers/{id}/toggle [post]
func (h *ProviderHandler) ToggleProvider(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.ToggleProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse(
			"INVALID_REQUEST",
			"is_active is required",
			nil,
		))
		return
	}

	provider, err := h.providerService.ToggleProvider(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse(
			"PROVIDER_NOT_FOUND",
			"Provider not found",
			nil,
		))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(provider, "Provider toggled successfully"))
}

// TriggerHealthCheck 手动触发健康检查
// @Summary 触发健康检查
// @Description 立即对所有启用的提供商执行一轮健康检查并返回结果
// @Tags 提供商管理
// @Produce json
// @Success 200 {object} dto.Response{data=[]dto.HealthCheckResultResponse} "检查完成"
// @Failure 500 {object} dto.Response "检查失败"
// @Security BearerAuth
// @Router /admin/providers/health-check [post]
func (h *ProviderHandler) TriggerHealthCheck(c *gin.Context) {
	results, err := h.providerService.TriggerHealthCheck(c.Request.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Manual health check failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse(
			"HEALTH_CHECK_FAILED",
			"Failed to run health check",
			map[string]interface{}{
				"details": err.Error(),
			},
		))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(results, "Health check completed"))
}

// LastHealthResults 获取最近健康检查结果
// @Summary 最近健康检查结果
// @Description 获取最近一轮健康检查的结果，不触发新检查
// @Tags 提供商管理
// @Produce json
// @Success 200 {object} dto.Response{data=[]dto.HealthCheckResultResponse} "获取成功"
// @Security BearerAuth
// @Router /admin/providers/health-check [get]
func (h *ProviderHandler) LastHealthResults(c *gin.Context) {
	results := h.providerService.LastHealthResults(c.Request.Context())
	c.JSON(http.StatusOK, dto.SuccessResponse(results, "Health check results retrieved successfully"))
}

// GetProviderStats 获取提供商使用统计
// @Summary 提供商使用统计
// @Description 获取提供商的调用次数、成功率与平均延迟
// @Tags 提供商管理
// @Produce json
// @Param id path int true "提供商ID"
// @Success 200 {object} dto.Response{data=dto.ProviderResponse} "获取成功"
// @Failure 404 {object} dto.Response "提供商不存在"
// @Security BearerAuth
// @Router /admin/providers/{id}/stats [get]
func (h *ProviderHandler) GetProviderStats(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	provider, err := h.providerService.GetProviderStats(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse(
			"PROVIDER_NOT_FOUND",
			"Provider not found",
			nil,
		))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(provider, "Provider stats retrieved successfully"))
}

// ResetProviderStats 重置提供商使用统计
// @Summary 重置使用统计
// @Description 清零提供商的调用计数与平均延迟
// @Tags 提供商管理
// @Produce json
// @Param id path int true "提供商ID"
// @Success 200 {object} dto.Response{data=dto.ProviderResponse} "重置成功"
// @Failure 404 {object} dto.Response "提供商不存在"
// @Security BearerAuth
// @Router /admin/providers/{id}/stats/reset [post]
func (h *ProviderHandler) ResetProviderStats(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	provider, err := h.providerService.ResetProviderStats(c.Request.Context(), id)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"provider_id": id,
			"error":       err.Error(),
		}).Error("Failed to reset provider stats")

		c.JSON(http.StatusNotFound, dto.ErrorResponse(
			"PROVIDER_NOT_FOUND",
			"Provider not found",
			nil,
		))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(provider, "Provider stats reset successfully"))
}

// parseID 解析路径中的提供商ID
func (h *ProviderHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse(
			"INVALID_PROVIDER_ID",
			"Invalid provider ID",
			nil,
		))
		return 0, false
	}
	return id, true
}
