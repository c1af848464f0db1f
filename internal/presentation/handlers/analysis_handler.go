package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-analysis-gateway/internal/application/dto"
	"ai-analysis-gateway/internal/application/services"
	"ai-analysis-gateway/internal/domain/entities"
	"ai-analysis-gateway/internal/infrastructure/gateway"
	"ai-analysis-gateway/internal/infrastructure/logger"
)

// AnalysisHandler 内容分析处理器
type AnalysisHandler struct {
	analysisService services.AnalysisService
	logger          logger.Logger
}

// NewAnalysisHandler 创建内容分析处理器
func NewAnalysisHandler(analysisService services.AnalysisService, logger logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		logger:          logger,
	}
}

// Analyze 分析一段内容
// @Summary 内容分析
// @Description 对一段社交媒体内容执行LLM分析，命中缓存时直接返回缓存结果
// @Tags 分析接口
// @Accept json
// @Produce json
// @Param request body dto.AnalyzeRequest true "分析请求"
// @Success 200 {object} dto.Response{data=dto.AnalyzeResponse} "分析成功"
// @Failure 400 {object} dto.Response "请求参数错误"
// @Failure 503 {object} dto.Response "无可用提供商"
// @Failure 502 {object} dto.Response "所有提供商均失败"
// @Security BearerAuth
// @Router /v1/analyze [post]
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
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

	mediaType, ok := entities.ParseMediaType(req.MediaType)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse(
			"INVALID_MEDIA_TYPE",
			"Media type must be one of: text, image, video, gif",
			nil,
		))
		return
	}

	result, outcome, err := h.analysisService.AnalyzeContent(
		c.Request.Context(), req.Content, mediaType, req.MediaURL, req.PromptTemplate)
	if err != nil {
		h.respondDispatchError(c, err)
		return
	}

	response := &dto.AnalyzeResponse{
		IsRelevant:         result.Relevant(),
		AnalyticalBriefing: result.AnalyticalBriefing,
		Summary:            result.Summary,
		Translation:        result.Translation,
		ProviderID:         outcome.ProviderID,
		FromCache:          outcome.FromCache,
		ElapsedMs:          outcome.ElapsedMs,
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(response, "Content analyzed successfully"))
}

// respondDispatchError 将调度错误映射为HTTP响应
func (h *AnalysisHandler) respondDispatchError(c *gin.Context, err error) {
	h.logger.WithFields(map[string]interface{}{
		"error":      err.Error(),
		"request_id": c.GetString("request_id"),
	}).Error("Content analysis failed")

	switch {
	case gateway.IsNoEligibleProvider(err):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse(
			"NO_ELIGIBLE_PROVIDER",
			"No provider is available for the requested media type",
			nil,
		))
	case gateway.IsAllProvidersExhausted(err):
		c.JSON(http.StatusBadGateway, dto.ErrorResponse(
			"ALL_PROVIDERS_EXHAUSTED",
			"All eligible providers failed",
			map[string]interface{}{
				"details": err.Error(),
			},
		))
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse(
			"ANALYSIS_FAILED",
			"Failed to analyze content",
			map[string]interface{}{
				"details": err.Error(),
			},
		))
	}
}
