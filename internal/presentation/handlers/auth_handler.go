package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-analysis-gateway/internal/application/dto"
	"ai-analysis-gateway/internal/application/services"
	"ai-analysis-gateway/internal/infrastructure/logger"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	authService services.AuthService
	logger      logger.Logger
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(authService services.AuthService, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login 管理员登录
// @Summary 管理员登录
// @Description 使用管理员账号获取访问令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录请求"
// @Success 200 {object} dto.Response{data=dto.LoginResponse} "登录成功"
// @Failure 400 {object} dto.Response "请求参数错误"
// @Failure 401 {object} dto.Response "凭据错误"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
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

	response, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"username":  req.Username,
			"client_ip": c.ClientIP(),
		}).Warn("Login failed")

		c.JSON(http.StatusUnauthorized, dto.ErrorResponse(
			"INVALID_CREDENTIALS",
			"Invalid username or password",
			nil,
		))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(response, "Login successful"))
}
