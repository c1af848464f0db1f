package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ai-analysis-gateway/internal/application/dto"
	"ai-analysis-gateway/internal/application/services"
	"ai-analysis-gateway/internal/infrastructure/logger"
)

// AuthMiddleware JWT认证中间件
type AuthMiddleware struct {
	authService services.AuthService
	logger      logger.Logger
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(authService services.AuthService, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		logger:      log,
	}
}

// Authenticate 验证Authorization头中的Bearer令牌
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse(
				"MISSING_TOKEN",
				"Authorization header is required",
				nil,
			))
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse(
				"INVALID_TOKEN",
				"Authorization header must use Bearer scheme",
				nil,
			))
			return
		}

		subject, err := m.authService.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			m.logger.WithFields(map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			}).Warn("Token validation failed")

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse(
				"INVALID_TOKEN",
				"Invalid or expired token",
				nil,
			))
			return
		}

		c.Set("subject", subject)
		c.Next()
	}
}
