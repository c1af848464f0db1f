package middleware

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"ai-analysis-gateway/internal/application/dto"
	"ai-analysis-gateway/internal/infrastructure/config"
	"ai-analysis-gateway/internal/infrastructure/logger"
)

// RateLimitMiddleware 速率限制中间件，按客户端IP维护令牌桶
type RateLimitMiddleware struct {
	cfg    *config.RateLimitConfig
	logger logger.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewRateLimitMiddleware 创建速率限制中间件
func NewRateLimitMiddleware(cfg *config.RateLimitConfig, log logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		cfg:      cfg,
		logger:   log,
		limiters: make(map[string]*rate.Limiter),
	}
}

// RateLimit 按配置限流
func (m *RateLimitMiddleware) RateLimit() gin.HandlerFunc {
	return m.limitWith(m.cfg.RequestsPerSecond, m.cfg.Burst)
}

// CustomRateLimit 按指定速率限流
func (m *RateLimitMiddleware) CustomRateLimit(requestsPerSecond float64, burst int) gin.HandlerFunc {
	return m.limitWith(requestsPerSecond, burst)
}

func (m *RateLimitMiddleware) limitWith(requestsPerSecond float64, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.limiter(c.ClientIP(), requestsPerSecond, burst).Allow() {
			m.logger.WithFields(map[string]interface{}{
				"client_ip": c.ClientIP(),
				"path":      c.Request.URL.Path,
			}).Warn("Rate limit exceeded")

			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse(
				"RATE_LIMIT_EXCEEDED",
				"Too many requests",
				nil,
			))
			return
		}
		c.Next()
	}
}

// limiter 获取或创建令牌桶。同一个中间件实例服务多组不同速率的
// 路由，桶按IP加速率作键，各组之间互不影响。
func (m *RateLimitMiddleware) limiter(ip string, requestsPerSecond float64, burst int) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("%s|%g|%d", ip, requestsPerSecond, burst)
	limiter, ok := m.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
		m.limiters[key] = limiter
	}
	return limiter
}
