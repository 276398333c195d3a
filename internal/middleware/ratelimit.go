package middleware

import (
	"math"
	"strconv"

	"go-gin-ticket-reservation/internal/ratelimit"
	apperrors "go-gin-ticket-reservation/pkg/app_errors"
	"go-gin-ticket-reservation/pkg/logger"
	"go-gin-ticket-reservation/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit 以登入使用者 (否則 client IP) 為單位限制請求頻率。
// Redis 無法使用時放行，只記錄警告。
func RateLimit(limiter ratelimit.Limiter, scope string) gin.HandlerFunc {
	log := logger.WithComponent("ratelimit")

	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, ok := UserID(c); ok {
			key = userID.String()
		}

		result, err := limiter.Allow(c.Request.Context(), scope+":"+key)
		if err != nil {
			log.Warn("rate limiter unavailable, allowing request", zap.String("scope", scope), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			metrics.RateLimitedTotal.WithLabelValues(scope).Inc()
			seconds := int(math.Ceil(result.RetryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			abortWithKind(c, apperrors.KindRateLimited)
			return
		}

		c.Next()
	}
}
