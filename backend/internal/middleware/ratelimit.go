package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/courtside-app/courtside/backend/internal/cache"
	"github.com/courtside-app/courtside/backend/internal/errors"
	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Name labels the limiter in keys and metrics
	Name string
	// Requests per window
	Limit  int
	Window time.Duration
	// KeyFunc picks the bucket; defaults to the user ID, then the client IP
	KeyFunc func(c *gin.Context) string
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{Name: "api", Limit: 300, Window: time.Minute}
}

// AuthRateLimitConfig returns stricter limits for login and register
func AuthRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{Name: "auth", Limit: 10, Window: time.Minute}
}

// UploadRateLimitConfig returns limits for image uploads
func UploadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{Name: "upload", Limit: 20, Window: time.Minute}
}

func defaultRateLimitKey(c *gin.Context) string {
	if userID := c.GetString("user_id"); userID != "" {
		return "user:" + userID
	}
	return "ip:" + c.ClientIP()
}

// RateLimiter is a fixed-window counter kept in the shared cache so limits
// hold across server instances
type RateLimiter struct {
	store  cache.Store
	config RateLimitConfig
	now    func() time.Time
}

func NewRateLimiter(store cache.Store, config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = defaultRateLimitKey
	}
	return &RateLimiter{store: store, config: config, now: time.Now}
}

// Middleware answers 429 once a key exceeds the limit for the current window.
// A failing store answers 503.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := rl.now()
		window := now.UnixNano() / int64(rl.config.Window)
		key := fmt.Sprintf("rate_limit:%s:%s:%d", rl.config.Name, rl.config.KeyFunc(c), window)
		ctx := c.Request.Context()

		count, err := rl.store.IncrWindow(ctx, key, rl.config.Window)
		if err != nil {
			logger.Log.Error("Rate limit check failed", zap.String("limiter", rl.config.Name), zap.Error(err))
			RecordError("rate_limit_store", "middleware")
			util.RespondWithAPIError(c, errors.ServiceUnavailable("rate limiter unavailable"))
			return
		}

		remaining := int64(rl.config.Limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(rl.config.Limit) {
			windowEnd := time.Unix(0, (window+1)*int64(rl.config.Window))
			retryAfter := int(windowEnd.Sub(now).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			RecordRateLimitExceeded(rl.config.Name)
			logger.Log.Warn("Rate limit exceeded",
				zap.String("limiter", rl.config.Name),
				logger.WithIP(c.ClientIP()),
				zap.Int64("count", count))
			util.RespondWithAPIError(c, errors.RateLimited(fmt.Sprintf("rate limit exceeded, retry in %ds", retryAfter)))
			return
		}

		c.Next()
	}
}
