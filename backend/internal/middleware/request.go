package middleware

import (
	"strings"
	"time"

	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	requestIDHeader = "X-Request-ID"
	maxRequestIDLen = 128
)

// quietPaths are polled by probes and scrapers; their successes log at debug
var quietPaths = map[string]bool{"/health": true, "/metrics": true}

// RequestIDMiddleware tags every request with an ID, reusing a sane incoming
// X-Request-ID and minting a UUID otherwise. The ID is echoed back.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	return !strings.ContainsFunc(id, func(r rune) bool { return r < 0x21 || r > 0x7e })
}

// GinLoggerMiddleware writes one access log line per request
func GinLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := accessLevel(c.Request.URL.Path, status)
		ce := logger.Log.Check(level, "HTTP request")
		if ce == nil {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", route),
			logger.WithStatus(status),
			logger.WithDuration(time.Since(start)),
			zap.Int("bytes", c.Writer.Size()),
			logger.WithIP(c.ClientIP()),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		for key, field := range map[string]func(string) zap.Field{
			"request_id": logger.WithRequestID,
			"user_id":    logger.WithUserID,
		} {
			if v := c.GetString(key); v != "" {
				fields = append(fields, field(v))
			}
		}
		if hit := c.Writer.Header().Get(cacheHeader); hit != "" {
			fields = append(fields, zap.String("cache", hit))
		}
		ce.Write(fields...)
	}
}

func accessLevel(path string, status int) zapcore.Level {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel
	case status >= 400:
		return zapcore.WarnLevel
	case quietPaths[path]:
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}
