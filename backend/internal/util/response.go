package util

import (
	"net/http"

	"github.com/courtside-app/courtside/backend/internal/errors"
	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RespondWithAPIError aborts the request with apiErr as the JSON body.
// Server errors log at error level, client errors at warn.
func RespondWithAPIError(c *gin.Context, apiErr *errors.APIError) {
	if level, ok := levelFor(apiErr.Status); ok {
		if ce := logger.Log.Check(level, "API error"); ce != nil {
			ce.Write(
				zap.String("code", string(apiErr.Code)),
				zap.String("message", apiErr.Message),
				zap.String("field", apiErr.Field),
				logger.WithStatus(apiErr.Status),
				logger.WithRequestID(c.GetString("request_id")),
				zap.String("path", c.FullPath()),
			)
		}
	}
	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}

func levelFor(status int) (zapcore.Level, bool) {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel, true
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel, true
	}
	return zapcore.InfoLevel, false
}

func orDefault(message []string, fallback string) string {
	if len(message) > 0 && message[0] != "" {
		return message[0]
	}
	return fallback
}

func RespondUnauthorized(c *gin.Context, message ...string) {
	RespondWithAPIError(c, errors.Unauthorized(orDefault(message, "user not authenticated")))
}

func RespondForbidden(c *gin.Context, message ...string) {
	RespondWithAPIError(c, errors.Forbidden(orDefault(message, "forbidden")))
}

func RespondBadRequest(c *gin.Context, message string) {
	RespondWithAPIError(c, errors.BadRequest(message))
}

// RespondValidation answers 422 naming the offending field
func RespondValidation(c *gin.Context, field, message string) {
	RespondWithAPIError(c, errors.ValidationError(field, message))
}

// RespondInternalError answers 500 with message. cause is logged, never sent.
func RespondInternalError(c *gin.Context, message string, cause error) {
	if cause != nil {
		logger.Log.Error(message, zap.Error(cause), logger.WithRequestID(c.GetString("request_id")))
	}
	RespondWithAPIError(c, errors.InternalError(message))
}
