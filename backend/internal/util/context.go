package util

import (
	"github.com/courtside-app/courtside/backend/internal/errors"
	"github.com/courtside-app/courtside/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// Keys the auth middleware stores the caller under
const (
	ContextUserKey   = "user"
	ContextUserIDKey = "user_id"
)

// GetUserFromContext returns the authenticated player. On a route that
// skipped the auth middleware it answers 401 and reports false.
func GetUserFromContext(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		RespondUnauthorized(c)
		return nil, false
	}
	if user, ok := v.(*models.User); ok {
		return user, true
	}
	RespondWithAPIError(c, errors.InternalError("invalid user data in context"))
	return nil, false
}

// GetUserIDFromContext is GetUserFromContext for handlers that only need the ID
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if id := c.GetString(ContextUserIDKey); id != "" {
		return id, true
	}
	RespondUnauthorized(c)
	return "", false
}
