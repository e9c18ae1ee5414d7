package middleware

import (
	"strings"

	"github.com/courtside-app/courtside/backend/internal/auth"
	"github.com/courtside-app/courtside/backend/internal/util"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid bearer token and puts the user in the
// context under "user" and "user_id"
func AuthMiddleware(tokens auth.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			util.RespondUnauthorized(c, "missing bearer token")
			return
		}

		user, err := tokens.ValidateToken(c.Request.Context(), token)
		if err != nil {
			util.RespondUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(util.ContextUserKey, user)
		c.Set(util.ContextUserIDKey, user.ID)
		c.Next()
	}
}

// RequireAdmin runs after AuthMiddleware and answers 403 to anyone whose
// account is not flagged admin
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := util.GetUserFromContext(c)
		switch {
		case !ok:
			c.Abort()
		case !user.IsAdmin:
			util.RespondForbidden(c, "admin access required")
		default:
			c.Next()
		}
	}
}
