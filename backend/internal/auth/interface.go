package auth

import (
	"context"

	"github.com/courtside-app/courtside/backend/internal/models"
)

// TokenValidator resolves a bearer token to its user. The auth middleware
// and the websocket handshake depend on this rather than on Service.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*models.User, error)
}

var _ TokenValidator = (*Service)(nil)
