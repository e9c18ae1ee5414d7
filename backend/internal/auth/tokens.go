package auth

import (
	"fmt"

	"github.com/courtside-app/courtside/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "courtside"

// Claims is the body of a Courtside access token. Subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Admin    bool   `json:"is_admin,omitempty"`
}

// issue signs an access token for user valid for the service TTL
func (s *Service) issue(user *models.User) (*AuthResponse, error) {
	now := s.now()
	expires := now.Add(s.tokenTTL)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Username: user.Username,
		Admin:    user.IsAdmin,
	}).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResponse{Token: signed, User: *user, ExpiresAt: expires.UTC()}, nil
}

// parse verifies signature, algorithm, issuer and expiry and returns the
// subject
func (s *Service) parse(raw string) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return s.jwtSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}
