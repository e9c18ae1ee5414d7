package api

import (
	"context"

	"github.com/courtside-app/courtside/cli/pkg/client"
	"github.com/courtside-app/courtside/cli/pkg/logger"
)

// Register creates an account and returns its first token
func Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	logger.Debug("Registering", "email", req.Email, "username", req.Username)

	var authResp AuthResponse
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&authResp).
		Post("/api/v1/auth/register")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &authResp, nil
}

// Login authenticates user with email and password
func Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	logger.Debug("Attempting login", "email", email)

	var authResp AuthResponse
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetBody(LoginRequest{Email: email, Password: password}).
		SetResult(&authResp).
		Post("/api/v1/auth/login")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	logger.Debug("Login successful", "username", authResp.User.Username)
	return &authResp, nil
}

// GetCurrentUser gets the current authenticated user
func GetCurrentUser(ctx context.Context) (*User, error) {
	var userResp UserResponse
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetResult(&userResp).
		Get("/api/v1/auth/me")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &userResp.User, nil
}
