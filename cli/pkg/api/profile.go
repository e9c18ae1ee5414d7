package api

import (
	"context"
	"os"
	"path/filepath"

	"github.com/courtside-app/courtside/cli/pkg/client"
	"github.com/courtside-app/courtside/cli/pkg/logger"
)

// GetMyProfile fetches the caller's full profile
func GetMyProfile(ctx context.Context) (*User, error) {
	return getProfile(ctx, "me")
}

// GetProfile fetches another player's public profile
func GetProfile(ctx context.Context, userID string) (*User, error) {
	return getProfile(ctx, userID)
}

func getProfile(ctx context.Context, userID string) (*User, error) {
	var result UserResponse
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetPathParam("id", userID).
		SetResult(&result).
		Get("/api/v1/users/{id}")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result.User, nil
}

// UpdateProfile applies the set fields of req to the caller's profile
func UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	logger.Debug("Updating profile")

	var result UserResponse
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Put("/api/v1/users/me")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result.User, nil
}

// UploadAvatar replaces the caller's avatar with the image at path
func UploadAvatar(ctx context.Context, path string) (*User, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var result UserResponse
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetFileReader("image", filepath.Base(path), f).
		SetResult(&result).
		Post("/api/v1/users/me/avatar")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result.User, nil
}
