// Package auth restores the stored session before API calls
package auth

import (
	"fmt"

	"github.com/courtside-app/courtside/cli/pkg/client"
	"github.com/courtside-app/courtside/cli/pkg/credentials"
	clierrors "github.com/courtside-app/courtside/cli/pkg/errors"
	"github.com/courtside-app/courtside/cli/pkg/logger"
)

// RequireSession loads the stored credentials and installs the token on the
// HTTP client. Expired credentials are removed so the next login starts
// clean.
func RequireSession() (*credentials.Credentials, error) {
	creds, err := credentials.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	if creds == nil || creds.AccessToken == "" {
		return nil, clierrors.NotLoggedInError()
	}
	if creds.IsExpired() {
		logger.Debug("Stored session expired", "username", creds.Username, "expired_at", creds.ExpiresAt)
		if err := credentials.Delete(); err != nil {
			logger.Warn("Failed to remove expired credentials", "err", err)
		}
		return nil, clierrors.SessionExpiredError()
	}

	client.SetAuthToken(creds.AccessToken)
	return creds, nil
}
