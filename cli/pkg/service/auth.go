package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/courtside-app/courtside/cli/pkg/api"
	"github.com/courtside-app/courtside/cli/pkg/auth"
	"github.com/courtside-app/courtside/cli/pkg/client"
	"github.com/courtside-app/courtside/cli/pkg/credentials"
	"github.com/courtside-app/courtside/cli/pkg/formatter"
	"github.com/courtside-app/courtside/cli/pkg/logger"
	"github.com/courtside-app/courtside/cli/pkg/output"
	"github.com/courtside-app/courtside/cli/pkg/prompter"
)

// AuthService provides authentication operations
type AuthService struct {
	prompt *prompter.Prompter
}

// NewAuthService prompts through p, or the terminal when p is nil
func NewAuthService(p *prompter.Prompter) *AuthService {
	if p == nil {
		p = prompter.Default()
	}
	return &AuthService{prompt: p}
}

// Login asks for any missing credentials, logs in and stores the session
func (as *AuthService) Login(ctx context.Context, email, password string) error {
	var err error
	if email == "" {
		if email, err = as.prompt.Required("Email: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = as.prompt.Password("Password: "); err != nil {
			return err
		}
	}

	logger.Debug("Logging in", "email", email)
	res, err := api.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return as.storeSession(res, "Logged in")
}

// Register creates an account, prompting for fields left empty
func (as *AuthService) Register(ctx context.Context, req api.RegisterRequest) error {
	var err error
	if req.Email == "" {
		if req.Email, err = as.prompt.Required("Email: "); err != nil {
			return err
		}
	}
	if req.Username == "" {
		if req.Username, err = as.prompt.Required("Username: "); err != nil {
			return err
		}
	}
	if req.DisplayName == "" {
		if req.DisplayName, err = as.prompt.String("Display name: "); err != nil {
			return err
		}
		if req.DisplayName == "" {
			req.DisplayName = req.Username
		}
	}
	if req.Password == "" {
		if req.Password, err = as.prompt.Password("Password: "); err != nil {
			return err
		}
		confirm, err := as.prompt.Password("Confirm password: ")
		if err != nil {
			return err
		}
		if confirm != req.Password {
			return fmt.Errorf("passwords do not match")
		}
	}

	res, err := api.Register(ctx, req)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return as.storeSession(res, "Account created")
}

// Logout forgets the stored session
func (as *AuthService) Logout() error {
	creds, err := credentials.Load()
	if err != nil {
		logger.Warn("Failed to read credentials", "err", err)
	}
	if err := credentials.Delete(); err != nil {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	client.ClearAuthToken()

	if creds == nil {
		output.PrintInfo("Not logged in")
		return nil
	}
	output.PrintSuccess("Logged out @%s", creds.Username)
	return nil
}

// Whoami asks the server who the stored token belongs to
func (as *AuthService) Whoami(ctx context.Context) error {
	if _, err := auth.RequireSession(); err != nil {
		return err
	}
	u, err := api.GetCurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch current user: %w", err)
	}
	return output.Render(u, func(w io.Writer) {
		output.PrintRecord(u.DisplayName, formatter.ProfileFields(*u))
	})
}

func (as *AuthService) storeSession(res *api.AuthResponse, verb string) error {
	creds := &credentials.Credentials{
		AccessToken: res.Token,
		ExpiresAt:   res.ExpiresAt,
		UserID:      res.User.ID,
		Username:    res.User.Username,
		Email:       res.User.Email,
		IsAdmin:     res.User.IsAdmin,
	}
	if err := credentials.Save(creds); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	client.SetAuthToken(res.Token)
	logger.Info("Session stored", "username", creds.Username, "expires_at", creds.ExpiresAt)

	return output.Render(res.User, func(w io.Writer) {
		output.PrintSuccess("%s as @%s", verb, res.User.Username)
		formatter.Faint.Fprintf(w, "Session valid until %s\n", res.ExpiresAt.Local().Format("2006-01-02 15:04"))
	})
}
