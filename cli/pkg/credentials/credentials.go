// Package credentials persists the logged-in session next to the config
// file. The file is JSON and only ever readable by its owner.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/courtside-app/courtside/cli/pkg/config"
	json "github.com/json-iterator/go"
)

type Credentials struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	IsAdmin     bool      `json:"is_admin"`
}

func (c *Credentials) IsExpired() bool { return !time.Now().Before(c.ExpiresAt) }

// IsValid reports whether the token can still be sent
func (c *Credentials) IsValid() bool { return c.AccessToken != "" && !c.IsExpired() }

// Load returns nil, nil when nobody has logged in
func Load() (*Credentials, error) {
	data, err := os.ReadFile(config.GetCredentialsPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	creds := new(Credentials)
	if err := json.Unmarshal(data, creds); err != nil {
		return nil, fmt.Errorf("corrupt credentials file: %w", err)
	}
	return creds, nil
}

// Save replaces the credentials file atomically with a 0600 copy
func Save(creds *Credentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}

	path := config.GetCredentialsPath()
	tmp, err := os.CreateTemp(filepath.Dir(path), ".credentials-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete logs out locally. A missing file is not an error.
func Delete() error {
	if err := os.Remove(config.GetCredentialsPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
