package auth

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/courtside-app/courtside/cli/pkg/client"
	"github.com/courtside-app/courtside/cli/pkg/config"
	"github.com/courtside-app/courtside/cli/pkg/credentials"
	clierrors "github.com/courtside-app/courtside/cli/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) {
	t.Helper()
	require.NoError(t, config.Init(filepath.Join(t.TempDir(), "config.toml")))
	client.Init()
}

func TestRequireSessionNotLoggedIn(t *testing.T) {
	setup(t)
	_, err := RequireSession()
	var cliErr *clierrors.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierrors.ErrorTypeAuth, cliErr.Type)
}

func TestRequireSessionExpiredRemovesCredentials(t *testing.T) {
	setup(t)
	require.NoError(t, credentials.Save(&credentials.Credentials{AccessToken: "old", ExpiresAt: time.Now().Add(-time.Hour)}))

	_, err := RequireSession()
	var cliErr *clierrors.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierrors.ErrorTypeSessionExpired, cliErr.Type)

	creds, err := credentials.Load()
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestRequireSessionSetsToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	setup(t)
	config.Set("api.base_url", srv.URL)
	client.Init()
	require.NoError(t, credentials.Save(&credentials.Credentials{AccessToken: "fresh", Username: "rafa", ExpiresAt: time.Now().Add(time.Hour)}))

	creds, err := RequireSession()
	require.NoError(t, err)
	assert.Equal(t, "rafa", creds.Username)

	_, err = client.GetClient().R().Get("/api/v1/auth/me")
	require.NoError(t, err)
	assert.Equal(t, "Bearer fresh", gotAuth)
}
