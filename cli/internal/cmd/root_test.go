package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/courtside-app/courtside/cli/pkg/config"
	"github.com/courtside-app/courtside/cli/pkg/credentials"
	clierrors "github.com/courtside-app/courtside/cli/pkg/errors"
	"github.com/courtside-app/courtside/cli/pkg/output"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags puts every flag back to its default, since cobra keeps parsed
// values between Execute calls
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the CLI against the config file cfg and returns what it printed
func run(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	buf := &bytes.Buffer{}
	prev := output.Writer
	output.Writer = buf
	t.Cleanup(func() { output.Writer = prev })

	resetFlags(rootCmd)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

// loggedIn stores a session next to a fresh config file and returns its path
func loggedIn(t *testing.T, admin bool) string {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, config.Init(cfg))
	require.NoError(t, credentials.Save(&credentials.Credentials{
		AccessToken: "tok",
		Username:    "serena",
		IsAdmin:     admin,
		ExpiresAt:   time.Now().Add(time.Hour),
	}))
	return cfg
}

func tempConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "config.toml")
}

func TestVersion(t *testing.T) {
	out, err := run(t, tempConfig(t), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Courtside CLI v")
}

func TestRejectsUnknownOutputFormat(t *testing.T) {
	_, err := run(t, tempConfig(t), "--output", "xml", "version")
	var cliErr *clierrors.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierrors.ErrorTypeValidation, cliErr.Type)
}

func TestFeedRequiresLogin(t *testing.T) {
	_, err := run(t, tempConfig(t), "feed", "list")
	var cliErr *clierrors.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierrors.ErrorTypeAuth, cliErr.Type)
}

func TestFeedListUsesStoredSession(t *testing.T) {
	var gotAuth, gotPage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPage = r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"posts":[{"id":"p1","content":"first serve","author":{"username":"serena"}}],"page":2,"page_size":10,"has_more":false}`))
	}))
	defer srv.Close()

	t.Setenv("COURTSIDE_API_BASE_URL", srv.URL)
	cfg := loggedIn(t, false)

	out, err := run(t, cfg, "feed", "list", "--page", "2")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "2", gotPage)
	assert.Contains(t, out, "first serve")
}

func TestAdminRequiresAdminFlag(t *testing.T) {
	cfg := loggedIn(t, false)

	_, err := run(t, cfg, "admin", "cache-stats")
	var cliErr *clierrors.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierrors.ErrorTypeForbidden, cliErr.Type)
}

func TestConfigSetThenGet(t *testing.T) {
	cfg := tempConfig(t)

	out, err := run(t, cfg, "config", "set", "feed.page_size", "25")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved feed.page_size = 25")

	out, err = run(t, cfg, "config", "get", "feed.page_size")
	require.NoError(t, err)
	assert.Equal(t, "25\n", out)

	out, err = run(t, cfg, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, cfg+"\n", out)
}

func TestConfigRejectsUnknownKeyAndBadFormat(t *testing.T) {
	cfg := tempConfig(t)

	_, err := run(t, cfg, "config", "get", "feed.autoplay")
	var cliErr *clierrors.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierrors.ErrorTypeValidation, cliErr.Type)

	_, err = run(t, cfg, "config", "set", "output.format", "xml")
	require.ErrorAs(t, err, &cliErr)
	assert.NoFileExists(t, cfg)
}

func TestConfigShowJSON(t *testing.T) {
	out, err := run(t, tempConfig(t), "--output", "json", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `"api.base_url"`)
	assert.Contains(t, out, `"http://localhost:8787"`)
}

func TestCompletionNeedsNoConfig(t *testing.T) {
	out, err := run(t, tempConfig(t), "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "courtside")
}
