package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(filepath.Join(dir, "config.toml")))

	assert.Equal(t, dir, GetConfigDir())
	assert.Equal(t, filepath.Join(dir, "credentials"), GetCredentialsPath())
	assert.Equal(t, "http://localhost:8787", GetString("api.base_url"))
	assert.Equal(t, 30, GetInt("api.timeout"))
	assert.Equal(t, "text", GetString("output.format"))
	assert.Equal(t, 10, GetInt("feed.page_size"))
	assert.Equal(t, 50, GetInt("feed.max_pages"))
	assert.Equal(t, filepath.Join(dir, "courtside.log"), GetString("log.file"))
}

func TestInitCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "courtside")
	require.NoError(t, Init(filepath.Join(dir, "config.toml")))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestUserConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[api]\nbase_url = \"https://api.courtside.app\"\n\n[feed]\npage_size = 25\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	require.NoError(t, Init(path))
	assert.Equal(t, "https://api.courtside.app", GetString("api.base_url"))
	assert.Equal(t, 25, GetInt("feed.page_size"))
	assert.Equal(t, 50, GetInt("feed.max_pages"))
}

func TestSetStringPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, Init(path))

	require.NoError(t, SetString("output.format", "json"))

	require.NoError(t, Init(path))
	assert.Equal(t, "json", GetString("output.format"))
}

func TestSetStringRejectsUnknownKey(t *testing.T) {
	require.NoError(t, Init(filepath.Join(t.TempDir(), "config.toml")))
	assert.Error(t, SetString("feed.autoplay", "true"))
	assert.NoFileExists(t, GetConfigFile())
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	assert.IsNonDecreasing(t, keys)
	assert.Contains(t, keys, "api.base_url")
	assert.True(t, IsKnownKey("log.level"))
	assert.False(t, IsKnownKey("log"))
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\nbase_url = \"https://file.example\"\n"), 0600))
	t.Setenv("COURTSIDE_API_BASE_URL", "https://env.example")

	require.NoError(t, Init(path))
	assert.Equal(t, "https://env.example", GetString("api.base_url"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "logs/cs.log"), expandPath("~/logs/cs.log"))
	assert.Equal(t, "/var/log/cs.log", expandPath("/var/log/cs.log"))
	assert.Equal(t, "", expandPath(""))
}
