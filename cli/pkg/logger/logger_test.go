package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/courtside-app/courtside/cli/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingBeforeInitIsSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		Debug("test debug", "key", "value")
		Info("test info", "a", 1, "b", 2.5)
		Warn("message only")
		Error("test error", "err", "boom")
	})
}

func TestInitWritesToConfiguredFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Init(filepath.Join(dir, "config.toml")))

	Init(false)
	assert.Equal(t, log.InfoLevel, GetLogger().GetLevel())

	Debug("hidden at info level")
	Info("feed loaded", "page", 2)

	data, err := os.ReadFile(filepath.Join(dir, "courtside.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "feed loaded")
	assert.Contains(t, string(data), "page=2")
	assert.NotContains(t, string(data), "hidden at info level")
}

func TestVerboseForcesDebug(t *testing.T) {
	require.NoError(t, config.Init(filepath.Join(t.TempDir(), "config.toml")))
	config.Set("log.level", "error")

	Init(true)
	assert.Equal(t, log.DebugLevel, GetLogger().GetLevel())

	Init(false)
	assert.Equal(t, log.ErrorLevel, GetLogger().GetLevel())
}
