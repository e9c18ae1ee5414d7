package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARNING": zapcore.WarnLevel,
		"warn":    zapcore.WarnLevel,
		" error ": zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"fatal":   zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for name, want := range cases {
		assert.Equal(t, want, parseLogLevel(name), name)
	}
}

func TestInitializeWritesJSONFile(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	path := filepath.Join(t.TempDir(), "server.log")
	require.NoError(t, Initialize("warn", path))

	Log.Info("dropped below level")
	Log.Warn("court booked twice", WithUserID("u-1"), WithPostID("p-9"))
	_ = Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "court booked twice", entry["msg"])
	assert.Equal(t, "u-1", entry["user_id"])
	assert.Equal(t, "p-9", entry["post_id"])
}

func TestErrField(t *testing.T) {
	assert.Empty(t, errField(nil))
	assert.Equal(t, []zap.Field{zap.Error(os.ErrNotExist)}, errField(os.ErrNotExist))
}
