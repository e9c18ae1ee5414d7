package service

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/courtside-app/courtside/cli/pkg/client"
	"github.com/courtside-app/courtside/cli/pkg/config"
	"github.com/courtside-app/courtside/cli/pkg/output"
	"github.com/fatih/color"
	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

// setup isolates config and captures output in the given format
func setup(t *testing.T, format string) *bytes.Buffer {
	t.Helper()
	require.NoError(t, config.Init(filepath.Join(t.TempDir(), "config.toml")))
	config.Set("output.format", format)
	client.Init()

	color.NoColor = true
	buf := &bytes.Buffer{}
	prev := output.Writer
	output.Writer = buf
	t.Cleanup(func() { output.Writer = prev })
	return buf
}

// serve starts handler and points the shared client at it
func serve(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	config.Set("api.base_url", srv.URL)
	client.Init()
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
