package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/models"
	"github.com/courtside-app/courtside/backend/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observeAccessLog(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })
	return logs
}

func newRequestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware(), GinLoggerMiddleware())
	r.GET("/api/v1/posts/:id", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"id": c.Param("id")}) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRequestIDReusedOrMinted(t *testing.T) {
	r := newRequestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts/p1", nil)
	req.Header.Set(requestIDHeader, "trace-abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "trace-abc", w.Header().Get(requestIDHeader))

	for _, bad := range []string{"", "has space", strings.Repeat("x", maxRequestIDLen+1)} {
		req = httptest.NewRequest(http.MethodGet, "/api/v1/posts/p1", nil)
		req.Header.Set(requestIDHeader, bad)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		got := w.Header().Get(requestIDHeader)
		assert.Len(t, got, 36, "minted id for %q", bad)
		assert.NotEqual(t, bad, got)
	}
}

func TestAccessLogLevels(t *testing.T) {
	logs := observeAccessLog(t)
	r := newRequestRouter()

	for _, path := range []string{"/api/v1/posts/p1?x=1", "/health", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/v1/posts/:id", fields["route"])
	assert.Equal(t, "x=1", fields["query"])
	assert.NotEmpty(t, fields["request_id"])

	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)

	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, "unmatched", entries[2].ContextMap()["route"])
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	as := func(user *models.User) int {
		r := gin.New()
		r.GET("/admin", func(c *gin.Context) {
			if user != nil {
				c.Set(util.ContextUserKey, user)
			}
		}, RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, as(nil))
	assert.Equal(t, http.StatusForbidden, as(&models.User{ID: "u1"}))
	assert.Equal(t, http.StatusNoContent, as(&models.User{ID: "u2", IsAdmin: true}))
}

func TestSpanAttributes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/discover?page=2&radius_km=10", nil)
	c.Set("user_id", "u-7")

	got := map[string]string{}
	for _, kv := range spanAttributes(c) {
		got[string(kv.Key)] = kv.Value.AsString()
	}
	assert.Equal(t, map[string]string{
		"courtside.user_id":   "u-7",
		"courtside.page":      "2",
		"courtside.radius_km": "10",
	}, got)
}
