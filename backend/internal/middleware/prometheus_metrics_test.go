package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/courtside-app/courtside/backend/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware_StatusCodesAreNumeric(t *testing.T) {
	m := metrics.Get()
	m.HTTPRequestsTotal.Reset()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(MetricsMiddleware())
	router.GET("/posts/:id", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"id": c.Param("id")}) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/broken", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	for _, path := range []string{"/posts/a", "/posts/b", "/missing", "/broken"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	// IDs collapse into the route template
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/posts/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/missing", "404")))
	// numeric so status=~"5.." matches
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/broken", "502")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/broken", "Bad Gateway")))
}

func TestMetricsMiddleware_UnmatchedRoutesShareLabel(t *testing.T) {
	m := metrics.Get()
	m.HTTPRequestsTotal.Reset()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(MetricsMiddleware())

	for _, path := range []string{"/wp-admin", "/.env", "/random/123"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestRecordHelpers(t *testing.T) {
	m := metrics.Get()
	m.ErrorsTotal.Reset()
	m.RateLimitExceededTotal.Reset()

	RecordError("db_error", "feed")
	RecordError("db_error", "feed")
	RecordRateLimitExceeded("auth")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("db_error", "feed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitExceededTotal.WithLabelValues("auth")))
}
