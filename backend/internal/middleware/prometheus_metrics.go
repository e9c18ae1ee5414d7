package middleware

import (
	"strconv"
	"time"

	"github.com/courtside-app/courtside/backend/internal/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware collects HTTP metrics for Prometheus. The path label is
// the route template (/api/v1/posts/:id) so IDs do not explode cardinality;
// unmatched routes share the "unmatched" label.
func MetricsMiddleware() gin.HandlerFunc {
	m := metrics.Get()

	return func(c *gin.Context) {
		method := c.Request.Method
		path := routeLabel(c)

		m.HTTPActiveConnections.WithLabelValues(method, path).Inc()
		defer m.HTTPActiveConnections.WithLabelValues(method, path).Dec()

		startTime := time.Now()
		c.Next()

		// numeric status so Grafana queries like status=~"5.." match
		status := strconv.Itoa(c.Writer.Status())
		m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(startTime).Seconds())
		if size := c.Writer.Size(); size > 0 {
			m.HTTPResponseSize.WithLabelValues(method, path, status).Observe(float64(size))
		}
	}
}

func routeLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}

func RecordCacheHit(cacheName string) {
	metrics.Get().CacheHitsTotal.WithLabelValues(cacheName).Inc()
}

func RecordCacheMiss(cacheName string) {
	metrics.Get().CacheMissesTotal.WithLabelValues(cacheName).Inc()
}

func RecordRateLimitExceeded(endpoint string) {
	metrics.Get().RateLimitExceededTotal.WithLabelValues(endpoint).Inc()
}

// RecordError counts an error by type and the component it came from
func RecordError(errorType, component string) {
	metrics.Get().ErrorsTotal.WithLabelValues(errorType, component).Inc()
}
