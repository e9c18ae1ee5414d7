package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware starts a server span per request
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// spanContextKeys copies gin context values onto the span
var spanContextKeys = map[string]attribute.Key{
	"request_id": "courtside.request_id",
	"user_id":    "courtside.user_id",
}

// spanQueryKeys copies paging parameters onto the span
var spanQueryKeys = map[string]attribute.Key{
	"page":      "courtside.page",
	"page_size": "courtside.page_size",
	"radius_km": "courtside.radius_km",
}

// SpanEnrichmentMiddleware runs after TracingMiddleware and, once the handler
// returns, annotates the server span with the caller, paging and gin errors
func SpanEnrichmentMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		span.SetAttributes(spanAttributes(c)...)
		if err := c.Errors.Last(); err != nil {
			for _, e := range c.Errors {
				span.RecordError(e.Err)
			}
			span.SetStatus(codes.Error, err.Error())
		}
	}
}

func spanAttributes(c *gin.Context) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	for name, key := range spanContextKeys {
		if v := c.GetString(name); v != "" {
			attrs = append(attrs, key.String(v))
		}
	}
	for name, key := range spanQueryKeys {
		if v := c.Query(name); v != "" {
			attrs = append(attrs, key.String(v))
		}
	}
	return attrs
}
