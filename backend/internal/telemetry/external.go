package telemetry

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var upstreams = otel.Tracer("courtside.upstream")

// NewInstrumentedHTTPClient returns an http.Client that opens a client span
// per request. Zero timeout means thirty seconds.
func NewInstrumentedHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// UpstreamCall is the span around one call to a third-party API
type UpstreamCall struct {
	ctx  context.Context
	span trace.Span
}

// StartUpstream opens a span named "<service>.<operation>"
func StartUpstream(ctx context.Context, service, operation string) *UpstreamCall {
	ctx, span := upstreams.Start(ctx, service+"."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("upstream.service", service),
			attribute.String("upstream.operation", operation),
		),
	)
	return &UpstreamCall{ctx: ctx, span: span}
}

func (u *UpstreamCall) Context() context.Context { return u.ctx }

// End records the outcome and closes the span. status is zero when no
// response arrived.
func (u *UpstreamCall) End(status int, err error) {
	defer u.span.End()
	if status > 0 {
		u.span.SetAttributes(attribute.Int("http.status_code", status))
	}
	if err == nil {
		u.span.SetStatus(codes.Ok, "")
		return
	}
	u.span.RecordError(err)
	u.span.SetStatus(codes.Error, err.Error())
	u.span.SetAttributes(attribute.Bool("upstream.retryable", retryable(status)))
}

// retryable reports whether a failed call may succeed if repeated. Transport
// failures with no status count as retryable.
func retryable(status int) bool {
	switch {
	case status == 0, status >= 500:
		return true
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests:
		return true
	}
	return false
}
