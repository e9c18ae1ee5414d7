// Package metrics declares the Prometheus collectors scraped from /metrics.
// Every name is prefixed courtside_.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "courtside"

var latencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

type Metrics struct {
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPResponseSize      *prometheus.HistogramVec
	HTTPActiveConnections *prometheus.GaugeVec

	CacheHitsTotal         *prometheus.CounterVec
	CacheMissesTotal       *prometheus.CounterVec
	RateLimitExceededTotal *prometheus.CounterVec

	FeedPageDuration      *prometheus.HistogramVec
	PostsCreatedTotal     prometheus.Counter
	MessagesSentTotal     *prometheus.CounterVec
	AssistantCallsTotal   *prometheus.CounterVec
	WebsocketConnections  prometheus.Gauge
	WebsocketMessagesSent *prometheus.CounterVec

	ErrorsTotal *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// builder shortens collector declarations to name, help and labels
type builder struct{ f promauto.Factory }

func (b builder) counter(name, help string, labels ...string) *prometheus.CounterVec {
	return b.f.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, labels)
}

func (b builder) histogram(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return b.f.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: name, Help: help, Buckets: buckets}, labels)
}

func (b builder) gauge(name, help string, labels ...string) *prometheus.GaugeVec {
	return b.f.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help}, labels)
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	b := builder{promauto.With(reg)}
	return &Metrics{
		HTTPRequestsTotal:     b.counter("http_requests_total", "HTTP requests served", "method", "path", "status"),
		HTTPRequestDuration:   b.histogram("http_request_duration_seconds", "HTTP request latency", latencyBuckets, "method", "path", "status"),
		HTTPResponseSize:      b.histogram("http_response_size_bytes", "HTTP response body size", prometheus.ExponentialBuckets(100, 10, 7), "method", "path", "status"),
		HTTPActiveConnections: b.gauge("http_active_connections", "In-flight HTTP requests", "method", "path"),

		CacheHitsTotal:         b.counter("cache_hits_total", "Response cache hits", "cache_name"),
		CacheMissesTotal:       b.counter("cache_misses_total", "Response cache misses", "cache_name"),
		RateLimitExceededTotal: b.counter("rate_limit_exceeded_total", "Requests refused with 429", "endpoint"),

		FeedPageDuration: b.histogram("feed_page_duration_seconds", "Time to build one feed page", latencyBuckets[:9], "feed"),
		PostsCreatedTotal: b.f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "posts_created_total", Help: "Posts created",
		}),
		MessagesSentTotal:   b.counter("messages_sent_total", "Direct messages sent, by delivery channel", "delivery"),
		AssistantCallsTotal: b.counter("assistant_calls_total", "Assistant requests by provider and outcome", "provider", "status"),
		WebsocketConnections: b.f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "websocket_connections", Help: "Open websocket connections",
		}),
		WebsocketMessagesSent: b.counter("websocket_messages_sent_total", "Realtime events pushed to clients", "type"),

		ErrorsTotal: b.counter("errors_total", "Errors by type and component", "error_type", "component"),
	}
}

// Initialize registers every collector with the default registry once
func Initialize() *Metrics {
	once.Do(func() { instance = newMetrics(prometheus.DefaultRegisterer) })
	return instance
}

func Get() *Metrics { return Initialize() }
