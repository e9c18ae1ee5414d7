// Package client holds the CLI's shared HTTP client for the Courtside API.
package client

import (
	"net/http"
	"slices"
	"time"

	"github.com/courtside-app/courtside/cli/pkg/config"
	"github.com/courtside-app/courtside/cli/pkg/logger"
	"github.com/go-resty/resty/v2"
)

// UserAgent is sent with every request
var UserAgent = "Courtside-CLI/0.1.0"

const (
	retryCount   = 2
	retryWait    = 200 * time.Millisecond
	retryMaxWait = 2 * time.Second
)

var gatewayStatuses = []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout}

var httpClient *resty.Client

// Init builds the client from api.base_url and api.timeout. Any auth token
// set earlier is dropped.
func Init() {
	httpClient = resty.New().
		SetBaseURL(config.GetString("api.base_url")).
		SetTimeout(time.Duration(config.GetInt("api.timeout")) * time.Second).
		SetHeaders(map[string]string{
			"User-Agent": UserAgent,
			"Accept":     "application/json",
		}).
		SetRetryCount(retryCount).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(retryMaxWait).
		AddRetryCondition(retryGateway).
		OnBeforeRequest(logRequest).
		OnAfterResponse(logResponse)
}

// retryGateway retries reads when a proxy in front of the API is unhappy.
// Writes are never retried.
func retryGateway(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil || resp.Request.Method != http.MethodGet {
		return false
	}
	return slices.Contains(gatewayStatuses, resp.StatusCode())
}

func logRequest(_ *resty.Client, req *resty.Request) error {
	logger.Debug("api request", "method", req.Method, "url", req.URL, "attempt", req.Attempt)
	return nil
}

func logResponse(_ *resty.Client, resp *resty.Response) error {
	logger.Debug("api response",
		"status", resp.StatusCode(),
		"request_id", resp.Header().Get("X-Request-ID"),
		"took", resp.Time())
	return nil
}

// GetClient returns the shared client, building it on first use
func GetClient() *resty.Client {
	if httpClient == nil {
		Init()
	}
	return httpClient
}

func SetAuthToken(token string) { GetClient().SetAuthToken(token) }

// ClearAuthToken rebuilds the client without credentials
func ClearAuthToken() { Init() }
