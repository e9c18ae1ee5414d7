package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
)

// codeUnknown marks error bodies that were not the API's JSON envelope,
// usually a proxy page
const codeUnknown = "UNKNOWN_ERROR"

// APIError is a non-2xx answer from the server
type APIError struct {
	Code       string
	Message    string
	Field      string
	StatusCode int
	RetryAfter int // seconds, from the Retry-After header
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] %s: %s", e.StatusCode, e.Code, e.Message)
	if e.Field != "" {
		fmt.Fprintf(&b, " (field: %s)", e.Field)
	}
	return b.String()
}

// ParseError turns a failed response into an *APIError
func ParseError(resp *resty.Response) error {
	out := &APIError{StatusCode: resp.StatusCode()}
	if secs, err := strconv.Atoi(resp.Header().Get("Retry-After")); err == nil {
		out.RetryAfter = secs
	}

	var body ErrorResponse
	if json.Unmarshal(resp.Body(), &body) == nil && body.Code != "" {
		out.Code, out.Message, out.Field = body.Code, body.Message, body.Field
		return out
	}

	out.Code = codeUnknown
	out.Message = strings.TrimSpace(string(resp.Body()))
	if out.Message == "" {
		out.Message = http.StatusText(out.StatusCode)
	}
	return out
}

// CheckResponse folds a transport error and a non-2xx status into one error
func CheckResponse(resp *resty.Response, err error) error {
	switch {
	case err != nil:
		return err
	case !resp.IsSuccess():
		return ParseError(resp)
	}
	return nil
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsUnauthorized(err error) bool { return statusOf(err) == http.StatusUnauthorized }
func IsForbidden(err error) bool    { return statusOf(err) == http.StatusForbidden }
func IsNotFound(err error) bool     { return statusOf(err) == http.StatusNotFound }
func IsRateLimited(err error) bool  { return statusOf(err) == http.StatusTooManyRequests }

// IsServerError reports a 5xx answer
func IsServerError(err error) bool { return statusOf(err) >= http.StatusInternalServerError }
