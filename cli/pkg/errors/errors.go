// Package errors maps whatever went wrong during a command onto a small set
// of categories, each with a message and a hint for the player.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/courtside-app/courtside/cli/pkg/api"
)

type ErrorType string

const (
	ErrorTypeNetwork        ErrorType = "network"
	ErrorTypeTimeout        ErrorType = "timeout"
	ErrorTypeAuth           ErrorType = "auth"
	ErrorTypeSessionExpired ErrorType = "session_expired"
	ErrorTypeForbidden      ErrorType = "forbidden"
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeConflict       ErrorType = "conflict"
	ErrorTypeRateLimit      ErrorType = "rate_limit"
	ErrorTypeUnavailable    ErrorType = "unavailable"
	ErrorTypeServer         ErrorType = "server"
	ErrorTypeUnknown        ErrorType = "unknown"
)

// Process exit codes
const (
	ExitFailure = 1
	ExitUsage   = 2
	ExitAuth    = 3
	ExitNetwork = 4
)

// CLIError is an error ready to show to the player
type CLIError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Suggestion string
	StatusCode int
	RetryAfter int
}

func (e *CLIError) Error() string { return e.Message }
func (e *CLIError) Unwrap() error { return e.Cause }

func (e *CLIError) HasSuggestion() bool { return e.Suggestion != "" }

func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestion = suggestion
	return e
}

func NewCLIError(errorType ErrorType, message string, cause error) *CLIError {
	return &CLIError{Type: errorType, Message: message, Cause: cause}
}

func NetworkError(message string, cause error) *CLIError {
	return NewCLIError(ErrorTypeNetwork, message, cause).
		WithSuggestion("Check that the server is running and api.base_url is correct.")
}

func TimeoutError(cause error) *CLIError {
	return NewCLIError(ErrorTypeTimeout, "Request timed out", cause).
		WithSuggestion("The server is taking too long to respond. Try again in a moment.")
}

func AuthError(message string) *CLIError {
	return NewCLIError(ErrorTypeAuth, message, nil).
		WithSuggestion("Log in again with 'courtside auth login'.")
}

func SessionExpiredError() *CLIError {
	return NewCLIError(ErrorTypeSessionExpired, "Your session has expired", nil).
		WithSuggestion("Run 'courtside auth login' to start a new session.")
}

// NotLoggedInError is returned by commands that need credentials
func NotLoggedInError() *CLIError {
	return NewCLIError(ErrorTypeAuth, "You are not logged in", nil).
		WithSuggestion("Run 'courtside auth login' first.")
}

// ValidationError names the offending field when there is one
func ValidationError(field, reason string) *CLIError {
	msg := "Validation error: " + reason
	if field != "" {
		msg = fmt.Sprintf("Validation error: %s - %s", field, reason)
	}
	return NewCLIError(ErrorTypeValidation, msg, nil)
}

func RateLimitError(retryAfter int) *CLIError {
	err := NewCLIError(ErrorTypeRateLimit, "Rate limit exceeded. Too many requests.", nil)
	err.RetryAfter = retryAfter
	if retryAfter > 0 {
		err.Suggestion = fmt.Sprintf("Please wait %d seconds before trying again.", retryAfter)
	}
	return err
}

// statusCategories covers the statuses that need no extra data from the
// response
var statusCategories = map[int]struct {
	kind ErrorType
	hint string
}{
	http.StatusForbidden:          {ErrorTypeForbidden, "This action needs an account with the required permissions."},
	http.StatusNotFound:           {ErrorTypeNotFound, ""},
	http.StatusConflict:           {ErrorTypeConflict, "This resource already exists. Try a different value."},
	http.StatusServiceUnavailable: {ErrorTypeUnavailable, "The server is missing a dependency right now. Try again later."},
}

// CategorizeError wraps err in a CLIError. Errors that already are one pass
// through untouched.
func CategorizeError(err error) *CLIError {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		out := fromStatus(apiErr)
		out.Cause = apiErr
		out.StatusCode = apiErr.StatusCode
		return out
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return TimeoutError(err)
	case isConnectFailure(err):
		return NetworkError("Could not connect to server. Make sure it's running.", err)
	}
	return NewCLIError(ErrorTypeUnknown, err.Error(), err)
}

func isConnectFailure(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) || strings.Contains(err.Error(), "connection refused")
}

func fromStatus(apiErr *api.APIError) *CLIError {
	status := apiErr.StatusCode
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ValidationError(apiErr.Field, apiErr.Message)
	case http.StatusUnauthorized:
		return AuthError(apiErr.Message)
	case http.StatusTooManyRequests:
		return RateLimitError(apiErr.RetryAfter)
	}
	if c, ok := statusCategories[status]; ok {
		return NewCLIError(c.kind, apiErr.Message, nil).WithSuggestion(c.hint)
	}
	if status >= http.StatusInternalServerError {
		return NewCLIError(ErrorTypeServer, "Server error: "+apiErr.Message, nil).
			WithSuggestion("The server encountered an error. Try again in a few moments.")
	}
	return NewCLIError(ErrorTypeUnknown, apiErr.Message, nil)
}

// ExitCode picks the process exit status for err
func ExitCode(err error) int {
	switch CategorizeError(err).Type {
	case ErrorTypeValidation:
		return ExitUsage
	case ErrorTypeAuth, ErrorTypeSessionExpired, ErrorTypeForbidden:
		return ExitAuth
	case ErrorTypeNetwork, ErrorTypeTimeout, ErrorTypeUnavailable:
		return ExitNetwork
	}
	return ExitFailure
}

// FormatError renders err as "Error (type): message" plus a suggestion line
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	cliErr := CategorizeError(err)

	var sb strings.Builder
	sb.WriteString("Error")
	if cliErr.Type != ErrorTypeUnknown {
		fmt.Fprintf(&sb, " (%s)", cliErr.Type)
	}
	fmt.Fprintf(&sb, ": %s\n", cliErr.Message)
	if cliErr.HasSuggestion() {
		fmt.Fprintf(&sb, "Suggestion: %s\n", cliErr.Suggestion)
	}
	return sb.String()
}
