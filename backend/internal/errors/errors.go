// Package errors defines the JSON error body of the API and the code to
// HTTP status mapping behind it.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode is the machine-readable kind of an API error
type ErrorCode string

const (
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrForbidden      ErrorCode = "FORBIDDEN"
	ErrValidation     ErrorCode = "VALIDATION_ERROR"
	ErrBadRequest     ErrorCode = "BAD_REQUEST"
	ErrInternalError  ErrorCode = "INTERNAL_ERROR"
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrRateLimited    ErrorCode = "RATE_LIMITED"
	ErrServiceUnavail ErrorCode = "SERVICE_UNAVAILABLE"
)

// StatusCode returns the HTTP status for the code, 500 when unknown
func (e ErrorCode) StatusCode() int {
	switch e {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrValidation:
		return http.StatusUnprocessableEntity
	case ErrBadRequest:
		return http.StatusBadRequest
	case ErrAlreadyExists:
		return http.StatusConflict
	case ErrRateLimited:
		return http.StatusTooManyRequests
	case ErrServiceUnavail:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// APIError is the body of every non-2xx response
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Status  int       `json:"-"`
}

func (e *APIError) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Field != "" {
		s += " (field: " + e.Field + ")"
	}
	return s
}

func newError(code ErrorCode, message string) *APIError {
	return &APIError{Code: code, Message: message, Status: code.StatusCode()}
}

// NotFound reports that resource does not exist
func NotFound(resource string) *APIError {
	return newError(ErrNotFound, resource+" not found")
}

// AlreadyExists reports a uniqueness violation on resource
func AlreadyExists(resource string) *APIError {
	return newError(ErrAlreadyExists, resource+" already exists")
}

// ValidationError points the client at the field to fix
func ValidationError(field, message string) *APIError {
	e := newError(ErrValidation, message)
	e.Field = field
	return e
}

func Unauthorized(message string) *APIError  { return newError(ErrUnauthorized, message) }
func Forbidden(message string) *APIError     { return newError(ErrForbidden, message) }
func BadRequest(message string) *APIError    { return newError(ErrBadRequest, message) }
func InternalError(message string) *APIError { return newError(ErrInternalError, message) }

func RateLimited(message string) *APIError {
	if message == "" {
		message = "rate limit exceeded"
	}
	return newError(ErrRateLimited, message)
}

// ServiceUnavailable names the missing dependency, such as "messaging"
func ServiceUnavailable(service string) *APIError {
	return newError(ErrServiceUnavail, fmt.Sprintf("%s is temporarily unavailable", service))
}
