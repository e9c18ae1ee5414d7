package util

import (
	"math"
	"strconv"

	"github.com/courtside-app/courtside/backend/internal/errors"
	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
	// MaxPage keeps (page-1)*pageSize well inside int
	MaxPage = math.MaxInt32
)

// ParseInt parses a string to an integer, returning defaultValue if parsing fails
func ParseInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(s); err == nil {
		return val
	}
	return defaultValue
}

// ParseOptionalFloat parses s when present. Empty input yields nil.
func ParseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ParsePagination reads page and page_size from the query string. Missing
// values take defaults; present but malformed or out of range values are
// rejected rather than clamped.
func ParsePagination(c *gin.Context) (page, pageSize int, apiErr *errors.APIError) {
	page, pageSize = 1, DefaultPageSize

	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > MaxPage {
			return 0, 0, errors.ValidationError("page", "page must be between 1 and "+strconv.Itoa(MaxPage))
		}
		page = v
	}
	if raw := c.Query("page_size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > MaxPageSize {
			return 0, 0, errors.ValidationError("page_size", "page_size must be between 1 and "+strconv.Itoa(MaxPageSize))
		}
		pageSize = v
	}
	return page, pageSize, nil
}
