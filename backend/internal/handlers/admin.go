package handlers

import (
	"net/http"

	"github.com/courtside-app/courtside/backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// GetCacheStats reports response cache hit/miss counters
func (h *Handlers) GetCacheStats(c *gin.Context) {
	stats := []middleware.CacheStats{}
	if h.feedCache != nil {
		stats = append(stats, h.feedCache.Stats())
	}
	c.JSON(http.StatusOK, gin.H{"caches": stats})
}
