package api

import (
	"context"

	"github.com/courtside-app/courtside/cli/pkg/client"
)

// GetCacheStats returns hit/miss counters of the server's response caches.
// Admin only.
func GetCacheStats(ctx context.Context) ([]CacheStats, error) {
	var result struct {
		Caches []CacheStats `json:"caches"`
	}
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetResult(&result).
		Get("/api/v1/admin/cache/stats")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return result.Caches, nil
}
