package api

import (
	"context"
	"strconv"

	"github.com/courtside-app/courtside/cli/pkg/client"
	"github.com/courtside-app/courtside/cli/pkg/logger"
)

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// DiscoverPlayers finds players near a point, closest first
func DiscoverPlayers(ctx context.Context, q DiscoverQuery) (*DiscoverResponse, error) {
	logger.Debug("Discovering players", "lat", q.Lat, "lng", q.Lng, "radius_km", q.RadiusKm)

	page := q.Page
	if page < 1 {
		page = 1
	}
	params := pageParams(page, q.PageSize)
	params["lat"] = formatFloat(q.Lat)
	params["lng"] = formatFloat(q.Lng)
	if q.RadiusKm > 0 {
		params["radius_km"] = formatFloat(q.RadiusKm)
	}
	if q.MinSkill > 0 {
		params["min_skill"] = formatFloat(q.MinSkill)
	}
	if q.MaxSkill > 0 {
		params["max_skill"] = formatFloat(q.MaxSkill)
	}
	if q.Role != "" {
		params["role"] = q.Role
	}

	var result DiscoverResponse
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&result).
		Get("/api/v1/discover/players")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}
