package handlers

import (
	"net/http"
	"strconv"

	"github.com/courtside-app/courtside/backend/internal/discovery"
	"github.com/courtside-app/courtside/backend/internal/models"
	"github.com/courtside-app/courtside/backend/internal/telemetry"
	"github.com/courtside-app/courtside/backend/internal/util"
	"github.com/gin-gonic/gin"
)

// DiscoverPlayers finds players near a point, closest first
func (h *Handlers) DiscoverPlayers(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	page, pageSize, apiErr := util.ParsePagination(c)
	if apiErr != nil {
		util.RespondWithAPIError(c, apiErr)
		return
	}

	q := discovery.Query{
		Role:     models.PlayerRole(c.Query("role")),
		Page:     page,
		PageSize: pageSize,
	}

	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		util.RespondValidation(c, "lat", "lat is required and must be a number")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		util.RespondValidation(c, "lng", "lng is required and must be a number")
		return
	}
	q.Center = discovery.Point{Lat: lat, Lng: lng}

	for field, dst := range map[string]*float64{
		"radius_km": &q.RadiusKm,
		"min_skill": &q.MinSkill,
		"max_skill": &q.MaxSkill,
	} {
		v, err := util.ParseOptionalFloat(c.Query(field))
		if err != nil {
			util.RespondValidation(c, field, field+" must be a number")
			return
		}
		if v != nil {
			*dst = *v
		}
	}

	ctx, span := telemetry.TraceDiscover(c.Request.Context(), q.RadiusKm)
	defer span.End()

	result, err := h.discovery.FindPlayers(ctx, userID, q)
	if err != nil {
		respondError(c, "discovery", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
