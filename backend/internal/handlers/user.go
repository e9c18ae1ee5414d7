package handlers

import (
	"net/http"

	"github.com/courtside-app/courtside/backend/internal/dto"
	"github.com/courtside-app/courtside/backend/internal/util"
	"github.com/gin-gonic/gin"
)

// GetMyProfile returns the caller's profile with private fields
func (h *Handlers) GetMyProfile(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	me, err := h.profiles.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "profiles", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": me})
}

// UpdateMyProfile applies a partial profile update
func (h *Handlers) UpdateMyProfile(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	me, err := h.profiles.Update(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, "profiles", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": me})
}

// GetProfile returns another player's public profile
func (h *Handlers) GetProfile(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "profiles", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": p})
}
