package handlers

import (
	"net/http"

	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/util"
	"github.com/gin-gonic/gin"
)

func (h *Handlers) ListSettings(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	all, err := h.settings.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": all})
}

func (h *Handlers) GetSetting(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	key := c.Param("key")
	value, err := h.settings.Get(c.Request.Context(), userID, key)
	if err != nil {
		respondError(c, "settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

// PutSetting creates or replaces one setting
func (h *Handlers) PutSetting(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	var req struct {
		Value *string `json:"value" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	key := c.Param("key")
	if err := h.settings.Set(c.Request.Context(), userID, key, *req.Value); err != nil {
		respondError(c, "settings", err)
		return
	}
	logger.Log.Debug("Setting updated", logger.WithUserID(userID), logger.WithSettingKey(key))
	c.JSON(http.StatusOK, gin.H{"key": key, "value": *req.Value})
}

func (h *Handlers) DeleteSetting(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	key := c.Param("key")
	if err := h.settings.Delete(c.Request.Context(), userID, key); err != nil {
		respondError(c, "settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "key": key})
}
