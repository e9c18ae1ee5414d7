package handlers

import (
	"net/http"

	"github.com/courtside-app/courtside/backend/internal/util"
	"github.com/gin-gonic/gin"
)

// AssistantChat answers a tennis question from the coach assistant
func (h *Handlers) AssistantChat(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	if !bindJSON(c, &req) {
		return
	}

	reply, err := h.assistant.Chat(c.Request.Context(), userID, req.Message)
	if err != nil {
		respondError(c, "assistant", err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
