package handlers

import (
	"net/http"

	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/telemetry"
	"github.com/courtside-app/courtside/backend/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type sendMessageRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
	Body        string `json:"body"`
}

// SendMessage stores a direct message and delivers it to the recipient,
// by websocket when they are connected and by email otherwise
func (h *Handlers) SendMessage(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	var req sendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, span := telemetry.TraceSendMessage(c.Request.Context(), userID, req.RecipientID)
	defer span.End()

	sent, err := h.messages.Send(ctx, userID, req.RecipientID, req.Body)
	if err != nil {
		respondError(c, "messages", err)
		return
	}

	delivery := h.notifier.MessageSent(sent)
	logger.Log.Info("Message sent",
		logger.WithUserID(userID),
		logger.WithConversationID(sent.Message.ConversationID),
		zap.String("delivery", delivery))

	c.JSON(http.StatusCreated, gin.H{"message": sent.Message, "delivery": delivery})
}

// GetConversations lists the caller's conversations, most recent first
func (h *Handlers) GetConversations(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	page, pageSize, apiErr := util.ParsePagination(c)
	if apiErr != nil {
		util.RespondWithAPIError(c, apiErr)
		return
	}

	result, err := h.messages.Conversations(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		respondError(c, "messages", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetThread returns the messages exchanged with another user, newest first
func (h *Handlers) GetThread(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	page, pageSize, apiErr := util.ParsePagination(c)
	if apiErr != nil {
		util.RespondWithAPIError(c, apiErr)
		return
	}

	result, err := h.messages.Thread(c.Request.Context(), userID, c.Param("user_id"), page, pageSize)
	if err != nil {
		respondError(c, "messages", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MarkThreadRead marks messages from another user as read and tells them
func (h *Handlers) MarkThreadRead(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	otherID := c.Param("user_id")

	count, err := h.messages.MarkRead(c.Request.Context(), userID, otherID)
	if err != nil {
		respondError(c, "messages", err)
		return
	}
	h.notifier.MessagesRead(otherID, userID, count)
	c.JSON(http.StatusOK, gin.H{"marked_read": count})
}
