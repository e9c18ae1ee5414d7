package websocket

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/courtside-app/courtside/backend/internal/auth"
	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	errNoRecipient = errors.New("recipient_id is required")
	errNotPartner  = errors.New("not a conversation partner")
)

// Handler serves /api/v1/ws and the realtime admin endpoints
type Handler struct {
	hub      *Hub
	tokens   auth.TokenValidator
	presence *PresenceManager
	partners PartnerLister
	origins  []string
}

// NewHandler creates a Handler. With no origin patterns any origin may
// connect, which is meant for development only.
func NewHandler(hub *Hub, tokens auth.TokenValidator, originPatterns []string) *Handler {
	return &Handler{hub: hub, tokens: tokens, origins: originPatterns}
}

func (h *Handler) SetPresenceManager(pm *PresenceManager) { h.presence = pm }

// SetPartnerLister restricts typing relays to conversation partners
func (h *Handler) SetPartnerLister(p PartnerLister) { h.partners = p }

// accessToken reads the Bearer header, falling back to ?token= for clients
// that cannot set headers on the handshake
func accessToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// HandleWebSocket authenticates the player, upgrades the request and serves
// the connection until it closes
func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := accessToken(c)
	if token == "" {
		util.RespondUnauthorized(c, "no authentication token provided")
		return
	}
	user, err := h.tokens.ValidateToken(c.Request.Context(), token)
	if err != nil {
		logger.Log.Debug("WebSocket auth failed", zap.Error(err))
		util.RespondUnauthorized(c, "invalid or expired token")
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns:     h.origins,
		InsecureSkipVerify: len(h.origins) == 0,
		CompressionMode:    websocket.CompressionContextTakeover,
	})
	if err != nil {
		logger.Log.Warn("WebSocket upgrade failed", logger.WithUserID(user.ID), zap.Error(err))
		return
	}

	client := NewClient(h.hub, conn, user.ID, user.Username)
	client.RemoteAddr = c.ClientIP()
	client.UserAgent = c.GetHeader("User-Agent")
	h.serve(client)
}

func (h *Handler) serve(client *Client) {
	h.hub.Register(client)
	if h.presence != nil {
		h.presence.OnClientConnect(client)
	}

	_ = client.Send(NewMessage(MessageTypeSystem, SystemPayload{
		Event:   "connected",
		Message: "Welcome to Courtside!",
		Data: map[string]any{
			"user_id":     client.UserID,
			"username":    client.Username,
			"server_time": time.Now().UTC().UnixMilli(),
		},
	}))

	go client.WritePump()
	client.ReadPump()

	if h.presence != nil {
		h.presence.OnClientDisconnect(client)
	}
}

// HandleStats reports hub counters for admins
func (h *Handler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"websocket":    h.hub.GetStats(),
		"online_users": len(h.hub.GetOnlineUsers()),
		"timestamp":    time.Now().UTC(),
	})
}

// HandleOnlineStatus answers with the presence status of up to 100 players
func (h *Handler) HandleOnlineStatus(c *gin.Context) {
	var req struct {
		UserIDs []string `json:"user_ids" binding:"required,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	statuses := make(map[string]PresenceStatus, len(req.UserIDs))
	for _, id := range req.UserIDs {
		statuses[id] = h.statusOf(id)
	}
	c.JSON(http.StatusOK, gin.H{"statuses": statuses})
}

func (h *Handler) statusOf(userID string) PresenceStatus {
	if h.presence != nil {
		if p := h.presence.GetPresence(userID); p != nil {
			return p.Status
		}
		return StatusOffline
	}
	if h.hub.IsUserOnline(userID) {
		return StatusOnline
	}
	return StatusOffline
}

// RegisterDefaultHandlers routes typing indicators through the hub
func (h *Handler) RegisterDefaultHandlers() {
	h.hub.On(MessageTypeTyping, h.relayTyping)
}

// relayTyping forwards a typing indicator to its recipient, who must be one
// of the sender's conversation partners when a PartnerLister is set
func (h *Handler) relayTyping(client *Client, msg *Message) error {
	var in TypingPayload
	if err := msg.ParsePayload(&in); err != nil {
		return err
	}
	if in.RecipientID == "" {
		return errNoRecipient
	}
	if h.partners != nil {
		ctx, cancel := context.WithTimeout(client.ctx, 2*time.Second)
		partners, err := h.partners.Partners(ctx, client.UserID)
		cancel()
		if err != nil {
			return err
		}
		if !slices.Contains(partners, in.RecipientID) {
			return errNotPartner
		}
	}
	h.hub.SendToUser(in.RecipientID, NewMessage(MessageTypeTyping, TypingPayload{
		UserID: client.UserID,
		Typing: in.Typing,
	}))
	return nil
}

// Shutdown takes everyone offline and closes every connection
func (h *Handler) Shutdown(ctx context.Context) error {
	if h.presence != nil {
		h.presence.Stop()
	}
	return h.hub.Shutdown(ctx)
}
