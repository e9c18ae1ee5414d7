package handlers

import (
	"github.com/courtside-app/courtside/backend/internal/assistant"
	"github.com/courtside-app/courtside/backend/internal/auth"
	"github.com/courtside-app/courtside/backend/internal/discovery"
	"github.com/courtside-app/courtside/backend/internal/feed"
	"github.com/courtside-app/courtside/backend/internal/messaging"
	"github.com/courtside-app/courtside/backend/internal/middleware"
	"github.com/courtside-app/courtside/backend/internal/notify"
	"github.com/courtside-app/courtside/backend/internal/profile"
	"github.com/courtside-app/courtside/backend/internal/settings"
	"github.com/courtside-app/courtside/backend/internal/websocket"
)

// Services are the domain services the handlers delegate to
type Services struct {
	Auth      *auth.Service
	Feed      *feed.Service
	Messages  *messaging.Service
	Profiles  *profile.Service
	Discovery *discovery.Service
	Assistant *assistant.Service
	Settings  *settings.Store
	Notifier  *notify.Service
}

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	auth      *auth.Service
	feed      *feed.Service
	messages  *messaging.Service
	profiles  *profile.Service
	discovery *discovery.Service
	assistant *assistant.Service
	settings  *settings.Store
	notifier  *notify.Service

	feedCache *middleware.ResponseCache
	wsHandler *websocket.Handler
}

// NewHandlers creates a new handlers instance. A nil Notifier is replaced by
// one with no sinks.
func NewHandlers(s Services) *Handlers {
	if s.Notifier == nil {
		s.Notifier = notify.NewService(nil, nil, nil)
	}
	return &Handlers{
		auth:      s.Auth,
		feed:      s.Feed,
		messages:  s.Messages,
		profiles:  s.Profiles,
		discovery: s.Discovery,
		assistant: s.Assistant,
		settings:  s.Settings,
		notifier:  s.Notifier,
	}
}

// SetWebSocketHandler sets the WebSocket handler for real-time notifications
func (h *Handlers) SetWebSocketHandler(ws *websocket.Handler) {
	h.wsHandler = ws
}

// SetFeedCache enables response caching for feed pages
func (h *Handlers) SetFeedCache(rc *middleware.ResponseCache) {
	h.feedCache = rc
}
