package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PresenceStatus string

const (
	StatusOnline  PresenceStatus = "online"
	StatusOnCourt PresenceStatus = "on_court"
	StatusOffline PresenceStatus = "offline"
)

// UserPresence is the last known state of one player
type UserPresence struct {
	UserID       string         `json:"user_id"`
	Username     string         `json:"username"`
	Status       PresenceStatus `json:"status"`
	LastActivity time.Time      `json:"last_activity"`
	ConnectedAt  time.Time      `json:"connected_at"`
}

// PartnerLister returns the players userID has a conversation with. Only
// they hear about userID's presence and typing.
type PartnerLister interface {
	Partners(ctx context.Context, userID string) ([]string, error)
}

type PresenceConfig struct {
	// TimeoutDuration is how long a player with no connection stays online
	// after their last activity. Zero means five minutes.
	TimeoutDuration time.Duration
}

func DefaultPresenceConfig() PresenceConfig {
	return PresenceConfig{TimeoutDuration: 5 * time.Minute}
}

// PresenceManager tracks who is online or on court and tells their
// conversation partners when that changes
type PresenceManager struct {
	hub      *Hub
	partners PartnerLister
	db       *gorm.DB
	timeout  time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	players map[string]*UserPresence

	ctx    context.Context
	cancel context.CancelFunc
}

// NewPresenceManager creates a presence manager. With nil partners nobody is
// notified; with a nil db last_active_at is not written.
func NewPresenceManager(hub *Hub, partners PartnerLister, db *gorm.DB, config PresenceConfig) *PresenceManager {
	if config.TimeoutDuration <= 0 {
		config = DefaultPresenceConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &PresenceManager{
		hub:      hub,
		partners: partners,
		db:       db,
		timeout:  config.TimeoutDuration,
		now:      time.Now,
		players:  make(map[string]*UserPresence),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start routes client presence events here and begins expiring idle players
func (pm *PresenceManager) Start() {
	pm.hub.On(MessageTypePresence, pm.handleStatus)
	go pm.sweep()
}

// handleStatus accepts on_court from the client; anything else means online
func (pm *PresenceManager) handleStatus(client *Client, msg *Message) error {
	var in PresencePayload
	if err := msg.ParsePayload(&in); err != nil {
		return err
	}
	status := StatusOnline
	if PresenceStatus(in.Status) == StatusOnCourt {
		status = StatusOnCourt
	}
	pm.UpdatePresence(client.UserID, client.Username, status)
	return nil
}

// Stop marks everyone offline without notifying anyone
func (pm *PresenceManager) Stop() {
	pm.cancel()

	pm.mu.Lock()
	var gone []string
	for id, p := range pm.players {
		if p.Status != StatusOffline {
			p.Status = StatusOffline
			gone = append(gone, id)
		}
	}
	pm.mu.Unlock()

	for _, id := range gone {
		pm.touchLastActive(id)
	}
}

func (pm *PresenceManager) OnClientConnect(client *Client) {
	pm.UpdatePresence(client.UserID, client.Username, StatusOnline)
}

// OnClientDisconnect marks the player offline when this was their last
// connection
func (pm *PresenceManager) OnClientDisconnect(client *Client) {
	if pm.hub.GetUserConnectionCount(client.UserID) <= 1 {
		pm.SetOffline(client.UserID)
	}
}

// UpdatePresence records status for userID. Partners hear about it only when
// the status actually changes.
func (pm *PresenceManager) UpdatePresence(userID, username string, status PresenceStatus) {
	pm.set(userID, username, status)
}

// SetOffline marks a known player offline. Unknown players are ignored.
func (pm *PresenceManager) SetOffline(userID string) {
	pm.set(userID, "", StatusOffline)
}

func (pm *PresenceManager) set(userID, username string, status PresenceStatus) {
	now := pm.now()

	pm.mu.Lock()
	p, known := pm.players[userID]
	if !known {
		if status == StatusOffline {
			pm.mu.Unlock()
			return
		}
		p = &UserPresence{UserID: userID, Status: StatusOffline}
		pm.players[userID] = p
	}
	prev := p.Status
	if prev == StatusOffline && status != StatusOffline {
		p.ConnectedAt = now
	}
	if p.Username == "" {
		p.Username = username
	}
	p.Status = status
	p.LastActivity = now
	pm.mu.Unlock()

	event, changed := presenceEvent(prev, status)
	if !changed {
		return
	}
	if status == StatusOffline {
		pm.touchLastActive(userID)
	}
	pm.notifyPartners(userID, NewMessage(event, PresencePayload{
		UserID:    userID,
		Status:    string(status),
		Timestamp: now.UnixMilli(),
	}))
}

// presenceEvent names the event partners receive for a transition
func presenceEvent(prev, next PresenceStatus) (string, bool) {
	switch {
	case prev == next:
		return "", false
	case next == StatusOffline:
		return MessageTypeUserOffline, true
	case prev == StatusOffline:
		return MessageTypeUserOnline, true
	default:
		return MessageTypePresence, true
	}
}

// GetPresence returns a copy of the player's presence, or nil if never seen
func (pm *PresenceManager) GetPresence(userID string) *UserPresence {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	p, ok := pm.players[userID]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// GetOnlinePresence returns the entries for those of userIDs not offline
func (pm *PresenceManager) GetOnlinePresence(userIDs []string) map[string]*UserPresence {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	out := make(map[string]*UserPresence)
	for _, id := range userIDs {
		if p, ok := pm.players[id]; ok && p.Status != StatusOffline {
			cp := *p
			out[id] = &cp
		}
	}
	return out
}

func (pm *PresenceManager) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-pm.ctx.Done():
			return
		case <-ticker.C:
			pm.expireIdle()
		}
	}
}

// expireIdle takes offline every player idle past the timeout who holds no
// connection. Connected players are refreshed instead.
func (pm *PresenceManager) expireIdle() {
	now := pm.now()
	cutoff := now.Add(-pm.timeout)

	pm.mu.Lock()
	var idle []string
	for id, p := range pm.players {
		if p.Status == StatusOffline || !p.LastActivity.Before(cutoff) {
			continue
		}
		if pm.hub.IsUserOnline(id) {
			p.LastActivity = now
			continue
		}
		idle = append(idle, id)
	}
	pm.mu.Unlock()

	for _, id := range idle {
		logger.Log.Debug("Presence timed out", logger.WithUserID(id))
		pm.SetOffline(id)
	}
}

func (pm *PresenceManager) notifyPartners(userID string, msg *Message) {
	if pm.partners == nil {
		return
	}
	ctx, cancel := context.WithTimeout(pm.ctx, 5*time.Second)
	defer cancel()

	ids, err := pm.partners.Partners(ctx, userID)
	if err != nil {
		logger.Log.Warn("Failed to load partners for presence", logger.WithUserID(userID), zap.Error(err))
		return
	}
	for _, id := range ids {
		if pm.hub.IsUserOnline(id) {
			pm.hub.SendToUser(id, msg)
		}
	}
}

func (pm *PresenceManager) touchLastActive(userID string) {
	if pm.db == nil {
		return
	}
	err := pm.db.Model(&models.User{}).Where("id = ?", userID).Update("last_active_at", pm.now().UTC()).Error
	if err != nil {
		logger.Log.Warn("Failed to update last_active_at", logger.WithUserID(userID), zap.Error(err))
	}
}
