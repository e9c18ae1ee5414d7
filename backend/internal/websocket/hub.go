// Package websocket pushes realtime events to connected players over
// github.com/coder/websocket.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type opKind uint8

const (
	opJoin opKind = iota
	opLeave
	opFanout
	opDirect
)

// hubOp is one request to the event loop. Frames arrive already encoded so
// the loop never marshals.
type hubOp struct {
	kind   opKind
	client *Client
	userID string
	event  string
	frame  []byte
}

// MessageHandler processes one inbound event type
type MessageHandler func(client *Client, message *Message) error

// InboundLimit bounds how fast one connection may send events
type InboundLimit struct {
	PerSecond rate.Limit
	Burst     int
}

func DefaultInboundLimit() InboundLimit {
	return InboundLimit{PerSecond: 10, Burst: 20}
}

// Hub owns every live connection. Membership changes and deliveries are
// serialized through Run; lookups take the read lock.
type Hub struct {
	ops chan hubOp

	mu      sync.RWMutex
	players *roster
	routes  map[string]MessageHandler
	inbound InboundLimit

	counters counters

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		ops:     make(chan hubOp, 1024),
		players: newRoster(),
		routes:  make(map[string]MessageHandler),
		inbound: DefaultInboundLimit(),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// On routes inbound events of msgType to fn. A later call replaces the route.
func (h *Hub) On(msgType string, fn MessageHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes[msgType] = fn
}

func (h *Hub) route(msgType string) (MessageHandler, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	fn, ok := h.routes[msgType]
	return fn, ok
}

func (h *Hub) SetInboundLimit(l InboundLimit) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inbound = l
}

func (h *Hub) inboundLimit() InboundLimit {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.inbound
}

// Run is the event loop. It returns once Shutdown is called.
func (h *Hub) Run() {
	defer close(h.done)
	logger.Log.Info("WebSocket hub starting")

	for {
		select {
		case <-h.ctx.Done():
			h.closeAll()
			return
		case op := <-h.ops:
			h.apply(op)
		}
	}
}

func (h *Hub) apply(op hubOp) {
	switch op.kind {
	case opJoin:
		h.join(op.client)
	case opLeave:
		h.leave(op.client)
	case opFanout:
		h.fanout(h.players.all(), op.event, op.frame)
	case opDirect:
		h.fanout(h.players.of(op.userID), op.event, op.frame)
	}
}

func (h *Hub) join(c *Client) {
	h.mu.Lock()
	added := h.players.add(c)
	h.mu.Unlock()
	if !added {
		return
	}

	h.counters.total.Add(1)
	active := h.counters.active.Add(1)
	metrics.Get().WebsocketConnections.Inc()
	logger.Log.Info("WebSocket client connected", logger.WithUserID(c.UserID), zap.Int64("active", active))
}

func (h *Hub) leave(c *Client) {
	h.mu.Lock()
	removed := h.players.remove(c)
	h.mu.Unlock()
	if !removed {
		return
	}

	c.closeOutbox()
	active := h.counters.active.Add(-1)
	metrics.Get().WebsocketConnections.Dec()
	logger.Log.Info("WebSocket client disconnected", logger.WithUserID(c.UserID), zap.Int64("active", active))
}

// fanout queues frame on every target. Connections whose buffer is full are
// dropped after the pass.
func (h *Hub) fanout(targets []*Client, event string, frame []byte) {
	var slow []*Client
	for _, c := range targets {
		if !c.enqueue(frame) {
			slow = append(slow, c)
			continue
		}
		h.counters.sent.Add(1)
		metrics.Get().WebsocketMessagesSent.WithLabelValues(event).Inc()
	}
	for _, c := range slow {
		h.counters.dropped.Add(1)
		logger.Log.Warn("Dropping slow WebSocket client", logger.WithUserID(c.UserID))
		h.leave(c)
	}
}

func (h *Hub) submit(op hubOp) {
	select {
	case h.ops <- op:
	case <-h.ctx.Done():
	}
}

func (h *Hub) encode(message *Message) ([]byte, bool) {
	frame, err := json.Marshal(message)
	if err != nil {
		logger.Log.Error("Failed to encode websocket event", zap.String("type", message.Type), zap.Error(err))
		return nil, false
	}
	return frame, true
}

// Broadcast sends message to every connection
func (h *Hub) Broadcast(message *Message) {
	if frame, ok := h.encode(message); ok {
		h.submit(hubOp{kind: opFanout, event: message.Type, frame: frame})
	}
}

// SendToUser sends message to every connection userID has open
func (h *Hub) SendToUser(userID string, message *Message) {
	if frame, ok := h.encode(message); ok {
		h.submit(hubOp{kind: opDirect, userID: userID, event: message.Type, frame: frame})
	}
}

func (h *Hub) Register(c *Client)   { h.submit(hubOp{kind: opJoin, client: c}) }
func (h *Hub) Unregister(c *Client) { h.submit(hubOp{kind: opLeave, client: c}) }

func (h *Hub) IsUserOnline(userID string) bool {
	return h.GetUserConnectionCount(userID) > 0
}

func (h *Hub) GetUserConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.players.count(userID)
}

// GetOnlineUsers lists every player with at least one connection
func (h *Hub) GetOnlineUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.players.users()
}

// Shutdown stops the event loop, which tells every client and closes it
func (h *Hub) Shutdown(ctx context.Context) error {
	h.cancel()
	select {
	case <-h.done:
		logger.Log.Info("WebSocket hub shutdown complete")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %w", ctx.Err())
	}
}

func (h *Hub) closeAll() {
	frame, _ := h.encode(NewMessage(MessageTypeSystem, SystemPayload{Event: "server_shutdown"}))

	h.mu.Lock()
	clients := h.players.all()
	h.players = newRoster()
	h.mu.Unlock()

	for _, c := range clients {
		c.enqueue(frame)
		c.closeOutbox()
	}
	h.counters.active.Store(0)
	metrics.Get().WebsocketConnections.Sub(float64(len(clients)))
	logger.Log.Info("Closed websocket connections during shutdown", zap.Int("count", len(clients)))
}

// roster indexes connections by player. Callers hold the hub lock.
type roster struct {
	byUser map[string]map[*Client]struct{}
	size   int
}

func newRoster() *roster {
	return &roster{byUser: make(map[string]map[*Client]struct{})}
}

func (r *roster) add(c *Client) bool {
	conns := r.byUser[c.UserID]
	if conns == nil {
		conns = make(map[*Client]struct{})
		r.byUser[c.UserID] = conns
	}
	if _, ok := conns[c]; ok {
		return false
	}
	conns[c] = struct{}{}
	r.size++
	return true
}

func (r *roster) remove(c *Client) bool {
	conns, ok := r.byUser[c.UserID]
	if !ok {
		return false
	}
	if _, ok := conns[c]; !ok {
		return false
	}
	delete(conns, c)
	if len(conns) == 0 {
		delete(r.byUser, c.UserID)
	}
	r.size--
	return true
}

func (r *roster) count(userID string) int { return len(r.byUser[userID]) }

func (r *roster) of(userID string) []*Client {
	out := make([]*Client, 0, len(r.byUser[userID]))
	for c := range r.byUser[userID] {
		out = append(out, c)
	}
	return out
}

func (r *roster) all() []*Client {
	out := make([]*Client, 0, r.size)
	for _, conns := range r.byUser {
		for c := range conns {
			out = append(out, c)
		}
	}
	return out
}

func (r *roster) users() []string {
	out := make([]string, 0, len(r.byUser))
	for id := range r.byUser {
		out = append(out, id)
	}
	return out
}

type counters struct {
	total    atomic.Int64
	active   atomic.Int64
	received atomic.Int64
	sent     atomic.Int64
	errors   atomic.Int64
	dropped  atomic.Int64
}

// StatsSnapshot is what /ws/stats and /health report for the hub
type StatsSnapshot struct {
	TotalConnections   int64 `json:"total_connections"`
	ActiveConnections  int64 `json:"active_connections"`
	MessagesReceived   int64 `json:"messages_received"`
	MessagesSent       int64 `json:"messages_sent"`
	Errors             int64 `json:"errors"`
	ConnectionsDropped int64 `json:"connections_dropped"`
}

func (h *Hub) GetStats() StatsSnapshot {
	return StatsSnapshot{
		TotalConnections:   h.counters.total.Load(),
		ActiveConnections:  h.counters.active.Load(),
		MessagesReceived:   h.counters.received.Load(),
		MessagesSent:       h.counters.sent.Load(),
		Errors:             h.counters.errors.Load(),
		ConnectionsDropped: h.counters.dropped.Load(),
	}
}

func (s StatsSnapshot) String() string {
	return fmt.Sprintf("connections=%d/%d rx=%d tx=%d errors=%d dropped=%d",
		s.ActiveConnections, s.TotalConnections, s.MessagesReceived, s.MessagesSent, s.Errors, s.ConnectionsDropped)
}
