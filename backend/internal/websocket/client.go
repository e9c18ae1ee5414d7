package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/courtside-app/courtside/backend/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	idleTimeout    = 60 * time.Second
	keepalive      = idleTimeout * 9 / 10
	maxInboundSize = 64 * 1024
	sendBufferSize = 256
)

var (
	ErrClientClosed = errors.New("client connection closed")
	ErrBufferFull   = errors.New("send buffer full")
)

// Client is one open connection of a player. A player may hold several.
type Client struct {
	conn *websocket.Conn
	hub  *Hub

	UserID      string
	Username    string
	RemoteAddr  string
	UserAgent   string
	ConnectedAt time.Time

	// encoded frames waiting for WritePump; closed by the hub on leave
	send         chan []byte
	mu           sync.Mutex
	outboxClosed bool

	limiter *rate.Limiter

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewClient creates a Client. conn may be nil when only hub routing is
// exercised.
func NewClient(hub *Hub, conn *websocket.Conn, userID, username string) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	limit := hub.inboundLimit()
	return &Client{
		hub:         hub,
		conn:        conn,
		UserID:      userID,
		Username:    username,
		ConnectedAt: time.Now(),
		send:        make(chan []byte, sendBufferSize),
		limiter:     rate.NewLimiter(limit.PerSecond, limit.Burst),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// ReadPump reads events until the peer goes away, then leaves the hub
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxInboundSize)
	for {
		ctx, cancel := context.WithTimeout(c.ctx, idleTimeout)
		_, data, err := c.conn.Read(ctx)
		cancel()
		if err != nil {
			c.logReadError(err)
			return
		}
		c.receive(data)
	}
}

func (c *Client) logReadError(err error) {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		logger.Log.Debug("Client disconnected normally", logger.WithUserID(c.UserID))
		return
	}
	if c.ctx.Err() != nil {
		return
	}
	logger.Log.Warn("WebSocket read error", logger.WithUserID(c.UserID), zap.Error(err))
	c.hub.counters.errors.Add(1)
}

func (c *Client) receive(data []byte) {
	if !c.limiter.Allow() {
		c.hub.counters.errors.Add(1)
		c.SendError("rate_limited", "Too many messages, please slow down")
		return
	}
	c.hub.counters.received.Add(1)

	message, err := DecodeMessage(data)
	if err != nil {
		c.SendError("invalid_json", "Failed to parse message")
		return
	}
	c.handleMessage(message)
}

// WritePump writes queued frames and pings the peer while idle
func (c *Client) WritePump() {
	ticker := time.NewTicker(keepalive)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
		case frame, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.write(frame); err != nil {
				logger.Log.Warn("WebSocket write error", logger.WithUserID(c.UserID), zap.Error(err))
				c.hub.counters.errors.Add(1)
				return
			}
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(c.ctx, writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				logger.Log.Debug("Ping failed", logger.WithUserID(c.UserID), zap.Error(err))
				return
			}
		}
	}
}

func (c *Client) write(frame []byte) error {
	ctx, cancel := context.WithTimeout(c.ctx, writeWait)
	defer cancel()
	return c.conn.Write(ctx, websocket.MessageText, frame)
}

// handleMessage answers pings itself and hands every other event to its route
func (c *Client) handleMessage(message *Message) {
	if message.Timestamp.IsZero() {
		message.Timestamp = FlexibleTime{Time: time.Now().UTC()}
	}

	if message.Type == MessageTypePing {
		c.pong(message)
		return
	}

	fn, ok := c.hub.route(message.Type)
	if !ok {
		c.SendError("unknown_type", fmt.Sprintf("Unknown message type: %s", message.Type))
		return
	}
	if err := fn(c, message); err != nil {
		logger.Log.Warn("WebSocket handler error",
			zap.String("type", message.Type),
			logger.WithUserID(c.UserID),
			zap.Error(err))
		c.SendError("handler_error", fmt.Sprintf("Failed to process %s", message.Type))
	}
}

func (c *Client) pong(ping *Message) {
	var in PingPayload
	_ = ping.ParsePayload(&in)

	now := time.Now().UnixMilli()
	reply := NewMessage(MessageTypePong, PongPayload{
		ClientTime: in.ClientTime,
		ServerTime: now,
		Latency:    now - in.ClientTime,
	})
	reply.ReplyTo = ping.ID
	_ = c.Send(reply)
}

// Send queues message for this connection without blocking
func (c *Client) Send(message *Message) error {
	frame, err := json.Marshal(message)
	if err != nil {
		return err
	}
	if c.ctx.Err() != nil {
		return ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outboxClosed {
		return ErrClientClosed
	}
	select {
	case c.send <- frame:
		return nil
	default:
		return ErrBufferFull
	}
}

// enqueue is the hub's non-blocking send. It reports false when the frame
// could not be queued.
func (c *Client) enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outboxClosed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) SendError(code, message string) {
	_ = c.Send(NewErrorMessage(code, message))
}

// Close cancels the pumps and closes the connection. Safe to call repeatedly.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		if c.conn != nil {
			c.conn.Close(websocket.StatusNormalClosure, "closing")
		}
	})
}

// closeOutbox ends WritePump once queued frames drain. Only the hub calls it.
func (c *Client) closeOutbox() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.outboxClosed {
		c.outboxClosed = true
		close(c.send)
	}
}

func (c *Client) IsClosed() bool {
	return c.ctx.Err() != nil
}
