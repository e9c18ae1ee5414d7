package websocket

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// Event types. Clients send ping, typing and presence; everything else is
// server to client.
const (
	MessageTypeSystem = "system"
	MessageTypeError  = "error"
	MessageTypePing   = "ping"
	MessageTypePong   = "pong"

	MessageTypeNewPost    = "new_post"
	MessageTypePostLiked  = "post_liked"
	MessageTypeNewComment = "new_comment"

	MessageTypeNewMessage  = "new_message"
	MessageTypeMessageRead = "message_read"
	MessageTypeTyping      = "typing"

	MessageTypePresence    = "presence"
	MessageTypeUserOnline  = "user_online"
	MessageTypeUserOffline = "user_offline"
)

var errBadStamp = errors.New("timestamp must be unix milliseconds or an RFC3339 string")

// FlexibleTime reads either unix milliseconds or RFC3339 and always writes
// RFC3339. Mobile clients send the former, browsers the latter.
type FlexibleTime struct {
	time.Time
}

func (ft *FlexibleTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		ft.Time = time.Time{}
		return nil
	case len(b) > 0 && b[0] == '"':
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return errBadStamp
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return err
		}
		ft.Time = t
		return nil
	}

	ms, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return errBadStamp
	}
	ft.Time = time.UnixMilli(ms)
	return nil
}

func (ft FlexibleTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(ft.Time)
}

// Message is the envelope for every frame in either direction. Payload holds
// a typed struct on the way out and raw JSON on the way in.
type Message struct {
	Type      string       `json:"type"`
	Payload   any          `json:"payload,omitempty"`
	ID        string       `json:"id,omitempty"`
	ReplyTo   string       `json:"reply_to,omitempty"`
	Timestamp FlexibleTime `json:"timestamp"`
}

func NewMessage(msgType string, payload any) *Message {
	return &Message{Type: msgType, Payload: payload, Timestamp: FlexibleTime{Time: time.Now().UTC()}}
}

func NewErrorMessage(code, text string) *Message {
	return NewMessage(MessageTypeError, ErrorPayload{Code: code, Message: text})
}

// DecodeMessage parses an inbound frame, keeping the payload raw until a
// route asks for it
func DecodeMessage(data []byte) (*Message, error) {
	var in struct {
		Type      string          `json:"type"`
		Payload   json.RawMessage `json:"payload"`
		ID        string          `json:"id"`
		Timestamp FlexibleTime    `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	m := &Message{Type: in.Type, ID: in.ID, Timestamp: in.Timestamp}
	if len(in.Payload) > 0 && !bytes.Equal(in.Payload, []byte("null")) {
		m.Payload = in.Payload
	}
	return m, nil
}

// ParsePayload decodes the payload into target. A missing payload leaves
// target untouched.
func (m *Message) ParsePayload(target any) error {
	var raw []byte
	switch p := m.Payload.(type) {
	case nil:
		return nil
	case json.RawMessage:
		raw = p
	default:
		var err error
		if raw, err = json.Marshal(p); err != nil {
			return err
		}
	}
	return json.Unmarshal(raw, target)
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PingPayload struct {
	ClientTime int64 `json:"client_time"`
}

type PongPayload struct {
	ClientTime int64 `json:"client_time"`
	ServerTime int64 `json:"server_time"`
	Latency    int64 `json:"latency_ms"`
}

// SystemPayload carries connected and server_shutdown notices
type SystemPayload struct {
	Event   string         `json:"event"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// PresencePayload is a status change. Status is online, on_court or offline.
type PresencePayload struct {
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

type NewPostPayload struct {
	PostID      string `json:"post_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	PostType    string `json:"post_type"`
	Preview     string `json:"preview"`
}

// LikePayload goes to the post's author
type LikePayload struct {
	PostID    string `json:"post_id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	LikeCount int64  `json:"like_count"`
}

// CommentPayload goes to the post's author
type CommentPayload struct {
	CommentID string `json:"comment_id"`
	PostID    string `json:"post_id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Body      string `json:"body"`
	CreatedAt int64  `json:"created_at"`
}

type NewMessagePayload struct {
	MessageID      string `json:"message_id"`
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	SenderName     string `json:"sender_name"`
	Body           string `json:"body"`
	CreatedAt      int64  `json:"created_at"`
}

// MessageReadPayload tells a sender how many of their messages were read
type MessageReadPayload struct {
	ReaderID string `json:"reader_id"`
	Count    int64  `json:"count"`
}

// TypingPayload arrives with RecipientID and leaves with UserID
type TypingPayload struct {
	RecipientID string `json:"recipient_id,omitempty"`
	UserID      string `json:"user_id"`
	Typing      bool   `json:"typing"`
}
