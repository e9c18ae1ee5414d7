package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxMessageLength = 4000

// Conversation is the direct-message channel between two users. UserAID is
// always the lexically smaller ID so a pair maps to exactly one row.
type Conversation struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	UserAID       string    `gorm:"column:user_a_id;size:36;not null;uniqueIndex:idx_conversation_pair" json:"user_a_id"`
	UserBID       string    `gorm:"column:user_b_id;size:36;not null;uniqueIndex:idx_conversation_pair" json:"user_b_id"`
	LastMessageAt time.Time `gorm:"index" json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// ConversationPair orders two user IDs the way Conversation stores them
func ConversationPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// Other returns the participant that is not userID
func (c *Conversation) Other(userID string) string {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// Message is one direct message
type Message struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	ConversationID string     `gorm:"size:36;not null;index:idx_messages_conversation_created" json:"conversation_id"`
	SenderID       string     `gorm:"size:36;not null" json:"sender_id"`
	RecipientID    string     `gorm:"size:36;not null;index" json:"recipient_id"`
	Body           string     `gorm:"type:text;not null" json:"body"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `gorm:"index:idx_messages_conversation_created" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
