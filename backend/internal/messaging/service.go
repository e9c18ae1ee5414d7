package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/courtside-app/courtside/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrSelfMessage       = errors.New("cannot message yourself")
	ErrBodyRequired      = errors.New("message body is required")
	ErrBodyTooLong       = errors.New("message body is too long")
)

// ConversationView is a conversation summary for one participant
type ConversationView struct {
	ID            string             `json:"id"`
	With          models.UserSummary `json:"with"`
	LastMessage   *models.Message    `json:"last_message,omitempty"`
	LastMessageAt time.Time          `json:"last_message_at"`
	UnreadCount   int64              `json:"unread_count"`
}

// ConversationPage is a page of conversations, most recent activity first
type ConversationPage struct {
	Conversations []ConversationView `json:"conversations"`
	Page          int                `json:"page"`
	PageSize      int                `json:"page_size"`
	HasMore       bool               `json:"has_more"`
}

// MessagePage is a page of one thread, newest first
type MessagePage struct {
	Messages []models.Message `json:"messages"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	HasMore  bool             `json:"has_more"`
}

// Sent is the result of Send: the stored message and both participants
type Sent struct {
	Message   models.Message
	Sender    models.User
	Recipient models.User
}

// Service stores direct messages between users
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Send stores a message from senderID to recipientID, creating the
// conversation on first contact
func (s *Service) Send(ctx context.Context, senderID, recipientID, body string) (*Sent, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrBodyRequired
	}
	if utf8.RuneCountInString(body) > models.MaxMessageLength {
		return nil, ErrBodyTooLong
	}
	if senderID == recipientID {
		return nil, ErrSelfMessage
	}

	var out Sent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", senderID).First(&out.Sender).Error; err != nil {
			return fmt.Errorf("load sender: %w", err)
		}
		err := tx.Where("id = ?", recipientID).First(&out.Recipient).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipientNotFound
		}
		if err != nil {
			return err
		}

		now := s.now().UTC()
		a, b := models.ConversationPair(senderID, recipientID)
		conv := models.Conversation{UserAID: a, UserBID: b}
		if err := tx.Where(models.Conversation{UserAID: a, UserBID: b}).
			Attrs(models.Conversation{LastMessageAt: now}).
			FirstOrCreate(&conv).Error; err != nil {
			return fmt.Errorf("open conversation: %w", err)
		}

		out.Message = models.Message{
			ConversationID: conv.ID,
			SenderID:       senderID,
			RecipientID:    recipientID,
			Body:           body,
			CreatedAt:      now,
		}
		if err := tx.Create(&out.Message).Error; err != nil {
			return fmt.Errorf("store message: %w", err)
		}
		return tx.Model(&conv).Update("last_message_at", now).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Conversations lists userID's conversations with unread counts
func (s *Service) Conversations(ctx context.Context, userID string, page, pageSize int) (*ConversationPage, error) {
	db := s.db.WithContext(ctx)

	var convs []models.Conversation
	err := db.Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("last_message_at DESC").Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize + 1).
		Find(&convs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load conversations: %w", err)
	}

	hasMore := len(convs) > pageSize
	if hasMore {
		convs = convs[:pageSize]
	}

	views := make([]ConversationView, 0, len(convs))
	for _, c := range convs {
		var other models.User
		if err := db.Where("id = ?", c.Other(userID)).First(&other).Error; err != nil {
			return nil, fmt.Errorf("load participant: %w", err)
		}

		view := ConversationView{ID: c.ID, With: other.Summary(), LastMessageAt: c.LastMessageAt}

		var last models.Message
		err := db.Where("conversation_id = ?", c.ID).Order("created_at DESC").Order("id DESC").First(&last).Error
		if err == nil {
			view.LastMessage = &last
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		if err := db.Model(&models.Message{}).
			Where("conversation_id = ? AND recipient_id = ? AND read_at IS NULL", c.ID, userID).
			Count(&view.UnreadCount).Error; err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return &ConversationPage{Conversations: views, Page: page, PageSize: pageSize, HasMore: hasMore}, nil
}

// Thread returns the messages between userID and otherID, newest first
func (s *Service) Thread(ctx context.Context, userID, otherID string, page, pageSize int) (*MessagePage, error) {
	a, b := models.ConversationPair(userID, otherID)

	var conv models.Conversation
	err := s.db.WithContext(ctx).Where("user_a_id = ? AND user_b_id = ?", a, b).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &MessagePage{Messages: []models.Message{}, Page: page, PageSize: pageSize}, nil
	}
	if err != nil {
		return nil, err
	}

	var msgs []models.Message
	err = s.db.WithContext(ctx).Where("conversation_id = ?", conv.ID).
		Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize + 1).
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	hasMore := len(msgs) > pageSize
	if hasMore {
		msgs = msgs[:pageSize]
	}
	return &MessagePage{Messages: msgs, Page: page, PageSize: pageSize, HasMore: hasMore}, nil
}

// MarkRead marks every unread message from otherID to userID as read and
// returns how many changed
func (s *Service) MarkRead(ctx context.Context, userID, otherID string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND read_at IS NULL", otherID, userID).
		Update("read_at", s.now().UTC())
	return res.RowsAffected, res.Error
}

// Partners returns the IDs of everyone userID has a conversation with
func (s *Service) Partners(ctx context.Context, userID string) ([]string, error) {
	var convs []models.Conversation
	err := s.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Find(&convs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation partners: %w", err)
	}
	ids := make([]string, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.Other(userID))
	}
	return ids, nil
}
