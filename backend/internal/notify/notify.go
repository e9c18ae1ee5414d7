// Package notify fans domain events out to the realtime hub and, for direct
// messages to players who are not connected, to email.
package notify

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/courtside-app/courtside/backend/internal/feed"
	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/messaging"
	"github.com/courtside-app/courtside/backend/internal/metrics"
	"github.com/courtside-app/courtside/backend/internal/models"
	"github.com/courtside-app/courtside/backend/internal/settings"
	"github.com/courtside-app/courtside/backend/internal/websocket"
	"go.uber.org/zap"
)

const (
	previewRunes = 140
	emailTimeout = 10 * time.Second
)

// Realtime is the part of the websocket hub the notifier pushes through
type Realtime interface {
	Broadcast(msg *websocket.Message)
	SendToUser(userID string, msg *websocket.Message)
	IsUserOnline(userID string) bool
}

// Mailer sends the offline message email
type Mailer interface {
	SendMessageNotification(ctx context.Context, toEmail, fromName, body string) error
}

// Preferences answers per-user boolean settings
type Preferences interface {
	Bool(ctx context.Context, userID, key string, def bool) bool
}

// Service is constructed once at startup and handed to the handlers.
// Any sink may be nil.
type Service struct {
	realtime Realtime
	mailer   Mailer
	prefs    Preferences

	// async runs email delivery; tests replace it to run inline
	async func(func())
}

func NewService(realtime Realtime, mailer Mailer, prefs Preferences) *Service {
	return &Service{
		realtime: realtime,
		mailer:   mailer,
		prefs:    prefs,
		async:    func(f func()) { go f() },
	}
}

// PostCreated broadcasts a new post to everyone connected
func (s *Service) PostCreated(post *feed.PostView) {
	if s.realtime == nil {
		return
	}
	s.realtime.Broadcast(websocket.NewMessage(websocket.MessageTypeNewPost, websocket.NewPostPayload{
		PostID:      post.ID,
		UserID:      post.UserID,
		Username:    post.Author.Username,
		DisplayName: post.Author.DisplayName,
		AvatarURL:   post.Author.AvatarURL,
		PostType:    string(post.PostType),
		Preview:     preview(post.Content),
	}))
}

// PostLiked tells the author someone liked their post
func (s *Service) PostLiked(authorID string, liker *models.User, postID string, likeCount int64) {
	if s.realtime == nil || authorID == liker.ID {
		return
	}
	s.realtime.SendToUser(authorID, websocket.NewMessage(websocket.MessageTypePostLiked, websocket.LikePayload{
		PostID:    postID,
		UserID:    liker.ID,
		Username:  liker.Username,
		LikeCount: likeCount,
	}))
}

// CommentAdded tells the author about a new comment
func (s *Service) CommentAdded(authorID string, comment *feed.CommentView) {
	if s.realtime == nil || authorID == comment.UserID {
		return
	}
	s.realtime.SendToUser(authorID, websocket.NewMessage(websocket.MessageTypeNewComment, websocket.CommentPayload{
		CommentID: comment.ID,
		PostID:    comment.PostID,
		UserID:    comment.UserID,
		Username:  comment.Author.Username,
		Body:      comment.Content,
		CreatedAt: comment.CreatedAt.UnixMilli(),
	}))
}

// MessageSent delivers a direct message in realtime, or by email when the
// recipient is offline and has not opted out. It reports the channel used.
func (s *Service) MessageSent(sent *messaging.Sent) string {
	m := metrics.Get()
	recipient := sent.Recipient

	if s.realtime != nil && s.realtime.IsUserOnline(recipient.ID) {
		s.realtime.SendToUser(recipient.ID, websocket.NewMessage(websocket.MessageTypeNewMessage, websocket.NewMessagePayload{
			MessageID:      sent.Message.ID,
			ConversationID: sent.Message.ConversationID,
			SenderID:       sent.Sender.ID,
			SenderName:     displayName(&sent.Sender),
			Body:           sent.Message.Body,
			CreatedAt:      sent.Message.CreatedAt.UnixMilli(),
		}))
		m.MessagesSentTotal.WithLabelValues("realtime").Inc()
		return "realtime"
	}

	if s.mailer == nil || recipient.Email == "" {
		m.MessagesSentTotal.WithLabelValues("stored").Inc()
		return "stored"
	}

	ctx, cancel := context.WithTimeout(context.Background(), emailTimeout)
	if s.prefs != nil && !s.prefs.Bool(ctx, recipient.ID, settings.KeyNotifyEmail, true) {
		cancel()
		m.MessagesSentTotal.WithLabelValues("stored").Inc()
		return "stored"
	}

	from := displayName(&sent.Sender)
	to := recipient.Email
	body := sent.Message.Body
	s.async(func() {
		defer cancel()
		if err := s.mailer.SendMessageNotification(ctx, to, from, body); err != nil {
			logger.Log.Warn("Failed to email message notification",
				logger.WithUserID(recipient.ID),
				zap.Error(err))
		}
	})
	m.MessagesSentTotal.WithLabelValues("email").Inc()
	return "email"
}

// MessagesRead tells the sender their messages were read
func (s *Service) MessagesRead(senderID, readerID string, count int64) {
	if s.realtime == nil || count == 0 {
		return
	}
	s.realtime.SendToUser(senderID, websocket.NewMessage(websocket.MessageTypeMessageRead, websocket.MessageReadPayload{
		ReaderID: readerID,
		Count:    count,
	}))
}

func displayName(u *models.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewRunes {
		return s
	}
	return string([]rune(s)[:previewRunes]) + "…"
}
