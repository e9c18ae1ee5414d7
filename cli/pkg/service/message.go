package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/courtside-app/courtside/cli/pkg/api"
	"github.com/courtside-app/courtside/cli/pkg/formatter"
	"github.com/courtside-app/courtside/cli/pkg/logger"
	"github.com/courtside-app/courtside/cli/pkg/output"
)

// MessageService handles direct messages
type MessageService struct {
	userID string
	now    func() time.Time
}

// NewMessageService needs the caller's ID to tell sent from received messages
func NewMessageService(userID string) *MessageService {
	return &MessageService{userID: userID, now: time.Now}
}

// Send sends a direct message
func (ms *MessageService) Send(ctx context.Context, recipientID, body string) error {
	sent, err := api.SendMessage(ctx, recipientID, body)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return output.Render(sent, func(w io.Writer) {
		output.PrintSuccess("Message sent (%s)", sent.Delivery)
	})
}

// List prints the caller's conversations
func (ms *MessageService) List(ctx context.Context, page int) error {
	res, err := api.GetConversations(ctx, page, 20)
	if err != nil {
		return fmt.Errorf("failed to fetch conversations: %w", err)
	}

	return output.Render(res, func(w io.Writer) {
		if len(res.Conversations) == 0 {
			fmt.Fprintln(w, "No conversations yet.")
			return
		}
		rows := make([][]string, 0, len(res.Conversations))
		for _, c := range res.Conversations {
			last := ""
			if c.LastMessage != nil {
				last = formatter.Truncate(c.LastMessage.Body, 40)
			}
			unread := ""
			if c.UnreadCount > 0 {
				unread = fmt.Sprintf("%d", c.UnreadCount)
			}
			rows = append(rows, []string{
				"@" + c.With.Username, c.With.ID, unread, formatter.Ago(c.LastMessageAt, ms.now()), last,
			})
		}
		output.PrintTable([]string{"WITH", "USER ID", "UNREAD", "LAST", "MESSAGE"}, rows)
	})
}

// Thread prints the conversation with otherID, oldest message last on
// screen, and marks it read
func (ms *MessageService) Thread(ctx context.Context, otherID string, page int) error {
	res, err := api.GetThread(ctx, otherID, page, 20)
	if err != nil {
		return fmt.Errorf("failed to fetch thread: %w", err)
	}

	if n, err := api.MarkThreadRead(ctx, otherID); err != nil {
		logger.Warn("Failed to mark thread read", "user_id", otherID, "err", err)
	} else if n > 0 {
		logger.Debug("Marked messages read", "count", n)
	}

	return output.Render(res, func(w io.Writer) {
		if len(res.Messages) == 0 {
			fmt.Fprintln(w, "No messages yet.")
			return
		}
		// newest first from the server, chat order on screen
		for i := len(res.Messages) - 1; i >= 0; i-- {
			m := res.Messages[i]
			who := "them"
			if m.SenderID == ms.userID {
				who = "you"
			}
			formatter.Faint.Fprintf(w, "%-8s ", formatter.Ago(m.CreatedAt, ms.now()))
			formatter.Bold.Fprintf(w, "%-5s", who)
			fmt.Fprintf(w, " %s\n", m.Body)
		}
		if res.HasMore {
			formatter.Faint.Fprintf(w, "Older messages: --page %d\n", page+1)
		}
	})
}
