package api

import (
	"context"

	"github.com/courtside-app/courtside/cli/pkg/client"
	"github.com/courtside-app/courtside/cli/pkg/logger"
)

// SendMessage sends a direct message to recipientID
func SendMessage(ctx context.Context, recipientID, body string) (*SendMessageResponse, error) {
	logger.Debug("Sending message", "recipient_id", recipientID)

	var result SendMessageResponse
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetBody(map[string]string{"recipient_id": recipientID, "body": body}).
		SetResult(&result).
		Post("/api/v1/messages")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetConversations lists the caller's conversations, most recent first
func GetConversations(ctx context.Context, page, pageSize int) (*ConversationsResponse, error) {
	var result ConversationsResponse
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetQueryParams(pageParams(page, pageSize)).
		SetResult(&result).
		Get("/api/v1/messages/conversations")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetThread retrieves one page of the conversation with userID, newest first
func GetThread(ctx context.Context, userID string, page, pageSize int) (*ThreadResponse, error) {
	var result ThreadResponse
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetPathParam("user_id", userID).
		SetQueryParams(pageParams(page, pageSize)).
		SetResult(&result).
		Get("/api/v1/messages/with/{user_id}")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// MarkThreadRead marks every message from userID as read
func MarkThreadRead(ctx context.Context, userID string) (int64, error) {
	var result struct {
		MarkedRead int64 `json:"marked_read"`
	}
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetPathParam("user_id", userID).
		SetResult(&result).
		Post("/api/v1/messages/with/{user_id}/read")
	if err := CheckResponse(resp, err); err != nil {
		return 0, err
	}
	return result.MarkedRead, nil
}
