package api

import (
	"context"

	"github.com/courtside-app/courtside/cli/pkg/client"
)

// AskAssistant sends one question to the coach assistant
func AskAssistant(ctx context.Context, message string) (*AssistantReply, error) {
	var reply AssistantReply
	resp, err := client.GetClient().R().
		SetContext(ctx).
		SetBody(map[string]string{"message": message}).
		SetResult(&reply).
		Post("/api/v1/assistant/chat")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &reply, nil
}
