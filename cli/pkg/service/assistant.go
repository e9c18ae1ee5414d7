package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/courtside-app/courtside/cli/pkg/api"
	"github.com/courtside-app/courtside/cli/pkg/formatter"
	"github.com/courtside-app/courtside/cli/pkg/output"
)

// AssistantService asks the coach assistant
type AssistantService struct{}

func NewAssistantService() *AssistantService {
	return &AssistantService{}
}

// Ask sends question and prints the reply
func (s *AssistantService) Ask(ctx context.Context, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return fmt.Errorf("question cannot be empty")
	}
	reply, err := api.AskAssistant(ctx, question)
	if err != nil {
		return fmt.Errorf("assistant request failed: %w", err)
	}
	return output.Render(reply, func(w io.Writer) {
		fmt.Fprintln(w, reply.Reply)
		formatter.Faint.Fprintf(w, "\n(%s)\n", reply.Provider)
	})
}
