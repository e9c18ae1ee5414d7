package assistant

import "context"

// Provider produces a reply to one user message
type Provider interface {
	// Name identifies the provider in metrics and responses
	Name() string
	Reply(ctx context.Context, req Request) (Reply, error)
}

// Request is one chat turn
type Request struct {
	UserID       string
	SystemPrompt string
	Message      string
	MaxTokens    int
}

// Reply is the provider's answer
type Reply struct {
	Text     string `json:"reply"`
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
}

// SystemPrompt frames every upstream request
const SystemPrompt = "You are Courtside's tennis coach assistant. Give concise, practical advice " +
	"about technique, tactics, training, equipment and finding hitting partners. " +
	"If a question is not about tennis, steer the conversation back to the court."
