package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/courtside-app/courtside/backend/internal/telemetry"
	"github.com/go-resty/resty/v2"
)

const (
	anthropicVersion = "2023-06-01"
	defaultMaxTokens = 1024
)

// ErrUpstream wraps any failure talking to the model API
var ErrUpstream = errors.New("assistant upstream failed")

// Anthropic calls an Anthropic-compatible /v1/messages endpoint
type Anthropic struct {
	client *resty.Client
	model  string
}

var _ Provider = (*Anthropic)(nil)

// NewAnthropic builds a provider for baseURL. The HTTP transport is traced.
func NewAnthropic(baseURL, apiKey, model string, timeout time.Duration) *Anthropic {
	client := resty.NewWithClient(telemetry.NewInstrumentedHTTPClient(timeout)).
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", anthropicVersion).
		SetHeader("Content-Type", "application/json")
	return &Anthropic{client: client, model: model}
}

func (a *Anthropic) Name() string { return "anthropic" }

type messagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system,omitempty"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type upstreamError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Reply sends one user turn and concatenates the text blocks of the answer
func (a *Anthropic) Reply(ctx context.Context, req Request) (Reply, error) {
	call := telemetry.StartUpstream(ctx, "anthropic", "messages")

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	var out messagesResponse
	var upErr upstreamError
	resp, err := a.client.R().
		SetContext(call.Context()).
		SetBody(messagesRequest{
			Model:     a.model,
			MaxTokens: maxTokens,
			System:    req.SystemPrompt,
			Messages:  []chatMessage{{Role: "user", Content: req.Message}},
		}).
		SetResult(&out).
		SetError(&upErr).
		Post("/v1/messages")
	if err != nil {
		call.End(0, err)
		return Reply{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.IsError() {
		err := fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode(), upErr.Error.Message)
		call.End(resp.StatusCode(), err)
		return Reply{}, err
	}
	call.End(resp.StatusCode(), nil)

	var sb strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return Reply{}, fmt.Errorf("%w: empty response", ErrUpstream)
	}

	return Reply{Text: sb.String(), Provider: a.Name(), Model: out.Model}, nil
}
