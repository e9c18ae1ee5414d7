// Package email sends the one email Courtside has: a new direct message
// notification for players who opted in.
package email

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"net/mail"
	texttemplate "text/template"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/courtside-app/courtside/backend/internal/logger"
	"go.uber.org/zap"
)

// previewRunes bounds how much of a message body goes into the email
const previewRunes = 140

var (
	htmlNotice = htmltemplate.Must(htmltemplate.New("html").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; color: #222;">
	<h2>{{.From}} sent you a message</h2>
	<blockquote style="border-left: 3px solid #c6e03a; padding-left: 12px; color: #555;">{{.Preview}}</blockquote>
	<p><a href="{{.InboxURL}}">Open your inbox</a></p>
	<p style="color: #999; font-size: 12px;">Turn these off by setting notify_email to false.</p>
</body>
</html>`))

	textNotice = texttemplate.Must(texttemplate.New("text").Parse(
		"{{.From}} sent you a message:\n\n{{.Preview}}\n\nOpen your inbox: {{.InboxURL}}\n"))
)

type notice struct {
	From     string
	Preview  string
	InboxURL string
}

// Sender delivers notification emails
type Sender interface {
	SendMessageNotification(ctx context.Context, toEmail, fromName, body string) error
}

type sesAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type EmailService struct {
	client    sesAPI
	fromEmail string
	fromName  string
	baseURL   string
}

var _ Sender = (*EmailService)(nil)

// NewEmailService loads AWS credentials from the environment and sends
// through SES in region
func NewEmailService(region, fromEmail, fromName, baseURL string) (*EmailService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &EmailService{
		client:    ses.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		baseURL:   baseURL,
	}, nil
}

func (e *EmailService) SendMessageNotification(ctx context.Context, toEmail, fromName, body string) error {
	input, err := e.buildMessageNotification(toEmail, fromName, body)
	if err != nil {
		return err
	}
	if _, err := e.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	logger.Log.Info("Message notification emailed", zap.String("to", toEmail))
	return nil
}

func (e *EmailService) buildMessageNotification(toEmail, fromName, body string) (*ses.SendEmailInput, error) {
	n := notice{From: fromName, Preview: truncate(body, previewRunes), InboxURL: e.baseURL + "/messages"}

	var html, text bytes.Buffer
	if err := htmlNotice.Execute(&html, n); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	if err := textNotice.Execute(&text, n); err != nil {
		return nil, fmt.Errorf("render text: %w", err)
	}

	return &ses.SendEmailInput{
		Source:      aws.String(e.source()),
		Destination: &types.Destination{ToAddresses: []string{toEmail}},
		Message: &types.Message{
			Subject: utf8("New message from " + fromName + " on Courtside"),
			Body:    &types.Body{Html: utf8(html.String()), Text: utf8(text.String())},
		},
	}, nil
}

// source is the From header, with a display name when one is configured
func (e *EmailService) source() string {
	if e.fromName == "" {
		return e.fromEmail
	}
	return (&mail.Address{Name: e.fromName, Address: e.fromEmail}).String()
}

func utf8(s string) *types.Content {
	return &types.Content{Data: aws.String(s), Charset: aws.String("UTF-8")}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
