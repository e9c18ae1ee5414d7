package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	sent []*ses.SendEmailInput
	err  error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.sent = append(f.sent, in)
	return &ses.SendEmailOutput{}, f.err
}

func TestSendMessageNotification(t *testing.T) {
	fake := &fakeSES{}
	svc := &EmailService{client: fake, fromEmail: "noreply@courtside.app", fromName: "Courtside", baseURL: "https://courtside.app"}

	err := svc.SendMessageNotification(context.Background(), "rafa@example.com", "Roger <3", "Hit tomorrow at 7?")
	require.NoError(t, err)
	require.Len(t, fake.sent, 1)

	in := fake.sent[0]
	assert.Equal(t, `"Courtside" <noreply@courtside.app>`, aws.ToString(in.Source))
	assert.Equal(t, []string{"rafa@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "New message from Roger <3 on Courtside", aws.ToString(in.Message.Subject.Data))
	assert.Contains(t, aws.ToString(in.Message.Body.Html.Data), "Roger &lt;3")
	assert.Contains(t, aws.ToString(in.Message.Body.Text.Data), "https://courtside.app/messages")
	assert.Contains(t, aws.ToString(in.Message.Body.Text.Data), "Roger <3 sent you a message")
}

func TestSendMessageNotificationTruncatesPreview(t *testing.T) {
	svc := &EmailService{fromEmail: "noreply@courtside.app", baseURL: "https://courtside.app"}
	in, err := svc.buildMessageNotification("a@b.c", "x", strings.Repeat("é", previewRunes+10))
	require.NoError(t, err)
	text := aws.ToString(in.Message.Body.Text.Data)
	assert.Contains(t, text, strings.Repeat("é", previewRunes)+"…")
	assert.NotContains(t, text, strings.Repeat("é", previewRunes+1))
	assert.Equal(t, "noreply@courtside.app", aws.ToString(in.Source))
}

func TestSendMessageNotificationError(t *testing.T) {
	svc := &EmailService{client: &fakeSES{err: errors.New("throttled")}, fromEmail: "n@c.app"}
	err := svc.SendMessageNotification(context.Background(), "a@b.c", "x", "hi")
	assert.ErrorContains(t, err, "throttled")
}
