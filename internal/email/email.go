// Package email renders and delivers notification emails.
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"welth/internal/logger"
)

// Message is a rendered email ready to send.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers messages. Callers treat delivery as fire-and-forget and
// only log failures.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ResendSender delivers mail through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a Sender using the given Resend API key.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Send implements Sender.
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("email: missing recipient")
	}

	resp, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("email: send %q: %w", msg.Subject, err)
	}

	logger.Get().Debugw("email sent", "id", resp.Id, "subject", msg.Subject)
	return nil
}

// LogSender writes messages to the log instead of delivering them. It is used
// when no Resend key is configured.
type LogSender struct{}

// Send implements Sender.
func (LogSender) Send(_ context.Context, msg Message) error {
	logger.Get().Infow("email delivery disabled, dropping message",
		"to", msg.To,
		"subject", msg.Subject,
		"bytes", len(msg.HTML),
	)
	return nil
}
