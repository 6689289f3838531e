package sendgrid

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/johnquangdev/meeting-insights/pkg/config"
)

// Sender delivers transactional email through SendGrid
type Sender struct {
	client   *sendgrid.Client
	from     *mail.Email
	disabled bool
}

// NewSender creates a SendGrid sender. Without an API key the sender is disabled
// and Send returns ErrDisabled.
func NewSender(cfg config.EmailConfig) *Sender {
	s := &Sender{
		from:     mail.NewEmail(cfg.FromName, cfg.FromAddress),
		disabled: cfg.SendGridAPIKey == "",
	}
	if !s.disabled {
		s.client = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	}
	return s
}

// ErrDisabled is returned when no API key is configured
var ErrDisabled = fmt.Errorf("sendgrid sender is disabled")

// BuildMessage assembles a single-recipient message
func (s *Sender) BuildMessage(toName, toEmail, subject, plain, html string) *mail.SGMailV3 {
	return mail.NewSingleEmail(s.from, subject, mail.NewEmail(toName, toEmail), plain, html)
}

// Send delivers one message
func (s *Sender) Send(ctx context.Context, toName, toEmail, subject, plain, html string) error {
	if s.disabled {
		return ErrDisabled
	}

	resp, err := s.client.SendWithContext(ctx, s.BuildMessage(toName, toEmail, subject, plain, html))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
