package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"wedding-rsvp/internal/notify"
)

// emailAPI is the slice of the Resend client the mailer uses.
type emailAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Config holds the sender identities.
type Config struct {
	APIKey    string
	FromAdmin string
	FromGuest string
}

// Mailer delivers notifications as HTML email through Resend.
type Mailer struct {
	api emailAPI
	cfg Config
	log zerolog.Logger
}

// NewMailer creates a Resend-backed mailer
func NewMailer(cfg Config, log zerolog.Logger) *Mailer {
	return newMailer(resend.NewClient(cfg.APIKey).Emails, cfg, log)
}

func newMailer(api emailAPI, cfg Config, log zerolog.Logger) *Mailer {
	return &Mailer{
		api: api,
		cfg: cfg,
		log: log.With().Str("component", "Email").Logger(),
	}
}

// Send renders msg and posts it to the recipient.
func (m *Mailer) Send(ctx context.Context, msg notify.Message) error {
	if msg.To == "" {
		return fmt.Errorf("no recipient for %s email", msg.Audience)
	}

	body, err := notify.RenderHTML(msg)
	if err != nil {
		return err
	}

	from := m.cfg.FromGuest
	if msg.Audience == notify.AudienceAdmin {
		from = m.cfg.FromAdmin
	}

	sent, err := m.api.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    body,
		Text:    notify.RenderText(msg),
	})
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	m.log.Debug().Str("id", sent.Id).Str("to", msg.To).Str("subject", msg.Subject).Msg("Email sent")
	return nil
}
