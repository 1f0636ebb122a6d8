package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Config contains credentials and sender identity for outgoing mail.
type Config struct {
	APIKey      string
	FromName    string
	FromAddress string
	PortalURL   string
}

// Mailer delivers transactional mail to administrative users.
type Mailer interface {
	SendWelcome(ctx context.Context, toAddress, toName string) error
}

// Service implements Mailer on top of SendGrid.
type Service struct {
	client    *sendgrid.Client
	from      *mail.Email
	portalURL string
	logger    zerolog.Logger
}

// New constructs a SendGrid-backed mailer.
func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if cfg.APIKey == "" || cfg.FromAddress == "" {
		return nil, fmt.Errorf("sendgrid credentials must be provided")
	}

	return &Service{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		from:      mail.NewEmail(cfg.FromName, cfg.FromAddress),
		portalURL: cfg.PortalURL,
		logger:    logger.With().Str("component", "mailer").Logger(),
	}, nil
}

// SendWelcome mails a newly registered user a link to set their password.
func (s *Service) SendWelcome(ctx context.Context, toAddress, toName string) error {
	to := mail.NewEmail(toName, toAddress)
	subject := "Welcome to the assessment portal"
	link := fmt.Sprintf("%s/set-password", s.portalURL)
	plain := fmt.Sprintf("Hi %s,\n\nAn account has been created for you. Sign in at %s with this email address and set your password on first login.\n", toName, link)
	html := fmt.Sprintf("<p>Hi %s,</p><p>An account has been created for you. <a href=%q>Sign in</a> with this email address and set your password on first login.</p>", toName, link)

	message := mail.NewSingleEmail(s.from, subject, to, plain, html)
	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send welcome mail: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("welcome mail rejected with status %d", response.StatusCode)
	}

	s.logger.Info().Str("to", toAddress).Msg("welcome mail sent")
	return nil
}

// Noop is a Mailer that drops all mail. Used when no API key is configured and in tests.
type Noop struct{}

// SendWelcome implements Mailer.
func (Noop) SendWelcome(context.Context, string, string) error { return nil }
