package mail

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer delivers email through the SendGrid API.
type SendGridMailer struct {
	client *sendgrid.Client
	from   *sgmail.Email
	logger zerolog.Logger
}

// NewSendGridMailer builds a SendGrid-backed mailer.
func NewSendGridMailer(apiKey, fromName, fromEmail string, logger zerolog.Logger) (*SendGridMailer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid api key must be provided")
	}

	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(fromName, fromEmail),
		logger: logger.With().Str("component", "sendgrid_mailer").Logger(),
	}, nil
}

// SendPasswordReset sends the reset link to the account's email address.
func (m *SendGridMailer) SendPasswordReset(ctx context.Context, toEmail, username, resetLink string) error {
	to := sgmail.NewEmail(username, toEmail)
	message := sgmail.NewSingleEmail(m.from, resetSubject(), to, resetBody(username, resetLink), "")

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected password reset email: status %d", response.StatusCode)
	}

	m.logger.Info().Str("to", toEmail).Msg("password reset email sent")

	return nil
}
