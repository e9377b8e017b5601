package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// ConsoleMailer logs email instead of delivering it. Used when no SendGrid
// key is configured, i.e. local development.
type ConsoleMailer struct {
	logger zerolog.Logger
}

// NewConsoleMailer builds a log-only mailer.
func NewConsoleMailer(logger zerolog.Logger) *ConsoleMailer {
	return &ConsoleMailer{logger: logger.With().Str("component", "console_mailer").Logger()}
}

// SendPasswordReset logs the reset link.
func (m *ConsoleMailer) SendPasswordReset(_ context.Context, toEmail, username, resetLink string) error {
	m.logger.Info().
		Str("to", toEmail).
		Str("username", username).
		Str("subject", resetSubject()).
		Str("reset_link", resetLink).
		Msg("password reset email (console)")

	return nil
}
