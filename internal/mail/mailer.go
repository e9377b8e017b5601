// Package mail delivers outbound notification email. Delivery is best
// effort: callers treat a send failure as non-fatal and fall back to a
// development-only response path.
package mail

import (
	"context"
	"fmt"
)

// Mailer sends account email.
type Mailer interface {
	SendPasswordReset(ctx context.Context, toEmail, username, resetLink string) error
}

func resetSubject() string {
	return "Password Reset Request - LMS"
}

func resetBody(username, resetLink string) string {
	return fmt.Sprintf(`Hello %s,

You requested to reset your password. Click the link below to reset it:

%s

This link will expire in 15 minutes.

If you didn't request this, please ignore this email.

Best regards,
LMS Team
`, username, resetLink)
}
