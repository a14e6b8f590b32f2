// Package notify delivers outbound user messages such as password reset links.
package notify

import (
	"context"
	"log/slog"
)

// Channel sends a plain-text message to one recipient.
type Channel interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogChannel stands in for a mail server in development. It records the
// recipient and subject only; bodies carry reset tokens and are not logged.
type LogChannel struct {
	Logger *slog.Logger
}

func (c LogChannel) Send(ctx context.Context, to, subject, body string) error {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "notification not delivered, no SMTP server configured",
		"to", to, "subject", subject, "body_bytes", len(body))
	return nil
}
