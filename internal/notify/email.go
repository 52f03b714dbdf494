package notify

import (
	"context"
	"fmt"
	"strings"

	"midwife-booking-server/internal/logging"
)

// EmailSender defines the interface for sending emails.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// LogSender writes would-be emails to the log instead of delivering them.
type LogSender struct {
	from   string
	logger *logging.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(from string, logger *logging.Logger) *LogSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSender{from: from, logger: logger.With("component", "email")}
}

// Send logs the message. It only fails on a missing recipient.
func (s *LogSender) Send(ctx context.Context, msg EmailMessage) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("notify: email recipient required")
	}
	s.logger.InfoContext(ctx, "email sent",
		"from", s.from,
		"to", msg.To,
		"to_name", msg.ToName,
		"subject", msg.Subject,
		"body_length", len(msg.Body),
	)
	return nil
}
