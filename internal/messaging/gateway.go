// Package messaging sends and receives chat messages for the chama.
package messaging

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// ErrTransport wraps any failure to deliver a message to one recipient.
var ErrTransport = errors.New("message delivery failed")

// Gateway sends a text message to a phone-identified recipient.
type Gateway interface {
	// Send delivers body to the canonical phone number `to`.
	// Implementations must honour ctx cancellation and wrap
	// delivery failures with ErrTransport.
	Send(ctx context.Context, to, body string) error
}

// NormalizePhone returns the canonical phone number for a sender identifier,
// stripping any channel scheme such as "whatsapp:" or "sms:".
func NormalizePhone(raw string) string {
	phone := strings.TrimSpace(raw)
	if i := strings.Index(phone, ":"); i >= 0 {
		phone = phone[i+1:]
	}
	return strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
}

// LogGateway is a dry-run Gateway that logs messages instead of sending them.
// Used when no messaging credentials are configured.
type LogGateway struct {
	logger *slog.Logger
}

// NewLogGateway creates a LogGateway writing to logger.
func NewLogGateway(logger *slog.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}

// Send logs the message.
func (g *LogGateway) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(ErrTransport, err)
	}
	g.logger.Info("Dry-run message", "to", to, "body", body)
	return nil
}
