// Package mail delivers password-reset tokens out of band. The service core
// only depends on the Sender interface; the concrete transport is picked
// from configuration at startup.
package mail

import (
	"context"
	"fmt"

	"github.com/screenwise/screenwise/internal/logging"
	"github.com/screenwise/screenwise/internal/server/config"
)

// Sender delivers a password-reset token to the given address.
type Sender interface {
	SendPasswordReset(ctx context.Context, to string, token string) error
}

// NewSender selects a Sender implementation from configuration.
func NewSender(cfg *config.Config, logger logging.Logger) (Sender, error) {
	switch cfg.MailProvider {
	case "mailgun":
		return NewMailgunSender(cfg)
	case "log":
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
	}
}
