package mail

import (
	"context"

	"github.com/screenwise/screenwise/internal/logging"
)

// LogSender writes the reset token to the log instead of sending email.
// Development only: tokens in logs defeat the point of out-of-band delivery.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger.With("module", "mail")}
}

func (s *LogSender) SendPasswordReset(ctx context.Context, to string, token string) error {
	s.logger.Debug(ctx, "password reset token issued", "to", to, "token", token)
	return nil
}
