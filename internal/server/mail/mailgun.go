package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/screenwise/screenwise/internal/server/config"
)

const sendTimeout = 30 * time.Second

// MailgunSender delivers password-reset emails through Mailgun.
type MailgunSender struct {
	mg   *mailgun.MailgunImpl
	from string
}

func NewMailgunSender(cfg *config.Config) (*MailgunSender, error) {
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailFrom == "" {
		return nil, errors.New("invalid mailgun configuration")
	}
	return &MailgunSender{
		mg:   mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey),
		from: cfg.MailFrom,
	}, nil
}

func (s *MailgunSender) SendPasswordReset(ctx context.Context, to string, token string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	body := fmt.Sprintf(
		"We received a request to reset your Screenwise password.\n\n"+
			"Reset token: %s\n\n"+
			"The token expires in one hour. If you did not request this, ignore this message.\n",
		token)

	message := s.mg.NewMessage(s.from, "Reset your Screenwise password", body, to)

	if _, _, err := s.mg.Send(ctx, message); err != nil {
		return fmt.Errorf("sending reset email: %w", err)
	}
	return nil
}
