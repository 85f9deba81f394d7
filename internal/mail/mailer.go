package mail

import (
	"context"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/PB4aCe/4aceDE-SHOP/internal/config"
)

// Sender delivers a single plain-text transactional mail. Implementations
// must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, to, subject, text string) error
}

type smtpSender struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewSMTPSender creates a Sender over the configured SMTP transport. When no
// SMTP user is configured, sends are skipped with a warning instead of
// failing, so a dev setup without mail credentials keeps working.
func NewSMTPSender(cfg config.SMTPConfig, logger *zap.Logger) Sender {
	return &smtpSender{cfg: cfg, logger: logger}
}

func (s *smtpSender) Send(ctx context.Context, to, subject, text string) error {
	if s.cfg.User == "" {
		s.logger.Warn("SMTP_USER not set, mail not sent", zap.String("subject", subject))
		return nil
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.cfg.FromName, s.cfg.User); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, text)

	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.User),
		gomail.WithPassword(s.cfg.Password),
	}
	if s.cfg.SSL {
		opts = append(opts, gomail.WithSSL())
	}

	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}
