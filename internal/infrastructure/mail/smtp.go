// Package mail delivers confirmation codes to account email addresses.
package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
)

// SMTPConfig captures the settings of the outbound mail relay.
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// SMTPSender delivers confirmation codes over SMTP. Errors are reported as
// domain.ErrDeliveryFailed so the signup request fails rather than silently
// losing the code.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.From,
		auth: auth,
	}
}

func (s *SMTPSender) SendCode(_ context.Context, account *domain.Account, code string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Registration confirmation code\r\n\r\n"+
			"Hello %s,\r\n\r\nYour confirmation code: %s\r\n",
		s.from, account.Email, account.Username, code,
	)
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{account.Email}, []byte(msg)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	return nil
}
