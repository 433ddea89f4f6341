package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
)

// LogSender writes confirmation codes to the log instead of sending email.
// Used in development when no SMTP relay is configured.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendCode(_ context.Context, account *domain.Account, code string) error {
	s.log.Info().
		Str("username", account.Username).
		Str("email", account.Email).
		Str("code", code).
		Msg("confirmation code (log delivery)")
	return nil
}
