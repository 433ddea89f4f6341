package ports

import (
	"context"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
)

// AuthService implements the registration and credential exchange flow.
type AuthService interface {
	// Signup validates the pair, creates the account when absent (repeat
	// calls with the same pair are idempotent and resend the code), and
	// delivers a confirmation code out of band.
	Signup(ctx context.Context, username, email string) (*domain.Account, error)
	// ExchangeToken verifies the confirmation code against the account's
	// current state and issues a signed access token.
	ExchangeToken(ctx context.Context, username, code string) (string, error)
}

// CodeSender delivers a confirmation code to the account's email address.
// A failed delivery must fail the signup request.
type CodeSender interface {
	SendCode(ctx context.Context, account *domain.Account, code string) error
}

// SignupThrottle bounds how often a confirmation code may be (re)sent to a
// single email address.
type SignupThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
}
