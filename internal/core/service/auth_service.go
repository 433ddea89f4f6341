package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
	"github.com/mAXxtor/api-yamdb/internal/core/ports"
)

// AuthService implements signup and confirmation-code/token exchange.
type AuthService struct {
	accounts   ports.AccountRepository
	sender     ports.CodeSender
	throttle   ports.SignupThrottle
	activity   ports.ActivitySink
	jwtSecret  string
	codeSecret string
	tokenTTL   time.Duration
	log        zerolog.Logger
}

// AuthConfig bundles the tunables of the auth flow. Throttle and Activity
// are optional.
type AuthConfig struct {
	JWTSecret  string
	CodeSecret string
	TokenTTL   time.Duration
	Throttle   ports.SignupThrottle
	Activity   ports.ActivitySink
}

func NewAuthService(accounts ports.AccountRepository, sender ports.CodeSender, cfg AuthConfig, log zerolog.Logger) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &AuthService{
		accounts:   accounts,
		sender:     sender,
		throttle:   cfg.Throttle,
		activity:   cfg.Activity,
		jwtSecret:  cfg.JWTSecret,
		codeSecret: cfg.CodeSecret,
		tokenTTL:   cfg.TokenTTL,
		log:        log,
	}
}

// Signup registers the (username, email) pair and sends a confirmation code.
// A repeat call with the same pair resends the code for the existing account;
// a call that reuses the username or the email under a different pairing
// fails with domain.ErrConflict.
func (s *AuthService) Signup(ctx context.Context, username, email string) (*domain.Account, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if account.Email != email {
			return nil, fmt.Errorf("%w: username %q is taken", domain.ErrConflict, username)
		}
	case errors.Is(err, domain.ErrAccountNotFound):
		if _, emailErr := s.accounts.FindByEmail(ctx, email); emailErr == nil {
			return nil, fmt.Errorf("%w: email %q is taken", domain.ErrConflict, email)
		} else if !errors.Is(emailErr, domain.ErrAccountNotFound) {
			return nil, emailErr
		}

		now := time.Now().UTC()
		account, err = s.accounts.Create(ctx, &domain.Account{
			Username:  username,
			Email:     email,
			Role:      domain.RoleUser,
			CreatedAt: now,
			UpdatedAt: now,
		})
		// A concurrent signup may win the race; the unique index reports it.
		if err != nil {
			return nil, err
		}
		s.log.Info().Str("username", username).Msg("account registered")
	default:
		return nil, err
	}

	if s.throttle != nil {
		ok, thrErr := s.throttle.Allow(ctx, email)
		if thrErr != nil {
			s.log.Warn().Err(thrErr).Str("email", email).Msg("signup throttle unavailable, allowing request")
		} else if !ok {
			return nil, domain.ErrTooManyRequests
		}
	}

	code := s.confirmationCode(account)
	if err := s.sender.SendCode(ctx, account, code); err != nil {
		if errors.Is(err, domain.ErrDeliveryFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}

	s.record(ports.ActivityEntry{Actor: username, Verb: "signup", Resource: "user/" + username})
	return account, nil
}

// ExchangeToken verifies the confirmation code and issues an access token.
// Unknown usernames and wrong codes both fail with domain.ErrInvalidCode.
func (s *AuthService) ExchangeToken(ctx context.Context, username, code string) (string, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return "", err
	}

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.log.Debug().Str("username", username).Msg("token exchange for unknown account")
			return "", domain.ErrInvalidCode
		}
		return "", err
	}

	expected := s.confirmationCode(account)
	if !hmac.Equal([]byte(expected), []byte(code)) {
		return "", domain.ErrInvalidCode
	}

	// Bumping LastLogin changes the state the code is derived from, so the
	// presented code cannot be replayed.
	account.LastLogin = time.Now().UTC()
	if _, err := s.accounts.Update(ctx, account); err != nil {
		return "", fmt.Errorf("consume confirmation code: %w", err)
	}

	token, err := s.generateToken(account)
	if err != nil {
		return "", err
	}

	s.record(ports.ActivityEntry{Actor: username, Verb: "token.issue", Resource: "user/" + username})
	return token, nil
}

// confirmationCode derives the single valid code for the account's current
// state: an HMAC-SHA256 over the identity fields, keyed by the server
// secret. Any state change (including LastLogin on exchange) retires it.
func (s *AuthService) confirmationCode(a *domain.Account) string {
	mac := hmac.New(sha256.New, []byte(s.codeSecret))
	fmt.Fprintf(mac, "%s|%s|%s|%s|%d", a.ID, a.Username, a.Email, a.Role, a.LastLogin.Unix())
	return hex.EncodeToString(mac.Sum(nil)[:16])
}

func (s *AuthService) generateToken(a *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"username":  a.Username,
		"role":      a.Role,
		"superuser": a.Superuser,
		"exp":       time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) record(entry ports.ActivityEntry) {
	if s.activity == nil {
		return
	}
	entry.At = time.Now().UTC()
	s.activity.Enqueue(entry)
}
