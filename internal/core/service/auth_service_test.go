package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
	"github.com/mAXxtor/api-yamdb/internal/core/ports"
)

type stubAccountRepo struct {
	accounts map[string]*domain.Account
	nextID   int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if _, exists := r.accounts[account.Username]; exists {
		return nil, domain.ErrConflict
	}
	for _, a := range r.accounts {
		if a.Email == account.Email {
			return nil, domain.ErrConflict
		}
	}
	copy := cloneAccount(account)
	r.nextID++
	copy.ID = strconv.Itoa(r.nextID)
	r.accounts[copy.Username] = cloneAccount(copy)
	return cloneAccount(copy), nil
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	a, ok := r.accounts[username]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) Update(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if _, ok := r.accounts[account.Username]; !ok {
		return nil, domain.ErrAccountNotFound
	}
	r.accounts[account.Username] = cloneAccount(account)
	return cloneAccount(account), nil
}

func (r *stubAccountRepo) Delete(_ context.Context, username string) error {
	if _, ok := r.accounts[username]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.accounts, username)
	return nil
}

func (r *stubAccountRepo) List(_ context.Context, _ ports.ListAccountsFilter) ([]*domain.Account, int64, error) {
	out := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, cloneAccount(a))
	}
	return out, int64(len(out)), nil
}

type stubSender struct {
	codes []string
	fail  bool
}

func (s *stubSender) SendCode(_ context.Context, _ *domain.Account, code string) error {
	if s.fail {
		return fmt.Errorf("%w: smtp connection refused", domain.ErrDeliveryFailed)
	}
	s.codes = append(s.codes, code)
	return nil
}

func (s *stubSender) lastCode() string {
	if len(s.codes) == 0 {
		return ""
	}
	return s.codes[len(s.codes)-1]
}

type stubThrottle struct {
	allow bool
	err   error
	calls int
}

func (t *stubThrottle) Allow(_ context.Context, _ string) (bool, error) {
	t.calls++
	return t.allow, t.err
}

func newAuthService(repo ports.AccountRepository, sender ports.CodeSender, cfg AuthConfig) *AuthService {
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "jwt-secret"
	}
	if cfg.CodeSecret == "" {
		cfg.CodeSecret = "code-secret"
	}
	return NewAuthService(repo, sender, cfg, zerolog.Nop())
}

func TestAuthService_Signup_CreatesAccount(t *testing.T) {
	repo := newStubAccountRepo()
	sender := &stubSender{}
	svc := newAuthService(repo, sender, AuthConfig{})

	account, err := svc.Signup(context.Background(), "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if account.Role != domain.RoleUser {
		t.Fatalf("new accounts must get the user role, got %q", account.Role)
	}
	if len(sender.codes) != 1 {
		t.Fatalf("expected one confirmation code sent, got %d", len(sender.codes))
	}
	if _, err := repo.FindByUsername(context.Background(), "alice"); err != nil {
		t.Fatalf("account was not persisted: %v", err)
	}
}

func TestAuthService_Signup_RepeatResendsCode(t *testing.T) {
	repo := newStubAccountRepo()
	sender := &stubSender{}
	svc := newAuthService(repo, sender, AuthConfig{})

	first, err := svc.Signup(context.Background(), "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("first Signup: %v", err)
	}
	second, err := svc.Signup(context.Background(), "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("repeat Signup must be idempotent, got %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("repeat Signup created a second account: %s vs %s", first.ID, second.ID)
	}
	if len(sender.codes) != 2 {
		t.Fatalf("expected the code to be resent, got %d sends", len(sender.codes))
	}
	if sender.codes[0] != sender.codes[1] {
		t.Fatal("resent code must match: account state did not change")
	}
}

func TestAuthService_Signup_Conflicts(t *testing.T) {
	repo := newStubAccountRepo()
	sender := &stubSender{}
	svc := newAuthService(repo, sender, AuthConfig{})

	if _, err := svc.Signup(context.Background(), "alice", "alice@example.com"); err != nil {
		t.Fatalf("seed Signup: %v", err)
	}

	if _, err := svc.Signup(context.Background(), "alice", "other@example.com"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("username reuse with another email: want ErrConflict, got %v", err)
	}
	if _, err := svc.Signup(context.Background(), "bob", "alice@example.com"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("email reuse with another username: want ErrConflict, got %v", err)
	}
}

func TestAuthService_Signup_InvalidUsername(t *testing.T) {
	svc := newAuthService(newStubAccountRepo(), &stubSender{}, AuthConfig{})

	for _, name := range []string{"", "me", "has space"} {
		if _, err := svc.Signup(context.Background(), name, "a@example.com"); !errors.Is(err, domain.ErrInvalidUsername) {
			t.Errorf("Signup(%q): want ErrInvalidUsername, got %v", name, err)
		}
	}
}

func TestAuthService_Signup_DeliveryFailure(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAuthService(repo, &stubSender{fail: true}, AuthConfig{})

	if _, err := svc.Signup(context.Background(), "alice", "alice@example.com"); !errors.Is(err, domain.ErrDeliveryFailed) {
		t.Fatalf("want ErrDeliveryFailed, got %v", err)
	}
	// The account stays registered so a retry resends rather than conflicts.
	if _, err := repo.FindByUsername(context.Background(), "alice"); err != nil {
		t.Fatalf("account should survive a failed delivery: %v", err)
	}
}

func TestAuthService_Signup_Throttled(t *testing.T) {
	throttle := &stubThrottle{allow: false}
	svc := newAuthService(newStubAccountRepo(), &stubSender{}, AuthConfig{Throttle: throttle})

	if _, err := svc.Signup(context.Background(), "alice", "alice@example.com"); !errors.Is(err, domain.ErrTooManyRequests) {
		t.Fatalf("want ErrTooManyRequests, got %v", err)
	}
	if throttle.calls != 1 {
		t.Fatalf("throttle consulted %d times, want 1", throttle.calls)
	}
}

func TestAuthService_Signup_ThrottleFailsOpen(t *testing.T) {
	throttle := &stubThrottle{err: errors.New("redis down")}
	sender := &stubSender{}
	svc := newAuthService(newStubAccountRepo(), sender, AuthConfig{Throttle: throttle})

	if _, err := svc.Signup(context.Background(), "alice", "alice@example.com"); err != nil {
		t.Fatalf("throttle errors must not block signup: %v", err)
	}
	if len(sender.codes) != 1 {
		t.Fatal("code should still be sent when the throttle is unavailable")
	}
}

func TestAuthService_ExchangeToken_RoundTrip(t *testing.T) {
	repo := newStubAccountRepo()
	sender := &stubSender{}
	svc := newAuthService(repo, sender, AuthConfig{TokenTTL: time.Hour})

	if _, err := svc.Signup(context.Background(), "alice", "alice@example.com"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	token, err := svc.ExchangeToken(context.Background(), "alice", sender.lastCode())
	if err != nil {
		t.Fatalf("ExchangeToken: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("jwt-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims["username"] != "alice" {
		t.Fatalf("unexpected username claim: %v", claims["username"])
	}
	if claims["role"] != domain.RoleUser {
		t.Fatalf("unexpected role claim: %v", claims["role"])
	}
}

func TestAuthService_ExchangeToken_WrongCode(t *testing.T) {
	repo := newStubAccountRepo()
	sender := &stubSender{}
	svc := newAuthService(repo, sender, AuthConfig{})

	if _, err := svc.Signup(context.Background(), "alice", "alice@example.com"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if _, err := svc.ExchangeToken(context.Background(), "alice", "deadbeef"); !errors.Is(err, domain.ErrInvalidCode) {
		t.Fatalf("wrong code: want ErrInvalidCode, got %v", err)
	}
}

func TestAuthService_ExchangeToken_UnknownUser(t *testing.T) {
	svc := newAuthService(newStubAccountRepo(), &stubSender{}, AuthConfig{})

	// Unknown usernames get the same error as wrong codes.
	if _, err := svc.ExchangeToken(context.Background(), "nobody", "deadbeef"); !errors.Is(err, domain.ErrInvalidCode) {
		t.Fatalf("unknown user: want ErrInvalidCode, got %v", err)
	}
}

func TestAuthService_ExchangeToken_SingleUse(t *testing.T) {
	repo := newStubAccountRepo()
	sender := &stubSender{}
	svc := newAuthService(repo, sender, AuthConfig{})

	if _, err := svc.Signup(context.Background(), "alice", "alice@example.com"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	code := sender.lastCode()

	if _, err := svc.ExchangeToken(context.Background(), "alice", code); err != nil {
		t.Fatalf("first exchange: %v", err)
	}
	if _, err := svc.ExchangeToken(context.Background(), "alice", code); !errors.Is(err, domain.ErrInvalidCode) {
		t.Fatalf("replayed code must be rejected, got %v", err)
	}
}

func TestAuthService_NewCodeAfterExchange(t *testing.T) {
	repo := newStubAccountRepo()
	sender := &stubSender{}
	svc := newAuthService(repo, sender, AuthConfig{})

	if _, err := svc.Signup(context.Background(), "alice", "alice@example.com"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	first := sender.lastCode()
	if _, err := svc.ExchangeToken(context.Background(), "alice", first); err != nil {
		t.Fatalf("exchange: %v", err)
	}

	// Signing up again issues a fresh code bound to the new account state.
	if _, err := svc.Signup(context.Background(), "alice", "alice@example.com"); err != nil {
		t.Fatalf("re-signup: %v", err)
	}
	second := sender.lastCode()
	if first == second {
		t.Fatal("code must rotate after a successful exchange")
	}
	if _, err := svc.ExchangeToken(context.Background(), "alice", second); err != nil {
		t.Fatalf("fresh code must work: %v", err)
	}
}
