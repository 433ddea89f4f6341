package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
	"github.com/mAXxtor/api-yamdb/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// normalizePage clamps pagination parameters to sane bounds.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}

// AccountService implements user management.
type AccountService struct {
	accounts ports.AccountRepository
	log      zerolog.Logger
}

func NewAccountService(accounts ports.AccountRepository, log zerolog.Logger) *AccountService {
	return &AccountService{accounts: accounts, log: log}
}

func (s *AccountService) List(ctx context.Context, filter ports.ListAccountsFilter) (*ports.AccountPage, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	items, total, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.AccountPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *AccountService) Get(ctx context.Context, username string) (*domain.Account, error) {
	return s.accounts.FindByUsername(ctx, username)
}

// Create registers an account on behalf of an admin. Unlike signup, no
// confirmation code is sent; the admin vouches for the email.
func (s *AccountService) Create(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, in.Role)
	}

	now := time.Now().UTC()
	account, err := s.accounts.Create(ctx, &domain.Account{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("username", account.Username).Str("role", account.Role).Msg("account created by admin")
	return account, nil
}

// Update applies a partial update. The role field only changes when the
// actor holds admin rights; for self-service updates it is silently dropped,
// mirroring the read-only role on the profile endpoint.
func (s *AccountService) Update(ctx context.Context, actor domain.Actor, username string, in ports.UpdateAccountInput) (*domain.Account, error) {
	if !domain.Allowed(actor, domain.ActionWrite, domain.Resource{Kind: domain.ResourceProfile, Owner: username}) {
		return nil, domain.ErrForbidden
	}

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		account.Email = *in.Email
	}
	if in.FirstName != nil {
		account.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		account.LastName = *in.LastName
	}
	if in.Bio != nil {
		account.Bio = *in.Bio
	}
	if in.Role != nil && actor.Elevated() {
		if !domain.ValidRole(*in.Role) {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, *in.Role)
		}
		account.Role = *in.Role
	}
	account.UpdatedAt = time.Now().UTC()

	return s.accounts.Update(ctx, account)
}

func (s *AccountService) Delete(ctx context.Context, actor domain.Actor, username string) error {
	if !actor.Elevated() {
		return domain.ErrForbidden
	}
	if err := s.accounts.Delete(ctx, username); err != nil {
		return err
	}
	s.log.Info().Str("username", username).Str("by", actor.Username).Msg("account deleted")
	return nil
}
