package ports

import (
	"context"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
)

// ListAccountsFilter narrows and pages an account listing.
type ListAccountsFilter struct {
	Search string // case-insensitive partial match on username
	Page   int
	Limit  int
}

// AccountRepository persists user accounts. Username and email are unique;
// Create reports a collision as domain.ErrConflict, lookups report a miss
// as domain.ErrAccountNotFound.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Delete(ctx context.Context, username string) error
	List(ctx context.Context, filter ListAccountsFilter) ([]*domain.Account, int64, error)
}
