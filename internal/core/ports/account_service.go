package ports

import (
	"context"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
)

// CreateAccountInput carries the fields an admin may set when creating a user.
type CreateAccountInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string // defaults to "user" when empty
}

// UpdateAccountInput carries a partial account update. Nil fields are left
// unchanged. Role is silently ignored unless the actor holds admin rights.
type UpdateAccountInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

// AccountPage is one page of accounts.
type AccountPage struct {
	Items      []*domain.Account
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AccountService defines use-case operations on user accounts.
type AccountService interface {
	List(ctx context.Context, filter ListAccountsFilter) (*AccountPage, error)
	Get(ctx context.Context, username string) (*domain.Account, error)
	Create(ctx context.Context, in CreateAccountInput) (*domain.Account, error)
	Update(ctx context.Context, actor domain.Actor, username string, in UpdateAccountInput) (*domain.Account, error)
	Delete(ctx context.Context, actor domain.Actor, username string) error
}
