package ports

import (
	"context"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
)

// ReviewRepository persists reviews. Each (title, author) pair may hold at
// most one review; Create reports a second attempt as
// domain.ErrDuplicateReview. Lookups scoped by title report a miss as
// domain.ErrNotFound.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	FindByID(ctx context.Context, titleID, reviewID string) (*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) (*domain.Review, error)
	Delete(ctx context.Context, titleID, reviewID string) error
	ListByTitle(ctx context.Context, titleID string, page, limit int) ([]*domain.Review, int64, error)
}

// CommentRepository persists comments on reviews, scoped by review id.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, reviewID, commentID string) (*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	Delete(ctx context.Context, reviewID, commentID string) error
	ListByReview(ctx context.Context, reviewID string, page, limit int) ([]*domain.Comment, int64, error)
}
