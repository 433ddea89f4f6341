package ports

import (
	"context"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
)

// UpdateReviewInput carries a partial review update. Nil fields are unchanged.
type UpdateReviewInput struct {
	Text  *string
	Score *int
}

// ReviewPage is one page of reviews.
type ReviewPage struct {
	Items      []*domain.Review
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CommentPage is one page of comments.
type CommentPage struct {
	Items      []*domain.Comment
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ReviewService defines use-case operations on reviews and their comments.
// Mutations consult the access policy: authors may edit their own entries,
// moderators and admins may edit anything.
type ReviewService interface {
	CreateReview(ctx context.Context, actor domain.Actor, titleID, text string, score int) (*domain.Review, error)
	GetReview(ctx context.Context, titleID, reviewID string) (*domain.Review, error)
	UpdateReview(ctx context.Context, actor domain.Actor, titleID, reviewID string, in UpdateReviewInput) (*domain.Review, error)
	DeleteReview(ctx context.Context, actor domain.Actor, titleID, reviewID string) error
	ListReviews(ctx context.Context, titleID string, page, limit int) (*ReviewPage, error)

	CreateComment(ctx context.Context, actor domain.Actor, titleID, reviewID, text string) (*domain.Comment, error)
	GetComment(ctx context.Context, titleID, reviewID, commentID string) (*domain.Comment, error)
	UpdateComment(ctx context.Context, actor domain.Actor, titleID, reviewID, commentID, text string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, actor domain.Actor, titleID, reviewID, commentID string) error
	ListComments(ctx context.Context, titleID, reviewID string, page, limit int) (*CommentPage, error)
}
