package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
	"github.com/mAXxtor/api-yamdb/internal/core/ports"
)

type stubReviewRepo struct {
	reviews map[string]*domain.Review
	nextID  int
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{reviews: make(map[string]*domain.Review)}
}

func cloneReview(r *domain.Review) *domain.Review {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

func (r *stubReviewRepo) Create(_ context.Context, review *domain.Review) (*domain.Review, error) {
	for _, existing := range r.reviews {
		if existing.TitleID == review.TitleID && existing.Author == review.Author {
			return nil, domain.ErrDuplicateReview
		}
	}
	copy := cloneReview(review)
	r.nextID++
	copy.ID = strconv.Itoa(r.nextID)
	r.reviews[copy.ID] = cloneReview(copy)
	return cloneReview(copy), nil
}

func (r *stubReviewRepo) FindByID(_ context.Context, titleID, reviewID string) (*domain.Review, error) {
	review, ok := r.reviews[reviewID]
	if !ok || review.TitleID != titleID {
		return nil, domain.ErrNotFound
	}
	return cloneReview(review), nil
}

func (r *stubReviewRepo) Update(_ context.Context, review *domain.Review) (*domain.Review, error) {
	if _, ok := r.reviews[review.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	r.reviews[review.ID] = cloneReview(review)
	return cloneReview(review), nil
}

func (r *stubReviewRepo) Delete(_ context.Context, titleID, reviewID string) error {
	review, ok := r.reviews[reviewID]
	if !ok || review.TitleID != titleID {
		return domain.ErrNotFound
	}
	delete(r.reviews, reviewID)
	return nil
}

func (r *stubReviewRepo) ListByTitle(_ context.Context, titleID string, _, _ int) ([]*domain.Review, int64, error) {
	out := make([]*domain.Review, 0)
	for _, review := range r.reviews {
		if review.TitleID == titleID {
			out = append(out, cloneReview(review))
		}
	}
	return out, int64(len(out)), nil
}

type stubCommentRepo struct {
	comments map[string]*domain.Comment
	nextID   int
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{comments: make(map[string]*domain.Comment)}
}

func cloneComment(c *domain.Comment) *domain.Comment {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

func (r *stubCommentRepo) Create(_ context.Context, comment *domain.Comment) (*domain.Comment, error) {
	copy := cloneComment(comment)
	r.nextID++
	copy.ID = strconv.Itoa(r.nextID)
	r.comments[copy.ID] = cloneComment(copy)
	return cloneComment(copy), nil
}

func (r *stubCommentRepo) FindByID(_ context.Context, reviewID, commentID string) (*domain.Comment, error) {
	comment, ok := r.comments[commentID]
	if !ok || comment.ReviewID != reviewID {
		return nil, domain.ErrNotFound
	}
	return cloneComment(comment), nil
}

func (r *stubCommentRepo) Update(_ context.Context, comment *domain.Comment) (*domain.Comment, error) {
	if _, ok := r.comments[comment.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	r.comments[comment.ID] = cloneComment(comment)
	return cloneComment(comment), nil
}

func (r *stubCommentRepo) Delete(_ context.Context, reviewID, commentID string) error {
	comment, ok := r.comments[commentID]
	if !ok || comment.ReviewID != reviewID {
		return domain.ErrNotFound
	}
	delete(r.comments, commentID)
	return nil
}

func (r *stubCommentRepo) ListByReview(_ context.Context, reviewID string, _, _ int) ([]*domain.Comment, int64, error) {
	out := make([]*domain.Comment, 0)
	for _, comment := range r.comments {
		if comment.ReviewID == reviewID {
			out = append(out, cloneComment(comment))
		}
	}
	return out, int64(len(out)), nil
}

type reviewFixture struct {
	svc     *ReviewService
	titles  *stubTitleRepo
	reviews *stubReviewRepo
	titleID string
}

func newReviewFixture(t *testing.T) reviewFixture {
	t.Helper()
	titles := newStubTitleRepo()
	reviews := newStubReviewRepo()
	comments := newStubCommentRepo()
	title, err := titles.Create(context.Background(), &domain.Title{Name: "Solaris", Year: 1972, CreatedAt: time.Now()})
	if err != nil {
		t.Fatalf("seed title: %v", err)
	}
	return reviewFixture{
		svc:     NewReviewService(titles, reviews, comments, nil, zerolog.Nop()),
		titles:  titles,
		reviews: reviews,
		titleID: title.ID,
	}
}

var (
	reader    = domain.Actor{Username: "alice", Role: domain.RoleUser}
	other     = domain.Actor{Username: "bob", Role: domain.RoleUser}
	moderator = domain.Actor{Username: "mia", Role: domain.RoleModerator}
)

func TestReviewService_CreateReview(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	review, err := f.svc.CreateReview(ctx, reader, f.titleID, "slow but rewarding", 9)
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	if review.Author != "alice" {
		t.Fatalf("author not taken from actor: %q", review.Author)
	}

	if _, err := f.svc.CreateReview(ctx, reader, f.titleID, "changed my mind", 3); !errors.Is(err, domain.ErrDuplicateReview) {
		t.Fatalf("second review per title: want ErrDuplicateReview, got %v", err)
	}
	if _, err := f.svc.CreateReview(ctx, other, f.titleID, "overrated", 5); err != nil {
		t.Fatalf("another author must be allowed: %v", err)
	}
}

func TestReviewService_CreateReview_Validation(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	if _, err := f.svc.CreateReview(ctx, domain.Actor{}, f.titleID, "text", 5); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("anonymous: want ErrForbidden, got %v", err)
	}
	if _, err := f.svc.CreateReview(ctx, reader, f.titleID, "", 5); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("empty text: want ErrInvalidInput, got %v", err)
	}
	for _, score := range []int{0, 11, -3} {
		if _, err := f.svc.CreateReview(ctx, reader, f.titleID, "text", score); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("score %d: want ErrInvalidInput, got %v", score, err)
		}
	}
	if _, err := f.svc.CreateReview(ctx, reader, "missing", "text", 5); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown title: want ErrNotFound, got %v", err)
	}
}

func TestReviewService_UpdateReview_Ownership(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	review, err := f.svc.CreateReview(ctx, reader, f.titleID, "fine", 7)
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}

	score := 8
	if _, err := f.svc.UpdateReview(ctx, other, f.titleID, review.ID, ports.UpdateReviewInput{Score: &score}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger update: want ErrForbidden, got %v", err)
	}
	updated, err := f.svc.UpdateReview(ctx, moderator, f.titleID, review.ID, ports.UpdateReviewInput{Score: &score})
	if err != nil {
		t.Fatalf("moderator update: %v", err)
	}
	if updated.Score != 8 {
		t.Fatalf("score not applied: %d", updated.Score)
	}
	if updated.Text != "fine" {
		t.Fatalf("partial update clobbered text: %q", updated.Text)
	}
}

func TestReviewService_DeleteReview(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	review, err := f.svc.CreateReview(ctx, reader, f.titleID, "fine", 7)
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}

	if err := f.svc.DeleteReview(ctx, other, f.titleID, review.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger delete: want ErrForbidden, got %v", err)
	}
	if err := f.svc.DeleteReview(ctx, reader, f.titleID, review.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if err := f.svc.DeleteReview(ctx, reader, f.titleID, review.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}

func TestReviewService_Comments(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	review, err := f.svc.CreateReview(ctx, reader, f.titleID, "fine", 7)
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}

	if _, err := f.svc.CreateComment(ctx, domain.Actor{}, f.titleID, review.ID, "hi"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("anonymous comment: want ErrForbidden, got %v", err)
	}
	if _, err := f.svc.CreateComment(ctx, other, f.titleID, "missing", "hi"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown review: want ErrNotFound, got %v", err)
	}

	comment, err := f.svc.CreateComment(ctx, other, f.titleID, review.ID, "agreed")
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	if _, err := f.svc.UpdateComment(ctx, reader, f.titleID, review.ID, comment.ID, "edited"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-author edit: want ErrForbidden, got %v", err)
	}
	updated, err := f.svc.UpdateComment(ctx, other, f.titleID, review.ID, comment.ID, "edited")
	if err != nil {
		t.Fatalf("author edit: %v", err)
	}
	if updated.Text != "edited" {
		t.Fatalf("text not applied: %q", updated.Text)
	}

	if err := f.svc.DeleteComment(ctx, moderator, f.titleID, review.ID, comment.ID); err != nil {
		t.Fatalf("moderator delete: %v", err)
	}

	page, err := f.svc.ListComments(ctx, f.titleID, review.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("comment not deleted, total=%d", page.Total)
	}
}

func TestReviewService_ListReviews_UnknownTitle(t *testing.T) {
	f := newReviewFixture(t)

	if _, err := f.svc.ListReviews(context.Background(), "missing", 1, 10); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
