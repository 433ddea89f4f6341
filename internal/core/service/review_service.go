package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
	"github.com/mAXxtor/api-yamdb/internal/core/ports"
)

// ReviewService implements reviews and comments.
type ReviewService struct {
	titles   ports.TitleRepository
	reviews  ports.ReviewRepository
	comments ports.CommentRepository
	activity ports.ActivitySink
	log      zerolog.Logger
}

func NewReviewService(
	titles ports.TitleRepository,
	reviews ports.ReviewRepository,
	comments ports.CommentRepository,
	activity ports.ActivitySink,
	log zerolog.Logger,
) *ReviewService {
	return &ReviewService{
		titles:   titles,
		reviews:  reviews,
		comments: comments,
		activity: activity,
		log:      log,
	}
}

func (s *ReviewService) CreateReview(ctx context.Context, actor domain.Actor, titleID, text string, score int) (*domain.Review, error) {
	if actor.Anonymous() {
		return nil, domain.ErrForbidden
	}
	if text == "" {
		return nil, fmt.Errorf("%w: review text must not be empty", domain.ErrInvalidInput)
	}
	if err := domain.ValidateScore(score); err != nil {
		return nil, err
	}
	if _, err := s.titles.FindByID(ctx, titleID); err != nil {
		return nil, err
	}

	// The unique (title, author) index backs this up under concurrency.
	review, err := s.reviews.Create(ctx, &domain.Review{
		TitleID: titleID,
		Author:  actor.Username,
		Text:    text,
		Score:   score,
		PubDate: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	s.record(actor, "review.create", "title/"+titleID)
	return review, nil
}

func (s *ReviewService) GetReview(ctx context.Context, titleID, reviewID string) (*domain.Review, error) {
	return s.reviews.FindByID(ctx, titleID, reviewID)
}

func (s *ReviewService) UpdateReview(ctx context.Context, actor domain.Actor, titleID, reviewID string, in ports.UpdateReviewInput) (*domain.Review, error) {
	review, err := s.reviews.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !domain.Allowed(actor, domain.ActionWrite, domain.Resource{Kind: domain.ResourceReview, Owner: review.Author}) {
		return nil, domain.ErrForbidden
	}

	if in.Text != nil {
		if *in.Text == "" {
			return nil, fmt.Errorf("%w: review text must not be empty", domain.ErrInvalidInput)
		}
		review.Text = *in.Text
	}
	if in.Score != nil {
		if err := domain.ValidateScore(*in.Score); err != nil {
			return nil, err
		}
		review.Score = *in.Score
	}

	updated, err := s.reviews.Update(ctx, review)
	if err != nil {
		return nil, err
	}
	s.record(actor, "review.update", "title/"+titleID)
	return updated, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, actor domain.Actor, titleID, reviewID string) error {
	review, err := s.reviews.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if !domain.Allowed(actor, domain.ActionWrite, domain.Resource{Kind: domain.ResourceReview, Owner: review.Author}) {
		return domain.ErrForbidden
	}
	if err := s.reviews.Delete(ctx, titleID, reviewID); err != nil {
		return err
	}
	s.record(actor, "review.delete", "title/"+titleID)
	return nil
}

func (s *ReviewService) ListReviews(ctx context.Context, titleID string, page, limit int) (*ports.ReviewPage, error) {
	if _, err := s.titles.FindByID(ctx, titleID); err != nil {
		return nil, err
	}
	page, limit = normalizePage(page, limit)
	items, total, err := s.reviews.ListByTitle(ctx, titleID, page, limit)
	if err != nil {
		return nil, err
	}
	return &ports.ReviewPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *ReviewService) CreateComment(ctx context.Context, actor domain.Actor, titleID, reviewID, text string) (*domain.Comment, error) {
	if actor.Anonymous() {
		return nil, domain.ErrForbidden
	}
	if text == "" {
		return nil, fmt.Errorf("%w: comment text must not be empty", domain.ErrInvalidInput)
	}
	if _, err := s.reviews.FindByID(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.comments.Create(ctx, &domain.Comment{
		ReviewID: reviewID,
		Author:   actor.Username,
		Text:     text,
		PubDate:  time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	s.record(actor, "comment.create", "review/"+reviewID)
	return comment, nil
}

func (s *ReviewService) GetComment(ctx context.Context, titleID, reviewID, commentID string) (*domain.Comment, error) {
	if _, err := s.reviews.FindByID(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return s.comments.FindByID(ctx, reviewID, commentID)
}

func (s *ReviewService) UpdateComment(ctx context.Context, actor domain.Actor, titleID, reviewID, commentID, text string) (*domain.Comment, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: comment text must not be empty", domain.ErrInvalidInput)
	}
	if _, err := s.reviews.FindByID(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.FindByID(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if !domain.Allowed(actor, domain.ActionWrite, domain.Resource{Kind: domain.ResourceComment, Owner: comment.Author}) {
		return nil, domain.ErrForbidden
	}

	comment.Text = text
	updated, err := s.comments.Update(ctx, comment)
	if err != nil {
		return nil, err
	}
	s.record(actor, "comment.update", "review/"+reviewID)
	return updated, nil
}

func (s *ReviewService) DeleteComment(ctx context.Context, actor domain.Actor, titleID, reviewID, commentID string) error {
	if _, err := s.reviews.FindByID(ctx, titleID, reviewID); err != nil {
		return err
	}
	comment, err := s.comments.FindByID(ctx, reviewID, commentID)
	if err != nil {
		return err
	}
	if !domain.Allowed(actor, domain.ActionWrite, domain.Resource{Kind: domain.ResourceComment, Owner: comment.Author}) {
		return domain.ErrForbidden
	}
	if err := s.comments.Delete(ctx, reviewID, commentID); err != nil {
		return err
	}
	s.record(actor, "comment.delete", "review/"+reviewID)
	return nil
}

func (s *ReviewService) ListComments(ctx context.Context, titleID, reviewID string, page, limit int) (*ports.CommentPage, error) {
	if _, err := s.reviews.FindByID(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	page, limit = normalizePage(page, limit)
	items, total, err := s.comments.ListByReview(ctx, reviewID, page, limit)
	if err != nil {
		return nil, err
	}
	return &ports.CommentPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *ReviewService) record(actor domain.Actor, verb, resource string) {
	if s.activity == nil {
		return
	}
	s.activity.Enqueue(ports.ActivityEntry{
		Actor:    actor.Username,
		Verb:     verb,
		Resource: resource,
		At:       time.Now().UTC(),
	})
}
