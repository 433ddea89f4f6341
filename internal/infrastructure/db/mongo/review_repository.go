package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
)

const (
	reviewCollection  = "reviews"
	commentCollection = "comments"
)

// ReviewRepository is the MongoDB implementation of ports.ReviewRepository.
// A unique compound index on (title_id, author) enforces the one-review-
// per-title rule under concurrent writes.
type ReviewRepository struct {
	coll *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{coll: db.Collection(reviewCollection)}
}

type mongoReview struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	TitleID string             `bson:"title_id"`
	Author  string             `bson:"author"`
	Text    string             `bson:"text"`
	Score   int                `bson:"score"`
	PubDate int64              `bson:"pub_date"`
}

func (m mongoReview) toDomain() *domain.Review {
	return &domain.Review{
		ID:      m.ID.Hex(),
		TitleID: m.TitleID,
		Author:  m.Author,
		Text:    m.Text,
		Score:   m.Score,
		PubDate: unixToTime(m.PubDate),
	}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, mongoReview{
		TitleID: review.TitleID,
		Author:  review.Author,
		Text:    review.Text,
		Score:   review.Score,
		PubDate: review.PubDate.Unix(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateReview
		}
		return nil, fmt.Errorf("insert review: %w", err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return r.FindByID(ctx, review.TitleID, id.Hex())
}

func (r *ReviewRepository) FindByID(ctx context.Context, titleID, reviewID string) (*domain.Review, error) {
	oid, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoReview
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid, "title_id": titleID}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return m.toDomain(), nil
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	oid, err := primitive.ObjectIDFromHex(review.ID)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"text":  review.Text,
		"score": review.Score,
	}})
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}
	return r.FindByID(ctx, review.TitleID, review.ID)
}

func (r *ReviewRepository) Delete(ctx context.Context, titleID, reviewID string) error {
	oid, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "title_id": titleID})
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) ListByTitle(ctx context.Context, titleID string, page, limit int) ([]*domain.Review, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"title_id": titleID}
	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "pub_date", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer cur.Close(ctx)

	var reviews []*domain.Review
	for cur.Next(ctx) {
		var m mongoReview
		if err := cur.Decode(&m); err != nil {
			return nil, 0, fmt.Errorf("decode review: %w", err)
		}
		reviews = append(reviews, m.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, total, nil
}

func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title_id", Value: 1}, {Key: "author", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "pub_date", Value: -1}}},
	})
	return err
}

// CommentRepository is the MongoDB implementation of ports.CommentRepository.
type CommentRepository struct {
	coll *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{coll: db.Collection(commentCollection)}
}

type mongoComment struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	ReviewID string             `bson:"review_id"`
	Author   string             `bson:"author"`
	Text     string             `bson:"text"`
	PubDate  int64              `bson:"pub_date"`
}

func (m mongoComment) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:       m.ID.Hex(),
		ReviewID: m.ReviewID,
		Author:   m.Author,
		Text:     m.Text,
		PubDate:  unixToTime(m.PubDate),
	}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, mongoComment{
		ReviewID: comment.ReviewID,
		Author:   comment.Author,
		Text:     comment.Text,
		PubDate:  comment.PubDate.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return r.FindByID(ctx, comment.ReviewID, id.Hex())
}

func (r *CommentRepository) FindByID(ctx context.Context, reviewID, commentID string) (*domain.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoComment
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid, "review_id": reviewID}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return m.toDomain(), nil
}

func (r *CommentRepository) Update(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(comment.ID)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"text": comment.Text}})
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}
	return r.FindByID(ctx, comment.ReviewID, comment.ID)
}

func (r *CommentRepository) Delete(ctx context.Context, reviewID, commentID string) error {
	oid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "review_id": reviewID})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CommentRepository) ListByReview(ctx context.Context, reviewID string, page, limit int) ([]*domain.Comment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"review_id": reviewID}
	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "pub_date", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer cur.Close(ctx)

	var comments []*domain.Comment
	for cur.Next(ctx) {
		var m mongoComment
		if err := cur.Decode(&m); err != nil {
			return nil, 0, fmt.Errorf("decode comment: %w", err)
		}
		comments = append(comments, m.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return comments, total, nil
}

func (r *CommentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "review_id", Value: 1}, {Key: "pub_date", Value: -1}},
	})
	return err
}
