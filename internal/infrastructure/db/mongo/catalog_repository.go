package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
	"github.com/mAXxtor/api-yamdb/internal/core/ports"
)

const (
	categoryCollection = "categories"
	genreCollection    = "genres"
	titleCollection    = "titles"
)

type mongoClassifier struct {
	Name string `bson:"name"`
	Slug string `bson:"slug"`
}

// classifierStore is the shared backing for the category and genre
// repositories; the two collections have identical shapes.
type classifierStore struct {
	coll *mongo.Collection
}

func (s *classifierStore) create(ctx context.Context, name, slug string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.coll.InsertOne(ctx, mongoClassifier{Name: name, Slug: slug})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %q", domain.ErrSlugTaken, slug)
		}
		return fmt.Errorf("insert %s: %w", s.coll.Name(), err)
	}
	return nil
}

func (s *classifierStore) findBySlug(ctx context.Context, slug string) (*mongoClassifier, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoClassifier
	if err := s.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find %s: %w", s.coll.Name(), err)
	}
	return &m, nil
}

func (s *classifierStore) delete(ctx context.Context, slug string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *classifierStore) list(ctx context.Context, filter ports.ClassifierFilter) ([]mongoClassifier, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Search != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
	}

	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", s.coll.Name(), err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", s.coll.Name(), err)
	}
	defer cur.Close(ctx)

	var items []mongoClassifier
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", s.coll.Name(), err)
	}
	return items, total, nil
}

func (s *classifierStore) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// CategoryRepository is the MongoDB implementation of ports.CategoryRepository.
type CategoryRepository struct {
	store classifierStore
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{store: classifierStore{coll: db.Collection(categoryCollection)}}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return r.store.create(ctx, category.Name, category.Slug)
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	m, err := r.store.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &domain.Category{Name: m.Name, Slug: m.Slug}, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, slug string) error {
	return r.store.delete(ctx, slug)
}

func (r *CategoryRepository) List(ctx context.Context, filter ports.ClassifierFilter) ([]*domain.Category, int64, error) {
	items, total, err := r.store.list(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	categories := make([]*domain.Category, 0, len(items))
	for _, m := range items {
		categories = append(categories, &domain.Category{Name: m.Name, Slug: m.Slug})
	}
	return categories, total, nil
}

func (r *CategoryRepository) EnsureIndexes(ctx context.Context) error {
	return r.store.ensureIndexes(ctx)
}

// GenreRepository is the MongoDB implementation of ports.GenreRepository.
type GenreRepository struct {
	store classifierStore
}

func NewGenreRepository(db *mongo.Database) *GenreRepository {
	return &GenreRepository{store: classifierStore{coll: db.Collection(genreCollection)}}
}

func (r *GenreRepository) Create(ctx context.Context, genre *domain.Genre) error {
	return r.store.create(ctx, genre.Name, genre.Slug)
}

func (r *GenreRepository) FindBySlug(ctx context.Context, slug string) (*domain.Genre, error) {
	m, err := r.store.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &domain.Genre{Name: m.Name, Slug: m.Slug}, nil
}

func (r *GenreRepository) Delete(ctx context.Context, slug string) error {
	return r.store.delete(ctx, slug)
}

func (r *GenreRepository) List(ctx context.Context, filter ports.ClassifierFilter) ([]*domain.Genre, int64, error) {
	items, total, err := r.store.list(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	genres := make([]*domain.Genre, 0, len(items))
	for _, m := range items {
		genres = append(genres, &domain.Genre{Name: m.Name, Slug: m.Slug})
	}
	return genres, total, nil
}

func (r *GenreRepository) EnsureIndexes(ctx context.Context) error {
	return r.store.ensureIndexes(ctx)
}

// TitleRepository is the MongoDB implementation of ports.TitleRepository.
// Reads join the reviews collection to materialize the average score.
type TitleRepository struct {
	coll *mongo.Collection
}

func NewTitleRepository(db *mongo.Database) *TitleRepository {
	return &TitleRepository{coll: db.Collection(titleCollection)}
}

type mongoTitle struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Year        int                `bson:"year"`
	Description string             `bson:"description,omitempty"`
	Category    *mongoClassifier   `bson:"category,omitempty"`
	Genres      []mongoClassifier  `bson:"genres"`
	Rating      *float64           `bson:"rating,omitempty"`
	CreatedAt   int64              `bson:"created_at"`
}

func toMongoTitle(t *domain.Title) mongoTitle {
	m := mongoTitle{
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Genres:      make([]mongoClassifier, 0, len(t.Genres)),
		CreatedAt:   t.CreatedAt.Unix(),
	}
	if t.Category != nil {
		m.Category = &mongoClassifier{Name: t.Category.Name, Slug: t.Category.Slug}
	}
	for _, g := range t.Genres {
		m.Genres = append(m.Genres, mongoClassifier{Name: g.Name, Slug: g.Slug})
	}
	return m
}

func (m mongoTitle) toDomain() *domain.Title {
	t := &domain.Title{
		ID:          m.ID.Hex(),
		Name:        m.Name,
		Year:        m.Year,
		Description: m.Description,
		Genres:      make([]domain.Genre, 0, len(m.Genres)),
		Rating:      m.Rating,
		CreatedAt:   unixToTime(m.CreatedAt),
	}
	if m.Category != nil {
		t.Category = &domain.Category{Name: m.Category.Name, Slug: m.Category.Slug}
	}
	for _, g := range m.Genres {
		t.Genres = append(t.Genres, domain.Genre{Name: g.Name, Slug: g.Slug})
	}
	return t
}

// ratingStages joins reviews by title id and computes the average score.
func ratingStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from": reviewCollection,
			"let":  bson.M{"tid": bson.M{"$toString": "$_id"}},
			"pipeline": []bson.M{
				{"$match": bson.M{"$expr": bson.M{"$eq": []any{"$title_id", "$$tid"}}}},
			},
			"as": "title_reviews",
		}}},
		{{Key: "$addFields", Value: bson.M{"rating": bson.M{"$avg": "$title_reviews.score"}}}},
		{{Key: "$project", Value: bson.M{"title_reviews": 0}}},
	}
}

func (r *TitleRepository) Create(ctx context.Context, title *domain.Title) (*domain.Title, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, toMongoTitle(title))
	if err != nil {
		return nil, fmt.Errorf("insert title: %w", err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return r.FindByID(ctx, id.Hex())
}

func (r *TitleRepository) FindByID(ctx context.Context, id string) (*domain.Title, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := append([]bson.D{{{Key: "$match", Value: bson.M{"_id": oid}}}}, ratingStages()...)
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find title: %w", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, fmt.Errorf("find title: %w", err)
		}
		return nil, domain.ErrNotFound
	}
	var m mongoTitle
	if err := cur.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode title: %w", err)
	}
	return m.toDomain(), nil
}

func (r *TitleRepository) Update(ctx context.Context, title *domain.Title) (*domain.Title, error) {
	oid, err := primitive.ObjectIDFromHex(title.ID)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoTitle(title)
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":        doc.Name,
		"year":        doc.Year,
		"description": doc.Description,
		"category":    doc.Category,
		"genres":      doc.Genres,
	}})
	if err != nil {
		return nil, fmt.Errorf("update title: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}
	return r.FindByID(ctx, title.ID)
}

func (r *TitleRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete title: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TitleRepository) List(ctx context.Context, filter ports.ListTitlesFilter) ([]*domain.Title, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Category != "" {
		query["category.slug"] = filter.Category
	}
	if filter.Genre != "" {
		query["genres.slug"] = filter.Genre
	}
	if filter.Year != 0 {
		query["year"] = filter.Year
	}
	if filter.Name != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(filter.Name), "$options": "i"}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	pipeline := []bson.D{
		{{Key: "$match", Value: query}},
		{{Key: "$sort", Value: bson.D{{Key: "name", Value: 1}}}},
		{{Key: "$skip", Value: int64((filter.Page - 1) * filter.Limit)}},
		{{Key: "$limit", Value: int64(filter.Limit)}},
	}
	pipeline = append(pipeline, ratingStages()...)

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}
	defer cur.Close(ctx)

	var titles []*domain.Title
	for cur.Next(ctx) {
		var m mongoTitle
		if err := cur.Decode(&m); err != nil {
			return nil, 0, fmt.Errorf("decode title: %w", err)
		}
		titles = append(titles, m.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}
	return titles, total, nil
}

// EnsureIndexes creates the lookup indexes used by list filters.
func (r *TitleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category.slug", Value: 1}}},
		{Keys: bson.D{{Key: "genres.slug", Value: 1}}},
		{Keys: bson.D{{Key: "year", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	})
	return err
}
