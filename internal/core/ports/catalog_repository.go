package ports

import (
	"context"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
)

// ClassifierFilter narrows and pages a category or genre listing.
type ClassifierFilter struct {
	Search string // case-insensitive partial match on name
	Page   int
	Limit  int
}

// ListTitlesFilter narrows and pages a title listing.
type ListTitlesFilter struct {
	Category string // exact category slug
	Genre    string // exact genre slug
	Name     string // case-insensitive partial match
	Year     int    // exact year; zero means any
	Page     int
	Limit    int
}

// CategoryRepository persists categories. Slug is unique; Create reports a
// collision as domain.ErrSlugTaken, FindBySlug reports a miss as
// domain.ErrNotFound.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Delete(ctx context.Context, slug string) error
	List(ctx context.Context, filter ClassifierFilter) ([]*domain.Category, int64, error)
}

// GenreRepository persists genres with the same contract as
// CategoryRepository.
type GenreRepository interface {
	Create(ctx context.Context, genre *domain.Genre) error
	FindBySlug(ctx context.Context, slug string) (*domain.Genre, error)
	Delete(ctx context.Context, slug string) error
	List(ctx context.Context, filter ClassifierFilter) ([]*domain.Genre, int64, error)
}

// TitleRepository persists titles. Reads carry the aggregate rating computed
// from the title's reviews; a missing or malformed id is domain.ErrNotFound.
type TitleRepository interface {
	Create(ctx context.Context, title *domain.Title) (*domain.Title, error)
	FindByID(ctx context.Context, id string) (*domain.Title, error)
	Update(ctx context.Context, title *domain.Title) (*domain.Title, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListTitlesFilter) ([]*domain.Title, int64, error)
}
