package ports

import (
	"context"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
)

// CreateTitleInput carries the fields needed to create a title. Category and
// genres are referenced by slug and must already exist.
type CreateTitleInput struct {
	Name        string
	Year        int
	Description string
	Category    string
	Genres      []string
}

// UpdateTitleInput carries a partial title update. Nil fields are unchanged.
type UpdateTitleInput struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      *[]string
}

// TitlePage is one page of titles.
type TitlePage struct {
	Items      []*domain.Title
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CategoryPage is one page of categories.
type CategoryPage struct {
	Items      []*domain.Category
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// GenrePage is one page of genres.
type GenrePage struct {
	Items      []*domain.Genre
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CatalogService defines use-case operations on titles, genres and
// categories. Write operations consult the access policy for the actor.
type CatalogService interface {
	CreateCategory(ctx context.Context, actor domain.Actor, name, slug string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, actor domain.Actor, slug string) error
	ListCategories(ctx context.Context, filter ClassifierFilter) (*CategoryPage, error)

	CreateGenre(ctx context.Context, actor domain.Actor, name, slug string) (*domain.Genre, error)
	DeleteGenre(ctx context.Context, actor domain.Actor, slug string) error
	ListGenres(ctx context.Context, filter ClassifierFilter) (*GenrePage, error)

	CreateTitle(ctx context.Context, actor domain.Actor, in CreateTitleInput) (*domain.Title, error)
	GetTitle(ctx context.Context, id string) (*domain.Title, error)
	UpdateTitle(ctx context.Context, actor domain.Actor, id string, in UpdateTitleInput) (*domain.Title, error)
	DeleteTitle(ctx context.Context, actor domain.Actor, id string) error
	ListTitles(ctx context.Context, filter ListTitlesFilter) (*TitlePage, error)
}
