package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
	"github.com/mAXxtor/api-yamdb/internal/core/ports"
)

// CatalogService implements title, genre and category management.
type CatalogService struct {
	categories ports.CategoryRepository
	genres     ports.GenreRepository
	titles     ports.TitleRepository
	activity   ports.ActivitySink
	log        zerolog.Logger
}

func NewCatalogService(
	categories ports.CategoryRepository,
	genres ports.GenreRepository,
	titles ports.TitleRepository,
	activity ports.ActivitySink,
	log zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		categories: categories,
		genres:     genres,
		titles:     titles,
		activity:   activity,
		log:        log,
	}
}

func catalogWriteAllowed(actor domain.Actor) error {
	if !domain.Allowed(actor, domain.ActionWrite, domain.Resource{Kind: domain.ResourceCatalog}) {
		return domain.ErrForbidden
	}
	return nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, actor domain.Actor, name, slug string) (*domain.Category, error) {
	if err := catalogWriteAllowed(actor); err != nil {
		return nil, err
	}
	if err := domain.ValidateSlug(slug); err != nil {
		return nil, err
	}
	category := &domain.Category{Name: name, Slug: slug}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	s.record(actor, "category.create", "category/"+slug)
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, actor domain.Actor, slug string) error {
	if err := catalogWriteAllowed(actor); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, slug); err != nil {
		return err
	}
	s.record(actor, "category.delete", "category/"+slug)
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context, filter ports.ClassifierFilter) (*ports.CategoryPage, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	items, total, err := s.categories.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.CategoryPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *CatalogService) CreateGenre(ctx context.Context, actor domain.Actor, name, slug string) (*domain.Genre, error) {
	if err := catalogWriteAllowed(actor); err != nil {
		return nil, err
	}
	if err := domain.ValidateSlug(slug); err != nil {
		return nil, err
	}
	genre := &domain.Genre{Name: name, Slug: slug}
	if err := s.genres.Create(ctx, genre); err != nil {
		return nil, err
	}
	s.record(actor, "genre.create", "genre/"+slug)
	return genre, nil
}

func (s *CatalogService) DeleteGenre(ctx context.Context, actor domain.Actor, slug string) error {
	if err := catalogWriteAllowed(actor); err != nil {
		return err
	}
	if err := s.genres.Delete(ctx, slug); err != nil {
		return err
	}
	s.record(actor, "genre.delete", "genre/"+slug)
	return nil
}

func (s *CatalogService) ListGenres(ctx context.Context, filter ports.ClassifierFilter) (*ports.GenrePage, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	items, total, err := s.genres.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.GenrePage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// resolveClassifiers turns category and genre slugs into their entities,
// failing with ErrInvalidInput when a slug references nothing.
func (s *CatalogService) resolveClassifiers(ctx context.Context, categorySlug string, genreSlugs []string) (*domain.Category, []domain.Genre, error) {
	var category *domain.Category
	if categorySlug != "" {
		c, err := s.categories.FindBySlug(ctx, categorySlug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, categorySlug)
			}
			return nil, nil, err
		}
		category = c
	}

	genres := make([]domain.Genre, 0, len(genreSlugs))
	for _, slug := range genreSlugs {
		g, err := s.genres.FindBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, nil, fmt.Errorf("%w: unknown genre %q", domain.ErrInvalidInput, slug)
			}
			return nil, nil, err
		}
		genres = append(genres, *g)
	}
	return category, genres, nil
}

func (s *CatalogService) CreateTitle(ctx context.Context, actor domain.Actor, in ports.CreateTitleInput) (*domain.Title, error) {
	if err := catalogWriteAllowed(actor); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: title name must not be empty", domain.ErrInvalidInput)
	}
	if err := domain.ValidateYear(in.Year); err != nil {
		return nil, err
	}
	category, genres, err := s.resolveClassifiers(ctx, in.Category, in.Genres)
	if err != nil {
		return nil, err
	}

	title, err := s.titles.Create(ctx, &domain.Title{
		Name:        in.Name,
		Year:        in.Year,
		Description: in.Description,
		Category:    category,
		Genres:      genres,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("title_id", title.ID).Str("name", title.Name).Msg("title created")
	s.record(actor, "title.create", "title/"+title.ID)
	return title, nil
}

func (s *CatalogService) GetTitle(ctx context.Context, id string) (*domain.Title, error) {
	return s.titles.FindByID(ctx, id)
}

func (s *CatalogService) UpdateTitle(ctx context.Context, actor domain.Actor, id string, in ports.UpdateTitleInput) (*domain.Title, error) {
	if err := catalogWriteAllowed(actor); err != nil {
		return nil, err
	}
	title, err := s.titles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, fmt.Errorf("%w: title name must not be empty", domain.ErrInvalidInput)
		}
		title.Name = *in.Name
	}
	if in.Year != nil {
		if err := domain.ValidateYear(*in.Year); err != nil {
			return nil, err
		}
		title.Year = *in.Year
	}
	if in.Description != nil {
		title.Description = *in.Description
	}
	if in.Category != nil || in.Genres != nil {
		categorySlug := ""
		if in.Category != nil {
			categorySlug = *in.Category
		} else if title.Category != nil {
			categorySlug = title.Category.Slug
		}
		genreSlugs := make([]string, 0, len(title.Genres))
		if in.Genres != nil {
			genreSlugs = *in.Genres
		} else {
			for _, g := range title.Genres {
				genreSlugs = append(genreSlugs, g.Slug)
			}
		}
		category, genres, err := s.resolveClassifiers(ctx, categorySlug, genreSlugs)
		if err != nil {
			return nil, err
		}
		title.Category = category
		title.Genres = genres
	}

	updated, err := s.titles.Update(ctx, title)
	if err != nil {
		return nil, err
	}
	s.record(actor, "title.update", "title/"+id)
	return updated, nil
}

func (s *CatalogService) DeleteTitle(ctx context.Context, actor domain.Actor, id string) error {
	if err := catalogWriteAllowed(actor); err != nil {
		return err
	}
	if err := s.titles.Delete(ctx, id); err != nil {
		return err
	}
	s.record(actor, "title.delete", "title/"+id)
	return nil
}

func (s *CatalogService) ListTitles(ctx context.Context, filter ports.ListTitlesFilter) (*ports.TitlePage, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	items, total, err := s.titles.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.TitlePage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *CatalogService) record(actor domain.Actor, verb, resource string) {
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
