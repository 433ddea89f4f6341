package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
	"github.com/mAXxtor/api-yamdb/internal/core/ports"
)

type stubClassifierRepo struct {
	bySlug map[string]string // slug -> name
}

func newStubClassifierRepo() *stubClassifierRepo {
	return &stubClassifierRepo{bySlug: make(map[string]string)}
}

func (r *stubClassifierRepo) create(slug, name string) error {
	if _, exists := r.bySlug[slug]; exists {
		return domain.ErrSlugTaken
	}
	r.bySlug[slug] = name
	return nil
}

func (r *stubClassifierRepo) find(slug string) (string, error) {
	name, ok := r.bySlug[slug]
	if !ok {
		return "", domain.ErrNotFound
	}
	return name, nil
}

func (r *stubClassifierRepo) delete(slug string) error {
	if _, ok := r.bySlug[slug]; !ok {
		return domain.ErrNotFound
	}
	delete(r.bySlug, slug)
	return nil
}

type stubCategoryRepo struct{ *stubClassifierRepo }

func (r stubCategoryRepo) Create(_ context.Context, c *domain.Category) error {
	return r.create(c.Slug, c.Name)
}

func (r stubCategoryRepo) FindBySlug(_ context.Context, slug string) (*domain.Category, error) {
	name, err := r.find(slug)
	if err != nil {
		return nil, err
	}
	return &domain.Category{Name: name, Slug: slug}, nil
}

func (r stubCategoryRepo) Delete(_ context.Context, slug string) error { return r.delete(slug) }

func (r stubCategoryRepo) List(_ context.Context, _ ports.ClassifierFilter) ([]*domain.Category, int64, error) {
	out := make([]*domain.Category, 0, len(r.bySlug))
	for slug, name := range r.bySlug {
		out = append(out, &domain.Category{Name: name, Slug: slug})
	}
	return out, int64(len(out)), nil
}

type stubGenreRepo struct{ *stubClassifierRepo }

func (r stubGenreRepo) Create(_ context.Context, g *domain.Genre) error {
	return r.create(g.Slug, g.Name)
}

func (r stubGenreRepo) FindBySlug(_ context.Context, slug string) (*domain.Genre, error) {
	name, err := r.find(slug)
	if err != nil {
		return nil, err
	}
	return &domain.Genre{Name: name, Slug: slug}, nil
}

func (r stubGenreRepo) Delete(_ context.Context, slug string) error { return r.delete(slug) }

func (r stubGenreRepo) List(_ context.Context, _ ports.ClassifierFilter) ([]*domain.Genre, int64, error) {
	out := make([]*domain.Genre, 0, len(r.bySlug))
	for slug, name := range r.bySlug {
		out = append(out, &domain.Genre{Name: name, Slug: slug})
	}
	return out, int64(len(out)), nil
}

type stubTitleRepo struct {
	titles map[string]*domain.Title
	nextID int
}

func newStubTitleRepo() *stubTitleRepo {
	return &stubTitleRepo{titles: make(map[string]*domain.Title)}
}

func cloneTitle(t *domain.Title) *domain.Title {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}

func (r *stubTitleRepo) Create(_ context.Context, title *domain.Title) (*domain.Title, error) {
	copy := cloneTitle(title)
	r.nextID++
	copy.ID = strconv.Itoa(r.nextID)
	r.titles[copy.ID] = cloneTitle(copy)
	return cloneTitle(copy), nil
}

func (r *stubTitleRepo) FindByID(_ context.Context, id string) (*domain.Title, error) {
	t, ok := r.titles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneTitle(t), nil
}

func (r *stubTitleRepo) Update(_ context.Context, title *domain.Title) (*domain.Title, error) {
	if _, ok := r.titles[title.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	r.titles[title.ID] = cloneTitle(title)
	return cloneTitle(title), nil
}

func (r *stubTitleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.titles[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.titles, id)
	return nil
}

func (r *stubTitleRepo) List(_ context.Context, _ ports.ListTitlesFilter) ([]*domain.Title, int64, error) {
	out := make([]*domain.Title, 0, len(r.titles))
	for _, t := range r.titles {
		out = append(out, cloneTitle(t))
	}
	return out, int64(len(out)), nil
}

type catalogFixture struct {
	svc        *CatalogService
	categories stubCategoryRepo
	genres     stubGenreRepo
	titles     *stubTitleRepo
}

func newCatalogFixture() catalogFixture {
	categories := stubCategoryRepo{newStubClassifierRepo()}
	genres := stubGenreRepo{newStubClassifierRepo()}
	titles := newStubTitleRepo()
	return catalogFixture{
		svc:        NewCatalogService(categories, genres, titles, nil, zerolog.Nop()),
		categories: categories,
		genres:     genres,
		titles:     titles,
	}
}

var catalogAdmin = domain.Actor{Username: "ada", Role: domain.RoleAdmin}

func TestCatalogService_CategoryLifecycle(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()

	if _, err := f.svc.CreateCategory(ctx, catalogAdmin, "Books", "books"); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if _, err := f.svc.CreateCategory(ctx, catalogAdmin, "Books again", "books"); !errors.Is(err, domain.ErrSlugTaken) {
		t.Fatalf("duplicate slug: want ErrSlugTaken, got %v", err)
	}
	if _, err := f.svc.CreateCategory(ctx, catalogAdmin, "Bad", "no spaces!"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("bad slug: want ErrInvalidInput, got %v", err)
	}

	if err := f.svc.DeleteCategory(ctx, catalogAdmin, "books"); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if err := f.svc.DeleteCategory(ctx, catalogAdmin, "books"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}

func TestCatalogService_WriteRequiresAdmin(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()

	for _, actor := range []domain.Actor{
		{},
		{Username: "bob", Role: domain.RoleUser},
		{Username: "mia", Role: domain.RoleModerator},
	} {
		if _, err := f.svc.CreateCategory(ctx, actor, "Books", "books"); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("actor %q: want ErrForbidden, got %v", actor.Username, err)
		}
	}

	super := domain.Actor{Username: "root", Role: domain.RoleUser, Superuser: true}
	if _, err := f.svc.CreateGenre(ctx, super, "Jazz", "jazz"); err != nil {
		t.Fatalf("superusers must pass the write check: %v", err)
	}
}

func TestCatalogService_CreateTitle(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()

	if _, err := f.svc.CreateCategory(ctx, catalogAdmin, "Films", "films"); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	if _, err := f.svc.CreateGenre(ctx, catalogAdmin, "Drama", "drama"); err != nil {
		t.Fatalf("seed genre: %v", err)
	}

	title, err := f.svc.CreateTitle(ctx, catalogAdmin, ports.CreateTitleInput{
		Name:     "Stalker",
		Year:     1979,
		Category: "films",
		Genres:   []string{"drama"},
	})
	if err != nil {
		t.Fatalf("CreateTitle: %v", err)
	}
	if title.Category == nil || title.Category.Slug != "films" {
		t.Fatalf("category not resolved: %+v", title.Category)
	}
	if len(title.Genres) != 1 || title.Genres[0].Slug != "drama" {
		t.Fatalf("genres not resolved: %+v", title.Genres)
	}
}

func TestCatalogService_CreateTitle_Validation(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()

	if _, err := f.svc.CreateTitle(ctx, catalogAdmin, ports.CreateTitleInput{Name: ""}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("empty name: want ErrInvalidInput, got %v", err)
	}
	if _, err := f.svc.CreateTitle(ctx, catalogAdmin, ports.CreateTitleInput{Name: "X", Year: 9999}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("future year: want ErrInvalidInput, got %v", err)
	}
	if _, err := f.svc.CreateTitle(ctx, catalogAdmin, ports.CreateTitleInput{Name: "X", Category: "nope"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("unknown category: want ErrInvalidInput, got %v", err)
	}
	if _, err := f.svc.CreateTitle(ctx, catalogAdmin, ports.CreateTitleInput{Name: "X", Genres: []string{"nope"}}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("unknown genre: want ErrInvalidInput, got %v", err)
	}
}

func TestCatalogService_UpdateTitle(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()

	if _, err := f.svc.CreateCategory(ctx, catalogAdmin, "Films", "films"); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	if _, err := f.svc.CreateGenre(ctx, catalogAdmin, "Drama", "drama"); err != nil {
		t.Fatalf("seed genre: %v", err)
	}
	if _, err := f.svc.CreateGenre(ctx, catalogAdmin, "Sci-Fi", "sci-fi"); err != nil {
		t.Fatalf("seed genre: %v", err)
	}
	title, err := f.svc.CreateTitle(ctx, catalogAdmin, ports.CreateTitleInput{
		Name: "Stalker", Year: 1979, Category: "films", Genres: []string{"drama"},
	})
	if err != nil {
		t.Fatalf("CreateTitle: %v", err)
	}

	genres := []string{"drama", "sci-fi"}
	updated, err := f.svc.UpdateTitle(ctx, catalogAdmin, title.ID, ports.UpdateTitleInput{
		Genres: &genres,
	})
	if err != nil {
		t.Fatalf("UpdateTitle: %v", err)
	}
	if len(updated.Genres) != 2 {
		t.Fatalf("genres not replaced: %+v", updated.Genres)
	}
	// Untouched fields survive a partial update.
	if updated.Name != "Stalker" || updated.Category == nil || updated.Category.Slug != "films" {
		t.Fatalf("partial update clobbered fields: %+v", updated)
	}

	if _, err := f.svc.UpdateTitle(ctx, catalogAdmin, "missing", ports.UpdateTitleInput{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown title: want ErrNotFound, got %v", err)
	}
}
