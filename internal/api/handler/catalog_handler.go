package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
	"github.com/mAXxtor/api-yamdb/internal/core/ports"
)

// CatalogHandler handles titles, genres and categories.
type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

type classifierRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required"`
}

type classifierResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type classifierListResponse struct {
	Items      []classifierResponse `json:"items"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
}

type createTitleRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Year        int      `json:"year" validate:"gte=0"`
	Description string   `json:"description" validate:"max=250"`
	Category    string   `json:"category"`
	Genres      []string `json:"genre"`
}

type updateTitleRequest struct {
	Name        *string   `json:"name" validate:"omitempty,max=200"`
	Year        *int      `json:"year" validate:"omitempty,gte=0"`
	Description *string   `json:"description" validate:"omitempty,max=250"`
	Category    *string   `json:"category"`
	Genres      *[]string `json:"genre"`
}

type titleResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Year        int                  `json:"year"`
	Rating      *float64             `json:"rating"`
	Description string               `json:"description,omitempty"`
	Genres      []classifierResponse `json:"genre"`
	Category    *classifierResponse  `json:"category,omitempty"`
}

type titleListResponse struct {
	Items      []titleResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

func toTitleResponse(t *domain.Title) titleResponse {
	resp := titleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genres:      make([]classifierResponse, 0, len(t.Genres)),
	}
	for _, g := range t.Genres {
		resp.Genres = append(resp.Genres, classifierResponse{Name: g.Name, Slug: g.Slug})
	}
	if t.Category != nil {
		resp.Category = &classifierResponse{Name: t.Category.Name, Slug: t.Category.Slug}
	}
	return resp
}

func classifierFilter(c echo.Context) ports.ClassifierFilter {
	return ports.ClassifierFilter{
		Search: c.QueryParam("search"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}
}

// ListCategories handles GET /v1/categories.
//
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Param        search  query     string  false  "Partial name match"
// @Success      200     {object}  classifierListResponse
// @Router       /v1/categories [get]
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	page, err := h.service.ListCategories(c.Request().Context(), classifierFilter(c))
	if err != nil {
		return err
	}
	items := make([]classifierResponse, 0, len(page.Items))
	for _, cat := range page.Items {
		items = append(items, classifierResponse{Name: cat.Name, Slug: cat.Slug})
	}
	return c.JSON(http.StatusOK, classifierListResponse{
		Items: items, Total: page.Total, Page: page.Page, Limit: page.Limit, TotalPages: page.TotalPages,
	})
}

// CreateCategory handles POST /v1/categories (admin only).
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req classifierRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	category, err := h.service.CreateCategory(c.Request().Context(), ctxActor(c), req.Name, req.Slug)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, classifierResponse{Name: category.Name, Slug: category.Slug})
}

// DeleteCategory handles DELETE /v1/categories/:slug (admin only).
func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	if err := h.service.DeleteCategory(c.Request().Context(), ctxActor(c), c.Param("slug")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListGenres handles GET /v1/genres.
func (h *CatalogHandler) ListGenres(c echo.Context) error {
	page, err := h.service.ListGenres(c.Request().Context(), classifierFilter(c))
	if err != nil {
		return err
	}
	items := make([]classifierResponse, 0, len(page.Items))
	for _, g := range page.Items {
		items = append(items, classifierResponse{Name: g.Name, Slug: g.Slug})
	}
	return c.JSON(http.StatusOK, classifierListResponse{
		Items: items, Total: page.Total, Page: page.Page, Limit: page.Limit, TotalPages: page.TotalPages,
	})
}

// CreateGenre handles POST /v1/genres (admin only).
func (h *CatalogHandler) CreateGenre(c echo.Context) error {
	var req classifierRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	genre, err := h.service.CreateGenre(c.Request().Context(), ctxActor(c), req.Name, req.Slug)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, classifierResponse{Name: genre.Name, Slug: genre.Slug})
}

// DeleteGenre handles DELETE /v1/genres/:slug (admin only).
func (h *CatalogHandler) DeleteGenre(c echo.Context) error {
	if err := h.service.DeleteGenre(c.Request().Context(), ctxActor(c), c.Param("slug")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTitles handles GET /v1/titles.
//
// @Summary      List titles with filters
// @Tags         catalog
// @Produce      json
// @Param        category  query     string  false  "Category slug"
// @Param        genre     query     string  false  "Genre slug"
// @Param        year      query     int     false  "Exact year"
// @Param        name      query     string  false  "Partial name match"
// @Success      200       {object}  titleListResponse
// @Router       /v1/titles [get]
func (h *CatalogHandler) ListTitles(c echo.Context) error {
	page, err := h.service.ListTitles(c.Request().Context(), ports.ListTitlesFilter{
		Category: c.QueryParam("category"),
		Genre:    c.QueryParam("genre"),
		Name:     c.QueryParam("name"),
		Year:     queryInt(c, "year"),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}
	items := make([]titleResponse, 0, len(page.Items))
	for _, t := range page.Items {
		items = append(items, toTitleResponse(t))
	}
	return c.JSON(http.StatusOK, titleListResponse{
		Items: items, Total: page.Total, Page: page.Page, Limit: page.Limit, TotalPages: page.TotalPages,
	})
}

// GetTitle handles GET /v1/titles/:title_id.
func (h *CatalogHandler) GetTitle(c echo.Context) error {
	title, err := h.service.GetTitle(c.Request().Context(), c.Param("title_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTitleResponse(title))
}

// CreateTitle handles POST /v1/titles (admin only).
func (h *CatalogHandler) CreateTitle(c echo.Context) error {
	var req createTitleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	title, err := h.service.CreateTitle(c.Request().Context(), ctxActor(c), ports.CreateTitleInput{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Category:    req.Category,
		Genres:      req.Genres,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTitleResponse(title))
}

// UpdateTitle handles PATCH /v1/titles/:title_id (admin only).
func (h *CatalogHandler) UpdateTitle(c echo.Context) error {
	var req updateTitleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	title, err := h.service.UpdateTitle(c.Request().Context(), ctxActor(c), c.Param("title_id"), ports.UpdateTitleInput{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Category:    req.Category,
		Genres:      req.Genres,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTitleResponse(title))
}

// DeleteTitle handles DELETE /v1/titles/:title_id (admin only).
func (h *CatalogHandler) DeleteTitle(c echo.Context) error {
	if err := h.service.DeleteTitle(c.Request().Context(), ctxActor(c), c.Param("title_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
