package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mAXxtor/api-yamdb/internal/api/metrics"
	"github.com/mAXxtor/api-yamdb/internal/core/domain"
	"github.com/mAXxtor/api-yamdb/internal/core/ports"
)

// ReviewHandler handles reviews and their comments, nested under titles.
type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

type createReviewRequest struct {
	Text  string `json:"text" validate:"required"`
	Score int    `json:"score" validate:"required,min=1,max=10"`
}

type updateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score" validate:"omitempty,min=1,max=10"`
}

type reviewResponse struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Author  string `json:"author"`
	Score   int    `json:"score"`
	PubDate string `json:"pub_date"`
}

type reviewListResponse struct {
	Items      []reviewResponse `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required,max=250"`
}

type commentResponse struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Author  string `json:"author"`
	PubDate string `json:"pub_date"`
}

type commentListResponse struct {
	Items      []commentResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:      r.ID,
		Text:    r.Text,
		Author:  r.Author,
		Score:   r.Score,
		PubDate: r.PubDate.UTC().Format(time.RFC3339),
	}
}

func toCommentResponse(cm *domain.Comment) commentResponse {
	return commentResponse{
		ID:      cm.ID,
		Text:    cm.Text,
		Author:  cm.Author,
		PubDate: cm.PubDate.UTC().Format(time.RFC3339),
	}
}

// ListReviews handles GET /v1/titles/:title_id/reviews.
//
// @Summary      List reviews for a title
// @Tags         reviews
// @Produce      json
// @Param        title_id  path      string  true  "Title id"
// @Success      200       {object}  reviewListResponse
// @Failure      404       {object}  map[string]string
// @Router       /v1/titles/{title_id}/reviews [get]
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	page, err := h.service.ListReviews(c.Request().Context(), c.Param("title_id"), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	items := make([]reviewResponse, 0, len(page.Items))
	for _, r := range page.Items {
		items = append(items, toReviewResponse(r))
	}
	return c.JSON(http.StatusOK, reviewListResponse{
		Items: items, Total: page.Total, Page: page.Page, Limit: page.Limit, TotalPages: page.TotalPages,
	})
}

// CreateReview handles POST /v1/titles/:title_id/reviews.
//
// @Summary      Publish a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        title_id  path      string               true  "Title id"
// @Param        body      body      createReviewRequest  true  "Review"
// @Success      201       {object}  reviewResponse
// @Failure      400       {object}  map[string]string
// @Router       /v1/titles/{title_id}/reviews [post]
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	review, err := h.service.CreateReview(c.Request().Context(), ctxActor(c), c.Param("title_id"), req.Text, req.Score)
	if err != nil {
		return err
	}
	metrics.ReviewsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toReviewResponse(review))
}

// GetReview handles GET /v1/titles/:title_id/reviews/:review_id.
func (h *ReviewHandler) GetReview(c echo.Context) error {
	review, err := h.service.GetReview(c.Request().Context(), c.Param("title_id"), c.Param("review_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewResponse(review))
}

// UpdateReview handles PATCH /v1/titles/:title_id/reviews/:review_id.
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	var req updateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	review, err := h.service.UpdateReview(c.Request().Context(), ctxActor(c), c.Param("title_id"), c.Param("review_id"), ports.UpdateReviewInput{
		Text:  req.Text,
		Score: req.Score,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewResponse(review))
}

// DeleteReview handles DELETE /v1/titles/:title_id/reviews/:review_id.
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	if err := h.service.DeleteReview(c.Request().Context(), ctxActor(c), c.Param("title_id"), c.Param("review_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListComments handles GET .../reviews/:review_id/comments.
func (h *ReviewHandler) ListComments(c echo.Context) error {
	page, err := h.service.ListComments(c.Request().Context(), c.Param("title_id"), c.Param("review_id"), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	items := make([]commentResponse, 0, len(page.Items))
	for _, cm := range page.Items {
		items = append(items, toCommentResponse(cm))
	}
	return c.JSON(http.StatusOK, commentListResponse{
		Items: items, Total: page.Total, Page: page.Page, Limit: page.Limit, TotalPages: page.TotalPages,
	})
}

// CreateComment handles POST .../reviews/:review_id/comments.
func (h *ReviewHandler) CreateComment(c echo.Context) error {
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	comment, err := h.service.CreateComment(c.Request().Context(), ctxActor(c), c.Param("title_id"), c.Param("review_id"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// GetComment handles GET .../comments/:comment_id.
func (h *ReviewHandler) GetComment(c echo.Context) error {
	comment, err := h.service.GetComment(c.Request().Context(), c.Param("title_id"), c.Param("review_id"), c.Param("comment_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}

// UpdateComment handles PATCH .../comments/:comment_id.
func (h *ReviewHandler) UpdateComment(c echo.Context) error {
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	comment, err := h.service.UpdateComment(c.Request().Context(), ctxActor(c), c.Param("title_id"), c.Param("review_id"), c.Param("comment_id"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}

// DeleteComment handles DELETE .../comments/:comment_id.
func (h *ReviewHandler) DeleteComment(c echo.Context) error {
	if err := h.service.DeleteComment(c.Request().Context(), ctxActor(c), c.Param("title_id"), c.Param("review_id"), c.Param("comment_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
