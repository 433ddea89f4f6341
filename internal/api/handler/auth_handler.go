package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mAXxtor/api-yamdb/internal/api/metrics"
	"github.com/mAXxtor/api-yamdb/internal/core/domain"
	"github.com/mAXxtor/api-yamdb/internal/core/ports"
)

// AuthHandler handles signup and token exchange.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

type signupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenRequest struct {
	Username         string `json:"username" validate:"required"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Signup registers a (username, email) pair and emails a confirmation code.
// Repeating the call with the same pair resends the code.
//
// @Summary      Sign up and receive a confirmation code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Username and email"
// @Success      200   {object}  signupResponse
// @Failure      400   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	account, err := h.authService.Signup(c.Request().Context(), req.Username, req.Email)
	if err != nil {
		status := http.StatusInternalServerError
		result := "error"
		switch {
		case errors.Is(err, domain.ErrInvalidUsername):
			status, result = http.StatusBadRequest, "invalid"
		case errors.Is(err, domain.ErrConflict):
			status, result = http.StatusBadRequest, "conflict"
		case errors.Is(err, domain.ErrTooManyRequests):
			status, result = http.StatusTooManyRequests, "throttled"
		case errors.Is(err, domain.ErrDeliveryFailed):
			status, result = http.StatusBadGateway, "delivery_failed"
		}
		metrics.SignupsTotal.WithLabelValues(result).Inc()
		return c.JSON(status, map[string]string{"error": publicError(err, status)})
	}

	metrics.SignupsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusOK, signupResponse{Username: account.Username, Email: account.Email})
}

// Token exchanges a confirmation code for an access token.
//
// @Summary      Exchange a confirmation code for an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      tokenRequest  true  "Username and confirmation code"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	token, err := h.authService.ExchangeToken(c.Request().Context(), req.Username, req.ConfirmationCode)
	if err != nil {
		// Unknown accounts and wrong codes take the same branch so the
		// endpoint cannot be used to enumerate usernames.
		if errors.Is(err, domain.ErrInvalidCode) || errors.Is(err, domain.ErrInvalidUsername) {
			metrics.TokenExchangeFailuresTotal.WithLabelValues("invalid_code").Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"error": domain.ErrInvalidCode.Error()})
		}
		metrics.TokenExchangeFailuresTotal.WithLabelValues("internal").Inc()
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}

	metrics.TokensIssuedTotal.Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// publicError keeps 5xx messages generic.
func publicError(err error, status int) string {
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		return "internal server error"
	}
	if status == http.StatusBadGateway {
		return "failed to deliver confirmation code"
	}
	return err.Error()
}
