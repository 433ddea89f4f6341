package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/mAXxtor/api-yamdb/internal/core/domain"
)

// ctxActor builds the permission-check actor from the claims injected by the
// Auth middleware. On routes without the middleware the claims are absent
// and the zero (anonymous) actor is returned.
func ctxActor(c echo.Context) domain.Actor {
	username, _ := c.Get("username").(string)
	role, _ := c.Get("role").(string)
	superuser, _ := c.Get("superuser").(bool)
	return domain.Actor{Username: username, Role: role, Superuser: superuser}
}
