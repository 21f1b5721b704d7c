package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/conectar/admin-api/internal/core/domain"
)

// ctxActor extracts the authenticated actor injected by the Auth middleware
// and performs a fast-fail check before any service call: both the subject
// and a valid role must be present, their absence means the middleware did
// not run or the token predates the current claim layout.
func ctxActor(c echo.Context) (domain.Actor, error) {
	sub, _ := c.Get("sub").(string)
	role, _ := c.Get("role").(string)
	if sub == "" || !domain.Role(role).Valid() {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return domain.Actor{ID: sub, Role: domain.Role(role)}, nil
}
