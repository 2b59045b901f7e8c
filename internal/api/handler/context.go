package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freshcart/storefront/internal/api/middleware"
	"github.com/freshcart/storefront/internal/core/domain"
)

// currentUserID returns the id of the signed-in user. The route guard already
// rejects other principals; this is the fast-fail check before any service call.
func currentUserID(c echo.Context) (string, error) {
	p := middleware.PrincipalFrom(c)
	if p == nil || p.Kind != domain.PrincipalUser || p.User == nil {
		return "", domain.ErrUnauthorized
	}
	return p.User.ID, nil
}

// bind decodes the request into req and runs its validate tags.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return c.Validate(req)
}
