package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/freshcart/storefront/internal/core/domain"
)

// Require only lets principals of the given kinds through. User routes reject
// admin tokens and the reverse, with the same 401 as a bad token.
func Require(kinds ...domain.PrincipalKind) echo.MiddlewareFunc {
	allowed := make(map[domain.PrincipalKind]struct{}, len(kinds))
	for _, k := range kinds {
		allowed[k] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := PrincipalFrom(c)
			if p == nil {
				return unauthorized()
			}
			if _, ok := allowed[p.Kind]; !ok {
				return unauthorized()
			}
			return next(c)
		}
	}
}
