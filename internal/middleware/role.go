package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole returns a middleware that enforces that the authenticated
// user carries at least one of the given role tags. Tags correspond to
// the values stored in the JWT's "roles" claim. It assumes JWTAuth has
// already extracted the role set into the context under "roles"; a
// missing or disjoint set is rejected with 403 Forbidden.
func RequireRole(tags ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(tags))
	for _, t := range tags {
		allowed[t] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, ok := c.Get("roles").([]string)
			if !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			for _, r := range roles {
				if allowed[r] {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
}
