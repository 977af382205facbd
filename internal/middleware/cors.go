package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CORS returns a middleware that echoes a fixed allowed origin and the
// allowed methods/headers on every response. Preflight OPTIONS requests
// short-circuit with an empty 200 carrying the same headers.
func CORS(origin string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
			h.Set("Access-Control-Allow-Credentials", "true")
			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusOK)
			}
			return next(c)
		}
	}
}
