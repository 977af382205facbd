package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness probe used by load balancers and monitoring.
// It returns plain text "ok" and touches no backing service.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
