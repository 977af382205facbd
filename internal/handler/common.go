package handler // handler defines http handlers

import (
	"errors"
	"strconv"

	"github.com/aquarhone/aquabook/internal/model"
	"github.com/labstack/echo/v4"
)

// getUserID extracts the user_id from echo.Context and converts it to
// uint64. JWT numeric claims decode as float64 but tests and other
// callers may store native integer types.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// isAdmin reports whether the authenticated caller carries the ADMIN
// role tag. Assumes JWTAuth stored the role set under "roles".
func isAdmin(c echo.Context) bool {
	roles, ok := c.Get("roles").([]string)
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == model.RoleAdmin {
			return true
		}
	}
	return false
}
