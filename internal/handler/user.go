package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aquarhone/aquabook/internal/config"
	"github.com/aquarhone/aquabook/internal/model"
	"github.com/aquarhone/aquabook/internal/repository"
)

// UserHandler exposes admin-only user management.
type UserHandler struct {
	Cfg          config.Config
	Users        *repository.UserRepo
	Reservations *repository.ReservationRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo, r *repository.ReservationRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u, Reservations: r}
}

type createUserReq struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

type updateUserReq struct {
	Email    *string  `json:"email"`
	Password *string  `json:"password"`
	Roles    []string `json:"roles"`
}

func validRoles(tags []string) bool {
	for _, t := range tags {
		if t != model.RoleUser && t != model.RoleAdmin {
			return false
		}
	}
	return true
}

func userPartOf(u *model.User) userPart {
	return userPart{ID: u.ID, Email: u.Email, Roles: u.Roles}
}

func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}
	if len(req.Roles) == 0 {
		req.Roles = []string{model.RoleUser}
	}
	if !validRoles(req.Roles) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, req.Roles, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"user": userPart{ID: uid, Email: req.Email, Roles: req.Roles},
	})
}

func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	items := make([]userPart, 0, len(users))
	for i := range users {
		items = append(items, userPartOf(&users[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": userPartOf(&u)})
}

func (h *UserHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == nil && req.Password == nil && req.Roles == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}
	if req.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*req.Email))
		if e == "" || !strings.Contains(e, "@") {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
		}
		req.Email = &e
	}
	if req.Password != nil && *req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must not be empty"})
	}
	if req.Roles != nil {
		if len(req.Roles) == 0 || !validRoles(req.Roles) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	upd := repository.UserUpdate{Email: req.Email, Password: req.Password, Roles: req.Roles}
	u, err := h.Users.Update(ctx, id, upd, h.Cfg.BcryptCost)
	if err != nil {
		switch {
		case err == sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		case err == repository.ErrEmailExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"user": userPartOf(&u)})
}

// Delete removes a user. Users holding confirmed reservations are
// refused so capacity accounting never loses its owner row.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Reservations.CountConfirmedByUser(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if n > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "user has confirmed reservations"})
	}

	if err := h.Users.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
