package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/aquarhone/aquabook/internal/config"
	"github.com/aquarhone/aquabook/internal/middleware"
	"github.com/aquarhone/aquabook/internal/model"
	"github.com/aquarhone/aquabook/internal/repository"
)

// ActivityHandler exposes the activity catalog. Reads are served to
// any authenticated user; mutations are admin-only (enforced in the
// router) and drop the response cache.
type ActivityHandler struct {
	Repo     *repository.ActivityRepo
	Cache    *redis.Client
	CacheCfg config.CacheConfig
}

func NewActivityHandler(r *repository.ActivityRepo, cache *redis.Client, cfg config.CacheConfig) *ActivityHandler {
	return &ActivityHandler{Repo: r, Cache: cache, CacheCfg: cfg}
}

type createActivityReq struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	ActivityType   *string  `json:"activityType"`
	Location       *string  `json:"location"`
	Price          *float64 `json:"price"`
	AvailableSlots []string `json:"availableSlots"`
	RemainingSpots *uint32  `json:"remainingSpots"`
}

type updateActivityReq struct {
	Name           *string   `json:"name"`
	Description    *string   `json:"description"`
	ActivityType   *string   `json:"activityType"`
	Location       *string   `json:"location"`
	Price          *float64  `json:"price"`
	AvailableSlots *[]string `json:"availableSlots"`
	RemainingSpots *uint32   `json:"remainingSpots"`
}

// activityResp mirrors model.Activity but exposes the audit timestamps
// as formatted strings.
type activityResp struct {
	model.Activity
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func activityRespOf(a *model.Activity) activityResp {
	return activityResp{
		Activity:  *a,
		CreatedAt: a.CreatedAt.UTC().Format(model.TimeLayout),
		UpdatedAt: a.UpdatedAt.UTC().Format(model.TimeLayout),
	}
}

func validSlots(slots []string) bool {
	for _, s := range slots {
		if _, err := time.Parse(model.TimeLayout, s); err != nil {
			return false
		}
	}
	return true
}

func (h *ActivityHandler) dropCache(ctx context.Context) {
	if h.Cache == nil || !h.CacheCfg.Enabled {
		return
	}
	middleware.DropCachePrefix(ctx, h.Cache, h.CacheCfg.Prefix)
}

func (h *ActivityHandler) Create(c echo.Context) error {
	var req createActivityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == nil || *req.Name == "" ||
		req.Description == nil || *req.Description == "" ||
		req.ActivityType == nil ||
		req.Location == nil || *req.Location == "" ||
		req.Price == nil || req.RemainingSpots == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing required fields"})
	}
	if !model.ValidActivityType(*req.ActivityType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity type"})
	}
	if *req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}
	if req.AvailableSlots == nil {
		req.AvailableSlots = []string{}
	}
	if !validSlots(req.AvailableSlots) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot format, want YYYY-MM-DD HH:MM:SS"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a := model.Activity{
		Name:           *req.Name,
		Description:    *req.Description,
		ActivityType:   *req.ActivityType,
		Location:       *req.Location,
		Price:          *req.Price,
		AvailableSlots: req.AvailableSlots,
		RemainingSpots: *req.RemainingSpots,
	}
	if err := h.Repo.Create(ctx, &a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create activity failed"})
	}

	h.dropCache(ctx)
	return c.JSON(http.StatusCreated, activityRespOf(&a))
}

func (h *ActivityHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	activities, err := h.Repo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	items := make([]activityResp, 0, len(activities))
	for i := range activities {
		items = append(items, activityRespOf(&activities[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (h *ActivityHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, activityRespOf(a))
}

func (h *ActivityHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req updateActivityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == nil && req.Description == nil && req.ActivityType == nil &&
		req.Location == nil && req.Price == nil && req.AvailableSlots == nil &&
		req.RemainingSpots == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}
	if req.ActivityType != nil && !model.ValidActivityType(*req.ActivityType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity type"})
	}
	if req.Price != nil && *req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}
	if req.AvailableSlots != nil && !validSlots(*req.AvailableSlots) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot format, want YYYY-MM-DD HH:MM:SS"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	upd := repository.ActivityUpdate{
		Name:           req.Name,
		Description:    req.Description,
		ActivityType:   req.ActivityType,
		Location:       req.Location,
		Price:          req.Price,
		AvailableSlots: req.AvailableSlots,
		RemainingSpots: req.RemainingSpots,
	}
	a, err := h.Repo.Update(ctx, id, upd)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update activity failed"})
	}

	h.dropCache(ctx)
	return c.JSON(http.StatusOK, activityRespOf(a))
}

func (h *ActivityHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete activity failed"})
	}

	h.dropCache(ctx)
	return c.JSON(http.StatusOK, echo.Map{"message": "activity deleted"})
}
