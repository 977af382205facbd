package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aquarhone/aquabook/internal/booking"
)

// ReservationHandler exposes the booking engine over HTTP. All routes
// require an authenticated user; ownership is enforced by the engine.
type ReservationHandler struct {
	Engine *booking.Engine
}

func NewReservationHandler(e *booking.Engine) *ReservationHandler {
	return &ReservationHandler{Engine: e}
}

type createReservationReq struct {
	ActivityID uint64 `json:"activityId"`
	DateTime   string `json:"dateTime"`
}

// mapBookingError translates engine sentinels into HTTP responses so
// the status taxonomy lives in one place.
func mapBookingError(c echo.Context, err error) error {
	switch err {
	case booking.ErrActivityRequired:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "activityId is required"})
	case booking.ErrBadDateTime:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dateTime, want YYYY-MM-DD HH:MM:SS"})
	case booking.ErrActivityNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
	case booking.ErrNoSpotsLeft:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no spots left"})
	case booking.ErrSlotUnavailable:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot not available for this activity"})
	case booking.ErrDuplicateBooking:
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already exists for this slot"})
	case booking.ErrReservationNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case booking.ErrNotOwner:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case booking.ErrAlreadyCancelled:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation already cancelled"})
	case booking.ErrPastReservation:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot cancel a past reservation"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation failed"})
	}
}

func (h *ReservationHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	detail, err := h.Engine.Create(ctx, uid, req.ActivityID, req.DateTime)
	if err != nil {
		return mapBookingError(c, err)
	}
	return c.JSON(http.StatusCreated, detail)
}

func (h *ReservationHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Engine.ListForUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (h *ReservationHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	detail, err := h.Engine.Get(ctx, uid, isAdmin(c), id)
	if err != nil {
		return mapBookingError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *ReservationHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	detail, err := h.Engine.Cancel(ctx, uid, isAdmin(c), id)
	if err != nil {
		return mapBookingError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}
