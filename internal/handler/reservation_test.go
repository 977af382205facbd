package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquarhone/aquabook/internal/booking"
)

func TestMapBookingError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{booking.ErrActivityRequired, http.StatusBadRequest},
		{booking.ErrBadDateTime, http.StatusBadRequest},
		{booking.ErrNoSpotsLeft, http.StatusBadRequest},
		{booking.ErrSlotUnavailable, http.StatusBadRequest},
		{booking.ErrAlreadyCancelled, http.StatusBadRequest},
		{booking.ErrPastReservation, http.StatusBadRequest},
		{booking.ErrActivityNotFound, http.StatusNotFound},
		{booking.ErrReservationNotFound, http.StatusNotFound},
		{booking.ErrNotOwner, http.StatusForbidden},
		{booking.ErrDuplicateBooking, http.StatusConflict},
		{assert.AnError, http.StatusInternalServerError},
	}

	e := echo.New()
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/reservations", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		require.NoError(t, mapBookingError(c, tc.err))
		assert.Equal(t, tc.code, rec.Code, "error %v", tc.err)
		assert.Contains(t, rec.Body.String(), `"error"`)
	}
}

func TestReservationRoutesRequireIdentity(t *testing.T) {
	h := NewReservationHandler(nil)
	e := echo.New()

	for name, fn := range map[string]echo.HandlerFunc{
		"create": h.Create,
		"list":   h.List,
		"get":    h.Get,
		"cancel": h.Cancel,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/reservations", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		// no user_id in context, as when auth middleware never ran
		require.NoError(t, fn(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}
}
