package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquarhone/aquabook/internal/config"
)

// validation failures never reach the repository, so a nil repo is safe
func newActivityHandler() *ActivityHandler {
	return NewActivityHandler(nil, nil, config.CacheConfig{})
}

func postActivity(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := newActivityHandler()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/activities", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Create(e.NewContext(req, rec)))
	return rec
}

func TestCreateActivityValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing fields", `{"name":"Kayak"}`, "missing required fields"},
		{"unknown type", `{"name":"K","description":"d","activityType":"surf","location":"Lyon","price":10,"remainingSpots":5}`, "invalid activity type"},
		{"negative price", `{"name":"K","description":"d","activityType":"kayak","location":"Lyon","price":-1,"remainingSpots":5}`, "price must not be negative"},
		{"bad slot format", `{"name":"K","description":"d","activityType":"kayak","location":"Lyon","price":10,"remainingSpots":5,"availableSlots":["2026-09-10T10:00:00Z"]}`, "invalid slot format"},
	}
	for _, tc := range cases {
		rec := postActivity(t, tc.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.name)
		assert.Contains(t, rec.Body.String(), tc.want, tc.name)
	}
}

func TestUpdateActivityValidation(t *testing.T) {
	h := newActivityHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "nothing to update")

	req = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"price":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-number")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid id")
}
