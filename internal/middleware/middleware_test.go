package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims(roles interface{}) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   uint64(5),
		"roles": roles,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
}

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen echo.Context
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		seen = c
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))
	return rec, seen
}

func TestJWTAuthValidToken(t *testing.T) {
	token := signToken(t, testSecret, validClaims([]string{"USER"}))
	rec, seen := runJWT(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, []string{"USER"}, seen.Get("roles"))
	assert.NotNil(t, seen.Get("user_id"))
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, seen := runJWT(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", validClaims([]string{"USER"}))
	rec, seen := runJWT(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	claims := validClaims([]string{"USER"})
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	token := signToken(t, testSecret, claims)
	rec, seen := runJWT(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestRolesFromClaim(t *testing.T) {
	assert.Equal(t, []string{"USER"}, rolesFromClaim([]string{"USER"}))
	assert.Equal(t, []string{"USER", "ADMIN"}, rolesFromClaim([]interface{}{"USER", "ADMIN"}))
	assert.Equal(t, []string{"ADMIN"}, rolesFromClaim("ADMIN"))
	assert.Nil(t, rolesFromClaim(42))
	assert.Nil(t, rolesFromClaim(nil))
}

func runRole(t *testing.T, roles interface{}, required ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if roles != nil {
		c.Set("roles", roles)
	}

	h := RequireRole(required...)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))
	return rec
}

func TestRequireRole(t *testing.T) {
	assert.Equal(t, http.StatusOK, runRole(t, []string{"USER"}, "USER", "ADMIN").Code)
	assert.Equal(t, http.StatusOK, runRole(t, []string{"ADMIN", "USER"}, "ADMIN").Code)
	assert.Equal(t, http.StatusForbidden, runRole(t, []string{"USER"}, "ADMIN").Code)
	assert.Equal(t, http.StatusForbidden, runRole(t, []string{}, "USER").Code)
	assert.Equal(t, http.StatusForbidden, runRole(t, nil, "USER").Code)
}

func TestCORSHeaders(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := CORS("http://localhost:3000")(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSPreflight(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodOptions, "/api/reservations", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := CORS("http://localhost:3000")(func(c echo.Context) error {
		called = true
		return nil
	})
	require.NoError(t, h(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called, "preflight must short-circuit")
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
