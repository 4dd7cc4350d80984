package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(cfg Config) *echo.Echo {
	e := echo.New()
	e.Use(Middleware(cfg))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/page", ok)
	e.POST("/page", ok)
	e.POST("/api/auth/login", ok)
	return e
}

func TestCSRF_GetIssuesToken(t *testing.T) {
	e := newServer(DefaultConfig())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/page", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-CSRF-Token"))
}

func TestCSRF_PostRequiresMatchingToken(t *testing.T) {
	e := newServer(DefaultConfig())

	req := httptest.NewRequest(http.MethodPost, "http://example.com/page", nil)
	req.Header.Set("Origin", "http://example.com")
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "http://example.com/page", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("X-CSRF-Token", "tok")
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRF_ForeignOrigin(t *testing.T) {
	e := newServer(DefaultConfig())

	req := httptest.NewRequest(http.MethodPost, "http://example.com/page", nil)
	req.Header.Set("Origin", "http://evil.test")
	req.Header.Set("X-CSRF-Token", "tok")
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRF_SkipPrefix(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipPrefixes = []string{"/api/auth/"}
	e := newServer(cfg)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
