package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/tourbook/internal/dbtest"
	"github.com/Skotchmaster/tourbook/internal/repo"
	"github.com/Skotchmaster/tourbook/internal/service"
	"github.com/Skotchmaster/tourbook/internal/transport"
	"github.com/Skotchmaster/tourbook/internal/verify"
	"github.com/Skotchmaster/tourbook/pkg/events"
	"github.com/Skotchmaster/tourbook/pkg/logging"
	middleware "github.com/Skotchmaster/tourbook/pkg/middleware/auth"
	"github.com/Skotchmaster/tourbook/pkg/tokens"
)

type testServer struct {
	e      *echo.Echo
	events *events.Recorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := dbtest.Open(t)
	r := repo.New(db)
	rec := &events.Recorder{}
	authSvc := &service.AuthService{
		Repo:          r,
		Codes:         verify.NewMemoryStore(),
		Events:        rec,
		AccessSecret:  []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}

	e := NewEcho(logging.NewWithWriter(io.Discard, "error"))
	Register(e, &Deps{
		DB:              db,
		Auth:            middleware.NewAutoRefreshMiddleware(authSvc.AccessSecret, authSvc),
		AuthHandler:     &AuthHTTP{Svc: authSvc},
		TourHandler:     &TourHTTP{Svc: &service.TourService{Repo: r, Events: rec}},
		CartHandler:     &CartHTTP{Svc: &service.CartService{Repo: r, Events: rec}},
		WishlistHandler: &WishlistHTTP{Svc: &service.WishlistService{Repo: r, Events: rec}},
		BookingHandler:  &BookingHTTP{Svc: &service.BookingService{Repo: r, Events: rec}},
	})
	return &testServer{e: e, events: rec}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) signupAndLogin(t *testing.T, email, role string) transport.LoginResponse {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": email, "password": "password1", "name": "Test", "role": role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": "password1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[transport.LoginResponse](t, rec)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", "", nil).Code)
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "new@example.com", "password": "password1", "name": "New",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	user := decode[transport.UserResponse](t, rec)
	assert.Equal(t, "TRAVELER", user.Role)
	assert.False(t, user.EmailVerified)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "new@example.com", "password": "password1", "name": "New",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "bad-email", "password": "short", "name": "New",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "boss@example.com", "password": "password1", "name": "Boss", "role": "ADMIN",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogin_SetsCookies(t *testing.T) {
	s := newTestServer(t)
	s.signupAndLogin(t, "c@example.com", "")

	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "c@example.com", "password": "password1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	names := map[string]bool{}
	for _, ck := range rec.Result().Cookies() {
		names[ck.Name] = ck.HttpOnly
	}
	assert.True(t, names[tokens.AccessCookie])
	assert.True(t, names[tokens.RefreshCookie])

	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "c@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	s := newTestServer(t)
	login := s.signupAndLogin(t, "me@example.com", "GUIDE")

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/auth/me", "", nil).Code)

	rec := s.do(t, http.MethodGet, "/api/v1/auth/me", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "GUIDE", decode[transport.UserResponse](t, rec).Role)
}

func TestTourCartBookingFlow(t *testing.T) {
	s := newTestServer(t)
	guide := s.signupAndLogin(t, "guide@example.com", "GUIDE")
	traveler := s.signupAndLogin(t, "trav@example.com", "")

	rec := s.do(t, http.MethodPost, "/api/v1/tours", traveler.AccessToken, map[string]any{
		"title": "Nope", "location": "X", "currency": "USD", "priceMinor": 100,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/tours", guide.AccessToken, map[string]any{
		"title": "Kyoto Temples", "location": "Kyoto", "currency": "JPY", "priceMinor": 9050,
		"maxGroupSize": 6, "published": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tour := decode[transport.TourResponse](t, rec)
	assert.Contains(t, tour.PriceFormatted, "9,050")
	assert.NotContains(t, tour.PriceFormatted, ".")

	rec = s.do(t, http.MethodGet, "/api/v1/tours/"+tour.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/tours/search?q=kyoto", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[transport.TourListResponse](t, rec).Total)

	date := time.Now().UTC().AddDate(0, 0, 20).Format(transport.DateLayout)
	rec = s.do(t, http.MethodPost, "/api/v1/cart/items", traveler.AccessToken, map[string]any{
		"tourId": tour.ID, "quantity": 0, "travelDate": date,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for i := 0; i < 2; i++ {
		rec = s.do(t, http.MethodPost, "/api/v1/cart/items", traveler.AccessToken, map[string]any{
			"tourId": tour.ID, "quantity": 2, "travelDate": date,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	cart := decode[transport.CartResponse](t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	require.Len(t, cart.Totals, 1)
	assert.Equal(t, int64(4*9050), cart.Totals[0].AmountMinor)

	rec = s.do(t, http.MethodPost, "/api/v1/bookings/checkout", traveler.AccessToken, map[string]any{
		"contactEmail": "trav@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bookings := decode[[]transport.BookingResponse](t, rec)
	require.Len(t, bookings, 1)
	b := bookings[0]
	assert.Equal(t, "PENDING", string(b.Status))
	assert.Equal(t, 4, b.Headcount)

	rec = s.do(t, http.MethodPost, "/api/v1/bookings/checkout", traveler.AccessToken, map[string]any{
		"contactEmail": "trav@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/bookings/"+b.ID.String()+"/confirmation", traveler.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	conf := decode[transport.ConfirmationResponse](t, rec)
	assert.Equal(t, b.ConfirmationCode, conf.ConfirmationCode)
	assert.Equal(t, "Kyoto Temples", conf.TourTitle)

	rec = s.do(t, http.MethodGet, "/api/v1/bookings/"+b.ID.String(), guide.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/v1/bookings/"+b.ID.String()+"/status", guide.AccessToken, map[string]string{"status": "CONFIRMED"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/bookings", traveler.AccessToken, map[string]any{
		"tourId": tour.ID, "headcount": 21, "travelDate": date, "contactEmail": "trav@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/bookings/"+b.ID.String()+"/cancel", traveler.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/bookings/"+b.ID.String()+"/cancel", traveler.AccessToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	assert.Contains(t, s.events.Types(events.TopicBooking), "booking_cancelled")
}

func TestWishlistRoutes(t *testing.T) {
	s := newTestServer(t)
	guide := s.signupAndLogin(t, "g2@example.com", "GUIDE")
	user := s.signupAndLogin(t, "u2@example.com", "")

	rec := s.do(t, http.MethodPost, "/api/v1/tours", guide.AccessToken, map[string]any{
		"title": "Fado Night", "location": "Lisbon", "currency": "EUR", "priceMinor": 3000, "published": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	tour := decode[transport.TourResponse](t, rec)

	for i := 0; i < 2; i++ {
		rec = s.do(t, http.MethodPost, "/api/v1/wishlist", user.AccessToken, map[string]any{"tourId": tour.ID})
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec = s.do(t, http.MethodGet, "/api/v1/wishlist", user.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var wl struct {
		Items []struct {
			TourID string `json:"tourId"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wl))
	assert.Len(t, wl.Items, 1)

	rec = s.do(t, http.MethodDelete, "/api/v1/wishlist/"+tour.ID.String(), user.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodDelete, "/api/v1/wishlist/not-a-uuid", user.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
