package gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/tourbook/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/tourbook/pkg/middleware/logging"
)

func NewEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	return e
}

// CSRFConfig protects proxied unsafe requests. Auth routes set the session
// and are exempt.
func CSRFConfig() csrf.Config {
	cfg := csrf.DefaultConfig()
	cfg.SkipPrefixes = []string{"/health/", "/api/auth/", "/api/v1/auth/"}
	return cfg
}

func Register(e *echo.Echo, cfg Config, h *Handler) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.Use(csrf.Middleware(CSRFConfig()))

	backend, err := newProxy(cfg.BackendURL, "")
	if err != nil {
		return err
	}

	e.Any("/api/auth/signup", h.Signup)
	e.Any("/api/auth/verify-email", h.VerifyEmail)
	e.Any("/api/auth/login", h.Login)
	e.GET("/api/bookings/confirmation", h.BookingConfirmation)
	e.GET("/api/tours/featured", h.FeaturedTours)

	e.Any("/api/v1/*", backend)
	return nil
}
