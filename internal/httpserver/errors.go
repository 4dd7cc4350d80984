package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/tourbook/internal/models"
	"github.com/Skotchmaster/tourbook/internal/service"
	middleware "github.com/Skotchmaster/tourbook/pkg/middleware/auth"
)

var statusBySentinel = []struct {
	err  error
	code int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrInvalidRefreshToken, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrConflict, http.StatusConflict},
}

// fail logs err under event and converts it into the matching HTTP error.
// Unknown errors become a 500 without leaking their text.
func fail(l *slog.Logger, event string, err error) error {
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			l.Warn(event, "status", s.code, "error", err)
			return echo.NewHTTPError(s.code, reason(err, s.err))
		}
	}
	l.Error(event, "status", http.StatusInternalServerError, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

// reason drops the trailing sentinel text: "quantity must be at least 1: validation"
// becomes "quantity must be at least 1".
func reason(err, sentinel error) string {
	msg := err.Error()
	if trimmed := strings.TrimSuffix(msg, ": "+sentinel.Error()); trimmed != "" {
		return trimmed
	}
	return msg
}

// bind decodes and validates the request body.
func bind(c echo.Context, l *slog.Logger, event string, req any) error {
	if err := c.Bind(req); err != nil {
		l.Warn(event, "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		l.Warn(event, "status", http.StatusBadRequest, "reason", "validation failed", "error", err)
		return err
	}
	return nil
}

func paramID(c echo.Context, l *slog.Logger, event, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		l.Warn(event, "status", http.StatusBadRequest, "reason", name+" is not a uuid", "error", err)
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a uuid")
	}
	return id, nil
}

func actor(c echo.Context, l *slog.Logger, event string) (service.Actor, error) {
	id, err := middleware.UserID(c)
	if err != nil {
		l.Warn(event, "status", http.StatusUnauthorized, "error", err)
		return service.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return service.Actor{ID: id, Role: models.Role(middleware.Role(c))}, nil
}

// optionalActor is the caller on public routes, zero when anonymous.
func optionalActor(c echo.Context) service.Actor {
	id, err := middleware.UserID(c)
	if err != nil {
		return service.Actor{}
	}
	return service.Actor{ID: id, Role: models.Role(middleware.Role(c))}
}
