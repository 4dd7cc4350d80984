package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/tourbook/internal/models"
	"github.com/Skotchmaster/tourbook/internal/transport"
	"github.com/Skotchmaster/tourbook/pkg/logging"
)

const featuredSize = 6

type Handler struct {
	Client *Client
	Mock   bool
	Now    func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, transport.ErrorResponse{Error: msg})
}

func methodNotAllowed(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderAllow, http.MethodPost)
	return errorJSON(c, http.StatusMethodNotAllowed, "Method not allowed")
}

func upstreamFailed(c echo.Context, l *slog.Logger, err error) error {
	l.Error("upstream_failed", "status", http.StatusInternalServerError, "error", err)
	return errorJSON(c, http.StatusInternalServerError, "Internal server error")
}

// relay writes the upstream status and body back, keeping Set-Cookie.
func relay(c echo.Context, resp *Response) error {
	for _, ck := range resp.Header.Values("Set-Cookie") {
		c.Response().Header().Add("Set-Cookie", ck)
	}
	ct := resp.Header.Get(echo.HeaderContentType)
	if ct == "" {
		ct = echo.MIMEApplicationJSONCharsetUTF8
	}
	if len(resp.Body) == 0 {
		return c.NoContent(resp.Status)
	}
	return c.Blob(resp.Status, ct, resp.Body)
}

func decodeObject(r io.Reader) (map[string]any, error) {
	var body map[string]any
	if err := json.NewDecoder(r).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, nil
}

func (h *Handler) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "gateway.signup")

	if c.Request().Method != http.MethodPost {
		return methodNotAllowed(c)
	}

	body, err := decodeObject(c.Request().Body)
	if err != nil {
		l.Warn("signup_failed", "status", http.StatusBadRequest, "reason", "bad_json", "error", err)
		return errorJSON(c, http.StatusBadRequest, "invalid JSON body")
	}
	if role, _ := body["role"].(string); strings.TrimSpace(role) == "" {
		body["role"] = string(models.RoleTraveler)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return upstreamFailed(c, l, err)
	}
	resp, err := h.Client.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/register",
		Body:   payload,
		From:   c.Request(),
	})
	if err != nil {
		return upstreamFailed(c, l, err)
	}
	l.Info("signup_relayed", "status", resp.Status)
	return relay(c, resp)
}

// forwardPost relays a POST body as-is to path.
func (h *Handler) forwardPost(c echo.Context, handler, path string) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", handler)

	if c.Request().Method != http.MethodPost {
		return methodNotAllowed(c)
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxUpstreamBody))
	if err != nil {
		l.Warn("read_body_failed", "status", http.StatusBadRequest, "error", err)
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	resp, err := h.Client.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: payload, From: c.Request()})
	if err != nil {
		return upstreamFailed(c, l, err)
	}
	return relay(c, resp)
}

func (h *Handler) VerifyEmail(c echo.Context) error {
	return h.forwardPost(c, "gateway.verify_email", "/api/v1/auth/verify-email")
}

func (h *Handler) Login(c echo.Context) error {
	return h.forwardPost(c, "gateway.login", "/api/v1/auth/login")
}

func (h *Handler) BookingConfirmation(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "gateway.booking_confirmation")

	id := strings.TrimSpace(c.QueryParam("bookingId"))
	if id == "" {
		l.Warn("confirmation_failed", "status", http.StatusBadRequest, "reason", "missing_booking_id")
		return errorJSON(c, http.StatusBadRequest, "bookingId is required")
	}

	if h.Mock {
		return c.JSON(http.StatusOK, MockConfirmation(id, h.now()))
	}

	resp, err := h.Client.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/api/v1/bookings/" + url.PathEscape(id) + "/confirmation",
		From:   c.Request(),
	})
	if err != nil {
		return upstreamFailed(c, l, err)
	}
	return relay(c, resp)
}

func (h *Handler) FeaturedTours(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "gateway.featured_tours")

	if h.Mock {
		return c.JSON(http.StatusOK, MockFeaturedTours(featuredSize))
	}

	resp, err := h.Client.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/api/v1/tours?page=1&size=6",
		From:   c.Request(),
	})
	if err != nil {
		return upstreamFailed(c, l, err)
	}
	return relay(c, resp)
}
