package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/tourbook/internal/models"
	"github.com/Skotchmaster/tourbook/internal/service"
	"github.com/Skotchmaster/tourbook/internal/transport"
	"github.com/Skotchmaster/tourbook/pkg/logging"
	"github.com/Skotchmaster/tourbook/pkg/money"
)

type BookingHTTP struct {
	Svc *service.BookingService
}

func bookingResponse(b models.Booking) transport.BookingResponse {
	return transport.BookingResponse{
		Booking:        b,
		TravelDay:      b.TravelDate.UTC().Format(transport.DateLayout),
		TotalFormatted: money.MustFormatMinor(b.TotalMinor, b.Currency),
	}
}

func bookingList(bs []models.Booking) []transport.BookingResponse {
	out := make([]transport.BookingResponse, 0, len(bs))
	for _, b := range bs {
		out = append(out, bookingResponse(b))
	}
	return out
}

func (h *BookingHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "booking.create")

	a, err := actor(c, l, "create_booking_error")
	if err != nil {
		return err
	}
	var req transport.CreateBookingRequest
	if err := bind(c, l, "create_booking_error", &req); err != nil {
		return err
	}

	b, err := h.Svc.Create(ctx, a.ID, req)
	if err != nil {
		return fail(l, "create_booking_error", err)
	}
	l.Info("booking_created", "booking_id", b.ID)
	return c.JSON(http.StatusCreated, bookingResponse(*b))
}

func (h *BookingHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "booking.checkout")

	a, err := actor(c, l, "checkout_error")
	if err != nil {
		return err
	}
	var req transport.CheckoutRequest
	if err := bind(c, l, "checkout_error", &req); err != nil {
		return err
	}

	bookings, err := h.Svc.Checkout(ctx, a.ID, req.ContactEmail)
	if err != nil {
		return fail(l, "checkout_error", err)
	}
	l.Info("checkout_successful", "bookings", len(bookings))
	return c.JSON(http.StatusCreated, bookingList(bookings))
}

func (h *BookingHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "booking.list")

	a, err := actor(c, l, "list_bookings_error")
	if err != nil {
		return err
	}
	bookings, err := h.Svc.List(ctx, a.ID)
	if err != nil {
		return fail(l, "list_bookings_error", err)
	}
	return c.JSON(http.StatusOK, bookingList(bookings))
}

func (h *BookingHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "booking.get")

	a, err := actor(c, l, "get_booking_error")
	if err != nil {
		return err
	}
	id, err := paramID(c, l, "get_booking_error", "id")
	if err != nil {
		return err
	}
	b, err := h.Svc.Get(ctx, id, a)
	if err != nil {
		return fail(l, "get_booking_error", err)
	}
	return c.JSON(http.StatusOK, bookingResponse(*b))
}

func (h *BookingHTTP) Confirmation(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "booking.confirmation")

	a, err := actor(c, l, "booking_confirmation_error")
	if err != nil {
		return err
	}
	id, err := paramID(c, l, "booking_confirmation_error", "id")
	if err != nil {
		return err
	}
	conf, err := h.Svc.Confirmation(ctx, id, a)
	if err != nil {
		return fail(l, "booking_confirmation_error", err)
	}
	return c.JSON(http.StatusOK, conf)
}

func (h *BookingHTTP) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "booking.cancel")

	a, err := actor(c, l, "cancel_booking_error")
	if err != nil {
		return err
	}
	id, err := paramID(c, l, "cancel_booking_error", "id")
	if err != nil {
		return err
	}
	b, err := h.Svc.Cancel(ctx, id, a)
	if err != nil {
		return fail(l, "cancel_booking_error", err)
	}
	l.Info("booking_cancelled", "booking_id", id)
	return c.JSON(http.StatusOK, bookingResponse(*b))
}

func (h *BookingHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "booking.update_status")

	id, err := paramID(c, l, "update_booking_status_error", "id")
	if err != nil {
		return err
	}
	var req transport.UpdateBookingStatusRequest
	if err := bind(c, l, "update_booking_status_error", &req); err != nil {
		return err
	}
	b, err := h.Svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return fail(l, "update_booking_status_error", err)
	}
	return c.JSON(http.StatusOK, bookingResponse(*b))
}
