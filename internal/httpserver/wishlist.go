package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/tourbook/internal/service"
	"github.com/Skotchmaster/tourbook/internal/transport"
	"github.com/Skotchmaster/tourbook/pkg/logging"
)

type WishlistHTTP struct {
	Svc *service.WishlistService
}

func (h *WishlistHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.get")

	a, err := actor(c, l, "get_wishlist_error")
	if err != nil {
		return err
	}
	wl, err := h.Svc.Get(ctx, a.ID)
	if err != nil {
		return fail(l, "get_wishlist_error", err)
	}
	return c.JSON(http.StatusOK, wl)
}

func (h *WishlistHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.add")

	a, err := actor(c, l, "add_wishlist_error")
	if err != nil {
		return err
	}
	var req transport.WishlistRequest
	if err := bind(c, l, "add_wishlist_error", &req); err != nil {
		return err
	}
	wl, err := h.Svc.Add(ctx, a.ID, req.TourID)
	if err != nil {
		return fail(l, "add_wishlist_error", err)
	}
	return c.JSON(http.StatusOK, wl)
}

func (h *WishlistHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.remove")

	a, err := actor(c, l, "remove_wishlist_error")
	if err != nil {
		return err
	}
	tourID, err := paramID(c, l, "remove_wishlist_error", "tourId")
	if err != nil {
		return err
	}
	if err := h.Svc.Remove(ctx, a.ID, tourID); err != nil {
		return fail(l, "remove_wishlist_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
