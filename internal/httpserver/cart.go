package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/tourbook/internal/service"
	"github.com/Skotchmaster/tourbook/internal/transport"
	"github.com/Skotchmaster/tourbook/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	a, err := actor(c, l, "get_cart_error")
	if err != nil {
		return err
	}
	cart, err := h.Svc.Get(ctx, a.ID)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	a, err := actor(c, l, "add_to_cart_error")
	if err != nil {
		return err
	}
	var req transport.AddCartItemRequest
	if err := bind(c, l, "add_to_cart_error", &req); err != nil {
		return err
	}

	if _, err := h.Svc.Add(ctx, a.ID, req.TourID, req.Quantity, req.TravelDate); err != nil {
		return fail(l, "add_to_cart_error", err)
	}
	cart, err := h.Svc.Get(ctx, a.ID)
	if err != nil {
		return fail(l, "add_to_cart_error", err)
	}

	l.Info("item_added_to_cart", "tour_id", req.TourID)
	return c.JSON(http.StatusCreated, cart)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	a, err := actor(c, l, "update_cart_item_error")
	if err != nil {
		return err
	}
	itemID, err := paramID(c, l, "update_cart_item_error", "itemId")
	if err != nil {
		return err
	}
	var req transport.UpdateCartItemRequest
	if err := bind(c, l, "update_cart_item_error", &req); err != nil {
		return err
	}

	if _, err := h.Svc.Update(ctx, a.ID, itemID, req.Quantity); err != nil {
		return fail(l, "update_cart_item_error", err)
	}
	cart, err := h.Svc.Get(ctx, a.ID)
	if err != nil {
		return fail(l, "update_cart_item_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	a, err := actor(c, l, "remove_cart_item_error")
	if err != nil {
		return err
	}
	itemID, err := paramID(c, l, "remove_cart_item_error", "itemId")
	if err != nil {
		return err
	}
	if err := h.Svc.Remove(ctx, a.ID, itemID); err != nil {
		return fail(l, "remove_cart_item_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	a, err := actor(c, l, "clear_cart_error")
	if err != nil {
		return err
	}
	if err := h.Svc.Clear(ctx, a.ID); err != nil {
		return fail(l, "clear_cart_error", err)
	}
	l.Info("cart_cleared")
	return c.NoContent(http.StatusNoContent)
}
