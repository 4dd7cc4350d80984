package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/tourbook/internal/models"
	"github.com/Skotchmaster/tourbook/internal/service"
	"github.com/Skotchmaster/tourbook/internal/transport"
	"github.com/Skotchmaster/tourbook/internal/util"
	"github.com/Skotchmaster/tourbook/pkg/logging"
)

type TourHTTP struct {
	Svc *service.TourService
}

func tourList(tours []models.Tour, total int64, page, size int) transport.TourListResponse {
	_, size = util.Calculate(page, size)
	if page < 1 {
		page = 1
	}
	items := make([]transport.TourResponse, 0, len(tours))
	for _, t := range tours {
		items = append(items, service.NewTourResponse(t))
	}
	return transport.TourListResponse{Items: items, Total: total, Page: page, Size: size}
}

func (h *TourHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tour.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	tours, total, err := h.Svc.List(ctx, service.TourQuery{
		Page:     page,
		Size:     size,
		Category: c.QueryParam("category"),
		Location: c.QueryParam("location"),
		Staff:    optionalActor(c).Staff(),
	})
	if err != nil {
		return fail(l, "list_tours_error", err)
	}
	return c.JSON(http.StatusOK, tourList(tours, total, page, size))
}

func (h *TourHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tour.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	tours, total, err := h.Svc.SearchTours(ctx, c.QueryParam("q"), page, size, optionalActor(c).Staff())
	if err != nil {
		return fail(l, "search_tours_error", err)
	}
	return c.JSON(http.StatusOK, tourList(tours, total, page, size))
}

func (h *TourHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tour.get")

	id, err := paramID(c, l, "get_tour_error", "id")
	if err != nil {
		return err
	}
	tour, err := h.Svc.Get(ctx, id, optionalActor(c).Staff())
	if err != nil {
		return fail(l, "get_tour_error", err)
	}
	return c.JSON(http.StatusOK, service.NewTourResponse(*tour))
}

func (h *TourHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tour.create")

	a, err := actor(c, l, "create_tour_error")
	if err != nil {
		return err
	}
	var req transport.CreateTourRequest
	if err := bind(c, l, "create_tour_error", &req); err != nil {
		return err
	}

	tour, err := h.Svc.Create(ctx, a, req)
	if err != nil {
		return fail(l, "create_tour_error", err)
	}
	l.Info("tour_created", "tour_id", tour.ID)
	return c.JSON(http.StatusCreated, service.NewTourResponse(*tour))
}

func (h *TourHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tour.patch")

	a, err := actor(c, l, "patch_tour_error")
	if err != nil {
		return err
	}
	id, err := paramID(c, l, "patch_tour_error", "id")
	if err != nil {
		return err
	}
	var req transport.PatchTourRequest
	if err := bind(c, l, "patch_tour_error", &req); err != nil {
		return err
	}

	tour, err := h.Svc.Patch(ctx, id, a, req)
	if err != nil {
		return fail(l, "patch_tour_error", err)
	}
	return c.JSON(http.StatusOK, service.NewTourResponse(*tour))
}

func (h *TourHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tour.delete")

	a, err := actor(c, l, "delete_tour_error")
	if err != nil {
		return err
	}
	id, err := paramID(c, l, "delete_tour_error", "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id, a); err != nil {
		return fail(l, "delete_tour_error", err)
	}
	l.Info("tour_deleted", "tour_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *TourHTTP) Categories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	cats, err := h.Svc.Categories(ctx)
	if err != nil {
		return fail(l, "list_categories_error", err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *TourHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.CreateCategoryRequest
	if err := bind(c, l, "create_category_error", &req); err != nil {
		return err
	}
	cat, err := h.Svc.CreateCategory(ctx, req.Name, req.Slug)
	if err != nil {
		return fail(l, "create_category_error", err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *TourHTTP) Media(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "media.list")

	id, err := paramID(c, l, "list_media_error", "id")
	if err != nil {
		return err
	}
	media, err := h.Svc.Media(ctx, id, optionalActor(c).Staff())
	if err != nil {
		return fail(l, "list_media_error", err)
	}
	return c.JSON(http.StatusOK, media)
}

func (h *TourHTTP) AddMedia(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "media.add")

	a, err := actor(c, l, "add_media_error")
	if err != nil {
		return err
	}
	id, err := paramID(c, l, "add_media_error", "id")
	if err != nil {
		return err
	}
	var req transport.AddMediaRequest
	if err := bind(c, l, "add_media_error", &req); err != nil {
		return err
	}

	m, err := h.Svc.AddMedia(ctx, id, a, req)
	if err != nil {
		return fail(l, "add_media_error", err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *TourHTTP) DeleteMedia(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "media.delete")

	a, err := actor(c, l, "delete_media_error")
	if err != nil {
		return err
	}
	tourID, err := paramID(c, l, "delete_media_error", "id")
	if err != nil {
		return err
	}
	mediaID, err := paramID(c, l, "delete_media_error", "mediaId")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteMedia(ctx, tourID, mediaID, a); err != nil {
		return fail(l, "delete_media_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
