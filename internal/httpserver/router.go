package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/tourbook/internal/models"
	middleware "github.com/Skotchmaster/tourbook/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/tourbook/pkg/middleware/logging"
	"github.com/Skotchmaster/tourbook/pkg/validation"
)

type Deps struct {
	DB              *gorm.DB
	Auth            *middleware.AutoRefreshMiddleware
	AuthHandler     *AuthHTTP
	TourHandler     *TourHTTP
	CartHandler     *CartHTTP
	WishlistHandler *WishlistHTTP
	BookingHandler  *BookingHTTP
}

// NewEcho builds the server with the shared middleware chain.
func NewEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())
	e.Use(echomw.Secure())
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		sqlDB, err := d.DB.DB()
		if err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		if err := sqlDB.PingContext(c.Request().Context()); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	staff := d.Auth.RequireRole(string(models.RoleGuide), string(models.RoleAdmin))
	admin := d.Auth.RequireRole(string(models.RoleAdmin))

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/verify-email", d.AuthHandler.VerifyEmail)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.GET("/me", d.AuthHandler.Me, d.Auth.RequireAuth)

	tours := v1.Group("/tours")
	tours.GET("", d.TourHandler.List, d.Auth.Optional)
	tours.GET("/search", d.TourHandler.Search, d.Auth.Optional)
	tours.GET("/:id", d.TourHandler.Get, d.Auth.Optional)
	tours.GET("/:id/media", d.TourHandler.Media, d.Auth.Optional)
	tours.POST("", d.TourHandler.Create, staff)
	tours.PATCH("/:id", d.TourHandler.Patch, staff)
	tours.DELETE("/:id", d.TourHandler.Delete, staff)
	tours.POST("/:id/media", d.TourHandler.AddMedia, staff)
	tours.DELETE("/:id/media/:mediaId", d.TourHandler.DeleteMedia, staff)

	v1.GET("/categories", d.TourHandler.Categories)
	v1.POST("/categories", d.TourHandler.CreateCategory, admin)

	cart := v1.Group("/cart", d.Auth.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.DELETE("", d.CartHandler.Clear)
	cart.POST("/items", d.CartHandler.AddItem)
	cart.PATCH("/items/:itemId", d.CartHandler.UpdateItem)
	cart.DELETE("/items/:itemId", d.CartHandler.RemoveItem)

	wishlist := v1.Group("/wishlist", d.Auth.RequireAuth)
	wishlist.GET("", d.WishlistHandler.Get)
	wishlist.POST("", d.WishlistHandler.Add)
	wishlist.DELETE("/:tourId", d.WishlistHandler.Remove)

	bookings := v1.Group("/bookings", d.Auth.RequireAuth)
	bookings.GET("", d.BookingHandler.List)
	bookings.POST("", d.BookingHandler.Create)
	bookings.POST("/checkout", d.BookingHandler.Checkout)
	bookings.GET("/:id", d.BookingHandler.Get)
	bookings.GET("/:id/confirmation", d.BookingHandler.Confirmation)
	bookings.POST("/:id/cancel", d.BookingHandler.Cancel)

	v1.PATCH("/bookings/:id/status", d.BookingHandler.UpdateStatus, admin)
}
