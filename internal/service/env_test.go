package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/tourbook/internal/dbtest"
	"github.com/Skotchmaster/tourbook/internal/models"
	"github.com/Skotchmaster/tourbook/internal/repo"
	"github.com/Skotchmaster/tourbook/internal/transport"
	"github.com/Skotchmaster/tourbook/internal/verify"
	"github.com/Skotchmaster/tourbook/pkg/events"
)

type testEnv struct {
	Repo     *repo.GormRepo
	Events   *events.Recorder
	Codes    *verify.MemoryStore
	Auth     *AuthService
	Tours    *TourService
	Cart     *CartService
	Wishlist *WishlistService
	Bookings *BookingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := repo.New(dbtest.Open(t))
	rec := &events.Recorder{}
	codes := verify.NewMemoryStore()
	return &testEnv{
		Repo:   r,
		Events: rec,
		Codes:  codes,
		Auth: &AuthService{
			Repo:          r,
			Codes:         codes,
			Events:        rec,
			AccessSecret:  []byte("test-jwt-secret"),
			RefreshSecret: []byte("test-refresh-secret"),
		},
		Tours:    &TourService{Repo: r, Events: rec},
		Cart:     &CartService{Repo: r, Events: rec},
		Wishlist: &WishlistService{Repo: r, Events: rec},
		Bookings: &BookingService{Repo: r, Events: rec},
	}
}

func (e *testEnv) tour(t *testing.T, title string, price int64, currency string, maxGroup int) *models.Tour {
	t.Helper()
	tour := &models.Tour{
		Title:        title,
		Slug:         Slugify(title),
		Location:     "Lisbon",
		PriceMinor:   price,
		Currency:     currency,
		DurationDays: 1,
		MaxGroupSize: maxGroup,
		Published:    true,
	}
	require.NoError(t, e.Repo.CreateTour(context.Background(), tour))
	return tour
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(transport.DateLayout)
}

func guide() Actor {
	return Actor{ID: uuid.New(), Role: models.RoleGuide}
}
