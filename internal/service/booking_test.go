package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/tourbook/internal/models"
	"github.com/Skotchmaster/tourbook/internal/transport"
	"github.com/Skotchmaster/tourbook/pkg/events"
)

func TestBookingService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()
	tour := env.tour(t, "Tokyo Nights", 9050, "JPY", 8)

	b, err := env.Bookings.Create(ctx, user, transport.CreateBookingRequest{
		TourID: tour.ID, Headcount: 3, TravelDate: futureDate(14), ContactEmail: "me@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, int64(9050*3), b.TotalMinor)
	assert.Equal(t, "JPY", b.Currency)
	assert.True(t, strings.HasPrefix(b.ConfirmationCode, "TB-"))
	assert.Len(t, b.ConfirmationCode, 11)
	assert.Equal(t, []string{"booking_created"}, env.Events.Types(events.TopicBooking))
}

func TestBookingService_Create_HeadcountBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tour := env.tour(t, "Small Group", 1000, "USD", 4)

	tests := []struct {
		name      string
		headcount int
		date      string
		want      error
	}{
		{name: "zero", headcount: 0, date: futureDate(5), want: ErrValidation},
		{name: "over twenty", headcount: 21, date: futureDate(5), want: ErrValidation},
		{name: "over group size", headcount: 5, date: futureDate(5), want: ErrValidation},
		{name: "today", headcount: 1, date: futureDate(0), want: ErrValidation},
		{name: "past", headcount: 1, date: futureDate(-3), want: ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Bookings.Create(ctx, uuid.New(), transport.CreateBookingRequest{
				TourID: tour.ID, Headcount: tt.headcount, TravelDate: tt.date, ContactEmail: "a@b.io",
			})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := env.Bookings.Create(ctx, uuid.New(), transport.CreateBookingRequest{
		TourID: uuid.New(), Headcount: 1, TravelDate: futureDate(5), ContactEmail: "a@b.io",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingService_Checkout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()
	a := env.tour(t, "A", 1000, "USD", 10)
	b := env.tour(t, "B", 500, "EUR", 10)

	_, err := env.Bookings.Checkout(ctx, user, "me@example.com")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.Cart.Add(ctx, user, a.ID, 2, futureDate(9))
	require.NoError(t, err)
	_, err = env.Cart.Add(ctx, user, b.ID, 3, futureDate(10))
	require.NoError(t, err)

	bookings, err := env.Bookings.Checkout(ctx, user, "me@example.com")
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	totals := []int64{bookings[0].TotalMinor, bookings[1].TotalMinor}
	assert.ElementsMatch(t, []int64{2000, 1500}, totals)
	for _, b := range bookings {
		assert.Equal(t, models.BookingPending, b.Status)
		assert.Equal(t, "me@example.com", b.ContactEmail)
	}

	cart, err := env.Cart.Get(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	listed, err := env.Bookings.List(ctx, user)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestBookingService_Checkout_RollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()
	ok := env.tour(t, "Roomy", 1000, "USD", 10)
	tight := env.tour(t, "Tight", 1000, "USD", 2)

	_, err := env.Cart.Add(ctx, user, ok.ID, 1, futureDate(9))
	require.NoError(t, err)
	_, err = env.Cart.Add(ctx, user, tight.ID, 3, futureDate(9))
	require.NoError(t, err)

	_, err = env.Bookings.Checkout(ctx, user, "me@example.com")
	assert.ErrorIs(t, err, ErrValidation)

	cart, err := env.Cart.Get(ctx, user)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)

	listed, err := env.Bookings.List(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestBookingService_AccessAndCancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := Actor{ID: uuid.New(), Role: models.RoleTraveler}
	stranger := Actor{ID: uuid.New(), Role: models.RoleTraveler}
	admin := Actor{ID: uuid.New(), Role: models.RoleAdmin}
	tour := env.tour(t, "Cancel Me", 1000, "USD", 10)

	b, err := env.Bookings.Create(ctx, owner.ID, transport.CreateBookingRequest{
		TourID: tour.ID, Headcount: 1, TravelDate: futureDate(4), ContactEmail: "o@example.com",
	})
	require.NoError(t, err)

	_, err = env.Bookings.Get(ctx, b.ID, stranger)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.Bookings.Get(ctx, uuid.New(), owner)
	assert.ErrorIs(t, err, ErrNotFound)

	conf, err := env.Bookings.Confirmation(ctx, b.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, b.ConfirmationCode, conf.ConfirmationCode)
	assert.Equal(t, "Cancel Me", conf.TourTitle)
	assert.Equal(t, "PENDING", conf.Status)

	cancelled, err := env.Bookings.Cancel(ctx, b.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)

	_, err = env.Bookings.Cancel(ctx, b.ID, owner)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestBookingService_UpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tour := env.tour(t, "Status", 1000, "USD", 10)

	b, err := env.Bookings.Create(ctx, uuid.New(), transport.CreateBookingRequest{
		TourID: tour.ID, Headcount: 1, TravelDate: futureDate(4), ContactEmail: "s@example.com",
	})
	require.NoError(t, err)

	_, err = env.Bookings.UpdateStatus(ctx, b.ID, "PENDING")
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := env.Bookings.UpdateStatus(ctx, b.ID, "CONFIRMED")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, updated.Status)

	_, err = env.Bookings.UpdateStatus(ctx, b.ID, "CANCELLED")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.Bookings.UpdateStatus(ctx, uuid.New(), "CONFIRMED")
	assert.ErrorIs(t, err, ErrNotFound)
}
