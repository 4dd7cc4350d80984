package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/tourbook/internal/models"
	"github.com/Skotchmaster/tourbook/pkg/events"
)

func TestCartService_AddMergesSameTourAndDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()
	tour := env.tour(t, "Douro Valley", 9050, "USD", 12)
	date := futureDate(30)

	first, err := env.Cart.Add(ctx, user, tour.ID, 2, date)
	require.NoError(t, err)
	second, err := env.Cart.Add(ctx, user, tour.ID, 3, date)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	_, err = env.Cart.Add(ctx, user, tour.ID, 1, futureDate(31))
	require.NoError(t, err)

	cart, err := env.Cart.Get(ctx, user)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	require.Len(t, cart.Totals, 1)
	assert.Equal(t, int64(9050*6), cart.Totals[0].AmountMinor)
	assert.Equal(t, "USD", cart.Totals[0].Currency)
	assert.Equal(t,
		[]string{"cart_item_added", "cart_item_added", "cart_item_added"},
		env.Events.Types(events.TopicCart))
}

func TestCartService_Add_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()
	tour := env.tour(t, "Sintra", 1000, "EUR", 10)

	_, err := env.Cart.Add(ctx, user, tour.ID, 0, futureDate(3))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.Cart.Add(ctx, user, tour.ID, 1, "03/04/2031")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.Cart.Add(ctx, user, tour.ID, 1, futureDate(-1))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.Cart.Add(ctx, user, uuid.New(), 1, futureDate(3))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_PerCurrencyTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()
	usd := env.tour(t, "NYC", 9050, "USD", 10)
	jpy := env.tour(t, "Kyoto", 9050, "JPY", 10)

	_, err := env.Cart.Add(ctx, user, usd.ID, 1, futureDate(5))
	require.NoError(t, err)
	_, err = env.Cart.Add(ctx, user, jpy.ID, 2, futureDate(5))
	require.NoError(t, err)

	cart, err := env.Cart.Get(ctx, user)
	require.NoError(t, err)
	require.Len(t, cart.Totals, 2)
	assert.Equal(t, "JPY", cart.Totals[0].Currency)
	assert.Equal(t, int64(18100), cart.Totals[0].AmountMinor)
	assert.Contains(t, cart.Totals[0].AmountFormatted, "18,100")
	assert.Equal(t, "USD", cart.Totals[1].Currency)
	assert.Contains(t, cart.Totals[1].AmountFormatted, "90.50")
}

func TestCartService_UpdateRemoveClear(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()
	other := uuid.New()
	tour := env.tour(t, "Madeira", 1000, "EUR", 10)

	item, err := env.Cart.Add(ctx, user, tour.ID, 1, futureDate(7))
	require.NoError(t, err)

	_, err = env.Cart.Update(ctx, user, item.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := env.Cart.Update(ctx, user, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	_, err = env.Cart.Update(ctx, other, item.ID, 2)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, env.Cart.Remove(ctx, other, item.ID), ErrNotFound)

	require.NoError(t, env.Cart.Remove(ctx, user, item.ID))
	assert.ErrorIs(t, env.Cart.Remove(ctx, user, item.ID), ErrNotFound)

	_, err = env.Cart.Add(ctx, user, tour.ID, 1, futureDate(8))
	require.NoError(t, err)
	require.NoError(t, env.Cart.Clear(ctx, user))

	cart, err := env.Cart.Get(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Empty(t, cart.Totals)
}

func TestBuildCart_SkipsMissingTour(t *testing.T) {
	resp := BuildCart(uuid.New(), []models.CartItem{{Quantity: 2}})
	require.Len(t, resp.Items, 1)
	assert.Empty(t, resp.Totals)
}
