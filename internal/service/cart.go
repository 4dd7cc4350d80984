package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/tourbook/internal/models"
	"github.com/Skotchmaster/tourbook/internal/repo"
	"github.com/Skotchmaster/tourbook/internal/transport"
	"github.com/Skotchmaster/tourbook/pkg/events"
	"github.com/Skotchmaster/tourbook/pkg/money"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Now    func() time.Time
}

func (s *CartService) today() time.Time {
	if s.Now != nil {
		return repo.DayUTC(s.Now().UTC())
	}
	return repo.DayUTC(time.Now().UTC())
}

// ParseTravelDate reads a YYYY-MM-DD date as midnight UTC.
func ParseTravelDate(v string) (time.Time, error) {
	d, err := time.Parse(transport.DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("travel date %q: %w", v, ErrValidation)
	}
	return d.UTC(), nil
}

func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*transport.CartResponse, error) {
	cart, err := s.Repo.CartForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.CartItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	return BuildCart(cart.ID, items), nil
}

// BuildCart resolves subtotals and sums them per currency; mixed currency
// carts get one total per currency.
func BuildCart(cartID uuid.UUID, items []models.CartItem) *transport.CartResponse {
	resp := &transport.CartResponse{
		ID:     cartID,
		Items:  make([]transport.CartItemResponse, 0, len(items)),
		Totals: []transport.Total{},
	}
	sums := map[string]int64{}
	for _, it := range items {
		line := transport.CartItemResponse{
			ID:         it.ID,
			TourID:     it.TourID,
			Tour:       it.Tour,
			TravelDate: it.TravelDate.UTC().Format(transport.DateLayout),
			Quantity:   it.Quantity,
		}
		if it.Tour != nil {
			line.Currency = it.Tour.Currency
			line.SubtotalMinor = it.Tour.PriceMinor * int64(it.Quantity)
			line.SubtotalFormatted = money.MustFormatMinor(line.SubtotalMinor, line.Currency)
			sums[line.Currency] += line.SubtotalMinor
		}
		resp.Items = append(resp.Items, line)
	}

	currencies := make([]string, 0, len(sums))
	for c := range sums {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)
	for _, c := range currencies {
		resp.Totals = append(resp.Totals, transport.Total{
			Currency:        c,
			AmountMinor:     sums[c],
			AmountFormatted: money.MustFormatMinor(sums[c], c),
		})
	}
	return resp
}

func (s *CartService) Add(ctx context.Context, userID uuid.UUID, tourID uuid.UUID, quantity int, travelDate string) (*models.CartItem, error) {
	if tourID == uuid.Nil {
		return nil, fmt.Errorf("tour id must be set: %w", ErrValidation)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}
	date, err := ParseTravelDate(travelDate)
	if err != nil {
		return nil, err
	}
	if !date.After(s.today()) {
		return nil, fmt.Errorf("travel date must be in the future: %w", ErrValidation)
	}

	tour, err := s.Repo.TourByID(ctx, tourID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("tour %s: %w", tourID, ErrNotFound)
		}
		return nil, err
	}
	if !tour.Published {
		return nil, fmt.Errorf("tour %s: %w", tourID, ErrNotFound)
	}

	cart, err := s.Repo.CartForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	item := &models.CartItem{
		CartID:     cart.ID,
		TourID:     tourID,
		TravelDate: date,
		Quantity:   quantity,
	}
	if err := s.Repo.AddToCart(ctx, item); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicCart, userID.String(), map[string]any{
		"type":     "cart_item_added",
		"userId":   userID,
		"tourId":   tourID,
		"quantity": item.Quantity,
	})
	return item, nil
}

func (s *CartService) Update(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}
	cart, err := s.Repo.CartForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	item, err := s.Repo.UpdateCartItem(ctx, cart.ID, itemID, quantity)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
		}
		return nil, err
	}

	publish(ctx, s.Events, events.TopicCart, userID.String(), map[string]any{
		"type":     "cart_item_updated",
		"userId":   userID,
		"itemId":   itemID,
		"quantity": quantity,
	})
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	cart, err := s.Repo.CartForUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.Repo.RemoveCartItem(ctx, cart.ID, itemID); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
		}
		return err
	}

	publish(ctx, s.Events, events.TopicCart, userID.String(), map[string]any{
		"type":   "cart_item_removed",
		"userId": userID,
		"itemId": itemID,
	})
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.Repo.CartForUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.Repo.ClearCart(ctx, cart.ID); err != nil {
		return err
	}

	publish(ctx, s.Events, events.TopicCart, userID.String(), map[string]any{
		"type":   "cart_cleared",
		"userId": userID,
	})
	return nil
}
