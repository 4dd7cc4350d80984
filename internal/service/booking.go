package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/tourbook/internal/models"
	"github.com/Skotchmaster/tourbook/internal/repo"
	"github.com/Skotchmaster/tourbook/internal/transport"
	"github.com/Skotchmaster/tourbook/pkg/events"
	"github.com/Skotchmaster/tourbook/pkg/logging"
	"github.com/Skotchmaster/tourbook/pkg/money"
)

const (
	MinHeadcount = 1
	MaxHeadcount = 20
)

type BookingService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Now    func() time.Time
}

func (s *BookingService) today() time.Time {
	if s.Now != nil {
		return repo.DayUTC(s.Now().UTC())
	}
	return repo.DayUTC(time.Now().UTC())
}

// NewConfirmationCode returns a code like "TB-3F9A0C1D".
func NewConfirmationCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TB-" + strings.ToUpper(raw[:8])
}

// draft validates one booking request against its tour.
func (s *BookingService) draft(userID uuid.UUID, tour *models.Tour, headcount int, date time.Time, contact string) (models.Booking, error) {
	if headcount < MinHeadcount || headcount > MaxHeadcount {
		return models.Booking{}, fmt.Errorf("headcount must be between %d and %d: %w", MinHeadcount, MaxHeadcount, ErrValidation)
	}
	if tour == nil || !tour.Published {
		return models.Booking{}, fmt.Errorf("tour is not available: %w", ErrNotFound)
	}
	if headcount > tour.MaxGroupSize {
		return models.Booking{}, fmt.Errorf("headcount %d exceeds group size %d of %q: %w", headcount, tour.MaxGroupSize, tour.Title, ErrValidation)
	}
	if !date.After(s.today()) {
		return models.Booking{}, fmt.Errorf("travel date must be in the future: %w", ErrValidation)
	}
	return models.Booking{
		UserID:           userID,
		TourID:           tour.ID,
		Tour:             tour,
		Headcount:        headcount,
		TravelDate:       date,
		ContactEmail:     contact,
		TotalMinor:       tour.PriceMinor * int64(headcount),
		Currency:         tour.Currency,
		Status:           models.BookingPending,
		ConfirmationCode: NewConfirmationCode(),
	}, nil
}

func (s *BookingService) Create(ctx context.Context, userID uuid.UUID, req transport.CreateBookingRequest) (*models.Booking, error) {
	l := logging.FromContext(ctx).With("svc", "booking.create")

	if req.TourID == uuid.Nil || strings.TrimSpace(req.ContactEmail) == "" {
		return nil, fmt.Errorf("tourId and contactEmail are required: %w", ErrValidation)
	}
	if req.Headcount < MinHeadcount || req.Headcount > MaxHeadcount {
		return nil, fmt.Errorf("headcount must be between %d and %d: %w", MinHeadcount, MaxHeadcount, ErrValidation)
	}
	date, err := ParseTravelDate(req.TravelDate)
	if err != nil {
		return nil, err
	}

	tour, err := s.Repo.TourByID(ctx, req.TourID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("tour %s: %w", req.TourID, ErrNotFound)
		}
		return nil, err
	}

	b, err := s.draft(userID, tour, req.Headcount, date, req.ContactEmail)
	if err != nil {
		l.Warn("create_booking_rejected", "reason", err.Error())
		return nil, err
	}
	b.Tour = nil
	if err := s.Repo.CreateBooking(ctx, &b); err != nil {
		return nil, err
	}
	b.Tour = tour

	s.emit(ctx, "booking_created", &b)
	return &b, nil
}

// Checkout books every cart line and empties the cart. Any invalid line
// rolls the whole checkout back.
func (s *BookingService) Checkout(ctx context.Context, userID uuid.UUID, contactEmail string) ([]models.Booking, error) {
	if strings.TrimSpace(contactEmail) == "" {
		return nil, fmt.Errorf("contactEmail is required: %w", ErrValidation)
	}
	cart, err := s.Repo.CartForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.Repo.Checkout(ctx, cart.ID, func(items []models.CartItem) ([]models.Booking, error) {
		if len(items) == 0 {
			return nil, fmt.Errorf("cart is empty: %w", ErrValidation)
		}
		out := make([]models.Booking, 0, len(items))
		for _, it := range items {
			b, err := s.draft(userID, it.Tour, it.Quantity, it.TravelDate, contactEmail)
			if err != nil {
				return nil, err
			}
			b.Tour = nil
			out = append(out, b)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	for i := range bookings {
		s.emit(ctx, "booking_created", &bookings[i])
	}
	publish(ctx, s.Events, events.TopicCart, userID.String(), map[string]any{
		"type":     "cart_checked_out",
		"userId":   userID,
		"bookings": len(bookings),
	})
	return bookings, nil
}

func (s *BookingService) List(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	return s.Repo.ListBookings(ctx, userID)
}

func (s *BookingService) Get(ctx context.Context, id uuid.UUID, actor Actor) (*models.Booking, error) {
	b, err := s.Repo.BookingByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if b.UserID != actor.ID && !actor.Admin() {
		return nil, fmt.Errorf("booking %s: %w", id, ErrForbidden)
	}
	return b, nil
}

func (s *BookingService) Confirmation(ctx context.Context, id uuid.UUID, actor Actor) (*transport.ConfirmationResponse, error) {
	b, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	return NewConfirmation(b), nil
}

func NewConfirmation(b *models.Booking) *transport.ConfirmationResponse {
	title := ""
	if b.Tour != nil {
		title = b.Tour.Title
	}
	return &transport.ConfirmationResponse{
		BookingID:        b.ID,
		ConfirmationCode: b.ConfirmationCode,
		Status:           string(b.Status),
		TourTitle:        title,
		TravelDate:       b.TravelDate.UTC().Format(transport.DateLayout),
		Headcount:        b.Headcount,
		TotalMinor:       b.TotalMinor,
		Currency:         b.Currency,
		TotalFormatted:   money.MustFormatMinor(b.TotalMinor, b.Currency),
		ContactEmail:     b.ContactEmail,
	}
}

func (s *BookingService) Cancel(ctx context.Context, id uuid.UUID, actor Actor) (*models.Booking, error) {
	b, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if b.Status == models.BookingCancelled {
		return nil, fmt.Errorf("booking %s already cancelled: %w", id, ErrConflict)
	}

	from := []models.BookingStatus{models.BookingPending, models.BookingConfirmed}
	if err := s.Repo.TransitionBooking(ctx, id, from, models.BookingCancelled); err != nil {
		if errors.Is(err, repo.ErrNoRows) {
			return nil, fmt.Errorf("booking %s already cancelled: %w", id, ErrConflict)
		}
		return nil, err
	}
	b.Status = models.BookingCancelled

	s.emit(ctx, "booking_cancelled", b)
	return b, nil
}

// UpdateStatus is the admin transition out of PENDING.
func (s *BookingService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Booking, error) {
	to := models.BookingStatus(status)
	if to != models.BookingConfirmed && to != models.BookingCancelled {
		return nil, fmt.Errorf("status %q: %w", status, ErrValidation)
	}

	err := s.Repo.TransitionBooking(ctx, id, []models.BookingStatus{models.BookingPending}, to)
	if err != nil && !errors.Is(err, repo.ErrNoRows) {
		return nil, err
	}

	b, getErr := s.Repo.BookingByID(ctx, id)
	if getErr != nil {
		if isNotFound(getErr) {
			return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
		}
		return nil, getErr
	}
	if err != nil {
		return nil, fmt.Errorf("booking %s is %s: %w", id, b.Status, ErrConflict)
	}

	s.emit(ctx, "booking_status_changed", b)
	return b, nil
}

func (s *BookingService) emit(ctx context.Context, typ string, b *models.Booking) {
	publish(ctx, s.Events, events.TopicBooking, b.ID.String(), map[string]any{
		"type":             typ,
		"bookingId":        b.ID,
		"userId":           b.UserID,
		"tourId":           b.TourID,
		"status":           b.Status,
		"headcount":        b.Headcount,
		"totalMinor":       b.TotalMinor,
		"currency":         b.Currency,
		"confirmationCode": b.ConfirmationCode,
	})
}
