package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/tourbook/internal/models"
)

func (r *GormRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

// BuildBookings turns cart lines into bookings; it runs inside the checkout
// transaction so an error aborts everything.
type BuildBookings func(items []models.CartItem) ([]models.Booking, error)

// Checkout converts every cart line into a booking and empties the cart in a
// single transaction.
func (r *GormRepo) Checkout(ctx context.Context, cartID uuid.UUID, build BuildBookings) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Preload("Tour").
			Where("cart_id = ?", cartID).
			Order("created_at ASC").
			Find(&items).Error; err != nil {
			return err
		}

		var err error
		bookings, err = build(items)
		if err != nil {
			return err
		}

		for i := range bookings {
			if err := tx.Create(&bookings[i]).Error; err != nil {
				return err
			}
		}
		return tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormRepo) ListBookings(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := r.DB.WithContext(ctx).
		Preload("Tour").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormRepo) BookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	if err := r.DB.WithContext(ctx).Preload("Tour").Where("id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// TransitionBooking moves a booking to status `to` only if its current
// status is one of `from`. ErrNoRows means the guard did not match.
func (r *GormRepo) TransitionBooking(ctx context.Context, id uuid.UUID, from []models.BookingStatus, to models.BookingStatus) error {
	res := r.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoRows
	}
	return nil
}
