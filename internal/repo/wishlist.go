package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/tourbook/internal/models"
)

func (r *GormRepo) WishlistForUser(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {
	var wl models.Wishlist
	if err := r.DB.WithContext(ctx).
		Where(models.Wishlist{UserID: userID}).
		FirstOrCreate(&wl).Error; err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).
		Preload("Tour").
		Where("wishlist_id = ?", wl.ID).
		Order("created_at ASC").
		Find(&wl.Items).Error; err != nil {
		return nil, err
	}
	return &wl, nil
}

// AddToWishlist is idempotent. The bool reports whether a row was inserted.
func (r *GormRepo) AddToWishlist(ctx context.Context, wishlistID, tourID uuid.UUID) (bool, error) {
	created := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.WishlistItem{}).
			Where("wishlist_id = ? AND tour_id = ?", wishlistID, tourID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		created = true
		return tx.Create(&models.WishlistItem{WishlistID: wishlistID, TourID: tourID}).Error
	})
	return created, err
}

func (r *GormRepo) RemoveFromWishlist(ctx context.Context, wishlistID, tourID uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Where("wishlist_id = ? AND tour_id = ?", wishlistID, tourID).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
