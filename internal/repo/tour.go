package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/tourbook/internal/models"
)

type TourFilter struct {
	CategorySlug  string
	Location      string
	PublishedOnly bool
	Offset        int
	Limit         int
}

func (r *GormRepo) ListTours(ctx context.Context, f TourFilter) ([]models.Tour, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Tour{})
	if f.PublishedOnly {
		q = q.Where("tours.published = ?", true)
	}
	if f.Location != "" {
		q = q.Where("LOWER(tours.location) LIKE ?", "%"+strings.ToLower(f.Location)+"%")
	}
	if f.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = tours.category_id").
			Where("categories.slug = ?", f.CategorySlug)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tours []models.Tour
	if err := q.Preload("Category").
		Order("tours.created_at DESC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&tours).Error; err != nil {
		return nil, 0, err
	}
	return tours, total, nil
}

// SearchToursLike is the database fallback for full text search.
func (r *GormRepo) SearchToursLike(ctx context.Context, query string, publishedOnly bool, offset, limit int) ([]models.Tour, int64, error) {
	like := "%" + strings.ToLower(query) + "%"
	q := r.DB.WithContext(ctx).Model(&models.Tour{}).
		Where("LOWER(title) LIKE ? OR LOWER(location) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var tours []models.Tour
	if err := q.Order("title").Offset(offset).Limit(limit).Find(&tours).Error; err != nil {
		return nil, 0, err
	}
	return tours, total, nil
}

func (r *GormRepo) ToursByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Tour, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tours []models.Tour
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&tours).Error; err != nil {
		return nil, err
	}
	return tours, nil
}

func (r *GormRepo) TourByID(ctx context.Context, id uuid.UUID) (*models.Tour, error) {
	var tour models.Tour
	if err := r.DB.WithContext(ctx).
		Preload("Category").
		Preload("Media", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id).
		First(&tour).Error; err != nil {
		return nil, err
	}
	return &tour, nil
}

func (r *GormRepo) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Tour{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) CreateTour(ctx context.Context, tour *models.Tour) error {
	return r.DB.WithContext(ctx).Create(tour).Error
}

func (r *GormRepo) UpdateTour(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.DB.WithContext(ctx).Model(&models.Tour{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) TourHasBookings(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Booking{}).Where("tour_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteTour removes the tour with its media and any cart or wishlist lines
// pointing at it.
func (r *GormRepo) DeleteTour(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dep := range []any{&models.TourMedia{}, &models.CartItem{}, &models.WishlistItem{}} {
			if err := tx.Where("tour_id = ?", id).Delete(dep).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&models.Tour{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := r.DB.WithContext(ctx).Order("name").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *GormRepo) CategoryTaken(ctx context.Context, name, slug string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Category{}).
		Where("name = ? OR slug = ?", name, slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, cat *models.Category) error {
	return r.DB.WithContext(ctx).Create(cat).Error
}

func (r *GormRepo) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) ListMedia(ctx context.Context, tourID uuid.UUID) ([]models.TourMedia, error) {
	var media []models.TourMedia
	if err := r.DB.WithContext(ctx).
		Where("tour_id = ?", tourID).
		Order("position ASC").
		Find(&media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

func (r *GormRepo) AddMedia(ctx context.Context, m *models.TourMedia) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *GormRepo) DeleteMedia(ctx context.Context, tourID, mediaID uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND tour_id = ?", mediaID, tourID).Delete(&models.TourMedia{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
