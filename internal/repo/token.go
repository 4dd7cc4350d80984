package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/tourbook/internal/models"
)

func (r *GormRepo) AddRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(token).Error
}

// revoke flips a live token to revoked. ErrNoRows means it was unknown,
// expired or already revoked.
func revoke(tx *gorm.DB, jti, tokenHash string, now time.Time) error {
	q := tx.Model(&models.RefreshToken{}).
		Where("jti = ? AND revoked = ? AND expires_at > ?", jti, false, now)
	if tokenHash != "" {
		q = q.Where("token_hash = ?", tokenHash)
	}
	res := q.Update("revoked", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoRows
	}
	return nil
}

// RotateRefreshToken revokes the old token and stores the new one atomically.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI, oldHash string, next *models.RefreshToken, now time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := revoke(tx, oldJTI, oldHash, now); err != nil {
			return err
		}
		return tx.Create(next).Error
	})
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, jti string, now time.Time) error {
	return revoke(r.DB.WithContext(ctx), jti, "", now)
}
