package repo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/tourbook/internal/models"
)

// ErrNoRows is returned by conditional updates that matched nothing.
var ErrNoRows = errors.New("no rows affected")

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func (r *GormRepo) Migrate() error {
	return r.DB.AutoMigrate(models.All()...)
}
