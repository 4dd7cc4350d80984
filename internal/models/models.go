package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleTraveler Role = "TRAVELER"
	RoleGuide    Role = "GUIDE"
	RoleAdmin    Role = "ADMIN"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

type MediaKind string

const (
	MediaImage MediaKind = "IMAGE"
	MediaVideo MediaKind = "VIDEO"
)

// Base gives every table a uuid key generated on insert.
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type User struct {
	Base
	Email         string `gorm:"uniqueIndex;not null" json:"email"`
	Name          string `gorm:"not null"             json:"name"`
	PasswordHash  string `gorm:"not null"             json:"-"`
	Role          Role   `gorm:"type:varchar(16);not null;default:'TRAVELER'" json:"role"`
	EmailVerified bool   `gorm:"not null;default:false" json:"emailVerified"`
}

type RefreshToken struct {
	Base
	JTI       string    `gorm:"uniqueIndex;not null"   json:"jti"`
	TokenHash string    `gorm:"uniqueIndex;not null"   json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	ExpiresAt time.Time `gorm:"not null"               json:"expiresAt"`
	Revoked   bool      `gorm:"not null;default:false" json:"revoked"`
}

type Category struct {
	Base
	Name string `gorm:"uniqueIndex;not null" json:"name"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`
}

type Tour struct {
	Base
	Title        string      `gorm:"not null"                        json:"title"`
	Slug         string      `gorm:"uniqueIndex;not null"            json:"slug"`
	Description  string      `gorm:"not null;default:''"             json:"description"`
	Location     string      `gorm:"index;not null"                  json:"location"`
	CategoryID   *uuid.UUID  `gorm:"type:uuid;index"                 json:"categoryId,omitempty"`
	Category     *Category   `gorm:"foreignKey:CategoryID"           json:"category,omitempty"`
	PriceMinor   int64       `gorm:"not null;check:price_minor >= 0" json:"priceMinor"`
	Currency     string      `gorm:"type:varchar(3);not null"        json:"currency"`
	DurationDays int         `gorm:"not null;default:1"              json:"durationDays"`
	MaxGroupSize int         `gorm:"not null;default:20"             json:"maxGroupSize"`
	GuideID      *uuid.UUID  `gorm:"type:uuid;index"                 json:"guideId,omitempty"`
	Published    bool        `gorm:"not null;default:false"          json:"published"`
	Media        []TourMedia `gorm:"foreignKey:TourID;constraint:OnDelete:CASCADE" json:"media,omitempty"`
}

type TourMedia struct {
	Base
	TourID   uuid.UUID `gorm:"type:uuid;index;not null"  json:"tourId"`
	URL      string    `gorm:"not null"                  json:"url"`
	Kind     MediaKind `gorm:"type:varchar(8);not null"  json:"kind"`
	Position int       `gorm:"not null;default:0"        json:"position"`
	Caption  string    `gorm:"not null;default:''"       json:"caption"`
}

func (TourMedia) TableName() string {
	return "tour_media"
}

type Cart struct {
	Base
	UserID uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	Items  []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
}

type CartItem struct {
	Base
	CartID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_tour_date;not null" json:"cartId"`
	TourID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_tour_date;not null" json:"tourId"`
	Tour       *Tour     `gorm:"foreignKey:TourID" json:"tour,omitempty"`
	TravelDate time.Time `gorm:"uniqueIndex:idx_cart_tour_date;not null" json:"travelDate"`
	Quantity   int       `gorm:"not null;default:1;check:quantity >= 1" json:"quantity"`
}

type Wishlist struct {
	Base
	UserID uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	Items  []WishlistItem `gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE" json:"items"`
}

type WishlistItem struct {
	Base
	WishlistID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_wishlist_tour;not null" json:"wishlistId"`
	TourID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_wishlist_tour;not null" json:"tourId"`
	Tour       *Tour     `gorm:"foreignKey:TourID" json:"tour,omitempty"`
}

type Booking struct {
	Base
	UserID           uuid.UUID     `gorm:"type:uuid;index;not null"   json:"userId"`
	TourID           uuid.UUID     `gorm:"type:uuid;index;not null"   json:"tourId"`
	Tour             *Tour         `gorm:"foreignKey:TourID"          json:"tour,omitempty"`
	Headcount        int           `gorm:"not null;check:headcount >= 1 AND headcount <= 20" json:"headcount"`
	TravelDate       time.Time     `gorm:"not null"                   json:"travelDate"`
	ContactEmail     string        `gorm:"not null"                   json:"contactEmail"`
	TotalMinor       int64         `gorm:"not null"                   json:"totalMinor"`
	Currency         string        `gorm:"type:varchar(3);not null"   json:"currency"`
	Status           BookingStatus `gorm:"type:varchar(16);index;not null;default:'PENDING'" json:"status"`
	ConfirmationCode string        `gorm:"uniqueIndex;not null"       json:"confirmationCode"`
}

// All lists every table in migration order.
func All() []any {
	return []any{
		&User{}, &RefreshToken{}, &Category{}, &Tour{}, &TourMedia{},
		&Cart{}, &CartItem{}, &Wishlist{}, &WishlistItem{}, &Booking{},
	}
}
