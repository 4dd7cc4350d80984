package transport

import (
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/tourbook/internal/models"
)

// DateLayout is the wire format of travel dates.
const DateLayout = "2006-01-02"

type SignupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name"     validate:"required,max=120"`
	Role     string `json:"role"     validate:"omitempty,oneof=TRAVELER GUIDE ADMIN"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code"  validate:"required,len=6,numeric"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"emailVerified"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          string(u.Role),
		EmailVerified: u.EmailVerified,
	}
}

type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresAt    time.Time    `json:"expiresAt"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=80"`
	Slug string `json:"slug" validate:"omitempty,max=80"`
}

type CreateTourRequest struct {
	Title        string     `json:"title"        validate:"required,max=200"`
	Slug         string     `json:"slug"         validate:"omitempty,max=200"`
	Description  string     `json:"description"  validate:"max=10000"`
	Location     string     `json:"location"     validate:"required,max=200"`
	CategoryID   *uuid.UUID `json:"categoryId"`
	PriceMinor   int64      `json:"priceMinor"   validate:"gte=0,lte=1000000000000"`
	Currency     string     `json:"currency"     validate:"required,len=3,uppercase"`
	DurationDays int        `json:"durationDays" validate:"omitempty,min=1,max=365"`
	MaxGroupSize int        `json:"maxGroupSize" validate:"omitempty,min=1,max=20"`
	Published    bool       `json:"published"`
}

// PatchTourRequest carries optional fields; nil means unchanged.
type PatchTourRequest struct {
	Title        *string    `json:"title"        validate:"omitempty,min=1,max=200"`
	Description  *string    `json:"description"  validate:"omitempty,max=10000"`
	Location     *string    `json:"location"     validate:"omitempty,min=1,max=200"`
	CategoryID   *uuid.UUID `json:"categoryId"`
	PriceMinor   *int64     `json:"priceMinor"   validate:"omitempty,gte=0,lte=1000000000000"`
	Currency     *string    `json:"currency"     validate:"omitempty,len=3,uppercase"`
	DurationDays *int       `json:"durationDays" validate:"omitempty,min=1,max=365"`
	MaxGroupSize *int       `json:"maxGroupSize" validate:"omitempty,min=1,max=20"`
	Published    *bool      `json:"published"`
}

type TourResponse struct {
	models.Tour
	PriceFormatted string `json:"priceFormatted"`
}

type TourListResponse struct {
	Items []TourResponse `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

type AddMediaRequest struct {
	URL      string `json:"url"      validate:"required,url"`
	Kind     string `json:"kind"     validate:"required,oneof=IMAGE VIDEO"`
	Position int    `json:"position" validate:"gte=0"`
	Caption  string `json:"caption"  validate:"max=300"`
}

type AddCartItemRequest struct {
	TourID     uuid.UUID `json:"tourId"     validate:"required"`
	Quantity   int       `json:"quantity"   validate:"required,min=1,max=20"`
	TravelDate string    `json:"travelDate" validate:"required,datetime=2006-01-02"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=20"`
}

type CartItemResponse struct {
	ID                uuid.UUID    `json:"id"`
	TourID            uuid.UUID    `json:"tourId"`
	Tour              *models.Tour `json:"tour,omitempty"`
	TravelDate        string       `json:"travelDate"`
	Quantity          int          `json:"quantity"`
	SubtotalMinor     int64        `json:"subtotalMinor"`
	Currency          string       `json:"currency"`
	SubtotalFormatted string       `json:"subtotalFormatted"`
}

type Total struct {
	Currency        string `json:"currency"`
	AmountMinor     int64  `json:"amountMinor"`
	AmountFormatted string `json:"amountFormatted"`
}

type CartResponse struct {
	ID     uuid.UUID          `json:"id"`
	Items  []CartItemResponse `json:"items"`
	Totals []Total            `json:"totals"`
}

type WishlistRequest struct {
	TourID uuid.UUID `json:"tourId" validate:"required"`
}

type CreateBookingRequest struct {
	TourID       uuid.UUID `json:"tourId"       validate:"required"`
	Headcount    int       `json:"headcount"    validate:"required,min=1,max=20"`
	TravelDate   string    `json:"travelDate"   validate:"required,datetime=2006-01-02"`
	ContactEmail string    `json:"contactEmail" validate:"required,email"`
}

type CheckoutRequest struct {
	ContactEmail string `json:"contactEmail" validate:"required,email"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=CONFIRMED CANCELLED"`
}

type BookingResponse struct {
	models.Booking
	TravelDay      string `json:"travelDay"`
	TotalFormatted string `json:"totalFormatted"`
}

// ConfirmationResponse is the shape the gateway relays on the confirmation page.
type ConfirmationResponse struct {
	BookingID        uuid.UUID `json:"bookingId"`
	ConfirmationCode string    `json:"confirmationCode"`
	Status           string    `json:"status"`
	TourTitle        string    `json:"tourTitle"`
	TravelDate       string    `json:"travelDate"`
	Headcount        int       `json:"headcount"`
	TotalMinor       int64     `json:"totalMinor"`
	Currency         string    `json:"currency"`
	TotalFormatted   string    `json:"totalFormatted"`
	ContactEmail     string    `json:"contactEmail"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
