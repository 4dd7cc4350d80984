package gateway

import (
	"hash/fnv"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/tourbook/internal/models"
	"github.com/Skotchmaster/tourbook/internal/transport"
	"github.com/Skotchmaster/tourbook/pkg/money"
)

type demoTour struct {
	title    string
	location string
	price    int64
	currency string
	days     int
}

var demoTours = []demoTour{
	{"Kyoto Temple Walk", "Kyoto", 9050, "JPY", 1},
	{"Lisbon Tram & Tapas", "Lisbon", 6500, "EUR", 1},
	{"Patagonia Glacier Trek", "El Calafate", 129900, "USD", 5},
	{"Fjord Kayak Weekend", "Bergen", 450000, "NOK", 2},
	{"Marrakesh Souk Tour", "Marrakesh", 4000, "EUR", 1},
	{"Bahrain Pearl Diving", "Muharraq", 85500, "BHD", 1},
	{"Alpine Lakes Hike", "Interlaken", 18000, "CHF", 3},
	{"Hanoi Street Food Night", "Hanoi", 3500, "USD", 1},
}

func demoID(title string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("tourbook:demo:"+title))
}

func demoTourModel(d demoTour) models.Tour {
	t := models.Tour{
		Title:        d.title,
		Slug:         demoID(d.title).String()[:8],
		Location:     d.location,
		Description:  "Demo tour in " + d.location,
		PriceMinor:   d.price,
		Currency:     d.currency,
		DurationDays: d.days,
		MaxGroupSize: 12,
		Published:    true,
	}
	t.ID = demoID(d.title)
	return t
}

// MockFeaturedTours returns the first n demo tours in list form.
func MockFeaturedTours(n int) transport.TourListResponse {
	if n <= 0 || n > len(demoTours) {
		n = len(demoTours)
	}
	items := make([]transport.TourResponse, 0, n)
	for _, d := range demoTours[:n] {
		t := demoTourModel(d)
		items = append(items, transport.TourResponse{
			Tour:           t,
			PriceFormatted: money.MustFormatMinor(t.PriceMinor, t.Currency),
		})
	}
	return transport.TourListResponse{Items: items, Total: int64(len(demoTours)), Page: 1, Size: n}
}

// MockConfirmation builds a confirmation for bookingID. The same id always
// yields the same booking.
func MockConfirmation(bookingID string, now time.Time) transport.ConfirmationResponse {
	h := fnv.New64a()
	_, _ = h.Write([]byte(bookingID))
	seed := h.Sum64()
	r := rand.New(rand.NewPCG(seed, seed>>1|1))

	d := demoTours[r.IntN(len(demoTours))]
	headcount := 1 + r.IntN(6)
	total := d.price * int64(headcount)
	travel := now.UTC().AddDate(0, 0, 7+r.IntN(60))

	id, err := uuid.Parse(bookingID)
	if err != nil {
		id = uuid.NewSHA1(uuid.NameSpaceURL, []byte("tourbook:booking:"+bookingID))
	}

	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	code := make([]byte, 8)
	for i := range code {
		code[i] = alphabet[r.IntN(len(alphabet))]
	}

	return transport.ConfirmationResponse{
		BookingID:        id,
		ConfirmationCode: "TB-" + string(code),
		Status:           string(models.BookingConfirmed),
		TourTitle:        d.title,
		TravelDate:       travel.Format(transport.DateLayout),
		Headcount:        headcount,
		TotalMinor:       total,
		Currency:         d.currency,
		TotalFormatted:   money.MustFormatMinor(total, d.currency),
		ContactEmail:     "traveler@example.com",
	}
}
