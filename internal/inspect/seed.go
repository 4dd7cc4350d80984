package inspect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Skotchmaster/tourbook/internal/models"
	"github.com/Skotchmaster/tourbook/internal/repo"
	"github.com/Skotchmaster/tourbook/internal/service"
	"github.com/Skotchmaster/tourbook/pkg/money"
)

var ErrInvalidSeed = errors.New("invalid seed file")

type SeedMedia struct {
	URL     string `yaml:"url"`
	Kind    string `yaml:"kind"`
	Caption string `yaml:"caption"`
}

type SeedTour struct {
	Title        string      `yaml:"title"`
	Description  string      `yaml:"description"`
	Location     string      `yaml:"location"`
	Category     string      `yaml:"category"`
	PriceMinor   int64       `yaml:"priceMinor"`
	Currency     string      `yaml:"currency"`
	DurationDays int         `yaml:"durationDays"`
	MaxGroupSize int         `yaml:"maxGroupSize"`
	Published    *bool       `yaml:"published"`
	Media        []SeedMedia `yaml:"media"`
}

type Seed struct {
	Categories []string   `yaml:"categories"`
	Tours      []SeedTour `yaml:"tours"`
}

type SeedResult struct {
	Categories int
	Tours      int
	Media      int
	Skipped    int
}

// ParseSeed decodes a YAML seed and fills defaults. Tours naming a category
// that is not listed get it appended to Categories.
func ParseSeed(r io.Reader) (*Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	if err := s.normalize(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Seed) normalize() error {
	known := map[string]bool{}
	for _, c := range s.Categories {
		known[strings.ToLower(c)] = true
	}

	for i := range s.Tours {
		t := &s.Tours[i]
		t.Title = strings.TrimSpace(t.Title)
		if t.Title == "" {
			return fmt.Errorf("%w: tour %d has no title", ErrInvalidSeed, i+1)
		}
		if t.Location == "" {
			return fmt.Errorf("%w: tour %q has no location", ErrInvalidSeed, t.Title)
		}
		t.Currency = strings.ToUpper(strings.TrimSpace(t.Currency))
		if t.Currency == "" {
			t.Currency = "USD"
		}
		if !money.Valid(t.Currency) {
			return fmt.Errorf("%w: tour %q: unknown currency %q", ErrInvalidSeed, t.Title, t.Currency)
		}
		if t.PriceMinor < 0 {
			return fmt.Errorf("%w: tour %q: negative price", ErrInvalidSeed, t.Title)
		}
		if t.DurationDays <= 0 {
			t.DurationDays = 1
		}
		if t.MaxGroupSize <= 0 || t.MaxGroupSize > service.MaxHeadcount {
			t.MaxGroupSize = service.MaxHeadcount
		}
		if t.Published == nil {
			yes := true
			t.Published = &yes
		}
		for j := range t.Media {
			m := &t.Media[j]
			m.Kind = strings.ToUpper(m.Kind)
			if m.Kind == "" {
				m.Kind = string(models.MediaImage)
			}
			if m.Kind != string(models.MediaImage) && m.Kind != string(models.MediaVideo) {
				return fmt.Errorf("%w: tour %q: media kind %q", ErrInvalidSeed, t.Title, m.Kind)
			}
		}
		if t.Category != "" && !known[strings.ToLower(t.Category)] {
			known[strings.ToLower(t.Category)] = true
			s.Categories = append(s.Categories, t.Category)
		}
	}
	return nil
}

// DefaultSeed is used when no seed file is given.
func DefaultSeed() *Seed {
	yes := true
	img := func(slug string) []SeedMedia {
		return []SeedMedia{{URL: "https://images.example.com/tours/" + slug + ".jpg", Kind: string(models.MediaImage)}}
	}
	return &Seed{
		Categories: []string{"Culture", "Adventure", "Food & Drink"},
		Tours: []SeedTour{
			{Title: "Kyoto Temple Walk", Location: "Kyoto", Category: "Culture", PriceMinor: 9050, Currency: "JPY", DurationDays: 1, MaxGroupSize: 12, Published: &yes, Media: img("kyoto")},
			{Title: "Lisbon Tram & Tapas", Location: "Lisbon", Category: "Food & Drink", PriceMinor: 6500, Currency: "EUR", DurationDays: 1, MaxGroupSize: 10, Published: &yes, Media: img("lisbon")},
			{Title: "Patagonia Glacier Trek", Location: "El Calafate", Category: "Adventure", PriceMinor: 129900, Currency: "USD", DurationDays: 5, MaxGroupSize: 8, Published: &yes, Media: img("patagonia")},
			{Title: "Alpine Lakes Hike", Location: "Interlaken", Category: "Adventure", PriceMinor: 18000, Currency: "CHF", DurationDays: 3, MaxGroupSize: 14, Published: &yes, Media: img("alpine")},
			{Title: "Hanoi Street Food Night", Location: "Hanoi", Category: "Food & Drink", PriceMinor: 3500, Currency: "USD", DurationDays: 1, MaxGroupSize: 16, Published: &yes, Media: img("hanoi")},
		},
	}
}

// ApplySeed inserts categories and tours whose slug is not taken yet.
func ApplySeed(ctx context.Context, r *repo.GormRepo, s *Seed) (SeedResult, error) {
	var res SeedResult

	for _, name := range s.Categories {
		slug := service.Slugify(name)
		taken, err := r.CategoryTaken(ctx, name, slug)
		if err != nil {
			return res, fmt.Errorf("check category %q: %w", name, err)
		}
		if taken {
			res.Skipped++
			continue
		}
		if err := r.CreateCategory(ctx, &models.Category{Name: name, Slug: slug}); err != nil {
			return res, fmt.Errorf("create category %q: %w", name, err)
		}
		res.Categories++
	}

	cats, err := r.ListCategories(ctx)
	if err != nil {
		return res, fmt.Errorf("list categories: %w", err)
	}
	bySlug := make(map[string]models.Category, len(cats))
	for _, c := range cats {
		bySlug[c.Slug] = c
	}

	for _, st := range s.Tours {
		slug := service.Slugify(st.Title)
		taken, err := r.SlugTaken(ctx, slug)
		if err != nil {
			return res, fmt.Errorf("check tour %q: %w", st.Title, err)
		}
		if taken {
			res.Skipped++
			continue
		}

		tour := &models.Tour{
			Title:        st.Title,
			Slug:         slug,
			Description:  st.Description,
			Location:     st.Location,
			PriceMinor:   st.PriceMinor,
			Currency:     st.Currency,
			DurationDays: st.DurationDays,
			MaxGroupSize: st.MaxGroupSize,
			Published:    st.Published != nil && *st.Published,
		}
		if st.Category != "" {
			if c, ok := bySlug[service.Slugify(st.Category)]; ok {
				id := c.ID
				tour.CategoryID = &id
			}
		}
		if err := r.CreateTour(ctx, tour); err != nil {
			return res, fmt.Errorf("create tour %q: %w", st.Title, err)
		}
		res.Tours++

		for pos, m := range st.Media {
			if err := r.AddMedia(ctx, &models.TourMedia{
				TourID:   tour.ID,
				URL:      m.URL,
				Kind:     models.MediaKind(m.Kind),
				Position: pos,
				Caption:  m.Caption,
			}); err != nil {
				return res, fmt.Errorf("add media to %q: %w", st.Title, err)
			}
			res.Media++
		}
	}
	return res, nil
}
