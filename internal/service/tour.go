package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/tourbook/internal/models"
	"github.com/Skotchmaster/tourbook/internal/repo"
	"github.com/Skotchmaster/tourbook/internal/search"
	"github.com/Skotchmaster/tourbook/internal/transport"
	"github.com/Skotchmaster/tourbook/internal/util"
	"github.com/Skotchmaster/tourbook/pkg/events"
	"github.com/Skotchmaster/tourbook/pkg/logging"
	"github.com/Skotchmaster/tourbook/pkg/money"
)

// Searcher is the full text index. A nil Searcher makes Search fall back to
// the database.
type Searcher interface {
	Index(ctx context.Context, doc search.Document) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, publishedOnly bool, from, size int) (int64, []uuid.UUID, error)
}

type TourService struct {
	Repo   *repo.GormRepo
	Search Searcher
	Events events.Publisher
}

// Actor is the authenticated caller as seen by the service layer.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

func (a Actor) Staff() bool {
	return a.Role == models.RoleGuide || a.Role == models.RoleAdmin
}

func (a Actor) Admin() bool {
	return a.Role == models.RoleAdmin
}

type TourQuery struct {
	Page     int
	Size     int
	Category string
	Location string
	Staff    bool
}

func NewTourResponse(t models.Tour) transport.TourResponse {
	return transport.TourResponse{
		Tour:           t,
		PriceFormatted: money.MustFormatMinor(t.PriceMinor, t.Currency),
	}
}

func (s *TourService) List(ctx context.Context, q TourQuery) ([]models.Tour, int64, error) {
	from, limit := util.Calculate(q.Page, q.Size)
	return s.Repo.ListTours(ctx, repo.TourFilter{
		CategorySlug:  q.Category,
		Location:      q.Location,
		PublishedOnly: !q.Staff,
		Offset:        from,
		Limit:         limit,
	})
}

func (s *TourService) Get(ctx context.Context, id uuid.UUID, staff bool) (*models.Tour, error) {
	tour, err := s.Repo.TourByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("tour %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if !tour.Published && !staff {
		return nil, fmt.Errorf("tour %s: %w", id, ErrNotFound)
	}
	return tour, nil
}

func (s *TourService) SearchTours(ctx context.Context, query string, page, size int, staff bool) ([]models.Tour, int64, error) {
	l := logging.FromContext(ctx).With("svc", "tour.search")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, fmt.Errorf("query is required: %w", ErrValidation)
	}
	from, limit := util.Calculate(page, size)

	if s.Search != nil {
		total, ids, err := s.Search.Search(ctx, query, !staff, from, limit)
		if err == nil {
			tours, err := s.Repo.ToursByIDs(ctx, ids)
			if err != nil {
				return nil, 0, err
			}
			return orderByIDs(tours, ids), total, nil
		}
		l.Warn("search_fallback", "reason", "elasticsearch unavailable", "error", err)
	}
	return s.Repo.SearchToursLike(ctx, query, !staff, from, limit)
}

func orderByIDs(tours []models.Tour, ids []uuid.UUID) []models.Tour {
	byID := make(map[uuid.UUID]models.Tour, len(tours))
	for _, t := range tours {
		byID[t.ID] = t
	}
	out := make([]models.Tour, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// MaxPriceMinor caps a tour price so price * MaxHeadcount and cart sums stay
// well inside int64.
const MaxPriceMinor int64 = 1_000_000_000_000

func checkPrice(minor int64) error {
	if minor < 0 || minor > MaxPriceMinor {
		return fmt.Errorf("price must be between 0 and %d: %w", MaxPriceMinor, ErrValidation)
	}
	return nil
}

func (s *TourService) Create(ctx context.Context, actor Actor, req transport.CreateTourRequest) (*models.Tour, error) {
	if !money.Valid(req.Currency) {
		return nil, fmt.Errorf("currency %q: %w", req.Currency, ErrValidation)
	}
	if err := checkPrice(req.PriceMinor); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Title)
	}
	if slug == "" {
		return nil, fmt.Errorf("title produces an empty slug: %w", ErrValidation)
	}
	taken, err := s.Repo.SlugTaken(ctx, slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("slug %q already used: %w", slug, ErrConflict)
	}

	tour := &models.Tour{
		Title:        strings.TrimSpace(req.Title),
		Slug:         slug,
		Description:  req.Description,
		Location:     strings.TrimSpace(req.Location),
		CategoryID:   req.CategoryID,
		PriceMinor:   req.PriceMinor,
		Currency:     req.Currency,
		DurationDays: req.DurationDays,
		MaxGroupSize: req.MaxGroupSize,
		Published:    req.Published,
	}
	if tour.DurationDays == 0 {
		tour.DurationDays = 1
	}
	if tour.MaxGroupSize == 0 {
		tour.MaxGroupSize = 20
	}
	guide := actor.ID
	tour.GuideID = &guide

	if err := s.Repo.CreateTour(ctx, tour); err != nil {
		return nil, err
	}

	s.index(ctx, tour)
	publish(ctx, s.Events, events.TopicTour, tour.ID.String(), map[string]any{
		"type":   "tour_created",
		"tourId": tour.ID,
		"title":  tour.Title,
	})
	return tour, nil
}

func (s *TourService) checkCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	ok, err := s.Repo.CategoryExists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("category %s: %w", id, ErrValidation)
	}
	return nil
}

// owned loads a tour the actor may modify. Guides may only touch their own.
func (s *TourService) owned(ctx context.Context, id uuid.UUID, actor Actor) (*models.Tour, error) {
	tour, err := s.Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if actor.Admin() {
		return tour, nil
	}
	if tour.GuideID == nil || *tour.GuideID != actor.ID {
		return nil, fmt.Errorf("tour %s belongs to another guide: %w", id, ErrForbidden)
	}
	return tour, nil
}

func (s *TourService) Patch(ctx context.Context, id uuid.UUID, actor Actor, req transport.PatchTourRequest) (*models.Tour, error) {
	if _, err := s.owned(ctx, id, actor); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Location != nil {
		fields["location"] = strings.TrimSpace(*req.Location)
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
		fields["category_id"] = *req.CategoryID
	}
	if req.PriceMinor != nil {
		if err := checkPrice(*req.PriceMinor); err != nil {
			return nil, err
		}
		fields["price_minor"] = *req.PriceMinor
	}
	if req.Currency != nil {
		if !money.Valid(*req.Currency) {
			return nil, fmt.Errorf("currency %q: %w", *req.Currency, ErrValidation)
		}
		fields["currency"] = *req.Currency
	}
	if req.DurationDays != nil {
		fields["duration_days"] = *req.DurationDays
	}
	if req.MaxGroupSize != nil {
		fields["max_group_size"] = *req.MaxGroupSize
	}
	if req.Published != nil {
		fields["published"] = *req.Published
	}

	if err := s.Repo.UpdateTour(ctx, id, fields); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("tour %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	tour, err := s.Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	s.index(ctx, tour)
	publish(ctx, s.Events, events.TopicTour, tour.ID.String(), map[string]any{
		"type":   "tour_updated",
		"tourId": tour.ID,
	})
	return tour, nil
}

func (s *TourService) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	if _, err := s.owned(ctx, id, actor); err != nil {
		return err
	}
	booked, err := s.Repo.TourHasBookings(ctx, id)
	if err != nil {
		return err
	}
	if booked {
		return fmt.Errorf("tour %s has bookings: %w", id, ErrConflict)
	}
	if err := s.Repo.DeleteTour(ctx, id); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("tour %s: %w", id, ErrNotFound)
		}
		return err
	}

	if s.Search != nil {
		if err := s.Search.Delete(ctx, id.String()); err != nil {
			logging.FromContext(ctx).Warn("search_delete_failed", "tour_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicTour, id.String(), map[string]any{
		"type":   "tour_deleted",
		"tourId": id,
	})
	return nil
}

func (s *TourService) index(ctx context.Context, tour *models.Tour) {
	if s.Search == nil {
		return
	}
	if err := s.Search.Index(ctx, search.NewDocument(tour)); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "tour_id", tour.ID, "error", err)
	}
}

func (s *TourService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *TourService) CreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}
	if slug == "" {
		slug = Slugify(name)
	}
	taken, err := s.Repo.CategoryTaken(ctx, name, slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("category %q exists: %w", name, ErrConflict)
	}
	cat := &models.Category{Name: name, Slug: slug}
	if err := s.Repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *TourService) Media(ctx context.Context, tourID uuid.UUID, staff bool) ([]models.TourMedia, error) {
	if _, err := s.Get(ctx, tourID, staff); err != nil {
		return nil, err
	}
	return s.Repo.ListMedia(ctx, tourID)
}

func (s *TourService) AddMedia(ctx context.Context, tourID uuid.UUID, actor Actor, req transport.AddMediaRequest) (*models.TourMedia, error) {
	if _, err := s.owned(ctx, tourID, actor); err != nil {
		return nil, err
	}
	kind := models.MediaKind(req.Kind)
	if kind != models.MediaImage && kind != models.MediaVideo {
		return nil, fmt.Errorf("media kind %q: %w", req.Kind, ErrValidation)
	}
	m := &models.TourMedia{
		TourID:   tourID,
		URL:      req.URL,
		Kind:     kind,
		Position: req.Position,
		Caption:  req.Caption,
	}
	if err := s.Repo.AddMedia(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *TourService) DeleteMedia(ctx context.Context, tourID, mediaID uuid.UUID, actor Actor) error {
	if _, err := s.owned(ctx, tourID, actor); err != nil {
		return err
	}
	if err := s.Repo.DeleteMedia(ctx, tourID, mediaID); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("media %s: %w", mediaID, ErrNotFound)
		}
		return err
	}
	return nil
}
