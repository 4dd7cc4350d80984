package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/tourbook/internal/models"
	"github.com/Skotchmaster/tourbook/internal/repo"
	"github.com/Skotchmaster/tourbook/pkg/events"
)

type WishlistService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *WishlistService) Get(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {
	return s.Repo.WishlistForUser(ctx, userID)
}

func (s *WishlistService) Add(ctx context.Context, userID, tourID uuid.UUID) (*models.Wishlist, error) {
	if tourID == uuid.Nil {
		return nil, fmt.Errorf("tour id must be set: %w", ErrValidation)
	}
	tour, err := s.Repo.TourByID(ctx, tourID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("tour %s: %w", tourID, ErrNotFound)
		}
		return nil, err
	}
	if !tour.Published {
		return nil, fmt.Errorf("tour %s: %w", tourID, ErrNotFound)
	}

	wl, err := s.Repo.WishlistForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	created, err := s.Repo.AddToWishlist(ctx, wl.ID, tourID)
	if err != nil {
		return nil, err
	}
	if created {
		publish(ctx, s.Events, events.TopicWishlist, userID.String(), map[string]any{
			"type":   "wishlist_item_added",
			"userId": userID,
			"tourId": tourID,
		})
	}
	return s.Repo.WishlistForUser(ctx, userID)
}

func (s *WishlistService) Remove(ctx context.Context, userID, tourID uuid.UUID) error {
	wl, err := s.Repo.WishlistForUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.Repo.RemoveFromWishlist(ctx, wl.ID, tourID); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("tour %s not in wishlist: %w", tourID, ErrNotFound)
		}
		return err
	}

	publish(ctx, s.Events, events.TopicWishlist, userID.String(), map[string]any{
		"type":   "wishlist_item_removed",
		"userId": userID,
		"tourId": tourID,
	})
	return nil
}
