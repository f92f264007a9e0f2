package services

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"nilai/internal/models"
	"nilai/internal/repositories"
	"nilai/pkg/rabbitmq"
)

// RatingService owns the rating ledger and keeps each store's cached
// aggregate consistent with it. Submit is an upsert keyed by
// (userID, storeID): the ledger never holds two live rows for the same pair.
type RatingService struct {
	ratingRepo repositories.RatingRepository
	storeRepo  repositories.StoreRepository
	mqClient   *rabbitmq.Client

	// storeLocks serializes the upsert-then-recompute sequence per store,
	// so a recomputation never reads a half-applied ledger and concurrent
	// submissions cannot publish a transient aggregate. Keyed by storeID;
	// submissions to different stores do not contend.
	storeLocks sync.Map // map[string]*sync.Mutex
}

// NewRatingService creates a new RatingService.
func NewRatingService(ratingRepo repositories.RatingRepository, storeRepo repositories.StoreRepository, mqClient *rabbitmq.Client) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		storeRepo:  storeRepo,
		mqClient:   mqClient,
	}
}

func (s *RatingService) lockForStore(storeID string) *sync.Mutex {
	lock, _ := s.storeLocks.LoadOrStore(storeID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// Submit records a user's rating of a store. A first submission inserts a
// row; a re-submission overwrites the existing row's value and timestamp.
// After the write, the store's averageRating and totalRatings are recomputed
// from the full set of rating rows for that store. The returned bool is true
// when an existing rating was updated.
func (s *RatingService) Submit(userID, storeID string, value int) (*models.Rating, bool, error) {
	if value < 1 || value > 5 {
		return nil, false, ErrInvalidRatingValue
	}

	lock := s.lockForStore(storeID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.storeRepo.GetByID(storeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, ErrStoreNotFound
		}
		return nil, false, fmt.Errorf("failed to load store: %w", err)
	}

	var rating *models.Rating
	isUpdate := false

	existing, err := s.ratingRepo.GetByUserAndStore(userID, storeID)
	switch {
	case err == nil:
		existing.Value = value
		if err := s.ratingRepo.Update(existing); err != nil {
			return nil, false, fmt.Errorf("failed to update rating: %w", err)
		}
		rating = existing
		isUpdate = true
	case errors.Is(err, repositories.ErrNotFound):
		rating = &models.Rating{
			UserID:  userID,
			StoreID: storeID,
			Value:   value,
		}
		if err := s.ratingRepo.Create(rating); err != nil {
			return nil, false, fmt.Errorf("failed to create rating: %w", err)
		}
	default:
		return nil, false, fmt.Errorf("failed to look up rating: %w", err)
	}

	if err := s.recomputeAggregates(storeID); err != nil {
		return nil, false, err
	}

	if s.mqClient != nil {
		data := map[string]interface{}{
			"ratingID": rating.ID,
			"userID":   userID,
			"storeID":  storeID,
			"value":    value,
			"update":   isUpdate,
		}
		if err := s.mqClient.PublishEvent("rating.submitted", data); err != nil {
			log.Printf("Warning: Failed to publish rating event for store %s: %v", storeID, err)
		}
	}

	return rating, isUpdate, nil
}

// recomputeAggregates rescans every rating row for the store and writes the
// cached average and count. An empty ledger yields average 0, not null;
// downstream display logic expects a number. Callers must hold the store's
// lock.
func (s *RatingService) recomputeAggregates(storeID string) error {
	ratings, err := s.ratingRepo.ListByStore(storeID)
	if err != nil {
		return fmt.Errorf("failed to scan ratings for store %s: %w", storeID, err)
	}

	average := 0.0
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r.Value
		}
		average = float64(sum) / float64(len(ratings))
	}

	if err := s.storeRepo.UpdateAggregates(storeID, average, len(ratings)); err != nil {
		return fmt.Errorf("failed to update aggregates for store %s: %w", storeID, err)
	}
	return nil
}

// ListForUser returns the user's ratings paired with store summaries, most
// recently updated first.
func (s *RatingService) ListForUser(userID string) ([]models.UserRatingEntry, error) {
	ratings, err := s.ratingRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	entries := make([]models.UserRatingEntry, 0, len(ratings))
	for _, rating := range ratings {
		store, err := s.storeRepo.GetByID(rating.StoreID)
		if err != nil {
			// Stores are never hard-deleted in scope; a missing one here is
			// a storage inconsistency worth logging, not a request failure.
			log.Printf("Rating %s references missing store %s: %v", rating.ID, rating.StoreID, err)
			continue
		}
		entries = append(entries, models.UserRatingEntry{
			Rating: rating,
			Store: models.StoreSummary{
				ID:            store.ID,
				Name:          store.Name,
				Address:       store.Address,
				AverageRating: store.AverageRating,
			},
		})
	}
	return entries, nil
}

// UserRatingFor returns the value the user gave a store, or nil when they
// have not rated it.
func (s *RatingService) UserRatingFor(userID, storeID string) (*int, error) {
	rating, err := s.ratingRepo.GetByUserAndStore(userID, storeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up rating: %w", err)
	}
	value := rating.Value
	return &value, nil
}
