package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"
	"nilai/internal/models"

	"github.com/google/uuid"
)

// MockRatingRepository is an in-memory implementation of RatingRepository.
type MockRatingRepository struct {
	ratings map[string]models.Rating
	mu      sync.RWMutex
}

// NewMockRatingRepository creates a new instance of MockRatingRepository.
func NewMockRatingRepository() *MockRatingRepository {
	return &MockRatingRepository{
		ratings: make(map[string]models.Rating),
	}
}

// Create adds a new rating.
func (r *MockRatingRepository) Create(rating *models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.ratings {
		if existing.UserID == rating.UserID && existing.StoreID == rating.StoreID {
			return fmt.Errorf("rating by user %s for store %s already exists", rating.UserID, rating.StoreID)
		}
	}

	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	rating.CreatedAt = time.Now()
	rating.UpdatedAt = time.Now()
	r.ratings[rating.ID] = *rating
	return nil
}

// Update modifies an existing rating.
func (r *MockRatingRepository) Update(rating *models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.ratings[rating.ID]
	if !ok {
		return fmt.Errorf("rating with ID %s for update: %w", rating.ID, ErrNotFound)
	}
	rating.UpdatedAt = time.Now()
	r.ratings[rating.ID] = *rating
	return nil
}

// GetByUserAndStore returns the single rating a user gave a store.
func (r *MockRatingRepository) GetByUserAndStore(userID, storeID string) (*models.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rating := range r.ratings {
		if rating.UserID == userID && rating.StoreID == storeID {
			rt := rating
			return &rt, nil
		}
	}
	return nil, fmt.Errorf("rating by user %s for store %s: %w", userID, storeID, ErrNotFound)
}

// ListByStore returns all ratings for a store.
func (r *MockRatingRepository) ListByStore(storeID string) ([]models.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ratingList := make([]models.Rating, 0)
	for _, rating := range r.ratings {
		if rating.StoreID == storeID {
			ratingList = append(ratingList, rating)
		}
	}
	return ratingList, nil
}

// ListByUser returns a user's ratings, most recently updated first.
func (r *MockRatingRepository) ListByUser(userID string) ([]models.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ratingList := make([]models.Rating, 0)
	for _, rating := range r.ratings {
		if rating.UserID == userID {
			ratingList = append(ratingList, rating)
		}
	}
	sort.Slice(ratingList, func(i, j int) bool {
		return ratingList[i].UpdatedAt.After(ratingList[j].UpdatedAt)
	})
	return ratingList, nil
}

// Count returns the number of ratings.
func (r *MockRatingRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.ratings)), nil
}
