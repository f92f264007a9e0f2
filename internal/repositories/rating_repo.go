package repositories

import "nilai/internal/models"

// RatingRepository defines the interface for rating data access.
// The ratings table is the source of truth for store aggregates.
type RatingRepository interface {
	Create(rating *models.Rating) error
	Update(rating *models.Rating) error
	GetByUserAndStore(userID, storeID string) (*models.Rating, error)
	// ListByStore returns every rating for a store, for aggregate recomputation.
	ListByStore(storeID string) ([]models.Rating, error)
	// ListByUser returns a user's ratings, most recently updated first.
	ListByUser(userID string) ([]models.Rating, error)
	Count() (int64, error)
}
