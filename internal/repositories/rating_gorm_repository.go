package repositories

import (
	"fmt"
	"nilai/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRatingRepository is a GORM implementation of RatingRepository.
type GORMRatingRepository struct {
	db *gorm.DB
}

// NewGORMRatingRepository creates a new instance of GORMRatingRepository.
func NewGORMRatingRepository(db *gorm.DB) *GORMRatingRepository {
	return &GORMRatingRepository{
		db: db,
	}
}

// Create creates a new rating in the database.
func (r *GORMRatingRepository) Create(rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	if err := r.db.Create(rating).Error; err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}
	return nil
}

// Update saves all fields of an existing rating.
func (r *GORMRatingRepository) Update(rating *models.Rating) error {
	res := r.db.Save(rating)
	if res.Error != nil {
		return fmt.Errorf("failed to update rating: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("rating with ID %s for update: %w", rating.ID, ErrNotFound)
	}
	return nil
}

// GetByUserAndStore retrieves the single rating a user gave a store.
func (r *GORMRatingRepository) GetByUserAndStore(userID, storeID string) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.First(&rating, "user_id = ? AND store_id = ?", userID, storeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("rating by user %s for store %s: %w", userID, storeID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get rating by user %s for store %s: %w", userID, storeID, err)
	}
	return &rating, nil
}

// ListByStore retrieves all ratings for a store.
func (r *GORMRatingRepository) ListByStore(storeID string) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.Find(&ratings, "store_id = ?", storeID).Error; err != nil {
		return nil, fmt.Errorf("failed to list ratings for store %s: %w", storeID, err)
	}
	return ratings, nil
}

// ListByUser retrieves a user's ratings, most recently updated first.
func (r *GORMRatingRepository) ListByUser(userID string) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.Order("updated_at DESC").Find(&ratings, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to list ratings for user %s: %w", userID, err)
	}
	return ratings, nil
}

// Count returns the total number of ratings.
func (r *GORMRatingRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Rating{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return count, nil
}
