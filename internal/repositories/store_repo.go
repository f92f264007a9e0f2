package repositories

import "nilai/internal/models"

// StoreRepository defines the interface for store data access.
type StoreRepository interface {
	// Create persists a store with no owner promotion involved.
	Create(store *models.Store) error
	// CreateWithOwner persists the store and promotes the owning user to
	// STORE_OWNER in the same transaction. The store must never become
	// visible while the owner still carries their old role.
	CreateWithOwner(store *models.Store, ownerID string) error
	GetByID(id string) (*models.Store, error)
	GetByEmail(email string) (*models.Store, error)
	GetByOwner(ownerID string) (*models.Store, error)
	List(name, address string) ([]models.Store, error)
	UpdateAggregates(storeID string, averageRating float64, totalRatings int) error
	Count() (int64, error)
}
