package repositories

import (
	"fmt"
	"nilai/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMStoreRepository is a GORM implementation of StoreRepository.
type GORMStoreRepository struct {
	db *gorm.DB
}

// NewGORMStoreRepository creates a new instance of GORMStoreRepository.
func NewGORMStoreRepository(db *gorm.DB) *GORMStoreRepository {
	return &GORMStoreRepository{
		db: db,
	}
}

// Create creates a new store in the database.
func (r *GORMStoreRepository) Create(store *models.Store) error {
	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	if err := r.db.Create(store).Error; err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	return nil
}

// CreateWithOwner creates the store and promotes the owner to STORE_OWNER
// inside a single transaction, so no request can observe the store without
// the role change (or the role change without the store).
func (r *GORMStoreRepository) CreateWithOwner(store *models.Store, ownerID string) error {
	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	store.OwnerID = &ownerID

	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND role <> ?", ownerID, models.RoleStoreOwner).
			Update("role", models.RoleStoreOwner)
		if res.Error != nil {
			return fmt.Errorf("failed to promote owner %s: %w", ownerID, res.Error)
		}
		if err := tx.Create(store).Error; err != nil {
			return fmt.Errorf("failed to create store: %w", err)
		}
		return nil
	})
	return err
}

// GetByID retrieves a single store by its ID from the database.
func (r *GORMStoreRepository) GetByID(id string) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("store with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get store by ID %s: %w", id, err)
	}
	return &store, nil
}

// GetByEmail retrieves a store by its email from the database.
func (r *GORMStoreRepository) GetByEmail(email string) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("store with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get store by email %s: %w", email, err)
	}
	return &store, nil
}

// GetByOwner retrieves the store owned by the given user.
func (r *GORMStoreRepository) GetByOwner(ownerID string) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, "owner_id = ?", ownerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("store owned by %s: %w", ownerID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get store by owner %s: %w", ownerID, err)
	}
	return &store, nil
}

// List retrieves stores ordered by name, optionally filtered by name and
// address substrings.
func (r *GORMStoreRepository) List(name, address string) ([]models.Store, error) {
	query := r.db.Order("name ASC")
	if name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if address != "" {
		query = query.Where("address LIKE ?", "%"+address+"%")
	}

	var stores []models.Store
	if err := query.Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, nil
}

// UpdateAggregates writes the cached rating aggregate for a store.
func (r *GORMStoreRepository) UpdateAggregates(storeID string, averageRating float64, totalRatings int) error {
	res := r.db.Model(&models.Store{}).Where("id = ?", storeID).Updates(map[string]interface{}{
		"average_rating": averageRating,
		"total_ratings":  totalRatings,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update aggregates for store %s: %w", storeID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store with ID %s for aggregate update: %w", storeID, ErrNotFound)
	}
	return nil
}

// Count returns the total number of stores.
func (r *GORMStoreRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Store{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count stores: %w", err)
	}
	return count, nil
}
