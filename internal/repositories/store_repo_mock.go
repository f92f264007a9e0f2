package repositories

import (
	"fmt"
	"strings"
	"sync"
	"nilai/internal/models"

	"github.com/google/uuid"
)

// MockStoreRepository is an in-memory implementation of StoreRepository.
// It shares a MockUserRepository so CreateWithOwner can apply the role
// promotion and the store insert as one step under its lock.
type MockStoreRepository struct {
	stores map[string]models.Store
	users  *MockUserRepository
	mu     sync.RWMutex
}

// NewMockStoreRepository creates a new instance of MockStoreRepository.
func NewMockStoreRepository(users *MockUserRepository) *MockStoreRepository {
	return &MockStoreRepository{
		stores: make(map[string]models.Store),
		users:  users,
	}
}

// Create adds a new store.
func (r *MockStoreRepository) Create(store *models.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	r.stores[store.ID] = *store
	return nil
}

// CreateWithOwner adds a store and promotes its owner to STORE_OWNER.
func (r *MockStoreRepository) CreateWithOwner(store *models.Store, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner, err := r.users.GetByID(ownerID)
	if err != nil {
		return err
	}
	if owner.Role != models.RoleStoreOwner {
		owner.Role = models.RoleStoreOwner
		if err := r.users.Update(owner); err != nil {
			return err
		}
	}

	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	store.OwnerID = &ownerID
	r.stores[store.ID] = *store
	return nil
}

// GetByID returns a store by its ID.
func (r *MockStoreRepository) GetByID(id string) (*models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	store, ok := r.stores[id]
	if !ok {
		return nil, fmt.Errorf("store with ID %s: %w", id, ErrNotFound)
	}
	return &store, nil
}

// GetByEmail returns a store by its email.
func (r *MockStoreRepository) GetByEmail(email string) (*models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, store := range r.stores {
		if store.Email == email {
			s := store
			return &s, nil
		}
	}
	return nil, fmt.Errorf("store with email %s: %w", email, ErrNotFound)
}

// GetByOwner returns the store owned by the given user.
func (r *MockStoreRepository) GetByOwner(ownerID string) (*models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, store := range r.stores {
		if store.OwnerID != nil && *store.OwnerID == ownerID {
			s := store
			return &s, nil
		}
	}
	return nil, fmt.Errorf("store owned by %s: %w", ownerID, ErrNotFound)
}

// List returns stores matching the optional name and address filters.
func (r *MockStoreRepository) List(name, address string) ([]models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	storeList := make([]models.Store, 0, len(r.stores))
	for _, store := range r.stores {
		if name != "" && !strings.Contains(store.Name, name) {
			continue
		}
		if address != "" && !strings.Contains(store.Address, address) {
			continue
		}
		storeList = append(storeList, store)
	}
	return storeList, nil
}

// UpdateAggregates writes the cached rating aggregate for a store.
func (r *MockStoreRepository) UpdateAggregates(storeID string, averageRating float64, totalRatings int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, ok := r.stores[storeID]
	if !ok {
		return fmt.Errorf("store with ID %s for aggregate update: %w", storeID, ErrNotFound)
	}
	store.AverageRating = averageRating
	store.TotalRatings = totalRatings
	r.stores[storeID] = store
	return nil
}

// Count returns the number of stores.
func (r *MockStoreRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.stores)), nil
}
