package services

import (
	"errors"
	"fmt"
	"log"

	"nilai/internal/models"
	"nilai/internal/repositories"
	"nilai/pkg/rabbitmq"
)

// StoreService handles business logic related to stores, including the
// owner-assignment slice: assigning an owner at creation promotes that user
// to STORE_OWNER atomically with the store insert.
type StoreService struct {
	storeRepo  repositories.StoreRepository
	userRepo   repositories.UserRepository
	ratingRepo repositories.RatingRepository
	mqClient   *rabbitmq.Client
}

// NewStoreService creates a new StoreService.
func NewStoreService(storeRepo repositories.StoreRepository, userRepo repositories.UserRepository, ratingRepo repositories.RatingRepository, mqClient *rabbitmq.Client) *StoreService {
	return &StoreService{
		storeRepo:  storeRepo,
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
		mqClient:   mqClient,
	}
}

// StoreWithUserRating is a store listing entry carrying the requesting
// user's own rating when they have one.
type StoreWithUserRating struct {
	models.Store
	UserRating *int `json:"user_rating"`
}

// OwnerDashboard is the store owner's view: their store with the aggregate
// and every rating paired with the submitting user.
type OwnerDashboard struct {
	Store   models.Store              `json:"store"`
	Ratings []models.StoreRatingEntry `json:"ratings"`
}

// CreateStore creates a store. When ownerID is non-empty the referenced user
// must exist and is promoted to STORE_OWNER (if not already) in the same
// transaction as the store insert.
func (s *StoreService) CreateStore(name, email, address, ownerID string) (*models.Store, error) {
	if _, err := s.storeRepo.GetByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing store email: %w", err)
	}

	store := &models.Store{
		Name:    name,
		Email:   email,
		Address: address,
	}

	if ownerID != "" {
		if _, err := s.userRepo.GetByID(ownerID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrOwnerNotFound
			}
			return nil, fmt.Errorf("failed to load owner: %w", err)
		}
		if err := s.storeRepo.CreateWithOwner(store, ownerID); err != nil {
			return nil, fmt.Errorf("failed to create store with owner: %w", err)
		}
	} else {
		if err := s.storeRepo.Create(store); err != nil {
			return nil, fmt.Errorf("failed to create store: %w", err)
		}
	}

	if s.mqClient != nil {
		data := map[string]interface{}{
			"storeID": store.ID,
			"name":    store.Name,
			"ownerID": ownerID,
		}
		if err := s.mqClient.PublishEvent("store.created", data); err != nil {
			log.Printf("Warning: Failed to publish store created event for store %s: %v", store.ID, err)
		}
	}

	return store, nil
}

// ListStores returns stores ordered by name, optionally filtered by name and
// address substrings. When userID is non-empty each entry carries that
// user's own rating of the store.
func (s *StoreService) ListStores(name, address, userID string) ([]StoreWithUserRating, error) {
	stores, err := s.storeRepo.List(name, address)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}

	entries := make([]StoreWithUserRating, 0, len(stores))
	for _, store := range stores {
		entry := StoreWithUserRating{Store: store}
		if userID != "" {
			entry.UserRating, err = s.userRating(userID, store.ID)
			if err != nil {
				return nil, err
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetStore returns a single store. When userID is non-empty the entry
// carries that user's own rating of the store.
func (s *StoreService) GetStore(id, userID string) (*StoreWithUserRating, error) {
	store, err := s.storeRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	entry := &StoreWithUserRating{Store: *store}
	if userID != "" {
		entry.UserRating, err = s.userRating(userID, id)
		if err != nil {
			return nil, err
		}
	}
	return entry, nil
}

func (s *StoreService) userRating(userID, storeID string) (*int, error) {
	rating, err := s.ratingRepo.GetByUserAndStore(userID, storeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up user rating: %w", err)
	}
	value := rating.Value
	return &value, nil
}

// OwnerDashboard returns the store owned by ownerID with its aggregate and
// every rating paired with the submitting user. Fails with ErrStoreNotFound
// when the caller owns no store.
func (s *StoreService) OwnerDashboard(ownerID string) (*OwnerDashboard, error) {
	store, err := s.storeRepo.GetByOwner(ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to load owned store: %w", err)
	}

	ratings, err := s.ratingRepo.ListByStore(store.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list store ratings: %w", err)
	}

	entries := make([]models.StoreRatingEntry, 0, len(ratings))
	for _, rating := range ratings {
		entry := models.StoreRatingEntry{Rating: rating}
		user, err := s.userRepo.GetByID(rating.UserID)
		if err != nil {
			log.Printf("Rating %s references missing user %s: %v", rating.ID, rating.UserID, err)
		} else {
			entry.User = models.UserSummary{ID: user.ID, Name: user.Name, Email: user.Email}
		}
		entries = append(entries, entry)
	}

	return &OwnerDashboard{
		Store:   *store,
		Ratings: entries,
	}, nil
}
