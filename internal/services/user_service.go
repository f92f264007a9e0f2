package services

import (
	"errors"
	"fmt"

	"nilai/internal/models"
	"nilai/internal/repositories"
)

// UserService handles the admin-facing user operations: listings, detail
// views and dashboard statistics. Account creation goes through AuthService
// so the password policy and hashing are applied in one place.
type UserService struct {
	userRepo   repositories.UserRepository
	storeRepo  repositories.StoreRepository
	ratingRepo repositories.RatingRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, storeRepo repositories.StoreRepository, ratingRepo repositories.RatingRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		storeRepo:  storeRepo,
		ratingRepo: ratingRepo,
	}
}

// UserDetail is the admin view of a user, including their store when they
// own one.
type UserDetail struct {
	models.User
	OwnedStore *models.Store `json:"owned_store,omitempty"`
}

// DashboardStats are the admin dashboard totals.
type DashboardStats struct {
	TotalUsers   int64 `json:"total_users"`
	TotalStores  int64 `json:"total_stores"`
	TotalRatings int64 `json:"total_ratings"`
}

// ListUsers returns users matching the filter, ordered by name.
func (s *UserService) ListUsers(filter repositories.UserFilter) ([]models.User, error) {
	users, err := s.userRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser returns a user by ID, with their owned store when present.
func (s *UserService) GetUser(id string) (*UserDetail, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	detail := &UserDetail{User: *user}
	store, err := s.storeRepo.GetByOwner(id)
	if err == nil {
		detail.OwnedStore = store
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to load owned store: %w", err)
	}
	return detail, nil
}

// Stats returns the admin dashboard totals.
func (s *UserService) Stats() (*DashboardStats, error) {
	totalUsers, err := s.userRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	totalStores, err := s.storeRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count stores: %w", err)
	}
	totalRatings, err := s.ratingRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count ratings: %w", err)
	}

	return &DashboardStats{
		TotalUsers:   totalUsers,
		TotalStores:  totalStores,
		TotalRatings: totalRatings,
	}, nil
}
