package repositories

import "nilai/internal/models"

// UserFilter narrows admin user listings. Zero-value fields are ignored.
type UserFilter struct {
	Name    string
	Email   string
	Address string
	Role    models.Role
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	List(filter UserFilter) ([]models.User, error)
	Update(user *models.User) error
	Count() (int64, error)
}
