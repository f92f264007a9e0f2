package models

import "gorm.io/gorm"

// Role determines which operations a user may invoke.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleUser       Role = "USER"
	RoleStoreOwner Role = "STORE_OWNER"
)

// User represents an account on the platform.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"type:varchar(60)" validate:"required,min=20,max=60"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never the plaintext
	Address    string `json:"address" gorm:"type:varchar(400)" validate:"required,min=1,max=400"`
	Role       Role   `json:"role" gorm:"type:varchar(20);default:USER" validate:"omitempty,oneof=ADMIN USER STORE_OWNER"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
