package models

import "gorm.io/gorm"

// Store represents a rateable store.
//
// AverageRating and TotalRatings are a cache derived from the rating rows;
// the rating table stays the source of truth and both fields are recomputed
// after every rating write.
type Store struct {
	ID            string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name          string  `json:"name" gorm:"type:varchar(60)" validate:"required,min=1,max=60"`
	Email         string  `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Address       string  `json:"address" gorm:"type:varchar(400)" validate:"required,min=1,max=400"`
	OwnerID       *string `json:"owner_id,omitempty" gorm:"type:varchar(36)"`
	AverageRating float64 `json:"average_rating" gorm:"default:0"`
	TotalRatings  int     `json:"total_ratings" gorm:"default:0"`
	gorm.Model            // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
