package models

import "time"

// Rating is a single user's rating of a store. The composite unique index
// guarantees at most one live row per (user, store) pair; a re-submission
// overwrites the existing row instead of inserting a second one.
type Rating struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);uniqueIndex:idx_ratings_user_store;not null"`
	StoreID   string    `json:"store_id" gorm:"type:varchar(36);uniqueIndex:idx_ratings_user_store;not null"`
	Value     int       `json:"value" gorm:"not null" validate:"required,min=1,max=5"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRatingEntry pairs a rating with a summary of the store it belongs to,
// as returned by the "my ratings" listing.
type UserRatingEntry struct {
	Rating Rating       `json:"rating"`
	Store  StoreSummary `json:"store"`
}

// StoreSummary is the slimmed-down store view embedded in rating listings.
type StoreSummary struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	AverageRating float64 `json:"average_rating"`
}

// StoreRatingEntry pairs a rating with the user who submitted it, as shown
// on the store owner dashboard.
type StoreRatingEntry struct {
	Rating Rating      `json:"rating"`
	User   UserSummary `json:"user"`
}

// UserSummary is the slimmed-down user view embedded in owner dashboards.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
