package services

import "errors"

// Failure classes surfaced by the services. Handlers map these to HTTP
// status codes with errors.Is; anything else is treated as a storage or
// internal failure and reported as a 500 without leaking details.
var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrPasswordPolicy     = errors.New("password does not satisfy the policy")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrStoreNotFound      = errors.New("store not found")
	ErrOwnerNotFound      = errors.New("store owner not found")
	ErrInvalidRatingValue = errors.New("rating must be an integer between 1 and 5")
)
