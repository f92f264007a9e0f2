package repositories

import "errors"

// ErrNotFound is returned (wrapped) by all repositories when a record does
// not exist, so services can distinguish "missing" from storage failures.
var ErrNotFound = errors.New("record not found")
