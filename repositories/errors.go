package repositories

import "errors"

var (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("repositories: not found")
	// ErrConflict indicates a unique constraint was violated.
	ErrConflict = errors.New("repositories: conflict")
	// ErrInvalidID indicates the supplied identifier is not a valid object id.
	ErrInvalidID = errors.New("repositories: invalid id")
)
