package startup

import "errors"

var (
	// ErrEntityNotFound the id is not a tracked startup
	ErrEntityNotFound = errors.New("startup entity not found")

	// ErrInvalidCatalog the tracked-entity catalog failed validation
	ErrInvalidCatalog = errors.New("invalid startup catalog")
)
