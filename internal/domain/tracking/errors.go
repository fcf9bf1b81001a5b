package tracking

import "errors"

var (
	// ErrNotFound no row for the key
	ErrNotFound = errors.New("tracking record not found")

	// ErrAlreadyWatched the startup is already on the user's watchlist
	ErrAlreadyWatched = errors.New("startup already on watchlist")
)
