package insight

import "errors"

var (
	// ErrSignalMetaNotFound no metadata exists for the signal id
	ErrSignalMetaNotFound = errors.New("signal metadata not found")

	// ErrInvalidEntityID the entity id is not numeric
	ErrInvalidEntityID = errors.New("invalid entity id")
)
