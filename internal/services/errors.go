package services

import "errors"

// Validation sentinels. Handlers map each to a specific user-facing
// message; anything else out of a service is a persistence failure.
var (
	// ErrInvalidRating means a supplied rating falls outside [0, 5].
	ErrInvalidRating = errors.New("rating out of range")

	// ErrInvalidStatus means a status is not one of the accepted values.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidGoal means the goal target or date is missing or
	// non-positive.
	ErrInvalidGoal = errors.New("invalid goal")
)
