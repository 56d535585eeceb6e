package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist, is
	// inactive, or does not belong to the requesting owner.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock indicates the requested quantity exceeds the
	// available stock at the instant of the check.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNoShippingRate indicates no active tier covers the cart's
	// total desi. Callers price shipping at zero when they see it.
	ErrNoShippingRate = errors.New("no shipping rate")

	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation indicates a request that fails input validation
	// before touching the store. Wrap it with the specific reason.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
