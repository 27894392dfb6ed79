package domain

import (
	"errors"
	"fmt"
)

// None of these reflect transient conditions; callers must not retry without
// re-validated input.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotAvailable      = errors.New("workshop is not available")
	ErrDuplicateBooking  = errors.New("active booking already exists for this workshop")
	ErrTimeConflict      = errors.New("active booking conflicts with this workshop's time window")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError names the offending artwork and the shortfall.
// errors.Is(err, ErrInsufficientStock) matches it.
type InsufficientStockError struct {
	ArtworkID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("artwork %s: requested %d, available %d", e.ArtworkID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
