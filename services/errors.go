package services

import "errors"

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrUnknownFoodItem = errors.New("unknown food item")
	ErrNotFound        = errors.New("not found")
	ErrInvalidPeriod   = errors.New("invalid report period")

	// ErrPersistence means the store could not complete an atomic write.
	// Nothing of the attempt was persisted; the caller may retry.
	ErrPersistence = errors.New("persistence failure")
)

// IsRetryable reports whether err came from the store rather than from validation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPersistence)
}
