package domain

import "errors"

var (
	ErrEmptyOrder      = errors.New("order has no items")
	ErrInvalidTotal    = errors.New("order total does not match")
	ErrProductNotFound = errors.New("product not found")
	ErrNotForSale      = errors.New("product is not for sale")
	ErrInvalidCustomer = errors.New("invalid customer data")
	ErrInvalidPayment  = errors.New("invalid payment method")
)

// ValidationError rejects an order submission. Message is shown to the buyer;
// Err is the sentinel it belongs to.
type ValidationError struct {
	Message string
	Err     error
}

func NewValidationError(err error, message string) *ValidationError {
	return &ValidationError{Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
