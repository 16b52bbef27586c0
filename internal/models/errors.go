package models

import (
	"errors"
	"fmt"
)

var (
	// authentication errors
	ErrInvalidAccount  = errors.New("account does not exist")
	ErrInvalidPassword = errors.New("wrong password")
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidSession  = errors.New("invalid session")
	ErrForbidden       = errors.New("insufficient permissions")

	// registration errors
	ErrDuplicateAccount = errors.New("account already registered")

	// cart and order errors
	ErrMalformedID           = errors.New("malformed product id")
	ErrProductNotFound       = errors.New("product not found")
	ErrProductDelisted       = errors.New("product is delisted")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrDelistedProductInCart = errors.New("cart contains delisted products")

	// upload errors
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file too large")

	// repository errors
	ErrNotFound = errors.New("not found")
)

// ValidationError reports the first field that failed validation
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
