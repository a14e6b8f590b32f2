package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrDuplicateKey          = errors.New("username or email already in use")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUnauthenticated       = errors.New("missing bearer token")
	ErrForbidden             = errors.New("access denied")
	ErrNotFound              = errors.New("not found")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenMalformed = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrTokenSignature = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)
	ErrTokenExpired   = fmt.Errorf("%w: expired", ErrInvalidToken)

	// ErrUnderage is the validation failure for registrants younger than MinimumAge.
	ErrUnderage = NewValidationError("birthDate", "you must be at least 18 years old to register")
)

// MinimumAge is the youngest age allowed to register.
const MinimumAge = 18

// ValidationError reports a rejected input field. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Required reports a missing mandatory field.
func Required(field string) *ValidationError {
	return NewValidationError(field, "field is required")
}
