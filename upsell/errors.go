package upsell

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the handlers. Handlers map these onto HTTP
// statuses; upstream detail never reaches storefront callers.
var (
	// ErrNotFound covers absent or inactive stores and offers
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized covers missing or invalid tenant sessions
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError is a missing or invalid required field
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError with a field-naming message
func Validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// UpstreamError is a failed call to the commerce platform. The fulfiller
// recovers most of these through the cart fallback; when one escapes it
// surfaces as a generic 500.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
