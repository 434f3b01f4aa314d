package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound = errors.New("resource not found")

	// Validation errors
	ErrInvalidTimestamp   = errors.New("invalid event timestamp")
	ErrUnknownGranularity = errors.New("unknown granularity")
)

// NewNotFoundError builds a not-found error for a resource
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// IsNotFoundError reports whether err is a not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
