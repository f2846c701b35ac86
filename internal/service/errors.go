package service

import "errors"

// Common service-level errors
var (
	// ErrUnauthorized is returned when an owner-scoped operation is called
	// without an owner identity.
	ErrUnauthorized = errors.New("no owner identity present")
)
