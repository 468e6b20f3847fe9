// Package common defines sentinel errors and small helpers shared by the
// scheduler layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrConflict reports a lost race against a concurrent transaction.
	// Retrying the whole transaction is safe.
	ErrConflict = errors.New("concurrent update conflict")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrValidation    = errors.New("validation error")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidNumber = errors.New("invalid number")

	// Session and authorization errors.
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrAlreadyLoggedIn = errors.New("already logged in")
	ErrNotAuthorized   = errors.New("not authorized for this role")
	ErrForbidden       = errors.New("forbidden")

	// Scheduling conflicts.
	ErrUsernameTaken        = errors.New("username taken")
	ErrNoCaregiverAvailable = errors.New("no caregiver available")
	ErrInsufficientDoses    = errors.New("insufficient doses")
)
