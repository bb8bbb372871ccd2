// Package common defines the sentinel errors shared by the store, repository
// and service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrWrite            = errors.New("write error")

	// Repository-level errors.
	ErrNotFound       = errors.New("not found")
	ErrDataCorruption = errors.New("data corruption")

	// Service-level errors.
	ErrDuplicateUsername = errors.New("username already exists")
	ErrValidation        = errors.New("validation error")
	ErrUnauthorized      = errors.New("unauthorized")

	// Shop errors.
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidItem       = errors.New("invalid item")
)
