package model

import "errors"

// Common errors used across the application
var (
	// Catalog errors
	ErrEmptyCatalog    = errors.New("catalog is empty")
	ErrDuplicateEntity = errors.New("duplicate skylander name")
	ErrUnknownEntity   = errors.New("unknown skylander")

	// Input errors
	ErrInvalidInput = errors.New("invalid input")

	// Ledger errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrResultNotFound = errors.New("daily result not found")
	ErrStoreConflict  = errors.New("concurrent write conflict")
)
