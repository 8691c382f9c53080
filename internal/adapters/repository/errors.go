package repository

import "errors"

// Sentinel errors for feedback persistence.
var (
	ErrClosed       = errors.New("feedback store closed")
	ErrMissingPath  = errors.New("sqlite path is required")
	ErrMissingAddr  = errors.New("redis address is required")
	ErrCorruptEntry = errors.New("stored feedback status is not recognised")
)
