package semantic

import "errors"

// Sentinel errors for the embedding client.
var (
	ErrNotConfigured    = errors.New("embedding api key not configured")
	ErrUnexpectedStatus = errors.New("unexpected embedding api status")
	ErrShapeMismatch    = errors.New("embedding response does not match request")
)
