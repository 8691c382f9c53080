package search

import "errors"

// Sentinel errors for the search client.
var (
	ErrNotConfigured    = errors.New("search api key not configured")
	ErrUnexpectedStatus = errors.New("unexpected search api status")
)
