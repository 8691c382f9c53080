package service

import "errors"

// Sentinel errors returned by the Service.
var (
	ErrNotStarted          = errors.New("service not started")
	ErrSemanticUnavailable = errors.New("semantic scoring not configured")
)
