package catalog

import "errors"

// Sentinel errors for catalog loading.
var (
	ErrDuplicateID = errors.New("duplicate catalog id")
	ErrInvalidItem = errors.New("invalid catalog entry")
	ErrNoPath      = errors.New("catalog has no file to watch")
)
