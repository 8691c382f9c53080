package model

import "errors"

// Sentinel validation errors for problems and judgments.
var (
	ErrMissingID     = errors.New("problem id is required")
	ErrMissingTitle  = errors.New("problem title is required")
	ErrInvalidStatus = errors.New("feedback status must be confirmed or rejected")
)
