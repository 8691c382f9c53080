package queue

import "errors"

// Sentinel errors for the warmup queue.
var (
	ErrClosed = errors.New("queue closed")
	ErrFull   = errors.New("queue full")
)
