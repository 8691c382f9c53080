// Package worker runs embedding warmup jobs off the queue.
package worker

import (
	"context"
	"time"

	"github.com/okian/crossjudge/pkg/logger"
)

// Option applies a configuration option to a worker or pool.
type Option func(*config)

type config struct {
	name      string
	timeout   time.Duration
	logger    logger.Logger
	onFailure func(ctx context.Context, j Job, err error)
}

// WithName sets the worker name used in logs.
func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

// WithJobTimeout bounds how long one job may run.
func WithJobTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithFailureHandler registers a callback for jobs that failed.
func WithFailureHandler(fn func(ctx context.Context, j Job, err error)) Option {
	return func(c *config) {
		c.onFailure = fn
	}
}
