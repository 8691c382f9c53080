// Package repository persists pair judgments for the feedback store.
package repository

import "time"

// Default connection settings.
const (
	defaultRedisKey         = "crossjudge:feedback"
	defaultRedisMaxIdle     = 4
	defaultRedisIdleTimeout = 4 * time.Minute
	defaultBusyTimeout      = 5 * time.Second
)

// SQLiteOption applies a configuration option to the SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithBusyTimeout sets how long sqlite waits on a locked database.
func WithBusyTimeout(d time.Duration) SQLiteOption {
	return func(s *SQLiteStore) {
		if d > 0 {
			s.busyTimeout = d
		}
	}
}

// RedisOption applies a configuration option to the RedisStore.
type RedisOption func(*RedisStore)

// WithRedisKey sets the hash that holds all judgments.
func WithRedisKey(key string) RedisOption {
	return func(s *RedisStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithRedisPassword authenticates new connections.
func WithRedisPassword(password string) RedisOption {
	return func(s *RedisStore) {
		s.password = password
	}
}

// WithRedisDB selects the logical database.
func WithRedisDB(db int) RedisOption {
	return func(s *RedisStore) {
		if db >= 0 {
			s.db = db
		}
	}
}
