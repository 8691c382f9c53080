package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gomodule/redigo/redis"

	"github.com/okian/crossjudge/internal/domain/feedback"
	"github.com/okian/crossjudge/internal/domain/model"
	"github.com/okian/crossjudge/pkg/metrics"
)

// RedisStore is a durable feedback.Store keeping every judgment as a field of
// one redis hash.
type RedisStore struct {
	pool     *redis.Pool
	key      string
	password string
	db       int
}

var _ feedback.Store = (*RedisStore)(nil)

// NewRedisStore creates a store talking to the server at addr and checks
// connectivity with PING.
func NewRedisStore(ctx context.Context, addr string, opts ...RedisOption) (*RedisStore, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, ErrMissingAddr
	}
	s := &RedisStore{key: defaultRedisKey}
	for _, opt := range opts {
		opt(s)
	}
	s.pool = &redis.Pool{
		MaxIdle:     defaultRedisMaxIdle,
		IdleTimeout: defaultRedisIdleTimeout,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			dialOpts := []redis.DialOption{redis.DialDatabase(s.db)}
			if s.password != "" {
				dialOpts = append(dialOpts, redis.DialPassword(s.password))
			}
			return redis.DialContext(ctx, "tcp", addr, dialOpts...)
		},
	}

	if _, err := s.do(ctx, "PING"); err != nil {
		_ = s.pool.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return s, nil
}

// Save records status for the pair.
func (s *RedisStore) Save(ctx context.Context, idA, idB string, status model.FeedbackStatus) error {
	if !status.Valid() {
		return model.ErrInvalidStatus
	}
	if _, err := s.do(ctx, "HSET", s.key, feedback.Key(idA, idB), string(status)); err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	metrics.RecordFeedbackSave(string(status))
	return nil
}

// Get returns the stored judgment for the pair.
func (s *RedisStore) Get(ctx context.Context, idA, idB string) (model.FeedbackStatus, error) {
	raw, err := redis.String(s.do(ctx, "HGET", s.key, feedback.Key(idA, idB)))
	switch {
	case errors.Is(err, redis.ErrNil):
		return model.FeedbackNone, nil
	case err != nil:
		return model.FeedbackNone, fmt.Errorf("get feedback: %w", err)
	}
	return parseStatus(raw)
}

// ClearAll erases every judgment.
func (s *RedisStore) ClearAll(ctx context.Context) error {
	if _, err := s.do(ctx, "DEL", s.key); err != nil {
		return fmt.Errorf("clear feedback: %w", err)
	}
	metrics.UpdateFeedbackEntries(0, 0)
	return nil
}

// Stats counts stored judgments.
func (s *RedisStore) Stats(ctx context.Context) (model.FeedbackStats, error) {
	vals, err := redis.Strings(s.do(ctx, "HVALS", s.key))
	if err != nil {
		return model.FeedbackStats{}, fmt.Errorf("feedback stats: %w", err)
	}
	statuses := make([]model.FeedbackStatus, len(vals))
	for i, v := range vals {
		statuses[i] = model.FeedbackStatus(v)
	}
	st := feedback.Tally(statuses...)
	metrics.UpdateFeedbackEntries(st.Confirmed, st.Rejected)
	return st, nil
}

// Close releases pooled connections.
func (s *RedisStore) Close() error {
	return s.pool.Close()
}

func (s *RedisStore) do(ctx context.Context, cmd string, args ...any) (any, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return redis.DoContext(conn, ctx, cmd, args...)
}
