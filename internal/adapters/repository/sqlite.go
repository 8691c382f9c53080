package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/crossjudge/internal/domain/feedback"
	"github.com/okian/crossjudge/internal/domain/model"
	"github.com/okian/crossjudge/pkg/metrics"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS feedback (
	pair_key   TEXT PRIMARY KEY,
	status     TEXT NOT NULL CHECK (status IN ('confirmed', 'rejected')),
	updated_at INTEGER NOT NULL
);`

// SQLiteStore is a durable feedback.Store backed by a sqlite file.
type SQLiteStore struct {
	db          *sql.DB
	busyTimeout time.Duration
}

var _ feedback.Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(ctx context.Context, path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrMissingPath
	}
	s := &SQLiteStore{busyTimeout: defaultBusyTimeout}
	for _, opt := range opts {
		opt(s)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", path, s.busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	s.db = db
	return s, nil
}

// Save records status for the pair.
func (s *SQLiteStore) Save(ctx context.Context, idA, idB string, status model.FeedbackStatus) error {
	if !status.Valid() {
		return model.ErrInvalidStatus
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (pair_key, status, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(pair_key) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		feedback.Key(idA, idB), string(status), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	metrics.RecordFeedbackSave(string(status))
	return nil
}

// Get returns the stored judgment for the pair.
func (s *SQLiteStore) Get(ctx context.Context, idA, idB string) (model.FeedbackStatus, error) {
	var status string
	err := s.db.QueryRowContext(ctx, `SELECT status FROM feedback WHERE pair_key = ?`, feedback.Key(idA, idB)).Scan(&status)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return model.FeedbackNone, nil
	case err != nil:
		return model.FeedbackNone, fmt.Errorf("get feedback: %w", err)
	}
	return parseStatus(status)
}

// ClearAll erases every judgment.
func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM feedback`); err != nil {
		return fmt.Errorf("clear feedback: %w", err)
	}
	metrics.UpdateFeedbackEntries(0, 0)
	return nil
}

// Stats counts stored judgments.
func (s *SQLiteStore) Stats(ctx context.Context) (model.FeedbackStats, error) {
	var st model.FeedbackStats
	err := s.db.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN status = 'confirmed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0),
			COUNT(*)
		 FROM feedback`).Scan(&st.Confirmed, &st.Rejected, &st.Total)
	if err != nil {
		return model.FeedbackStats{}, fmt.Errorf("feedback stats: %w", err)
	}
	metrics.UpdateFeedbackEntries(st.Confirmed, st.Rejected)
	return st, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func parseStatus(raw string) (model.FeedbackStatus, error) {
	st := model.FeedbackStatus(raw)
	if !st.Valid() {
		return model.FeedbackNone, fmt.Errorf("%w: %q", ErrCorruptEntry, raw)
	}
	return st, nil
}
