package feedback

import (
	"context"
	"sync"

	"github.com/okian/crossjudge/internal/domain/model"
)

// MemoryStore keeps judgments in process memory. It does not survive
// restarts and is meant for tests and single-shot CLI runs.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]model.FeedbackStatus
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]model.FeedbackStatus)}
}

// Save records status for the pair.
func (m *MemoryStore) Save(_ context.Context, idA, idB string, status model.FeedbackStatus) error {
	if !status.Valid() {
		return model.ErrInvalidStatus
	}
	m.mu.Lock()
	m.entries[Key(idA, idB)] = status
	m.mu.Unlock()
	return nil
}

// Get returns the stored judgment for the pair.
func (m *MemoryStore) Get(_ context.Context, idA, idB string) (model.FeedbackStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[Key(idA, idB)], nil
}

// ClearAll erases every judgment.
func (m *MemoryStore) ClearAll(_ context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]model.FeedbackStatus)
	m.mu.Unlock()
	return nil
}

// Stats counts stored judgments.
func (m *MemoryStore) Stats(_ context.Context) (model.FeedbackStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	statuses := make([]model.FeedbackStatus, 0, len(m.entries))
	for _, s := range m.entries {
		statuses = append(statuses, s)
	}
	return Tally(statuses...), nil
}
