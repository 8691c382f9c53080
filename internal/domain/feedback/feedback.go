// Package feedback stores user judgments on problem pairs.
package feedback

import (
	"context"
	"sort"
	"strings"

	"github.com/okian/crossjudge/internal/domain/model"
)

// keySeparator joins the two ids of a pair key.
const keySeparator = "_"

// Store persists judgments keyed by unordered problem pair. Implementations
// must be safe for concurrent use.
type Store interface {
	// Save records status for the pair. Only confirmed and rejected are
	// accepted; anything else yields model.ErrInvalidStatus.
	Save(ctx context.Context, idA, idB string, status model.FeedbackStatus) error
	// Get returns the stored judgment or model.FeedbackNone.
	Get(ctx context.Context, idA, idB string) (model.FeedbackStatus, error)
	// ClearAll erases every judgment.
	ClearAll(ctx context.Context) error
	// Stats counts stored judgments.
	Stats(ctx context.Context) (model.FeedbackStats, error)
}

// Key returns the order-independent key of a pair.
func Key(idA, idB string) string {
	ids := []string{idA, idB}
	sort.Strings(ids)
	return strings.Join(ids, keySeparator)
}

// Tally builds stats from a sequence of stored statuses.
func Tally(statuses ...model.FeedbackStatus) model.FeedbackStats {
	var st model.FeedbackStats
	for _, s := range statuses {
		switch s {
		case model.FeedbackConfirmed:
			st.Confirmed++
		case model.FeedbackRejected:
			st.Rejected++
		default:
			continue
		}
		st.Total++
	}
	return st
}
