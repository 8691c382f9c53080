package model

// FeedbackStatus is a user judgment on a problem pair.
type FeedbackStatus string

// Feedback judgments. FeedbackNone means no judgment was recorded.
const (
	FeedbackNone      FeedbackStatus = ""
	FeedbackConfirmed FeedbackStatus = "confirmed"
	FeedbackRejected  FeedbackStatus = "rejected"
)

// Valid reports whether s is a judgment a user can record.
func (s FeedbackStatus) Valid() bool {
	return s == FeedbackConfirmed || s == FeedbackRejected
}

// FeedbackStats counts stored judgments.
type FeedbackStats struct {
	Confirmed int `json:"confirmed"`
	Rejected  int `json:"rejected"`
	Total     int `json:"total"`
}

// Dimension is one row of a score breakdown. Score is the raw similarity in
// [0,100]; Contribution is round(weight*raw*100) and is rounded independently
// of the composite total.
type Dimension struct {
	Score        int     `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution int     `json:"contribution"`
}

// Breakdown explains how a composite score was derived.
type Breakdown struct {
	Title       Dimension  `json:"title"`
	Tags        Dimension  `json:"tags"`
	Constraints Dimension  `json:"constraints"`
	Difficulty  Dimension  `json:"difficulty"`
	IOStructure Dimension  `json:"io_structure"`
	Semantic    *Dimension `json:"semantic,omitempty"`
	// FeedbackBoost is the raw adjustment applied before clamping.
	FeedbackBoost int `json:"feedback_boost"`
}

// Classification is the qualitative band of a final score.
type Classification struct {
	Label string `json:"label"`
	Class string `json:"class"`
}

// MatchResult is one ranked candidate. It is recomputed per query.
type MatchResult struct {
	Problem          Problem        `json:"problem"`
	Score            int            `json:"score"`
	Breakdown        Breakdown      `json:"breakdown"`
	FeedbackStatus   FeedbackStatus `json:"feedback_status,omitempty"`
	Classification   Classification `json:"classification"`
	Source           Source         `json:"source"`
	HasSemanticScore bool           `json:"has_semantic_score"`
}

// SemanticScore is an embedding similarity in [0,100] for one candidate.
type SemanticScore struct {
	CandidateID string `json:"candidate_id"`
	Score       int    `json:"score"`
}

// WarmupJob asks the embedding warmup workers to precompute embeddings.
type WarmupJob struct {
	ID    string
	Texts []string
}
