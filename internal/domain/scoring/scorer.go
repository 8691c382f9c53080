// Package scoring computes weighted similarity between two problems and
// explains how the composite score was reached.
package scoring

import (
	"math"

	"github.com/okian/crossjudge/internal/domain/model"
)

// Feedback adjustments applied to the composite score before clamping.
const (
	ConfirmedBoost = 15
	RejectedBoost  = -100

	minScore = 0
	maxScore = 100
)

// Weights assigns each similarity dimension its share of the composite.
type Weights struct {
	Title       float64 `koanf:"title"`
	Tags        float64 `koanf:"tags"`
	Semantic    float64 `koanf:"semantic"`
	Constraints float64 `koanf:"constraints"`
	Difficulty  float64 `koanf:"difficulty"`
	IOStructure float64 `koanf:"io_structure"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Title + w.Tags + w.Semantic + w.Constraints + w.Difficulty + w.IOStructure
}

// StandardWeights is used when no semantic score is available.
func StandardWeights() Weights {
	return Weights{Title: 0.40, Tags: 0.25, Constraints: 0.20, Difficulty: 0.10, IOStructure: 0.05}
}

// SemanticWeights is used when a positive semantic score is supplied.
func SemanticWeights() Weights {
	return Weights{Title: 0.20, Tags: 0.15, Semantic: 0.45, Constraints: 0.10, Difficulty: 0.05, IOStructure: 0.05}
}

// Result is a composite score in [0,100] and its breakdown.
type Result struct {
	Score     int
	Breakdown model.Breakdown
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithStandardWeights overrides the weights used without a semantic score.
// Weight sets that do not sum to a positive value are ignored.
func WithStandardWeights(w Weights) Option {
	return func(s *Scorer) {
		if w.Sum() > 0 {
			w.Semantic = 0
			s.standard = w
		}
	}
}

// WithSemanticWeights overrides the weights used with a semantic score.
func WithSemanticWeights(w Weights) Option {
	return func(s *Scorer) {
		if w.Sum() > 0 && w.Semantic > 0 {
			s.semantic = w
		}
	}
}

// Scorer computes composite similarity. It is stateless and safe for
// concurrent use.
type Scorer struct {
	standard Weights
	semantic Weights
}

// NewScorer creates a scorer with the default weight sets.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		standard: StandardWeights(),
		semantic: SemanticWeights(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score compares a with b. fb is the stored judgment for the pair and
// semantic, when non-nil and positive, is an external similarity in [0,100]
// that switches the blend to the semantic weights.
func (s *Scorer) Score(a, b model.Problem, fb model.FeedbackStatus, semantic *int) Result {
	title, tagSim, cons, diff, io := 1.0, 1.0, 1.0, 1.0, 1.0
	sameEntity := a.ID != "" && a.ID == b.ID
	if !sameEntity {
		title = TitleSimilarity(a.Title, b.Title)
		tagSim = TagSimilarity(a.Tags, b.Tags)
		cons = ConstraintSimilarity(a, b)
		diff = DifficultySimilarity(a.Difficulty, b.Difficulty)
		io = IOSimilarity(a, b)
	}

	w := s.standard
	var bd model.Breakdown
	sum := 0.0
	if semantic != nil && *semantic > 0 {
		w = s.semantic
		raw := clamp(*semantic)
		if sameEntity {
			raw = maxScore
		}
		ss := float64(raw) / maxScore
		sum += ss * w.Semantic
		bd.Semantic = &model.Dimension{Score: raw, Weight: w.Semantic, Contribution: round(ss * w.Semantic * 100)}
	}
	sum += title*w.Title + tagSim*w.Tags + cons*w.Constraints + diff*w.Difficulty + io*w.IOStructure

	bd.Title = dimension(title, w.Title)
	bd.Tags = dimension(tagSim, w.Tags)
	bd.Constraints = dimension(cons, w.Constraints)
	bd.Difficulty = dimension(diff, w.Difficulty)
	bd.IOStructure = dimension(io, w.IOStructure)
	bd.FeedbackBoost = Boost(fb)

	return Result{
		Score:     clamp(round(sum*100) + bd.FeedbackBoost),
		Breakdown: bd,
	}
}

// Boost returns the score adjustment for a feedback judgment.
func Boost(fb model.FeedbackStatus) int {
	switch fb {
	case model.FeedbackConfirmed:
		return ConfirmedBoost
	case model.FeedbackRejected:
		return RejectedBoost
	default:
		return 0
	}
}

func dimension(sim, weight float64) model.Dimension {
	return model.Dimension{
		Score:        round(sim * 100),
		Weight:       weight,
		Contribution: round(sim * weight * 100),
	}
}

func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clamp(v int) int {
	return max(minScore, min(maxScore, v))
}
