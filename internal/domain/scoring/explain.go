package scoring

import (
	"fmt"
	"strings"

	"github.com/okian/crossjudge/internal/domain/model"
)

// Classification bands by minimum score.
const (
	SameThreshold    = 85
	SimilarThreshold = 65
	RelatedThreshold = 40
)

// Classify maps a final score onto its qualitative band.
func Classify(score int) model.Classification {
	switch {
	case score >= SameThreshold:
		return model.Classification{Label: "Same Problem", Class: "cc-score-same"}
	case score >= SimilarThreshold:
		return model.Classification{Label: "Highly Similar", Class: "cc-score-similar"}
	case score >= RelatedThreshold:
		return model.Classification{Label: "Related Variant", Class: "cc-score-related"}
	default:
		return model.Classification{Label: "Low Match", Class: "cc-score-low"}
	}
}

// Explain renders one line per dimension that contributed points, followed by
// the confirmation bonus when present.
func Explain(bd model.Breakdown) string {
	var lines []string
	if bd.Title.Contribution > 0 {
		lines = append(lines, fmt.Sprintf("Title: +%dpts (%d%% match)", bd.Title.Contribution, bd.Title.Score))
	}
	if bd.Tags.Contribution > 0 {
		lines = append(lines, fmt.Sprintf("Tags: +%dpts (%d%% overlap)", bd.Tags.Contribution, bd.Tags.Score))
	}
	if bd.Semantic != nil && bd.Semantic.Contribution > 0 {
		lines = append(lines, fmt.Sprintf("Semantic: +%dpts (%d%% similar)", bd.Semantic.Contribution, bd.Semantic.Score))
	}
	if bd.Constraints.Contribution > 0 {
		lines = append(lines, fmt.Sprintf("Constraints: +%dpts", bd.Constraints.Contribution))
	}
	if bd.Difficulty.Contribution > 0 {
		lines = append(lines, fmt.Sprintf("Difficulty: +%dpts", bd.Difficulty.Contribution))
	}
	if bd.IOStructure.Contribution > 0 {
		lines = append(lines, fmt.Sprintf("I/O Structure: +%dpts", bd.IOStructure.Contribution))
	}
	if bd.FeedbackBoost > 0 {
		lines = append(lines, fmt.Sprintf("User confirmed: +%dpts", bd.FeedbackBoost))
	}
	return strings.Join(lines, "\n")
}
