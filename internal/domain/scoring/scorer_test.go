package scoring_test

import (
	"testing"

	"github.com/okian/crossjudge/internal/domain/model"
	"github.com/okian/crossjudge/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func intPtr(v int) *int { return &v }

func TestScorer_Score(t *testing.T) {
	Convey("Given a scorer with default weights", t, func() {
		s := scoring.NewScorer()

		Convey("When Two Sum is compared with Key Pair", func() {
			a := model.Problem{ID: "leetcode:1", Platform: model.PlatformLeetCode, Title: "Two Sum",
				Tags: []string{"array", "hash-table"}, Difficulty: "easy"}
			b := model.Problem{ID: "geeksforgeeks:key-pair", Platform: model.PlatformGeeksForGeeks, Title: "Key Pair",
				Tags: []string{"array", "hashing", "searching"}, Difficulty: "basic"}
			res := s.Score(a, b, model.FeedbackNone, nil)

			Convey("Then hashing counts as hash-table and difficulty matches", func() {
				So(res.Breakdown.Tags.Score, ShouldEqual, 67)
				So(res.Breakdown.Difficulty.Score, ShouldEqual, 100)
				So(res.Breakdown.Semantic, ShouldBeNil)
			})

			Convey("And the pair is at least a related variant", func() {
				So(res.Score, ShouldBeGreaterThanOrEqualTo, 40)
				So(scoring.Classify(res.Score).Label, ShouldBeIn, []string{"Related Variant", "Highly Similar", "Same Problem"})
			})
		})

		Convey("When titles match but tags and difficulty diverge", func() {
			a := model.Problem{ID: "leetcode:x", Title: "Valid Parentheses", Tags: []string{"stack"}, Difficulty: "easy"}
			b := model.Problem{ID: "codeforces:y", Title: "Valid Parentheses", Tags: []string{"greedy"}, Difficulty: "hard"}
			res := s.Score(a, b, model.FeedbackNone, nil)

			Convey("Then the score stays below highly similar", func() {
				So(res.Breakdown.Title.Score, ShouldEqual, 100)
				So(res.Breakdown.Tags.Score, ShouldEqual, 0)
				So(res.Breakdown.Difficulty.Score, ShouldEqual, 0)
				So(res.Score, ShouldEqual, 55)
				So(res.Score, ShouldBeLessThan, scoring.SimilarThreshold)
			})
		})

		Convey("When titles share nothing but the semantic score is 90", func() {
			a := model.Problem{ID: "leetcode:1", Title: "Two Sum", Tags: []string{"array"}}
			b := model.Problem{ID: "hackerrank:pairs", Title: "Pairs", Tags: []string{"sorting"}}
			res := s.Score(a, b, model.FeedbackNone, intPtr(90))

			Convey("Then the semantic weights carry it past the floor", func() {
				So(res.Breakdown.Semantic, ShouldNotBeNil)
				So(res.Breakdown.Semantic.Score, ShouldEqual, 90)
				So(res.Breakdown.Semantic.Weight, ShouldEqual, 0.45)
				So(res.Breakdown.Semantic.Contribution, ShouldBeBetweenOrEqual, 40, 41)
				So(res.Breakdown.Title.Weight, ShouldEqual, 0.20)
				So(res.Score, ShouldBeGreaterThan, 25)
			})
		})

		Convey("When the semantic score is zero", func() {
			a := model.Problem{ID: "a:1", Title: "Two Sum"}
			b := model.Problem{ID: "b:1", Title: "Pairs"}
			res := s.Score(a, b, model.FeedbackNone, intPtr(0))

			Convey("Then the standard weights apply", func() {
				So(res.Breakdown.Semantic, ShouldBeNil)
				So(res.Breakdown.Title.Weight, ShouldEqual, 0.40)
			})
		})

		Convey("When a problem is compared with itself", func() {
			p := model.Problem{ID: "leetcode:704", Title: "Binary Search", Tags: []string{"binary search"}, Difficulty: "easy"}

			Convey("Then the score is 100", func() {
				So(s.Score(p, p, model.FeedbackNone, nil).Score, ShouldEqual, 100)
				So(s.Score(p, p, model.FeedbackNone, intPtr(70)).Score, ShouldEqual, 100)
			})
		})

		Convey("When two distinct records carry identical content", func() {
			a := model.Problem{ID: "leetcode:88", Title: "Merge Sorted Array", Tags: []string{"array", "two pointers"},
				Difficulty: "easy", Constraints: map[string]float64{"n": 200}, IOStructure: []string{"array"}}
			b := a
			b.ID = "geeksforgeeks:merge"

			Convey("Then every dimension is perfect", func() {
				res := s.Score(a, b, model.FeedbackNone, nil)
				So(res.Score, ShouldEqual, 100)
				So(res.Breakdown.Constraints.Score, ShouldEqual, 100)
			})
		})

		Convey("When feedback is recorded for the pair", func() {
			a := model.Problem{ID: "leetcode:1", Title: "Two Sum", Tags: []string{"array"}}
			b := model.Problem{ID: "leetcode:1x", Title: "Two Sum", Tags: []string{"array"}}
			base := s.Score(a, b, model.FeedbackNone, nil)

			Convey("Then confirmation adds 15 and clamps at 100", func() {
				res := s.Score(a, b, model.FeedbackConfirmed, nil)
				So(res.Breakdown.FeedbackBoost, ShouldEqual, 15)
				So(res.Score, ShouldEqual, min(100, base.Score+15))
			})

			Convey("Then rejection floors the score at zero", func() {
				res := s.Score(a, b, model.FeedbackRejected, nil)
				So(res.Breakdown.FeedbackBoost, ShouldEqual, -100)
				So(res.Score, ShouldEqual, 0)
			})
		})
	})
}

func TestScorerOptions(t *testing.T) {
	Convey("Given custom weights", t, func() {
		s := scoring.NewScorer(scoring.WithStandardWeights(scoring.Weights{Title: 1}))
		a := model.Problem{ID: "a:1", Title: "Climbing Stairs", Tags: []string{"dp"}}
		b := model.Problem{ID: "b:1", Title: "Climbing Stairs", Tags: []string{"math"}}

		Convey("Then only the title counts", func() {
			So(s.Score(a, b, model.FeedbackNone, nil).Score, ShouldEqual, 100)
		})

		Convey("And empty weight sets are ignored", func() {
			d := scoring.NewScorer(scoring.WithStandardWeights(scoring.Weights{}), scoring.WithSemanticWeights(scoring.Weights{Title: 1}))
			So(d.Score(a, b, model.FeedbackNone, nil).Breakdown.Title.Weight, ShouldEqual, 0.40)
			So(d.Score(a, b, model.FeedbackNone, intPtr(50)).Breakdown.Semantic.Weight, ShouldEqual, 0.45)
		})
	})
}

func TestBreakdownRounding(t *testing.T) {
	Convey("Given a breakdown", t, func() {
		a := model.Problem{ID: "a:1", Title: "Two Sum", Tags: []string{"array", "hash-table"}, Difficulty: "easy"}
		b := model.Problem{ID: "b:1", Title: "Key Pair", Tags: []string{"array", "hashing", "searching"}, Difficulty: "basic"}
		bd := scoring.NewScorer().Score(a, b, model.FeedbackNone, nil).Breakdown

		Convey("Then contributions are rounded per row", func() {
			So(bd.Tags.Contribution, ShouldEqual, 17)
			So(bd.Constraints.Score, ShouldEqual, 50)
			So(bd.Constraints.Contribution, ShouldEqual, 10)
			So(bd.Difficulty.Contribution, ShouldEqual, 10)
			So(bd.IOStructure.Contribution, ShouldEqual, 5)
		})
	})
}
