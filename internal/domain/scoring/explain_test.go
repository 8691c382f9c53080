package scoring_test

import (
	"testing"

	"github.com/okian/crossjudge/internal/domain/model"
	"github.com/okian/crossjudge/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClassify(t *testing.T) {
	Convey("Given scores on band edges", t, func() {
		So(scoring.Classify(100).Class, ShouldEqual, "cc-score-same")
		So(scoring.Classify(85).Label, ShouldEqual, "Same Problem")
		So(scoring.Classify(84).Label, ShouldEqual, "Highly Similar")
		So(scoring.Classify(65).Class, ShouldEqual, "cc-score-similar")
		So(scoring.Classify(64).Label, ShouldEqual, "Related Variant")
		So(scoring.Classify(40).Class, ShouldEqual, "cc-score-related")
		So(scoring.Classify(39).Label, ShouldEqual, "Low Match")
		So(scoring.Classify(0).Class, ShouldEqual, "cc-score-low")
	})
}

func TestExplain(t *testing.T) {
	Convey("Given a breakdown with mixed contributions", t, func() {
		bd := model.Breakdown{
			Title:         model.Dimension{Score: 100, Weight: 0.2, Contribution: 20},
			Tags:          model.Dimension{Score: 0, Weight: 0.15},
			Semantic:      &model.Dimension{Score: 90, Weight: 0.45, Contribution: 41},
			Constraints:   model.Dimension{Score: 50, Weight: 0.1, Contribution: 5},
			Difficulty:    model.Dimension{Score: 100, Weight: 0.05, Contribution: 5},
			IOStructure:   model.Dimension{Score: 0, Weight: 0.05},
			FeedbackBoost: 15,
		}

		Convey("Then only positive rows are listed in order", func() {
			So(scoring.Explain(bd), ShouldEqual, "Title: +20pts (100% match)\n"+
				"Semantic: +41pts (90% similar)\n"+
				"Constraints: +5pts\n"+
				"Difficulty: +5pts\n"+
				"User confirmed: +15pts")
		})

		Convey("And a rejection adds no line", func() {
			bd.FeedbackBoost = -100
			So(scoring.Explain(bd), ShouldNotContainSubstring, "User confirmed")
		})
	})

	Convey("Given an empty breakdown", t, func() {
		So(scoring.Explain(model.Breakdown{}), ShouldEqual, "")
	})
}
