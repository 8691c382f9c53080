package scoring_test

import (
	"testing"

	"github.com/okian/crossjudge/internal/domain/model"
	"github.com/okian/crossjudge/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTokenize(t *testing.T) {
	Convey("Given titles", t, func() {
		So(scoring.Tokenize("The Two-Sum Problem!"), ShouldResemble, []string{"two", "sum"})
		So(scoring.Tokenize("3Sum of a K array"), ShouldResemble, []string{"sum", "array"})
		So(scoring.Tokenize(""), ShouldBeEmpty)
	})
}

func TestJaccardAndEdit(t *testing.T) {
	Convey("Given sets and strings", t, func() {
		set := func(items ...string) map[string]struct{} {
			m := map[string]struct{}{}
			for _, i := range items {
				m[i] = struct{}{}
			}
			return m
		}
		So(scoring.Jaccard(set(), set()), ShouldEqual, 1)
		So(scoring.Jaccard(set("a"), set()), ShouldEqual, 0)
		So(scoring.Jaccard(set("a", "b"), set("b", "c")), ShouldAlmostEqual, 1.0/3)

		So(scoring.EditSimilarity("", ""), ShouldEqual, 1)
		So(scoring.EditSimilarity("abc", ""), ShouldEqual, 0)
		So(scoring.EditSimilarity("kitten", "sitting"), ShouldAlmostEqual, 1-3.0/7)
	})
}

func TestConstraintSimilarity(t *testing.T) {
	Convey("Given problems with and without scale bounds", t, func() {
		none := model.Problem{}
		small := model.Problem{Constraints: map[string]float64{"n": 100}}
		large := model.Problem{ConstraintsText: "1 ≤ n ≤ 10^5"}

		So(scoring.ConstraintSimilarity(none, none), ShouldEqual, 0.5)
		So(scoring.ConstraintSimilarity(none, small), ShouldEqual, 0.3)
		So(scoring.ConstraintSimilarity(small, small), ShouldEqual, 1)
		So(scoring.ConstraintSimilarity(small, large), ShouldAlmostEqual, 0.4)
	})
}

func TestDifficulty(t *testing.T) {
	Convey("Given judge labels and ratings", t, func() {
		So(scoring.DifficultyLevel("Easy"), ShouldEqual, 1)
		So(scoring.DifficultyLevel("basic"), ShouldEqual, 1)
		So(scoring.DifficultyLevel("hard"), ShouldEqual, 5)
		So(scoring.DifficultyLevel("1400"), ShouldEqual, 3)
		So(scoring.DifficultyLevel("1250"), ShouldEqual, 2)
		So(scoring.DifficultyLevel("3500"), ShouldEqual, 5)
		So(scoring.DifficultyLevel(""), ShouldEqual, 3)
		So(scoring.DifficultyLevel("legendary"), ShouldEqual, 3)

		So(scoring.DifficultySimilarity("easy", "hard"), ShouldEqual, 0)
		So(scoring.DifficultySimilarity("easy", "school"), ShouldEqual, 1)
		So(scoring.DifficultySimilarity("medium", "1700"), ShouldEqual, 0.75)
	})
}

func TestIOSimilarity(t *testing.T) {
	Convey("Given declared and inferred shapes", t, func() {
		declared := model.Problem{IOStructure: []string{"array", "integer"}}
		inferred := model.Problem{Description: "Given an array, return a number"}
		So(scoring.IOSimilarity(declared, inferred), ShouldEqual, 1)
		So(scoring.IOSimilarity(model.Problem{}, model.Problem{}), ShouldEqual, 1)
		So(scoring.IOSimilarity(declared, model.Problem{Description: "a grid"}), ShouldEqual, 0)
	})
}
