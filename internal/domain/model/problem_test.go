package model_test

import (
	"testing"

	"github.com/okian/crossjudge/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestProblemValidate(t *testing.T) {
	Convey("Given problems with varying required fields", t, func() {
		Convey("When id and title are present", func() {
			p := model.Problem{ID: "leetcode:1", Title: "Two Sum"}
			So(p.Validate(), ShouldBeNil)
		})

		Convey("When the id is blank", func() {
			p := model.Problem{ID: "  ", Title: "Two Sum"}
			So(p.Validate(), ShouldEqual, model.ErrMissingID)
		})

		Convey("When the title is missing", func() {
			p := model.Problem{ID: "leetcode:1"}
			So(p.Validate(), ShouldEqual, model.ErrMissingTitle)
		})
	})
}

func TestProblemWithSource(t *testing.T) {
	Convey("Given a problem", t, func() {
		p := model.Problem{ID: "gfg:key-pair", Title: "Key Pair"}

		Convey("When tagging it with a source", func() {
			tagged := p.WithSource(model.SourceLocal)

			Convey("Then the copy carries the source and the original is untouched", func() {
				So(tagged.Source, ShouldEqual, model.SourceLocal)
				So(p.Source, ShouldEqual, model.Source(""))
			})
		})
	})
}

func TestFeedbackStatusValid(t *testing.T) {
	Convey("Given feedback statuses", t, func() {
		So(model.FeedbackConfirmed.Valid(), ShouldBeTrue)
		So(model.FeedbackRejected.Valid(), ShouldBeTrue)
		So(model.FeedbackNone.Valid(), ShouldBeFalse)
		So(model.FeedbackStatus("maybe").Valid(), ShouldBeFalse)
	})
}
