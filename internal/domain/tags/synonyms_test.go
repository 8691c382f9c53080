package tags

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSynonymTableIsClosed(t *testing.T) {
	Convey("Given every alias in the synonym table", t, func() {
		Convey("Then its canonical tag normalizes to itself", func() {
			for alias, canon := range synonyms {
				So(strings.ContainsAny(canon, " \t"), ShouldBeFalse)
				So(Normalize(canon), ShouldEqual, canon)
				So(Normalize(alias), ShouldEqual, canon)
			}
		})

		Convey("Then its spaced and hyphenated spellings are fixed points", func() {
			for alias := range synonyms {
				for _, form := range []string{alias, strings.ReplaceAll(alias, "-", " "), strings.ToUpper(alias)} {
					once := Normalize(form)
					So(Normalize(once), ShouldEqual, once)
				}
			}
		})
	})
}
