package tags_test

import (
	"testing"

	"github.com/okian/crossjudge/internal/domain/tags"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given free-form tags", t, func() {
		Convey("When they are known aliases", func() {
			So(tags.Normalize("DP"), ShouldEqual, "dynamic-programming")
			So(tags.Normalize("dynamic programming"), ShouldEqual, "dynamic-programming")
			So(tags.Normalize(" Hashing "), ShouldEqual, "hash-table")
			So(tags.Normalize("BFS"), ShouldEqual, "breadth-first-search")
			So(tags.Normalize("two pointers"), ShouldEqual, "two-pointers")
			So(tags.Normalize("HashMap"), ShouldEqual, "hash-table")
		})

		Convey("When they are unknown", func() {
			So(tags.Normalize("Segment   Tree"), ShouldEqual, "segment-tree")
			So(tags.Normalize("greedy"), ShouldEqual, "greedy")
			So(tags.Normalize(""), ShouldEqual, "")
		})

		Convey("When normalizing twice", func() {
			inputs := []string{"DP", "dynamic programming", "Hash Map", "zig zag", "Prefix Sum",
				"Segment Tree", "  weird\tspacing  here ", "2D Array", "z-shape", "Z Shape", "z  shape", "path"}

			Convey("Then the result is a fixed point", func() {
				for _, in := range inputs {
					once := tags.Normalize(in)
					So(tags.Normalize(once), ShouldEqual, once)
				}
			})
		})
	})
}

func TestHyphenatedAliases(t *testing.T) {
	Convey("Given an alias written with spaces instead of hyphens", t, func() {
		Convey("Then it resolves like the hyphenated alias", func() {
			So(tags.Normalize("Z Shape"), ShouldEqual, "zigzag")
			So(tags.Normalize("z  shape"), ShouldEqual, tags.Normalize("z-shape"))
		})
	})
}

func TestNormalizeAll(t *testing.T) {
	Convey("Given a list with aliases, duplicates and blanks", t, func() {
		out := tags.NormalizeAll([]string{"array", "Arrays", "hashing", " ", "hash table", "searching"})

		Convey("Then it keeps first-seen order without duplicates", func() {
			So(out, ShouldResemble, []string{"array", "hash-table", "searching"})
		})

		Convey("And the set view agrees", func() {
			set := tags.Set([]string{"array", "Arrays", "hashing"})
			So(len(set), ShouldEqual, 2)
			_, ok := set["hash-table"]
			So(ok, ShouldBeTrue)
		})
	})

	Convey("Given no tags", t, func() {
		So(tags.NormalizeAll(nil), ShouldBeNil)
	})
}
