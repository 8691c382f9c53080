package inference_test

import (
	"testing"

	"github.com/okian/crossjudge/internal/domain/inference"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConstraints(t *testing.T) {
	Convey("Given constraint text", t, func() {
		Convey("When it uses caret exponents", func() {
			c := inference.Constraints("1 ≤ n ≤ 10^5, 1 <= a_i <= 10^9")
			So(c["n"], ShouldEqual, 1e5)
			So(c["i"], ShouldEqual, 1e9)
		})

		Convey("When it uses e-notation", func() {
			c := inference.Constraints("N <= 1e6")
			So(c["n"], ShouldEqual, 1e6)
		})

		Convey("When it uses bare integers", func() {
			c := inference.Constraints("n < 2000 and m <= 50")
			So(c["n"], ShouldEqual, 2000)
			_, ok := c["m"]
			So(ok, ShouldBeFalse)
		})

		Convey("When the same variable has both forms", func() {
			c := inference.Constraints("n <= 100000; n ≤ 10^4")
			So(c["n"], ShouldEqual, 1e4)
		})

		Convey("When a variable is bounded more than once", func() {
			c := inference.Constraints("1 ≤ n ≤ 10^5. For subtask 1, n ≤ 10^3.")
			So(c["n"], ShouldEqual, 1e5)

			c = inference.Constraints("n ≤ 10^6, and later n <= 1e2")
			So(c["n"], ShouldEqual, 1e6)

			c = inference.Constraints("n <= 1e3 first, then n ≤ 10^7")
			So(c["n"], ShouldEqual, 1e3)

			c = inference.Constraints("m < 5000 and later m < 200")
			So(c["m"], ShouldEqual, 5000)
		})

		Convey("When there is no signal", func() {
			So(inference.Constraints(""), ShouldBeEmpty)
			So(inference.Constraints("small input"), ShouldBeEmpty)
		})
	})
}

func TestScale(t *testing.T) {
	Convey("Given constraint maps", t, func() {
		v, ok := inference.Scale(map[string]float64{"n": 100, "m": 1e9})
		So(ok, ShouldBeTrue)
		So(v, ShouldEqual, 100)

		v, ok = inference.Scale(map[string]float64{"N": 500})
		So(ok, ShouldBeTrue)
		So(v, ShouldEqual, 500)

		v, ok = inference.Scale(map[string]float64{"q": 10, "k": 1e5})
		So(ok, ShouldBeTrue)
		So(v, ShouldEqual, 1e5)

		_, ok = inference.Scale(nil)
		So(ok, ShouldBeFalse)
	})
}

func TestIOShapes(t *testing.T) {
	Convey("Given problem descriptions", t, func() {
		So(inference.IOShapes("Given an array of integers and a target number"),
			ShouldResemble, []string{"array", "integer"})
		So(inference.IOShapes("A 9x9 Grid with a binary tree"), ShouldResemble, []string{"matrix", "tree"})
		So(inference.IOShapes("read the edges of the graph"), ShouldResemble, []string{"graph"})
		So(inference.IOShapes("Return the string"), ShouldResemble, []string{"string"})
		So(inference.IOShapes("arrays and strings"), ShouldBeEmpty)
		So(inference.IOShapes(""), ShouldBeEmpty)
	})
}
