package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a usable logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := InitWithWriter(&bytes.Buffer{}, "xml")

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When initialized with a nil writer", func() {
			So(InitWithWriter(nil, "text"), ShouldNotBeNil)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing JSON to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithWriter(&buf, "json"), ShouldBeNil)
		So(SetLevelString("debug"), ShouldBeNil)
		defer func() { _ = SetLevelString("info") }()

		ctx := context.Background()

		Convey("When logging with fields", func() {
			Get().Info(ctx, "ranked", String("query", "leetcode:1"), Int("results", 3), Error(errors.New("boom")))
			out := buf.String()

			Convey("Then fields and caller are present", func() {
				So(out, ShouldContainSubstring, `"msg":"ranked"`)
				So(out, ShouldContainSubstring, `"query":"leetcode:1"`)
				So(out, ShouldContainSubstring, `"results":3`)
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging through a named logger", func() {
			Named("aggregator").Warn(ctx, "provider failed")

			Convey("Then the component is attached", func() {
				So(buf.String(), ShouldContainSubstring, `"component":"aggregator"`)
			})
		})

		Convey("When the level filters a record", func() {
			So(SetLevelString("error"), ShouldBeNil)
			Get().Debug(ctx, "hidden")

			Convey("Then nothing is written", func() {
				So(strings.Contains(buf.String(), "hidden"), ShouldBeFalse)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		for _, lvl := range []string{"debug", "INFO", " warn ", "warning", "error", ""} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("loud"), ShouldNotBeNil)
		_ = SetLevelString("info")
	})
}

func TestNop(t *testing.T) {
	Convey("Given a nop logger", t, func() {
		l := NewNop()

		Convey("Then every method is safe to call", func() {
			So(func() {
				l.Info(context.Background(), "x")
				l.Error(context.Background(), "x")
				l.Named("n").Debug(context.Background(), "x")
			}, ShouldNotPanic)
		})
	})
}
