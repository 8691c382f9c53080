package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/crossjudge/internal/adapters/providers/catalog"
	"github.com/okian/crossjudge/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const small = `problems:
  - id: "leetcode:1"
    platform: leetcode
    title: "Two Sum"
    tags: [array, hash-table]
    difficulty: "easy"
    constraints: {n: 10000}
  - id: "gfg:key-pair"
    platform: geeksforgeeks
    title: "Key Pair"
    tags: [array, hashing]
`

func TestEmbeddedCatalog(t *testing.T) {
	Convey("Given the embedded catalog", t, func() {
		c, err := catalog.New()
		So(err, ShouldBeNil)
		So(c.Available(), ShouldBeTrue)
		So(c.Len(), ShouldBeGreaterThan, 100)

		Convey("Then entries are looked up by id", func() {
			p, ok := c.ByID("gfg:key-pair")
			So(ok, ShouldBeTrue)
			So(p.Title, ShouldEqual, "Key Pair")
			So(p.Platform, ShouldEqual, model.PlatformGeeksForGeeks)
			So(p.Source, ShouldEqual, model.SourceLocal)
			So(p.Constraints["n"], ShouldEqual, 100000)
		})

		Convey("Then other-platform queries exclude the platform", func() {
			out, err := c.OtherPlatforms(context.Background(), model.PlatformLeetCode)
			So(err, ShouldBeNil)
			So(out, ShouldNotBeEmpty)
			for _, p := range out {
				So(p.Platform, ShouldNotEqual, model.PlatformLeetCode)
			}
			So(len(out)+len(c.ByPlatform(model.PlatformLeetCode)), ShouldEqual, c.Len())
			So(len(c.All()), ShouldEqual, c.Len())
		})

		Convey("Then title search is a case-insensitive substring match", func() {
			out := c.SearchTitle("BINARY SEARCH")
			So(len(out), ShouldBeGreaterThanOrEqualTo, 2)
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given catalog documents", t, func() {
		Convey("When ids repeat", func() {
			_, err := catalog.Parse([]byte("problems:\n  - {id: a, title: A}\n  - {id: a, title: B}\n"))
			So(errors.Is(err, catalog.ErrDuplicateID), ShouldBeTrue)
		})

		Convey("When a title is missing", func() {
			_, err := catalog.Parse([]byte("problems:\n  - {id: a}\n"))
			So(errors.Is(err, catalog.ErrInvalidItem), ShouldBeTrue)
			So(errors.Is(err, model.ErrMissingTitle), ShouldBeTrue)
		})

		Convey("When the platform is omitted", func() {
			out, err := catalog.Parse([]byte("problems:\n  - {id: a, title: A}\n"))
			So(err, ShouldBeNil)
			So(out[0].Platform, ShouldEqual, model.PlatformUnknown)
		})
	})
}

func TestCatalogFile(t *testing.T) {
	Convey("Given a catalog file", t, func() {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		So(os.WriteFile(path, []byte(small), 0o600), ShouldBeNil)
		c, err := catalog.New(catalog.WithPath(path))
		So(err, ShouldBeNil)
		So(c.Len(), ShouldEqual, 2)

		Convey("When the file gains an entry and is reloaded", func() {
			extra := small + "  - {id: \"hackerrank:pairs\", platform: hackerrank, title: Pairs}\n"
			So(os.WriteFile(path, []byte(extra), 0o600), ShouldBeNil)
			So(c.Reload(), ShouldBeNil)
			So(c.Len(), ShouldEqual, 3)
		})

		Convey("When the file becomes invalid", func() {
			So(os.WriteFile(path, []byte("problems: [{id: x}]"), 0o600), ShouldBeNil)

			Convey("Then reload fails and the old entries stay", func() {
				So(c.Reload(), ShouldNotBeNil)
				So(c.Len(), ShouldEqual, 2)
			})
		})

		Convey("When watched", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			So(c.Watch(ctx), ShouldBeNil)

			extra := small + "  - {id: \"codeforces:4A\", platform: codeforces, title: Watermelon}\n"
			So(os.WriteFile(path, []byte(extra), 0o600), ShouldBeNil)

			Convey("Then the change is picked up", func() {
				deadline := time.Now().Add(3 * time.Second)
				for c.Len() != 3 && time.Now().Before(deadline) {
					time.Sleep(20 * time.Millisecond)
				}
				So(c.Len(), ShouldEqual, 3)
				_, ok := c.ByID("codeforces:4A")
				So(ok, ShouldBeTrue)
			})
		})
	})

	Convey("Given the embedded catalog", t, func() {
		c, err := catalog.New()
		So(err, ShouldBeNil)
		So(c.Reload(), ShouldEqual, catalog.ErrNoPath)
		So(c.Watch(context.Background()), ShouldEqual, catalog.ErrNoPath)
	})

	Convey("Given a missing file", t, func() {
		_, err := catalog.New(catalog.WithPath(filepath.Join(t.TempDir(), "nope.yaml")))
		So(err, ShouldNotBeNil)
	})
}
