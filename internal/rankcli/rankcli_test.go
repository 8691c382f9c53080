package rankcli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/crossjudge/internal/config"
	"github.com/okian/crossjudge/internal/domain/model"
)

type fakeRanker struct {
	results []model.MatchResult
	err     error
}

func (f fakeRanker) Rank(context.Context, model.Problem) ([]model.MatchResult, error) {
	return f.results, f.err
}

func (fakeRanker) Explain(bd model.Breakdown) string {
	return "Title: +1pts\nTags: +2pts"
}

func sampleMatch() model.MatchResult {
	return model.MatchResult{
		Problem: model.Problem{
			ID:       "gfg:key-pair",
			Platform: model.PlatformGeeksForGeeks,
			Title:    "Key Pair",
			URL:      "https://www.geeksforgeeks.org/problems/key-pair/1",
		},
		Score:          72,
		Classification: model.Classification{Label: "Likely match", Class: "likely"},
		Source:         model.SourceLocal,
	}
}

func TestQuery(t *testing.T) {
	Convey("Given rank flags", t, func() {
		Convey("When a title is given", func() {
			cfg := &Config{Title: "Two Sum", Platform: "LeetCode", Tags: "array, hash table,,", Difficulty: "easy"}
			q, err := cfg.Query()

			Convey("Then the problem is built from the flags", func() {
				So(err, ShouldBeNil)
				So(q.ID, ShouldEqual, "leetcode:two-sum")
				So(q.Platform, ShouldEqual, model.PlatformLeetCode)
				So(q.Tags, ShouldResemble, []string{"array", "hash table"})
				So(q.Difficulty, ShouldEqual, "easy")
			})
		})

		Convey("When the platform is omitted", func() {
			q, err := (&Config{Title: "Key Pair", ID: "x:1"}).Query()
			So(err, ShouldBeNil)
			So(q.Platform, ShouldEqual, model.PlatformUnknown)
			So(q.ID, ShouldEqual, "x:1")
		})

		Convey("When a catalog id is given", func() {
			q, err := (&Config{CatalogID: "leetcode:1"}).Query()
			So(err, ShouldBeNil)
			So(q.Title, ShouldEqual, "Two Sum")

			_, err = (&Config{CatalogID: "leetcode:nope"}).Query()
			So(err, ShouldNotBeNil)
		})

		Convey("When a problem file is given", func() {
			path := filepath.Join(t.TempDir(), "q.json")
			So(os.WriteFile(path, []byte(`{"id":"codeforces:4A","platform":"codeforces","title":"Watermelon"}`), 0o600), ShouldBeNil)
			q, err := (&Config{ProblemFile: path, Title: "ignored"}).Query()
			So(err, ShouldBeNil)
			So(q.Title, ShouldEqual, "Watermelon")
			So(q.Platform, ShouldEqual, model.PlatformCodeforces)

			bad := filepath.Join(t.TempDir(), "bad.json")
			So(os.WriteFile(bad, []byte(`{`), 0o600), ShouldBeNil)
			_, err = (&Config{ProblemFile: bad}).Query()
			So(err, ShouldNotBeNil)
		})

		Convey("When nothing identifies a query", func() {
			_, err := (&Config{Title: "  "}).Query()
			So(errors.Is(err, ErrNoQuery), ShouldBeTrue)
		})
	})
}

func TestRankWithAndRender(t *testing.T) {
	Convey("Given a ranker with one match", t, func() {
		matches, err := RankWith(context.Background(), fakeRanker{results: []model.MatchResult{sampleMatch()}}, model.Problem{})
		So(err, ShouldBeNil)
		So(matches, ShouldHaveLength, 1)
		So(matches[0].Explanation, ShouldContainSubstring, "Tags")

		q := model.Problem{ID: "leetcode:1", Title: "Two Sum"}

		Convey("Then text output lists the match and its explanation", func() {
			var buf bytes.Buffer
			So(Render(&buf, q, matches, false), ShouldBeNil)
			out := buf.String()
			So(out, ShouldContainSubstring, `Matches for "Two Sum" (leetcode:1)`)
			So(out, ShouldContainSubstring, " 1. [ 72] Likely match  Key Pair  (geeksforgeeks, local)")
			So(out, ShouldContainSubstring, "      https://www.geeksforgeeks.org/problems/key-pair/1")
			So(out, ShouldContainSubstring, "      Title: +1pts")
		})

		Convey("Then JSON output carries the query and results", func() {
			var buf bytes.Buffer
			So(Render(&buf, q, matches, true), ShouldBeNil)
			var got struct {
				Query   model.Problem `json:"query"`
				Results []Match       `json:"results"`
			}
			So(json.Unmarshal(buf.Bytes(), &got), ShouldBeNil)
			So(got.Query.ID, ShouldEqual, "leetcode:1")
			So(got.Results[0].Problem.ID, ShouldEqual, "gfg:key-pair")
			So(got.Results[0].Explanation, ShouldStartWith, "Title")
		})

		Convey("Then an empty result says so", func() {
			var buf bytes.Buffer
			So(Render(&buf, q, nil, false), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "no similar problems found")
		})
	})

	Convey("Given a failing ranker", t, func() {
		boom := errors.New("boom")
		_, err := RankWith(context.Background(), fakeRanker{err: boom}, model.Problem{})
		So(errors.Is(err, boom), ShouldBeTrue)
	})
}

func TestRunRemote(t *testing.T) {
	Convey("Given a server answering rank requests", t, func() {
		var got model.Problem
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/rank" || r.Method != http.MethodPost {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if got.Title == "fail" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_problem"}`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"query_id": got.ID,
				"results":  []Match{{MatchResult: sampleMatch(), Explanation: "Title: +30pts"}},
			})
		}))
		Reset(srv.Close)

		Convey("When ranking through it", func() {
			var buf bytes.Buffer
			cfg := &Config{BaseURL: srv.URL + "/", Timeout: time.Second, Title: "Two Sum", Platform: "leetcode"}
			err := Run(context.Background(), cfg, &buf)

			Convey("Then the server's matches are printed", func() {
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, "leetcode:two-sum")
				So(buf.String(), ShouldContainSubstring, "Key Pair")
				So(buf.String(), ShouldContainSubstring, "Title: +30pts")
			})
		})

		Convey("When the server rejects the query", func() {
			err := Run(context.Background(), &Config{BaseURL: srv.URL, Timeout: time.Second, Title: "fail"}, &bytes.Buffer{})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "status 400")
			So(err.Error(), ShouldContainSubstring, "invalid_problem")
		})
	})
}

func TestRunLocal(t *testing.T) {
	Convey("Given no server url", t, func() {
		_ = os.Unsetenv(config.EnvConfigPath)

		Convey("When ranking a catalog entry in-process", func() {
			var buf bytes.Buffer
			err := Run(context.Background(), &Config{CatalogID: "leetcode:1", JSON: true}, &buf)

			Convey("Then catalog equivalents are returned", func() {
				So(err, ShouldBeNil)
				var got struct {
					Results []Match `json:"results"`
				}
				So(json.Unmarshal(buf.Bytes(), &got), ShouldBeNil)
				var found bool
				for _, m := range got.Results {
					So(m.Problem.Platform, ShouldNotEqual, model.PlatformLeetCode)
					if m.Problem.ID == "gfg:key-pair" {
						found = true
						So(strings.Contains(m.Explanation, "Tags"), ShouldBeTrue)
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When no query is given", func() {
			err := Run(context.Background(), &Config{}, &bytes.Buffer{})
			So(errors.Is(err, ErrNoQuery), ShouldBeTrue)
		})
	})
}
