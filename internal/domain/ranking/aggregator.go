// Package ranking gathers candidates from independent providers, scores them
// against a query problem and returns the best cross-platform matches.
package ranking

import (
	"context"
	"errors"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/crossjudge/internal/domain/feedback"
	"github.com/okian/crossjudge/internal/domain/model"
	"github.com/okian/crossjudge/internal/domain/scoring"
	"github.com/okian/crossjudge/pkg/logger"
	"github.com/okian/crossjudge/pkg/metrics"
)

// Default aggregation settings.
const (
	DefaultMinScore        = 25
	DefaultLimit           = 10
	DefaultProviderTimeout = 5 * time.Second
)

// Aggregator ranks candidates for a query. It is safe for concurrent use as
// long as its providers and feedback store are.
type Aggregator struct {
	scorer   *scoring.Scorer
	feedback feedback.Store
	search   SearchProvider
	catalog  CatalogProvider
	semantic SemanticProvider

	minScore int
	limit    int
	timeout  time.Duration

	logger logger.Logger
}

// NewAggregator creates an aggregator backed by store. A nil store falls back
// to an in-memory one.
func NewAggregator(store feedback.Store, opts ...Option) *Aggregator {
	if store == nil {
		store = feedback.NewMemoryStore()
	}
	a := &Aggregator{
		scorer:   scoring.NewScorer(),
		feedback: store,
		minScore: DefaultMinScore,
		limit:    DefaultLimit,
		timeout:  DefaultProviderTimeout,
		logger:   logger.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Rank returns at most limit matches for q scoring at least minScore, best
// first. It never fails: invalid queries yield an empty list without touching
// any provider, and provider failures only shrink the candidate pool.
func (a *Aggregator) Rank(ctx context.Context, q model.Problem) []model.MatchResult {
	start := time.Now()
	if err := q.Validate(); err != nil {
		a.logger.Warn(ctx, "query rejected", logger.String("query", q.ID), logger.Error(err))
		metrics.RecordRankRequest("invalid")
		return []model.MatchResult{}
	}

	local := excludePlatform(a.fetchCatalog(ctx, q.Platform), q.Platform)

	var (
		remote   []model.Problem
		semantic map[string]int
	)
	var g errgroup.Group
	g.Go(func() error {
		remote = a.fetchSearch(ctx, q)
		return nil
	})
	g.Go(func() error {
		semantic = a.fetchSemantic(ctx, q.Title, local)
		return nil
	})
	_ = g.Wait()

	candidates := Merge(remote, local)
	candidates, judgments := a.exclude(ctx, q, candidates)

	var unscored []model.Problem
	for _, c := range candidates {
		if _, ok := semantic[c.ID]; !ok && c.Source == model.SourceAPI {
			unscored = append(unscored, c)
		}
	}
	if len(unscored) > 0 {
		for id, s := range a.fetchSemantic(ctx, q.Title, unscored) {
			semantic[id] = s
		}
	}

	results := a.score(q, candidates, judgments, semantic)

	metrics.RecordRankRequest("ok")
	metrics.RecordRankLatency(float64(time.Since(start).Milliseconds()))
	metrics.RecordRankResults(len(results))
	a.logger.Debug(ctx, "ranked",
		logger.String("query", q.ID),
		logger.Int("candidates", len(candidates)),
		logger.Int("results", len(results)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return results
}

// Score compares two problems directly, applying any stored judgment. The
// result is not subject to the score threshold.
func (a *Aggregator) Score(ctx context.Context, q, c model.Problem, semantic *int) model.MatchResult {
	fb, err := a.feedback.Get(ctx, q.ID, c.ID)
	if err != nil {
		a.logger.Warn(ctx, "feedback lookup failed", logger.Error(err))
		fb = model.FeedbackNone
	}
	return match(c, a.scorer.Score(q, c, fb, semantic), fb)
}

// Merge concatenates candidate lists in priority order, keeping the first
// occurrence of every id and dropping entries without one.
func Merge(lists ...[]model.Problem) []model.Problem {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	out := make([]model.Problem, 0, total)
	seen := make(map[string]struct{}, total)
	for _, l := range lists {
		for _, p := range l {
			if p.ID == "" {
				continue
			}
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// exclude drops same-platform and rejected candidates and returns the stored
// judgment of every survivor.
func (a *Aggregator) exclude(ctx context.Context, q model.Problem, in []model.Problem) ([]model.Problem, map[string]model.FeedbackStatus) {
	out := make([]model.Problem, 0, len(in))
	judgments := make(map[string]model.FeedbackStatus, len(in))
	for _, c := range in {
		if c.Platform == q.Platform {
			metrics.RecordCandidateDropped("same_platform")
			continue
		}
		fb, err := a.feedback.Get(ctx, q.ID, c.ID)
		if err != nil {
			metrics.RecordProviderFailure(providerFeedback, "error")
			a.logger.Warn(ctx, "feedback lookup failed",
				logger.String("candidate", c.ID),
				logger.Error(err),
			)
			fb = model.FeedbackNone
		}
		if fb == model.FeedbackRejected {
			metrics.RecordCandidateDropped("rejected")
			continue
		}
		judgments[c.ID] = fb
		out = append(out, c)
	}
	return out, judgments
}

func (a *Aggregator) score(q model.Problem, candidates []model.Problem, judgments map[string]model.FeedbackStatus, semantic map[string]int) []model.MatchResult {
	results := make([]model.MatchResult, 0, len(candidates))
	for _, c := range candidates {
		var sem *int
		if s, ok := semantic[c.ID]; ok {
			sem = &s
		}
		res := a.scorer.Score(q, c, judgments[c.ID], sem)
		if res.Score < a.minScore {
			metrics.RecordCandidateDropped("below_threshold")
			continue
		}
		results = append(results, match(c, res, judgments[c.ID]))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > a.limit {
		results = results[:a.limit]
	}
	return results
}

func match(c model.Problem, res scoring.Result, fb model.FeedbackStatus) model.MatchResult {
	return model.MatchResult{
		Problem:          c,
		Score:            res.Score,
		Breakdown:        res.Breakdown,
		FeedbackStatus:   fb,
		Classification:   scoring.Classify(res.Score),
		Source:           c.Source,
		HasSemanticScore: res.Breakdown.Semantic != nil,
	}
}

func (a *Aggregator) fetchSearch(ctx context.Context, q model.Problem) []model.Problem {
	if a.search == nil || !a.search.Available() {
		return nil
	}
	out, err := call(ctx, a, providerSearch, func(ctx context.Context) ([]model.Problem, error) {
		return a.search.Search(ctx, q)
	})
	if err != nil {
		return nil
	}
	metrics.RecordCandidatesFetched(providerSearch, len(out))
	return withSource(out, model.SourceAPI)
}

func (a *Aggregator) fetchCatalog(ctx context.Context, platform model.Platform) []model.Problem {
	if a.catalog == nil || !a.catalog.Available() {
		return nil
	}
	out, err := call(ctx, a, providerCatalog, func(ctx context.Context) ([]model.Problem, error) {
		return a.catalog.OtherPlatforms(ctx, platform)
	})
	if err != nil {
		return nil
	}
	metrics.RecordCandidatesFetched(providerCatalog, len(out))
	return withSource(out, model.SourceLocal)
}

// fetchSemantic always returns a non-nil map so callers can merge into it.
func (a *Aggregator) fetchSemantic(ctx context.Context, title string, candidates []model.Problem) map[string]int {
	out := make(map[string]int, len(candidates))
	if a.semantic == nil || !a.semantic.Available() || len(candidates) == 0 {
		return out
	}
	scores, err := call(ctx, a, providerSemantic, func(ctx context.Context) ([]model.SemanticScore, error) {
		return a.semantic.Score(ctx, title, candidates)
	})
	if err != nil {
		return out
	}
	for _, s := range scores {
		out[s.CandidateID] = s.Score
	}
	metrics.RecordCandidatesFetched(providerSemantic, len(out))
	return out
}

// call runs fn under the provider timeout. A provider that ignores its
// context is abandoned once the deadline passes.
func call[T any](ctx context.Context, a *Aggregator, provider string, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type outcome struct {
		val T
		err error
	}
	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		v, err := fn(ctx)
		done <- outcome{val: v, err: err}
	}()

	var res outcome
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}
	metrics.RecordProviderLatency(provider, float64(time.Since(start).Milliseconds()))

	if res.err != nil {
		reason := "error"
		if errors.Is(res.err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		metrics.RecordProviderFailure(provider, reason)
		a.logger.Warn(ctx, "provider failed",
			logger.String("provider", provider),
			logger.String("reason", reason),
			logger.Error(res.err),
		)
		var zero T
		return zero, res.err
	}
	return res.val, nil
}

func withSource(in []model.Problem, src model.Source) []model.Problem {
	out := make([]model.Problem, len(in))
	for i, p := range in {
		out[i] = p.WithSource(src)
	}
	return out
}

func excludePlatform(in []model.Problem, platform model.Platform) []model.Problem {
	out := in[:0:0]
	for _, p := range in {
		if p.Platform != platform {
			out = append(out, p)
		}
	}
	return out
}
