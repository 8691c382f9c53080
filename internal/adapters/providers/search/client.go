// Package search queries the CLIST problem index for cross-platform
// candidates.
package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/okian/crossjudge/internal/adapters/cache"
	"github.com/okian/crossjudge/internal/domain/model"
	"github.com/okian/crossjudge/pkg/logger"
	"github.com/okian/crossjudge/pkg/metrics"
)

// Query limits per search mode.
const (
	titleLimit   = 30
	tagsLimit    = 50
	maxKeywords  = 3
	maxQueryTags = 3
)

//nolint:gochecknoglobals // immutable lookup tables
var (
	platformResources = []struct {
		platform model.Platform
		id       int
	}{
		{model.PlatformLeetCode, 102},
		{model.PlatformCodeforces, 1},
		{model.PlatformCodeChef, 2},
		{model.PlatformHackerRank, 63},
		{model.PlatformGeeksForGeeks, 126},
		{model.PlatformAtCoder, 93},
	}
	nonAlnum        = regexp.MustCompile(`[^a-z0-9\s]`)
	keywordStopword = map[string]struct{}{"the": {}, "and": {}, "for": {}, "with": {}}
)

// Client is a SearchProvider backed by the CLIST v4 API.
type Client struct {
	baseURL  string
	username string
	apiKey   string
	http     *http.Client
	limiter  *rate.Limiter

	cacheTTL         time.Duration
	cacheEntries     int
	breakerThreshold uint32
	breakerTimeout   time.Duration

	cache   *cache.Cache[[]model.Problem]
	group   singleflight.Group
	breaker *gobreaker.CircuitBreaker[[]model.Problem]
	logger  logger.Logger
}

// NewClient creates a client. It is unavailable until credentials are set.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:          defaultBaseURL,
		http:             &http.Client{Timeout: defaultHTTPTimeout},
		limiter:          rate.NewLimiter(defaultRequestsPerSec, defaultBurst),
		cacheTTL:         defaultCacheTTL,
		cacheEntries:     defaultCacheEntries,
		breakerThreshold: defaultBreakerThreshold,
		breakerTimeout:   defaultBreakerTimeout,
		logger:           logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.cache = cache.New[[]model.Problem](
		cache.WithName("search"),
		cache.WithTTL(c.cacheTTL),
		cache.WithMaxEntries(c.cacheEntries, 0),
	)
	threshold := c.breakerThreshold
	c.breaker = gobreaker.NewCircuitBreaker[[]model.Problem](gobreaker.Settings{
		Name:    "search",
		Timeout: c.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordBreakerTransition(name, from.String(), to.String())
			metrics.UpdateBreakerState(name, float64(to))
		},
	})
	return c
}

// Available reports whether an API key is configured.
func (c *Client) Available() bool {
	return c.apiKey != ""
}

// Search runs the title and tag searches concurrently and merges them,
// dropping duplicates and problems on the query's own platform. It fails
// only when every issued search fails.
func (c *Client) Search(ctx context.Context, q model.Problem) ([]model.Problem, error) {
	if !c.Available() {
		return nil, ErrNotConfigured
	}

	var (
		wg                sync.WaitGroup
		byTitle, byTags   []model.Problem
		titleErr, tagsErr error
		issued, failed    int
	)
	if kw := Keywords(q.Title); kw != "" {
		issued++
		wg.Add(1)
		go func() {
			defer wg.Done()
			byTitle, titleErr = c.searchByTitle(ctx, kw, q.Platform)
		}()
	}
	if len(q.Tags) > 0 {
		issued++
		wg.Add(1)
		go func() {
			defer wg.Done()
			byTags, tagsErr = c.searchByTags(ctx, q.Tags, q.Platform)
		}()
	}
	wg.Wait()

	for _, err := range []error{titleErr, tagsErr} {
		if err != nil {
			failed++
			c.logger.Warn(ctx, "search request failed", logger.String("query", q.ID), logger.Error(err))
		}
	}
	if issued > 0 && failed == issued {
		return nil, errors.Join(titleErr, tagsErr)
	}

	seen := make(map[string]struct{}, len(byTitle)+len(byTags))
	out := make([]model.Problem, 0, len(byTitle)+len(byTags))
	for _, list := range [][]model.Problem{byTitle, byTags} {
		for _, p := range list {
			if p.Platform == q.Platform {
				continue
			}
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	c.logger.Debug(ctx, "search complete", logger.String("query", q.ID), logger.Int("matches", len(out)))
	return out, nil
}

// Keywords extracts up to three significant words from a title.
func Keywords(title string) string {
	words := strings.Fields(nonAlnum.ReplaceAllString(strings.ToLower(title), " "))
	out := make([]string, 0, maxKeywords)
	for _, w := range words {
		if len(w) <= 2 {
			continue
		}
		if _, stop := keywordStopword[w]; stop {
			continue
		}
		out = append(out, w)
		if len(out) == maxKeywords {
			break
		}
	}
	return strings.Join(out, " ")
}

func (c *Client) searchByTitle(ctx context.Context, keywords string, exclude model.Platform) ([]model.Problem, error) {
	key := fmt.Sprintf("title:%s:%s", keywords, platformOrAll(exclude))
	params := url.Values{}
	params.Set("search", keywords)
	params.Set("limit", strconv.Itoa(titleLimit))
	return c.cached(ctx, key, exclude, params)
}

func (c *Client) searchByTags(ctx context.Context, tags []string, exclude model.Platform) ([]model.Problem, error) {
	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)
	key := fmt.Sprintf("tags:%s:%s", strings.Join(sorted, ","), platformOrAll(exclude))
	params := url.Values{}
	params.Set("tag", strings.Join(sorted[:min(maxQueryTags, len(sorted))], ","))
	params.Set("limit", strconv.Itoa(tagsLimit))
	return c.cached(ctx, key, exclude, params)
}

// cached serves key from the response cache, coalescing concurrent misses
// into one breaker-guarded request.
func (c *Client) cached(ctx context.Context, key string, exclude model.Platform, params url.Values) ([]model.Problem, error) {
	if hit, ok := c.cache.Get(key); ok {
		return hit, nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		problems, err := c.breaker.Execute(func() ([]model.Problem, error) {
			return c.fetch(ctx, exclude, params)
		})
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, problems)
		return problems, nil
	})
	if err != nil {
		return nil, err
	}
	problems, _ := v.([]model.Problem)
	return problems, nil
}

type problemList struct {
	Objects []clistProblem `json:"objects"`
}

type clistProblem struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Title      string          `json:"title"`
	URL        string          `json:"url"`
	Tags       []string        `json:"tags"`
	Rating     *float64        `json:"rating"`
	ResourceID int             `json:"resource_id"`
	Resource   json.RawMessage `json:"resource"`
}

func (c *Client) fetch(ctx context.Context, exclude model.Platform, params url.Values) ([]model.Problem, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	params.Set("username", c.username)
	params.Set("api_key", c.apiKey)
	params.Set("resource__id__in", resourceFilter(exclude))
	params.Set("order_by", "-rating")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/json/problem/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var body problemList
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	out := make([]model.Problem, 0, len(body.Objects))
	for _, p := range body.Objects {
		out = append(out, p.normalize())
	}
	return out, nil
}

func (p clistProblem) normalize() model.Problem {
	platform := platformFor(p.resourceID())
	title := p.Name
	if title == "" {
		title = p.Title
	}
	tags := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		tags[i] = strings.ToLower(t)
	}
	return model.Problem{
		ID:         fmt.Sprintf("%s:clist-%d", platform, p.ID),
		Platform:   platform,
		Title:      title,
		URL:        p.URL,
		Tags:       tags,
		Difficulty: RatingLabel(p.Rating, platform),
		Source:     model.SourceAPI,
	}
}

func (p clistProblem) resourceID() int {
	if p.ResourceID != 0 {
		return p.ResourceID
	}
	var res struct {
		ID int `json:"id"`
	}
	if len(p.Resource) > 0 && json.Unmarshal(p.Resource, &res) == nil {
		return res.ID
	}
	return 0
}

// RatingLabel maps a CLIST rating onto Easy/Medium/Hard. Codeforces uses
// its own, higher bands. A missing rating is Medium.
func RatingLabel(rating *float64, platform model.Platform) string {
	if rating == nil || *rating == 0 {
		return "Medium"
	}
	easy, medium := 1000.0, 2000.0
	if platform == model.PlatformCodeforces {
		easy, medium = 1200, 1800
	}
	switch r := *rating; {
	case r <= easy:
		return "Easy"
	case r <= medium:
		return "Medium"
	default:
		return "Hard"
	}
}

func platformFor(resourceID int) model.Platform {
	for _, r := range platformResources {
		if r.id == resourceID {
			return r.platform
		}
	}
	return model.PlatformUnknown
}

func resourceFilter(exclude model.Platform) string {
	ids := make([]string, 0, len(platformResources))
	for _, r := range platformResources {
		if r.platform != exclude {
			ids = append(ids, strconv.Itoa(r.id))
		}
	}
	return strings.Join(ids, ",")
}

func platformOrAll(p model.Platform) string {
	if p == "" {
		return "all"
	}
	return string(p)
}
