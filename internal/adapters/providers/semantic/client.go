// Package semantic scores candidate titles by sentence-embedding similarity.
package semantic

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/okian/crossjudge/internal/adapters/cache"
	"github.com/okian/crossjudge/internal/domain/model"
	"github.com/okian/crossjudge/pkg/logger"
	"github.com/okian/crossjudge/pkg/metrics"
)

// Client is a SemanticProvider backed by a feature-extraction endpoint that
// accepts {"inputs": [...]} and returns one vector per input.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client

	cacheTTL         time.Duration
	cacheEntries     int
	cacheTrimTo      int
	breakerThreshold uint32
	breakerTimeout   time.Duration

	cache   *cache.Cache[[]float64]
	breaker *gobreaker.CircuitBreaker[[][]float64]
	logger  logger.Logger
}

// NewClient creates a client. It is unavailable until an API key is set.
func NewClient(opts ...Option) *Client {
	c := &Client{
		endpoint:         defaultEndpoint,
		http:             &http.Client{Timeout: defaultHTTPTimeout},
		cacheTTL:         defaultCacheTTL,
		cacheEntries:     defaultCacheEntries,
		cacheTrimTo:      defaultCacheTrimTo,
		breakerThreshold: defaultBreakerThreshold,
		breakerTimeout:   defaultBreakerTimeout,
		logger:           logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.cache = cache.New[[]float64](
		cache.WithName("embeddings"),
		cache.WithTTL(c.cacheTTL),
		cache.WithMaxEntries(c.cacheEntries, c.cacheTrimTo),
	)
	threshold := c.breakerThreshold
	c.breaker = gobreaker.NewCircuitBreaker[[][]float64](gobreaker.Settings{
		Name:    "embeddings",
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

// Score returns the rounded cosine similarity, clamped to [0,100], between
// queryTitle and every candidate title.
func (c *Client) Score(ctx context.Context, queryTitle string, candidates []model.Problem) ([]model.SemanticScore, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	texts := make([]string, 0, len(candidates)+1)
	texts = append(texts, queryTitle)
	for _, cand := range candidates {
		texts = append(texts, cand.Title)
	}
	vecs, err := c.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	out := make([]model.SemanticScore, len(candidates))
	for i, cand := range candidates {
		sim := int(math.Round(Cosine(vecs[0], vecs[i+1]) * 100))
		out[i] = model.SemanticScore{CandidateID: cand.ID, Score: max(0, min(100, sim))}
	}
	return out, nil
}

// Warm embeds texts so later Score calls are served from cache.
func (c *Client) Warm(ctx context.Context, texts []string) error {
	_, err := c.Embed(ctx, texts)
	return err
}

// Embed returns one vector per text, requesting only the texts missing from
// the cache in a single batch.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if !c.Available() {
		return nil, ErrNotConfigured
	}
	out := make([][]float64, len(texts))
	var (
		missing []string
		slots   []int
	)
	for i, t := range texts {
		if v, ok := c.cache.Get(cacheKey(t)); ok {
			out[i] = v
			continue
		}
		missing = append(missing, t)
		slots = append(slots, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	vecs, err := c.breaker.Execute(func() ([][]float64, error) {
		return c.fetch(ctx, missing)
	})
	if err != nil {
		return nil, err
	}
	for j, v := range vecs {
		out[slots[j]] = v
		c.cache.Set(cacheKey(missing[j]), v)
	}
	c.logger.Debug(ctx, "embedded texts", logger.Int("requested", len(missing)), logger.Int("cached", len(texts)-len(missing)))
	return out, nil
}

type embedRequest struct {
	Inputs  []string     `json:"inputs"`
	Options embedOptions `json:"options"`
}

type embedOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

func (c *Client) fetch(ctx context.Context, texts []string) ([][]float64, error) {
	body, err := json.Marshal(embedRequest{Inputs: texts, Options: embedOptions{WaitForModel: true}})
	if err != nil {
		return nil, fmt.Errorf("encode embedding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var vecs [][]float64
	if err := json.NewDecoder(resp.Body).Decode(&vecs); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("%w: sent %d texts, got %d vectors", ErrShapeMismatch, len(texts), len(vecs))
	}
	return vecs, nil
}

// Cosine returns the cosine similarity of a and b, or 0 when they differ in
// length or either has zero norm.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func cacheKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
