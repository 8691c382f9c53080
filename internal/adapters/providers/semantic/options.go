package semantic

import (
	"net/http"
	"time"

	"github.com/okian/crossjudge/pkg/logger"
)

// Default client configuration constants.
const (
	defaultEndpoint         = "https://router.huggingface.co/hf-inference/models/sentence-transformers/all-MiniLM-L6-v2"
	defaultHTTPTimeout      = 30 * time.Second
	defaultCacheTTL         = 7 * 24 * time.Hour
	defaultCacheEntries     = 500
	defaultCacheTrimTo      = 400
	defaultBreakerThreshold = 3
	defaultBreakerTimeout   = time.Minute
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithEndpoint sets the feature-extraction URL.
func WithEndpoint(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.endpoint = u
		}
	}
}

// WithAPIKey sets the bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithCache sets the embedding cache lifetime, bound and trim watermark.
func WithCache(ttl time.Duration, entries, trimTo int) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
		if entries > 0 {
			c.cacheEntries = entries
			c.cacheTrimTo = trimTo
		}
	}
}

// WithBreaker sets the consecutive failures that open the circuit and how
// long it stays open.
func WithBreaker(threshold uint32, openFor time.Duration) Option {
	return func(c *Client) {
		if threshold > 0 {
			c.breakerThreshold = threshold
		}
		if openFor > 0 {
			c.breakerTimeout = openFor
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
