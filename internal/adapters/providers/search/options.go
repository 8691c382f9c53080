package search

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/crossjudge/pkg/logger"
)

// Default client configuration constants.
const (
	defaultBaseURL          = "https://clist.by/api/v4"
	defaultHTTPTimeout      = 10 * time.Second
	defaultRequestsPerSec   = 2
	defaultBurst            = 2
	defaultCacheTTL         = 24 * time.Hour
	defaultCacheEntries     = 100
	defaultBreakerThreshold = 5
	defaultBreakerTimeout   = 30 * time.Second
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithCredentials sets the key in "username:api_key" form. A key without a
// colon is sent as the api key with an empty username.
func WithCredentials(key string) Option {
	return func(c *Client) {
		key = strings.TrimSpace(key)
		if key == "" {
			return
		}
		if user, secret, ok := strings.Cut(key, ":"); ok {
			c.username, c.apiKey = user, secret
			return
		}
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

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithCache sets the response cache lifetime and size.
func WithCache(ttl time.Duration, entries int) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
		if entries > 0 {
			c.cacheEntries = entries
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
