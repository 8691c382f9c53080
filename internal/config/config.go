// Package config defines service configuration and how it is loaded.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/okian/crossjudge/internal/domain/scoring"
)

// Feedback store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`
	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// FeedbackBackend selects memory, sqlite or redis.
	FeedbackBackend string `koanf:"feedback_backend"`
	SQLitePath      string `koanf:"sqlite_path"`
	RedisAddr       string `koanf:"redis_addr"`
	RedisPassword   string `koanf:"redis_password"`
	RedisDB         int    `koanf:"redis_db"`
	RedisKey        string `koanf:"redis_key"`

	// CListCredentials is "username:api_key". Empty disables remote search.
	CListCredentials string  `koanf:"clist_credentials"`
	CListBaseURL     string  `koanf:"clist_base_url"`
	CListRateLimit   float64 `koanf:"clist_rate_limit"`

	// EmbeddingsAPIKey enables semantic scoring when set.
	EmbeddingsURL    string `koanf:"embeddings_url"`
	EmbeddingsAPIKey string `koanf:"embeddings_api_key"`

	// CatalogPath overrides the embedded catalog; CatalogWatch hot-reloads it.
	CatalogPath  string `koanf:"catalog_path"`
	CatalogWatch bool   `koanf:"catalog_watch"`

	ProviderTimeout time.Duration `koanf:"provider_timeout"`
	MinScore        int           `koanf:"min_score"`
	MaxResults      int           `koanf:"max_results"`

	// RankRateLimit throttles POST /v1/rank; zero disables it.
	RankRateLimit float64 `koanf:"rank_rate_limit"`
	RankBurst     int     `koanf:"rank_burst"`

	WarmupWorkers   int  `koanf:"warmup_workers"`
	WarmupQueueSize int  `koanf:"warmup_queue_size"`
	WarmupBatchSize int  `koanf:"warmup_batch_size"`
	WarmupCatalog   bool `koanf:"warmup_catalog"`
	DedupeSize      int  `koanf:"dedupe_size"`

	StandardWeights scoring.Weights `koanf:"standard_weights"`
	SemanticWeights scoring.Weights `koanf:"semantic_weights"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		FeedbackBackend: BackendMemory,
		SQLitePath:      "crossjudge.db",
		RedisKey:        "crossjudge:feedback",
		CListBaseURL:    "https://clist.by/api/v4",
		CListRateLimit:  2,
		ProviderTimeout: 5 * time.Second,
		MinScore:        25,
		MaxResults:      10,
		RankBurst:       10,
		WarmupWorkers:   max(2, runtime.NumCPU()/2),
		WarmupQueueSize: 256,
		WarmupBatchSize: 32,
		WarmupCatalog:   true,
		DedupeSize:      5000,
		StandardWeights: scoring.StandardWeights(),
		SemanticWeights: scoring.SemanticWeights(),
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MinScore < 0 || c.MinScore > 100:
		return fmt.Errorf("%w: min_score %d outside [0,100]", ErrInvalidConfig, c.MinScore)
	case c.MaxResults < 1:
		return fmt.Errorf("%w: max_results must be positive", ErrInvalidConfig)
	case c.ProviderTimeout <= 0:
		return fmt.Errorf("%w: provider_timeout must be positive", ErrInvalidConfig)
	case c.StandardWeights.Sum() <= 0:
		return fmt.Errorf("%w: standard_weights must not all be zero", ErrInvalidConfig)
	case c.SemanticWeights.Semantic <= 0:
		return fmt.Errorf("%w: semantic_weights.semantic must be positive", ErrInvalidConfig)
	}

	switch c.FeedbackBackend {
	case BackendMemory:
	case BackendSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("%w: sqlite_path required for sqlite backend", ErrInvalidConfig)
		}
	case BackendRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("%w: redis_addr required for redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown feedback_backend %q", ErrInvalidConfig, c.FeedbackBackend)
	}

	if c.CListCredentials != "" && !strings.Contains(c.CListCredentials, ":") {
		return fmt.Errorf("%w: clist_credentials must be username:api_key", ErrInvalidConfig)
	}
	return nil
}
