package service

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/crossjudge/internal/adapters/providers/catalog"
	"github.com/okian/crossjudge/internal/adapters/providers/search"
	"github.com/okian/crossjudge/internal/adapters/providers/semantic"
	"github.com/okian/crossjudge/internal/adapters/repository"
	"github.com/okian/crossjudge/internal/config"
	"github.com/okian/crossjudge/internal/domain/feedback"
	"github.com/okian/crossjudge/internal/domain/scoring"
	"github.com/okian/crossjudge/pkg/logger"
)

// FromConfig builds a Service and its adapters from cfg. Resources it opens
// are closed by Stop.
func FromConfig(ctx context.Context, cfg *config.Config, log logger.Logger) (*Service, error) {
	if log == nil {
		log = logger.NewNop()
	}

	store, closer, err := OpenFeedbackStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.New(catalog.WithPath(cfg.CatalogPath), catalog.WithLogger(log.Named("catalog")))
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	opts := []Option{
		WithLogger(log),
		WithFeedbackStore(store),
		WithCatalog(cat),
		WithCatalogWatch(cfg.CatalogWatch && cfg.CatalogPath != ""),
		WithCatalogWarmup(cfg.WarmupCatalog),
		WithScorer(scoring.NewScorer(
			scoring.WithStandardWeights(cfg.StandardWeights),
			scoring.WithSemanticWeights(cfg.SemanticWeights),
		)),
		WithMinScore(cfg.MinScore),
		WithLimit(cfg.MaxResults),
		WithProviderTimeout(cfg.ProviderTimeout),
		WithWarmup(cfg.WarmupWorkers, cfg.WarmupQueueSize, cfg.WarmupBatchSize),
		WithDedupeSize(cfg.DedupeSize),
	}
	if closer != nil {
		opts = append(opts, WithCloser(closer))
	}
	if cfg.CListCredentials != "" {
		opts = append(opts, WithSearch(search.NewClient(
			search.WithBaseURL(cfg.CListBaseURL),
			search.WithCredentials(cfg.CListCredentials),
			search.WithRateLimit(cfg.CListRateLimit, max(1, int(cfg.CListRateLimit))),
			search.WithLogger(log.Named("search")),
		)))
	}
	if cfg.EmbeddingsAPIKey != "" {
		opts = append(opts, WithSemantic(semantic.NewClient(
			semantic.WithEndpoint(cfg.EmbeddingsURL),
			semantic.WithAPIKey(cfg.EmbeddingsAPIKey),
			semantic.WithLogger(log.Named("semantic")),
		)))
	}
	return New(opts...), nil
}

// OpenFeedbackStore opens the configured feedback backend. The returned
// closer is nil for the memory backend.
func OpenFeedbackStore(ctx context.Context, cfg *config.Config) (feedback.Store, io.Closer, error) {
	switch cfg.FeedbackBackend {
	case config.BackendSQLite:
		s, err := repository.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite feedback store: %w", err)
		}
		return s, s, nil
	case config.BackendRedis:
		s, err := repository.NewRedisStore(ctx, cfg.RedisAddr,
			repository.WithRedisKey(cfg.RedisKey),
			repository.WithRedisPassword(cfg.RedisPassword),
			repository.WithRedisDB(cfg.RedisDB),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis feedback store: %w", err)
		}
		return s, s, nil
	default:
		return feedback.NewMemoryStore(), nil, nil
	}
}
