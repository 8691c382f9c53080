package service

import (
	"io"
	"time"

	"github.com/okian/crossjudge/internal/adapters/providers/catalog"
	"github.com/okian/crossjudge/internal/domain/feedback"
	"github.com/okian/crossjudge/internal/domain/ranking"
	"github.com/okian/crossjudge/internal/domain/scoring"
	"github.com/okian/crossjudge/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFeedbackStore sets where judgments are kept. Defaults to memory.
func WithFeedbackStore(store feedback.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCatalog sets the curated catalog. Defaults to the embedded one.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithSearch sets the remote search provider.
func WithSearch(p ranking.SearchProvider) Option {
	return func(s *Service) {
		s.search = p
	}
}

// WithSemantic sets the embedding provider used for scoring and warmup.
func WithSemantic(p SemanticProvider) Option {
	return func(s *Service) {
		s.semantic = p
	}
}

// WithScorer replaces the default scorer.
func WithScorer(sc *scoring.Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithMinScore sets the lowest score a ranked match may carry.
func WithMinScore(score int) Option {
	return func(s *Service) {
		s.minScore = score
	}
}

// WithLimit sets the maximum number of ranked matches.
func WithLimit(n int) Option {
	return func(s *Service) {
		s.limit = n
	}
}

// WithProviderTimeout bounds each provider call.
func WithProviderTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.providerTimeout = d
	}
}

// WithWarmup sizes the embedding warmup pipeline.
func WithWarmup(workers, queueSize, batchSize int) Option {
	return func(s *Service) {
		if workers > 0 {
			s.workerCount = workers
		}
		if queueSize > 0 {
			s.queueSize = queueSize
		}
		if batchSize > 0 {
			s.batchSize = batchSize
		}
	}
}

// WithDedupeSize bounds how many warmed texts are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithCatalogWarmup queues every catalog title for embedding on start.
func WithCatalogWarmup(enabled bool) Option {
	return func(s *Service) {
		s.warmCatalog = enabled
	}
}

// WithCatalogWatch hot-reloads a file-backed catalog.
func WithCatalogWatch(enabled bool) Option {
	return func(s *Service) {
		s.watchCatalog = enabled
	}
}

// WithCloser registers a resource closed on Stop.
func WithCloser(c io.Closer) Option {
	return func(s *Service) {
		if c != nil {
			s.closers = append(s.closers, c)
		}
	}
}
