package ranking

import (
	"time"

	"github.com/okian/crossjudge/internal/domain/scoring"
	"github.com/okian/crossjudge/pkg/logger"
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithSearch sets the remote search provider.
func WithSearch(p SearchProvider) Option {
	return func(a *Aggregator) {
		a.search = p
	}
}

// WithCatalog sets the curated catalog provider.
func WithCatalog(p CatalogProvider) Option {
	return func(a *Aggregator) {
		a.catalog = p
	}
}

// WithSemantic sets the embedding similarity provider.
func WithSemantic(p SemanticProvider) Option {
	return func(a *Aggregator) {
		a.semantic = p
	}
}

// WithScorer replaces the default scorer.
func WithScorer(s *scoring.Scorer) Option {
	return func(a *Aggregator) {
		if s != nil {
			a.scorer = s
		}
	}
}

// WithMinScore sets the lowest score a result may carry.
func WithMinScore(score int) Option {
	return func(a *Aggregator) {
		if score >= 0 && score <= 100 {
			a.minScore = score
		}
	}
}

// WithLimit sets the maximum number of results.
func WithLimit(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.limit = n
		}
	}
}

// WithProviderTimeout bounds every individual provider call.
func WithProviderTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}
