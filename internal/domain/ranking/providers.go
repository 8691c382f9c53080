package ranking

import (
	"context"

	"github.com/okian/crossjudge/internal/domain/model"
)

// Provider labels used in logs and metrics.
const (
	providerSearch   = "search"
	providerCatalog  = "catalog"
	providerSemantic = "semantic"
	providerFeedback = "feedback"
)

// SearchProvider finds candidates in a remote problem index.
type SearchProvider interface {
	// Available reports whether the provider is configured.
	Available() bool
	// Search returns candidates related to q. Results are tagged source=api.
	Search(ctx context.Context, q model.Problem) ([]model.Problem, error)
}

// CatalogProvider serves the curated list of cross-platform equivalents.
type CatalogProvider interface {
	Available() bool
	// OtherPlatforms returns every entry whose platform differs from platform.
	OtherPlatforms(ctx context.Context, platform model.Platform) ([]model.Problem, error)
}

// SemanticProvider scores candidates by embedding similarity to a title.
type SemanticProvider interface {
	Available() bool
	// Score returns one score in [0,100] per candidate it could embed.
	Score(ctx context.Context, queryTitle string, candidates []model.Problem) ([]model.SemanticScore, error)
}
