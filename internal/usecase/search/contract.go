package search

import (
	"context"

	"github.com/chative-cloud/ingredix/internal/domain"
	"github.com/chative-cloud/ingredix/internal/domain/search/match"
	"github.com/chative-cloud/ingredix/internal/domain/search/target"
)

// Repository defines the storage contract for per-collection search.
type Repository interface {
	// SearchKNN returns matches for one collection in descending score
	// order. Ties keep the backend order (stable).
	SearchKNN(ctx context.Context, t target.Target, vector []float32, topK int) ([]match.Match, error)

	// Count returns the number of records in one collection.
	Count(ctx context.Context, t target.Target) (int, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
