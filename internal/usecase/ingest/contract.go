package ingest

import (
	"context"

	"github.com/chative-cloud/ingredix/internal/domain"
	"github.com/chative-cloud/ingredix/internal/domain/ingredient"
	"github.com/chative-cloud/ingredix/internal/domain/search/target"
)

// Repository persists ingredient records and their vectors.
type Repository interface {
	EnsureIndexes(ctx context.Context) error
	Upsert(ctx context.Context, t target.Target, rec *ingredient.Ingredient, vector []float32) (bool, error)
	Delete(ctx context.Context, t target.Target, code string) error
}

// Embedder vectorizes record text for indexing.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
