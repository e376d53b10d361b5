// Package ingest maintains the searchable ingredient collections.
package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/chative-cloud/ingredix/internal/domain/ingredient"
	"github.com/chative-cloud/ingredix/internal/domain/search/target"
)

// Service embeds and stores ingredient records.
type Service struct {
	repo   Repository
	embed  Embedder
	logger *zap.Logger
}

// New creates an ingest service.
func New(repo Repository, embed Embedder, logger *zap.Logger) *Service {
	return &Service{repo: repo, embed: embed, logger: logger}
}

// EnsureIndexes creates the per-collection search indexes if missing.
func (s *Service) EnsureIndexes(ctx context.Context) error {
	return s.repo.EnsureIndexes(ctx)
}

// Upsert embeds a record and writes it into the given collection.
// Returns true when the record is new.
func (s *Service) Upsert(ctx context.Context, t target.Target, rec *ingredient.Ingredient) (bool, error) {
	result, err := s.embed.Embed(ctx, rec.EmbeddingText())
	if err != nil {
		return false, fmt.Errorf("embed record %s: %w", rec.Code(), err)
	}

	created, err := s.repo.Upsert(ctx, t, rec, result.Embedding)
	if err != nil {
		return false, err
	}

	s.logger.Info("ingredient upserted",
		zap.String("collection", string(t)),
		zap.String("code", rec.Code()),
		zap.Bool("created", created),
	)
	return created, nil
}

// Delete removes a record from the given collection.
func (s *Service) Delete(ctx context.Context, t target.Target, code string) error {
	if err := s.repo.Delete(ctx, t, code); err != nil {
		return err
	}
	s.logger.Info("ingredient deleted",
		zap.String("collection", string(t)),
		zap.String("code", code),
	)
	return nil
}
