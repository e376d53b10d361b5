// Package search adapts the db command layer to the search usecase:
// target → index mapping, KNN calls, and hash-field → Ingredient hydration.
package search

import (
	"context"
	"fmt"

	"github.com/chative-cloud/ingredix/internal/db"
	"github.com/chative-cloud/ingredix/internal/domain"
	"github.com/chative-cloud/ingredix/internal/domain/search/match"
	"github.com/chative-cloud/ingredix/internal/domain/search/target"
	"github.com/chative-cloud/ingredix/internal/repository/ingredient"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index string) (int, error)
}

// Repo implements the search and availability repository contracts.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// IndexName returns the FT index name for a collection target.
func IndexName(t target.Target) string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, t)
}

// SearchKNN performs a vector similarity search on one collection.
// Results come back in descending score order; backend ties are stable.
func (r *Repo) SearchKNN(
	ctx context.Context, t target.Target, vector []float32, topK int,
) ([]match.Match, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTarget, t)
	}

	q := &db.KNNQuery{
		IndexName:    IndexName(t),
		Vector:       vector,
		K:            topK,
		ReturnFields: ingredient.ReturnFields(),
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", t, err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	matches := make([]match.Match, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		rec := ingredient.FromFields(entry.Fields)
		matches = append(matches, match.New(rec, entry.Score, t))
	}

	return matches, nil
}

// Count returns the number of records in one collection.
func (r *Repo) Count(ctx context.Context, t target.Target) (int, error) {
	if !t.IsValid() {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownTarget, t)
	}
	n, err := r.store.SearchCount(ctx, IndexName(t))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", t, err)
	}
	return n, nil
}
