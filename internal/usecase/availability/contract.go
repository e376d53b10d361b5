package availability

import (
	"context"

	"github.com/chative-cloud/ingredix/internal/domain/search/target"
	searchuc "github.com/chative-cloud/ingredix/internal/usecase/search"
)

// Searcher runs the unified search pipeline.
type Searcher interface {
	Search(ctx context.Context, query string, opts searchuc.Options) (searchuc.Outcome, error)
}

// Counter reads per-collection record counts.
type Counter interface {
	Count(ctx context.Context, t target.Target) (int, error)
}
