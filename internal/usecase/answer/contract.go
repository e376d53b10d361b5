package answer

import (
	"context"

	"github.com/chative-cloud/ingredix/internal/usecase/search"
)

// Searcher runs the search pipeline to gather grounding material.
type Searcher interface {
	Search(ctx context.Context, query string, opts search.Options) (search.Outcome, error)
}

// ChatCompleter generates an assistant reply for a prompt pair.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
