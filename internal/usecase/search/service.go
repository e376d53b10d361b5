// Package search implements the unified search pipeline: route the query,
// run per-collection KNN searches, then merge and rank the results.
package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chative-cloud/ingredix/internal/domain"
	"github.com/chative-cloud/ingredix/internal/domain/search/match"
	"github.com/chative-cloud/ingredix/internal/domain/search/route"
	"github.com/chative-cloud/ingredix/internal/domain/search/target"
	"github.com/chative-cloud/ingredix/internal/metrics"
	"github.com/chative-cloud/ingredix/internal/usecase/router"
)

// Search parameter limits.
const (
	MaxQueryLength = 4096
	DefaultTopK    = 8
	MaxTopK        = 100
	DefaultTimeout = 5 * time.Second
)

// Options tune a single search call. The zero value uses defaults.
type Options struct {
	// TopK caps results per collection (default 8).
	TopK int
	// MinScore discards matches below this similarity (0 disables).
	MinScore float64
	// Exclude lists ingredient codes to skip ("not these again" paging).
	Exclude []string
	// Override routes to exactly this target, skipping text analysis.
	Override target.Target
	// Policy selects the dual-priority ordering rule (default prefer_in_stock).
	Policy Policy
}

// Outcome is the full result of one pipeline run.
type Outcome struct {
	Decision route.Decision
	Results  []match.Merged
}

// Defaults are config-level fallbacks applied when a request omits the
// corresponding option. A request value of zero means "use the default".
type Defaults struct {
	TopK     int
	MinScore float64
	Policy   Policy
}

// Service runs the route → execute → merge pipeline.
type Service struct {
	repo     Repository
	routes   *router.Router
	embed    Embedder
	logger   *zap.Logger
	timeout  time.Duration
	defaults Defaults
}

// New creates a search service.
func New(repo Repository, routes *router.Router, embed Embedder, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		routes:   routes,
		embed:    embed,
		logger:   logger,
		timeout:  DefaultTimeout,
		defaults: Defaults{TopK: DefaultTopK},
	}
}

// WithTimeout sets the per-collection search timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// WithDefaults sets the config-supplied request defaults.
func (s *Service) WithDefaults(d Defaults) *Service {
	if d.TopK <= 0 {
		d.TopK = DefaultTopK
	}
	s.defaults = d
	return s
}

// Search executes the full pipeline. A collection that cannot be reached
// contributes zero results and the request continues; an empty final list
// is a normal response, not an error. Only embedding failures and
// programmer errors (unknown target/policy) abort the call.
func (s *Service) Search(ctx context.Context, query string, opts Options) (Outcome, error) {
	if query == "" {
		return Outcome{}, fmt.Errorf("query is required: %w", domain.ErrInvalidRequest)
	}
	if len(query) > MaxQueryLength {
		return Outcome{}, fmt.Errorf("query too long (max %d chars): %w", MaxQueryLength, domain.ErrInvalidRequest)
	}
	if opts.Policy == "" {
		opts.Policy = s.defaults.Policy
	}
	if opts.Policy != "" && !opts.Policy.IsValid() {
		return Outcome{}, fmt.Errorf("merge policy %q: %w", opts.Policy, domain.ErrUnknownPolicy)
	}
	if opts.TopK <= 0 {
		opts.TopK = s.defaults.TopK
	}
	if opts.TopK > MaxTopK {
		opts.TopK = MaxTopK
	}
	if opts.MinScore == 0 {
		opts.MinScore = s.defaults.MinScore
	}

	decision := s.routes.Route(query, opts.Override)
	metrics.RoutingDecisionsTotal.WithLabelValues(string(decision.Mode())).Inc()

	embedRes, err := s.embed.Embed(ctx, query)
	if err != nil {
		return Outcome{}, fmt.Errorf("vectorize query: %w", err)
	}

	perTarget := s.executeAll(ctx, decision.Targets(), embedRes.Embedding, opts)

	inStock := perTarget[target.InStock]
	catalog := perTarget[target.Catalog]

	merged, err := Merge(inStock, catalog, decision.Mode(), opts.Policy)
	if err != nil {
		return Outcome{}, err
	}

	if drops := len(inStock) + len(catalog) - len(merged); drops > 0 {
		metrics.MergeDedupDropsTotal.Add(float64(drops))
	}

	return Outcome{Decision: decision, Results: merged}, nil
}

// executeAll runs one search per target. Multiple targets are searched
// concurrently; there is no data dependency between them and the merge
// step joins whatever completed. A failed target yields an empty list.
func (s *Service) executeAll(
	ctx context.Context, targets []target.Target, vector []float32, opts Options,
) map[target.Target][]match.Match {
	out := make(map[target.Target][]match.Match, len(targets))

	if len(targets) == 1 {
		out[targets[0]] = s.executeOne(ctx, targets[0], vector, opts)
		return out
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, t := range targets {
		wg.Add(1)
		go func(t target.Target) {
			defer wg.Done()
			matches := s.executeOne(ctx, t, vector, opts)
			mu.Lock()
			out[t] = matches
			mu.Unlock()
		}(t)
	}
	wg.Wait()

	return out
}

// executeOne searches a single collection with a timeout. Failure and
// timeout are equivalent: logged, counted, and treated as zero results.
func (s *Service) executeOne(
	ctx context.Context, t target.Target, vector []float32, opts Options,
) []match.Match {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Over-fetch so that exclusions do not starve the page.
	fetchK := opts.TopK + len(opts.Exclude)

	raw, err := s.repo.SearchKNN(ctx, t, vector, fetchK)
	if err != nil {
		metrics.CollectionSearchFailuresTotal.WithLabelValues(string(t)).Inc()
		s.logger.Warn("collection search failed, continuing without it",
			zap.String("collection", string(t)),
			zap.Error(err),
		)
		return nil
	}

	return filterMatches(raw, opts)
}

// filterMatches applies exclusion, the similarity floor, and the per-
// collection cap, preserving the backend's score ordering.
func filterMatches(raw []match.Match, opts Options) []match.Match {
	var excluded map[string]bool
	if len(opts.Exclude) > 0 {
		excluded = make(map[string]bool, len(opts.Exclude))
		for _, code := range opts.Exclude {
			excluded[code] = true
		}
	}

	kept := make([]match.Match, 0, len(raw))
	for _, m := range raw {
		if opts.MinScore > 0 && m.Score() < opts.MinScore {
			continue
		}
		rec := m.Record()
		if excluded != nil && rec.HasCode() && excluded[rec.Code()] {
			continue
		}
		kept = append(kept, m)
		if len(kept) == opts.TopK {
			break
		}
	}
	return kept
}
