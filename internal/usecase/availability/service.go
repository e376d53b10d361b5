// Package availability answers point lookups ("is X in stock?") and
// aggregates stock statistics over merged result lists.
package availability

import (
	"context"
	"fmt"

	"github.com/chative-cloud/ingredix/internal/domain/search/match"
	"github.com/chative-cloud/ingredix/internal/domain/search/target"
	searchuc "github.com/chative-cloud/ingredix/internal/usecase/search"
)

// Defaults for point lookups.
const (
	// DefaultThreshold is the similarity above which a top in-stock match
	// counts as "we have it".
	DefaultThreshold = 0.8
	// DefaultMaxAlternatives caps catalog suggestions when out of stock.
	DefaultMaxAlternatives = 5
)

// Report is the outcome of an availability check.
type Report struct {
	InStock      bool
	Details      *match.Merged
	Alternatives []match.Merged
}

// Stats aggregates stock coverage over a merged result list.
type Stats struct {
	Total             int     `json:"total"`
	InStockCount      int     `json:"in_stock_count"`
	CatalogOnlyCount  int     `json:"catalog_only_count"`
	InStockPercentage float64 `json:"in_stock_percentage"`
}

// Counts holds per-collection record totals.
type Counts struct {
	InStock int `json:"instock"`
	Catalog int `json:"catalog"`
}

// Service performs availability checks on top of the search pipeline.
type Service struct {
	search          Searcher
	counter         Counter
	threshold       float64
	maxAlternatives int
}

// New creates an availability service.
func New(search Searcher, counter Counter) *Service {
	return &Service{
		search:          search,
		counter:         counter,
		threshold:       DefaultThreshold,
		maxAlternatives: DefaultMaxAlternatives,
	}
}

// WithThreshold overrides the in-stock match threshold.
func (s *Service) WithThreshold(threshold float64) *Service {
	if threshold > 0 && threshold <= 1 {
		s.threshold = threshold
	}
	return s
}

// WithMaxAlternatives overrides the catalog suggestion cap.
func (s *Service) WithMaxAlternatives(n int) *Service {
	if n > 0 {
		s.maxAlternatives = n
	}
	return s
}

// Check searches the in-stock collection first; a top match at or above
// the threshold reports the material as available. Otherwise the catalog
// is searched for the closest alternatives and in_stock=false is reported.
func (s *Service) Check(ctx context.Context, nameOrCode string) (Report, error) {
	stock, err := s.search.Search(ctx, nameOrCode, searchuc.Options{
		Override: target.InStock,
		TopK:     1,
	})
	if err != nil {
		return Report{}, fmt.Errorf("in-stock lookup: %w", err)
	}

	if len(stock.Results) > 0 && stock.Results[0].Score() >= s.threshold {
		details := stock.Results[0]
		return Report{InStock: true, Details: &details}, nil
	}

	catalog, err := s.search.Search(ctx, nameOrCode, searchuc.Options{
		Override: target.Catalog,
		TopK:     s.maxAlternatives,
	})
	if err != nil {
		return Report{}, fmt.Errorf("catalog lookup: %w", err)
	}

	return Report{InStock: false, Alternatives: catalog.Results}, nil
}

// ComputeStats aggregates availability labels over an already-merged
// result list. Pure: no external calls, zero-safe on empty input.
func ComputeStats(results []match.Merged) Stats {
	stats := Stats{Total: len(results)}
	for i := range results {
		switch results[i].Availability() {
		case match.InStock:
			stats.InStockCount++
		case match.CatalogOnly:
			stats.CatalogOnlyCount++
		}
	}
	if stats.Total > 0 {
		stats.InStockPercentage = float64(stats.InStockCount) / float64(stats.Total) * 100
	}
	return stats
}

// CollectionCounts returns per-collection record totals from the backend.
func (s *Service) CollectionCounts(ctx context.Context) (Counts, error) {
	inStock, err := s.counter.Count(ctx, target.InStock)
	if err != nil {
		return Counts{}, fmt.Errorf("count %s: %w", target.InStock, err)
	}
	catalog, err := s.counter.Count(ctx, target.Catalog)
	if err != nil {
		return Counts{}, fmt.Errorf("count %s: %w", target.Catalog, err)
	}
	return Counts{InStock: inStock, Catalog: catalog}, nil
}
