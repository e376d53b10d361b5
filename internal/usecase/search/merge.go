package search

import (
	"fmt"
	"sort"

	"github.com/chative-cloud/ingredix/internal/domain"
	"github.com/chative-cloud/ingredix/internal/domain/search/match"
	"github.com/chative-cloud/ingredix/internal/domain/search/target"
)

// Policy selects the dual-priority ordering rule.
type Policy string

// Merge policy constants.
const (
	// PolicyPreferInStock places every in-stock result before every
	// catalog-only result regardless of raw score. Business default.
	PolicyPreferInStock Policy = "prefer_in_stock"
	// PolicyScoreOrder interleaves both buckets by raw score.
	PolicyScoreOrder Policy = "score_order"
)

// IsValid checks if the policy is one of the supported values.
func (p Policy) IsValid() bool {
	return p == PolicyPreferInStock || p == PolicyScoreOrder
}

// Merge combines per-collection match lists into one ranked, deduplicated
// list. Duplicates are detected by exact, case-sensitive ingredient code;
// when a code appears in both lists the in-stock copy wins and is marked
// prioritized, the catalog copy is dropped. Records without a code never
// match anything. Nothing else is dropped and nothing is truncated here.
func Merge(inStock, catalog []match.Match, mode target.Mode, policy Policy) ([]match.Merged, error) {
	if policy == "" {
		policy = PolicyPreferInStock
	}
	if !policy.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPolicy, policy)
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("invalid search mode: %q", mode)
	}

	stockBucket := make([]match.Merged, 0, len(inStock))
	stockIdx := make(map[string]int, len(inStock))
	for _, m := range inStock {
		rec := m.Record()
		if rec.HasCode() {
			// First occurrence wins within the in-stock list too.
			if _, seen := stockIdx[rec.Code()]; !seen {
				stockIdx[rec.Code()] = len(stockBucket)
			}
		}
		stockBucket = append(stockBucket, match.NewMerged(m, match.InStock, false))
	}

	catalogBucket := make([]match.Merged, 0, len(catalog))
	for _, m := range catalog {
		rec := m.Record()
		if rec.HasCode() {
			if i, dup := stockIdx[rec.Code()]; dup {
				// Same ingredient with known availability: keep the
				// in-stock copy, drop this one.
				stockBucket[i] = match.NewMerged(stockBucket[i].Match, match.InStock, true)
				continue
			}
		}
		catalogBucket = append(catalogBucket, match.NewMerged(m, match.CatalogOnly, false))
	}

	merged := make([]match.Merged, 0, len(stockBucket)+len(catalogBucket))
	merged = append(merged, stockBucket...)
	merged = append(merged, catalogBucket...)

	// Within-collection order is score-descending already (executor
	// contract), so bucket concatenation is the prefer-in-stock ranking.
	if mode == target.DualPriority && policy == PolicyScoreOrder {
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].Score() > merged[j].Score()
		})
	}

	return merged, nil
}
