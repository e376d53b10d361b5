// Package router classifies free-text queries into collection routing
// decisions using a configurable marker table. Routing is a pure function:
// no I/O, same decision for the same query every time.
package router

import (
	"fmt"
	"strings"

	"github.com/chative-cloud/ingredix/internal/domain/search/route"
	"github.com/chative-cloud/ingredix/internal/domain/search/target"
)

// AmbiguousConfidence is reported when both or neither intent family fires
// and the query falls back to dual-priority search.
const AmbiguousConfidence = 0.5

// Router routes queries to collection targets.
type Router struct {
	table Table
}

// New creates a router over a compiled marker table.
func New(table Table) (*Router, error) {
	if err := table.Compile(); err != nil {
		return nil, fmt.Errorf("compile marker table: %w", err)
	}
	return &Router{table: table}, nil
}

// Route classifies the query. A non-empty override bypasses text analysis
// entirely and routes to exactly that target with full confidence.
// Only an unambiguous stock intent narrows the search to one collection;
// everything else — catalog intent, conflicting signal, no signal — fans
// out to dual-priority search over both collections. No query is ever
// rejected.
func (r *Router) Route(query string, override target.Target) route.Decision {
	if override != "" {
		return route.New(
			[]target.Target{override},
			target.SingleCollection,
			1.0,
			fmt.Sprintf("explicit override: %s", override),
		)
	}

	lowered := strings.ToLower(query)

	stockWeight, stockHits := scan(r.table.Stock, lowered)
	catalogWeight, catalogHits := scan(r.table.Catalog, lowered)

	switch {
	case stockWeight > 0 && catalogWeight == 0:
		return route.New(
			[]target.Target{target.InStock},
			target.SingleCollection,
			stockWeight,
			"stock intent: "+strings.Join(stockHits, ", "),
		)
	case catalogWeight > 0 && stockWeight == 0:
		// Recommendation queries still search both collections: a material
		// the user asks us to suggest may be sitting in inventory, and the
		// merge must rank that copy first.
		return route.New(
			target.All(),
			target.DualPriority,
			catalogWeight,
			"catalog intent: "+strings.Join(catalogHits, ", "),
		)
	case stockWeight > 0 && catalogWeight > 0:
		return route.New(
			target.All(),
			target.DualPriority,
			AmbiguousConfidence,
			fmt.Sprintf("ambiguous: stock [%s] vs catalog [%s]",
				strings.Join(stockHits, ", "), strings.Join(catalogHits, ", ")),
		)
	default:
		return route.New(
			target.All(),
			target.DualPriority,
			AmbiguousConfidence,
			"no intent markers matched; defaulting to both collections",
		)
	}
}

// scan returns the strongest matched weight and the matched patterns
// in table order.
func scan(markers []Marker, query string) (float64, []string) {
	var best float64
	var hits []string
	for i := range markers {
		if markers[i].matches(query) {
			hits = append(hits, markers[i].Pattern)
			if markers[i].Weight > best {
				best = markers[i].Weight
			}
		}
	}
	return best, hits
}
