package match

import (
	"github.com/chative-cloud/ingredix/internal/domain/ingredient"
	"github.com/chative-cloud/ingredix/internal/domain/search/target"
)

// Availability labels a merged result with its stock status.
type Availability string

// Availability constants.
const (
	// InStock means the material is currently available in inventory.
	InStock Availability = "in_stock"
	// CatalogOnly means the material is known only from the reference catalog.
	CatalogOnly Availability = "catalog_only"
)

// Match is a single raw scored hit from one collection.
type Match struct {
	record ingredient.Ingredient
	score  float64
	source target.Target
}

// New creates a raw match.
func New(record ingredient.Ingredient, score float64, source target.Target) Match {
	return Match{record: record, score: score, source: source}
}

// Record returns the matched ingredient.
func (m *Match) Record() ingredient.Ingredient { return m.record }

// Score returns the similarity score.
func (m *Match) Score() float64 { return m.score }

// Source returns the collection the match came from.
func (m *Match) Source() target.Target { return m.source }

// Merged is a match that survived merging, annotated with availability.
type Merged struct {
	Match
	availability Availability
	prioritized  bool
}

// NewMerged annotates a raw match.
func NewMerged(m Match, availability Availability, prioritized bool) Merged {
	return Merged{Match: m, availability: availability, prioritized: prioritized}
}

// Availability returns the stock status label.
func (m *Merged) Availability() Availability { return m.availability }

// Prioritized reports whether this entry won a cross-collection dedup.
func (m *Merged) Prioritized() bool { return m.prioritized }
