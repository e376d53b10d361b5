package target

import (
	"fmt"

	"github.com/chative-cloud/ingredix/internal/domain"
)

// Target is a logical search collection.
type Target string

// Collection target constants.
const (
	// InStock holds materials currently available in inventory.
	InStock Target = "instock"
	// Catalog holds the full regulatory ingredient reference dataset.
	Catalog Target = "catalog"
)

// IsValid checks if the target is one of the supported collections.
func (t Target) IsValid() bool {
	return t == InStock || t == Catalog
}

// Parse converts a client-supplied collection name into a Target.
func Parse(s string) (Target, error) {
	t := Target(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownTarget, s)
	}
	return t, nil
}

// All returns every known target in canonical order (in-stock first).
func All() []Target {
	return []Target{InStock, Catalog}
}

// Mode is the routing outcome shape.
type Mode string

// Search mode constants.
const (
	// SingleCollection searches exactly one target.
	SingleCollection Mode = "single_collection"
	// DualPriority searches both targets and prefers in-stock results.
	DualPriority Mode = "dual_priority"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == SingleCollection || m == DualPriority
}
