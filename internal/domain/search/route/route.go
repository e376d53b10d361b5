package route

import (
	"github.com/chative-cloud/ingredix/internal/domain/search/target"
)

// Decision is the outcome of routing a query to search collections.
// Confidence reflects how unambiguous the signal was; it is only ever
// logged or returned for explanation, never used to reject a query.
type Decision struct {
	targets    []target.Target
	mode       target.Mode
	confidence float64
	reasoning  string
}

// New creates a routing decision. Targets keep their given order.
func New(targets []target.Target, mode target.Mode, confidence float64, reasoning string) Decision {
	return Decision{
		targets:    targets,
		mode:       mode,
		confidence: confidence,
		reasoning:  reasoning,
	}
}

// Targets returns the ordered collection targets to search.
func (d *Decision) Targets() []target.Target { return d.targets }

// Mode returns the search mode.
func (d *Decision) Mode() target.Mode { return d.mode }

// Confidence returns the routing confidence in [0,1].
func (d *Decision) Confidence() float64 { return d.confidence }

// Reasoning returns the human-readable explanation of the decision.
func (d *Decision) Reasoning() string { return d.reasoning }

// Includes reports whether the decision covers the given target.
func (d *Decision) Includes(t target.Target) bool {
	for _, dt := range d.targets {
		if dt == t {
			return true
		}
	}
	return false
}
