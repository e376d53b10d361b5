package router

import (
	"fmt"
	"regexp"
	"strings"
)

// Marker strength tiers. A strong marker is an unambiguous phrase
// ("in stock", "มีของ"); a weak marker is suggestive only.
const (
	StrengthStrong = 0.85
	StrengthWeak   = 0.65
)

// Marker is a single intent signal: a literal substring or a regular
// expression, with the confidence it carries when matched.
type Marker struct {
	Pattern string
	Regex   bool
	Weight  float64

	re *regexp.Regexp
}

// Table holds the ordered marker lists for both intent families.
// Order matters for reasoning output; matching itself scans every marker.
type Table struct {
	Stock   []Marker
	Catalog []Marker
}

// Compile validates the table and precompiles regex markers.
func (t *Table) Compile() error {
	for _, group := range [][]Marker{t.Stock, t.Catalog} {
		for i := range group {
			m := &group[i]
			if m.Pattern == "" {
				return fmt.Errorf("marker %d: pattern is required", i)
			}
			if m.Weight <= 0 || m.Weight > 1 {
				return fmt.Errorf("marker %q: weight must be in (0,1]", m.Pattern)
			}
			if m.Regex {
				re, err := regexp.Compile(m.Pattern)
				if err != nil {
					return fmt.Errorf("marker %q: %w", m.Pattern, err)
				}
				m.re = re
			}
		}
	}
	return nil
}

// matches reports whether the marker fires on the (lowercased) query.
func (m *Marker) matches(query string) bool {
	if m.re != nil {
		return m.re.MatchString(query)
	}
	return strings.Contains(query, strings.ToLower(m.Pattern))
}

// DefaultTable returns the built-in Thai/English marker table.
// Thai has no letter case, so Thai patterns are matched as written;
// English literals are matched case-insensitively via query lowercasing.
func DefaultTable() Table {
	return Table{
		Stock: []Marker{
			// Explicit inventory phrases.
			{Pattern: "in stock", Weight: StrengthStrong},
			{Pattern: "do we have", Weight: StrengthStrong},
			{Pattern: "available now", Weight: StrengthStrong},
			{Pattern: "out of stock", Weight: StrengthStrong},
			{Pattern: "พร้อมส่ง", Weight: StrengthStrong},
			{Pattern: "มีของ", Weight: StrengthStrong},
			{Pattern: "มีขาย", Weight: StrengthStrong},
			{Pattern: "ของหมด", Weight: StrengthStrong},
			// "มี X ไหม" — "do (we) have X?"
			{Pattern: `มี\s*\S.*ไหม`, Regex: true, Weight: StrengthStrong},
			{Pattern: "สต็อก", Weight: StrengthWeak},
			{Pattern: "stock", Weight: StrengthWeak},
			{Pattern: "inventory", Weight: StrengthWeak},
			{Pattern: "available", Weight: StrengthWeak},
		},
		Catalog: []Marker{
			{Pattern: "recommend", Weight: StrengthStrong},
			{Pattern: "suggest", Weight: StrengthStrong},
			{Pattern: "what helps with", Weight: StrengthStrong},
			{Pattern: "ingredients for", Weight: StrengthStrong},
			{Pattern: "แนะนำ", Weight: StrengthStrong},
			{Pattern: "ช่วยเรื่อง", Weight: StrengthStrong},
			{Pattern: "ส่วนผสมสำหรับ", Weight: StrengthStrong},
			{Pattern: "สารสกัด", Weight: StrengthWeak},
			{Pattern: "benefit", Weight: StrengthWeak},
			{Pattern: "alternative", Weight: StrengthWeak},
		},
	}
}
