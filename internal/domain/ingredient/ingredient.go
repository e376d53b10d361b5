package ingredient

import (
	"fmt"
	"strings"
)

// MaxCodeLen bounds the material code length accepted on ingest.
const MaxCodeLen = 64

// Ingredient is a raw-material record (immutable value object).
// Code is the identity key used for cross-collection deduplication;
// records hydrated from the store may carry an empty code, in which
// case they never match another record.
type Ingredient struct {
	code      string
	tradeName string
	inciName  string
	supplier  string
	benefits  []string
	useCases  []string
	costPerKg float64
}

// New validates and creates an Ingredient for ingest.
// Code: non-empty, max 64 chars, no whitespace. TradeName: non-empty.
func New(
	code, tradeName, inciName, supplier string,
	benefits, useCases []string, costPerKg float64,
) (Ingredient, error) {
	if code == "" {
		return Ingredient{}, fmt.Errorf("ingredient code is required")
	}
	if len(code) > MaxCodeLen {
		return Ingredient{}, fmt.Errorf("ingredient code too long (max %d)", MaxCodeLen)
	}
	if strings.ContainsAny(code, " \t\n") {
		return Ingredient{}, fmt.Errorf("ingredient code must not contain whitespace")
	}
	if tradeName == "" {
		return Ingredient{}, fmt.Errorf("trade name is required")
	}
	if costPerKg < 0 {
		return Ingredient{}, fmt.Errorf("cost per kg must not be negative")
	}

	return Ingredient{
		code:      code,
		tradeName: tradeName,
		inciName:  inciName,
		supplier:  supplier,
		benefits:  cloneStrings(benefits),
		useCases:  cloneStrings(useCases),
		costPerKg: costPerKg,
	}, nil
}

// Reconstruct creates an Ingredient without validation (storage hydration).
// An empty code is tolerated here: such a record is excluded from dedup
// matching rather than rejected.
func Reconstruct(
	code, tradeName, inciName, supplier string,
	benefits, useCases []string, costPerKg float64,
) Ingredient {
	return Ingredient{
		code: code, tradeName: tradeName, inciName: inciName, supplier: supplier,
		benefits: benefits, useCases: useCases, costPerKg: costPerKg,
	}
}

// Code returns the material code. This is the identity key: the merger
// depends on this single accessor, never on raw field names.
func (i *Ingredient) Code() string { return i.code }

// HasCode reports whether the record carries a usable identity key.
func (i *Ingredient) HasCode() bool { return i.code != "" }

// TradeName returns the commercial product name.
func (i *Ingredient) TradeName() string { return i.tradeName }

// INCIName returns the regulatory INCI name.
func (i *Ingredient) INCIName() string { return i.inciName }

// Supplier returns the supplier name.
func (i *Ingredient) Supplier() string { return i.supplier }

// Benefits returns the claimed benefits.
func (i *Ingredient) Benefits() []string { return i.benefits }

// UseCases returns the formulation use cases.
func (i *Ingredient) UseCases() []string { return i.useCases }

// CostPerKg returns the cost per kilogram; zero means unknown.
func (i *Ingredient) CostPerKg() float64 { return i.costPerKg }

// EmbeddingText builds the text that represents this record in the vector index.
func (i *Ingredient) EmbeddingText() string {
	parts := make([]string, 0, 4)
	parts = append(parts, i.tradeName)
	if i.inciName != "" {
		parts = append(parts, i.inciName)
	}
	if len(i.benefits) > 0 {
		parts = append(parts, strings.Join(i.benefits, ", "))
	}
	if len(i.useCases) > 0 {
		parts = append(parts, strings.Join(i.useCases, ", "))
	}
	return strings.Join(parts, " | ")
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
