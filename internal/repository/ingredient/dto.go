package ingredient

import (
	"strconv"
	"strings"

	"github.com/chative-cloud/ingredix/internal/domain/ingredient"
)

// Hash field names for ingredient records.
const (
	fieldCode      = "code"
	fieldTradeName = "trade_name"
	fieldINCIName  = "inci_name"
	fieldSupplier  = "supplier"
	fieldBenefits  = "benefits"
	fieldUseCases  = "use_cases"
	fieldCostPerKg = "cost_per_kg"
	fieldVector    = "vector"

	listSeparator = "|"
)

// ReturnFields lists the hash fields a search should hydrate, plus the
// score field the db layer consumes.
func ReturnFields() []string {
	return []string{
		fieldCode, fieldTradeName, fieldINCIName, fieldSupplier,
		fieldBenefits, fieldUseCases, fieldCostPerKg,
		"__vector_score",
	}
}

// ToFields flattens a record and its embedding into hash fields.
func ToFields(rec *ingredient.Ingredient, vector []float32) map[string]string {
	fields := map[string]string{
		fieldCode:      rec.Code(),
		fieldTradeName: rec.TradeName(),
	}
	if rec.INCIName() != "" {
		fields[fieldINCIName] = rec.INCIName()
	}
	if rec.Supplier() != "" {
		fields[fieldSupplier] = rec.Supplier()
	}
	if len(rec.Benefits()) > 0 {
		fields[fieldBenefits] = strings.Join(rec.Benefits(), listSeparator)
	}
	if len(rec.UseCases()) > 0 {
		fields[fieldUseCases] = strings.Join(rec.UseCases(), listSeparator)
	}
	if rec.CostPerKg() > 0 {
		fields[fieldCostPerKg] = strconv.FormatFloat(rec.CostPerKg(), 'f', -1, 64)
	}
	if len(vector) > 0 {
		fields[fieldVector] = vectorToBytes(vector)
	}
	return fields
}

// FromFields hydrates a record from hash fields. A record missing its
// code field is still returned: it simply carries no identity key and
// is unmatchable during dedup.
func FromFields(fields map[string]string) ingredient.Ingredient {
	costPerKg, _ := strconv.ParseFloat(fields[fieldCostPerKg], 64)

	return ingredient.Reconstruct(
		fields[fieldCode],
		fields[fieldTradeName],
		fields[fieldINCIName],
		fields[fieldSupplier],
		splitList(fields[fieldBenefits]),
		splitList(fields[fieldUseCases]),
		costPerKg,
	)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSeparator)
}
