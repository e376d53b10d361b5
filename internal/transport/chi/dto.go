package chi

import (
	"github.com/chative-cloud/ingredix/internal/domain/search/match"
	"github.com/chative-cloud/ingredix/internal/domain/search/route"
	availabilityuc "github.com/chative-cloud/ingredix/internal/usecase/availability"
)

// Error codes returned in ErrorResponse.Code.
const (
	codeBadRequest           = "bad_request"
	codeValidationFailed     = "validation_failed"
	codeIngredientNotFound   = "ingredient_not_found"
	codeCollectionNotFound   = "collection_not_found"
	codeEmbeddingProviderErr = "embedding_provider_error"
	codeChatProviderErr      = "chat_provider_error"
	codeInternalError        = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	Query      string   `json:"query"`
	TopK       *int     `json:"top_k,omitempty"`
	MinScore   *float64 `json:"min_score,omitempty"`
	Exclude    []string `json:"exclude,omitempty"`
	Collection *string  `json:"collection,omitempty"`
	Policy     *string  `json:"policy,omitempty"`
}

// RoutingInfo describes which collections were searched and why.
type RoutingInfo struct {
	Targets    []string `json:"targets"`
	Mode       string   `json:"mode"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning,omitempty"`
}

// ResultItem is a single merged search hit.
type ResultItem struct {
	Code         string   `json:"code,omitempty"`
	TradeName    string   `json:"trade_name"`
	InciName     string   `json:"inci_name,omitempty"`
	Supplier     string   `json:"supplier,omitempty"`
	Benefits     []string `json:"benefits,omitempty"`
	UseCases     []string `json:"use_cases,omitempty"`
	CostPerKg    float64  `json:"cost_per_kg,omitempty"`
	Score        float64  `json:"score"`
	Source       string   `json:"source"`
	Availability string   `json:"availability"`
	Prioritized  bool     `json:"prioritized,omitempty"`
}

// SearchResponse is the body returned by POST /api/v1/search.
type SearchResponse struct {
	Routing RoutingInfo          `json:"routing"`
	Results []ResultItem         `json:"results"`
	Total   int                  `json:"total"`
	Stats   availabilityuc.Stats `json:"stats"`
}

// AvailabilityRequest is the body of POST /api/v1/availability.
type AvailabilityRequest struct {
	Query string `json:"query"`
}

// AvailabilityResponse is the body returned by POST /api/v1/availability.
type AvailabilityResponse struct {
	InStock      bool         `json:"in_stock"`
	Match        *ResultItem  `json:"match,omitempty"`
	Alternatives []ResultItem `json:"alternatives,omitempty"`
}

// AnswerRequest is the body of POST /api/v1/answer.
type AnswerRequest struct {
	Query      string  `json:"query"`
	TopK       *int    `json:"top_k,omitempty"`
	Collection *string `json:"collection,omitempty"`
	Policy     *string `json:"policy,omitempty"`
}

// AnswerResponse is the body returned by POST /api/v1/answer.
type AnswerResponse struct {
	Answer  string       `json:"answer"`
	Routing RoutingInfo  `json:"routing"`
	Results []ResultItem `json:"results"`
}

// UpsertIngredientRequest is the body of PUT .../ingredients/{code}.
type UpsertIngredientRequest struct {
	TradeName string   `json:"trade_name"`
	InciName  string   `json:"inci_name,omitempty"`
	Supplier  string   `json:"supplier,omitempty"`
	Benefits  []string `json:"benefits,omitempty"`
	UseCases  []string `json:"use_cases,omitempty"`
	CostPerKg float64  `json:"cost_per_kg,omitempty"`
}

// IngredientResponse is returned after a successful upsert.
type IngredientResponse struct {
	Code      string   `json:"code"`
	TradeName string   `json:"trade_name"`
	InciName  string   `json:"inci_name,omitempty"`
	Supplier  string   `json:"supplier,omitempty"`
	Benefits  []string `json:"benefits,omitempty"`
	UseCases  []string `json:"use_cases,omitempty"`
	CostPerKg float64  `json:"cost_per_kg,omitempty"`
}

// StatsResponse is the body returned by GET /api/v1/collections/stats.
type StatsResponse struct {
	Collections availabilityuc.Counts `json:"collections"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func routingToDTO(d route.Decision) RoutingInfo {
	targets := make([]string, len(d.Targets()))
	for i, t := range d.Targets() {
		targets[i] = string(t)
	}
	return RoutingInfo{
		Targets:    targets,
		Mode:       string(d.Mode()),
		Confidence: d.Confidence(),
		Reasoning:  d.Reasoning(),
	}
}

func resultToDTO(m *match.Merged) ResultItem {
	rec := m.Record()
	return ResultItem{
		Code:         rec.Code(),
		TradeName:    rec.TradeName(),
		InciName:     rec.INCIName(),
		Supplier:     rec.Supplier(),
		Benefits:     rec.Benefits(),
		UseCases:     rec.UseCases(),
		CostPerKg:    rec.CostPerKg(),
		Score:        m.Score(),
		Source:       string(m.Source()),
		Availability: string(m.Availability()),
		Prioritized:  m.Prioritized(),
	}
}

func resultsToDTO(results []match.Merged) []ResultItem {
	items := make([]ResultItem, len(results))
	for i := range results {
		items[i] = resultToDTO(&results[i])
	}
	return items
}
