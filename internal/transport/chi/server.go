// Package chi implements the HTTP API on top of the go-chi router.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chative-cloud/ingredix/internal/domain"
	"github.com/chative-cloud/ingredix/internal/domain/ingredient"
	"github.com/chative-cloud/ingredix/internal/domain/search/target"
	answeruc "github.com/chative-cloud/ingredix/internal/usecase/answer"
	availabilityuc "github.com/chative-cloud/ingredix/internal/usecase/availability"
	healthuc "github.com/chative-cloud/ingredix/internal/usecase/health"
	ingestuc "github.com/chative-cloud/ingredix/internal/usecase/ingest"
	searchuc "github.com/chative-cloud/ingredix/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the API handlers.
type Server struct {
	search        *searchuc.Service
	availability  *availabilityuc.Service
	answer        *answeruc.Service
	ingest        *ingestuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	availability *availabilityuc.Service,
	answer *answeruc.Service,
	ingest *ingestuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:       search,
		availability: availability,
		answer:       answer,
		ingest:       ingest,
		health:       health,
		logger:       logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrIngredientNotFound, http.StatusNotFound, codeIngredientNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeIngredientNotFound),
		sentinelHandler(domain.ErrUnknownTarget, http.StatusNotFound, codeCollectionNotFound),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrUnknownPolicy, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderErr),
		sentinelHandler(domain.ErrChatProviderError, http.StatusBadGateway, codeChatProviderErr),
	}
	return s
}

// Routes mounts all API endpoints on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.Search)
		r.Post("/availability", s.Availability)
		r.Post("/answer", s.Answer)
		r.Get("/collections/stats", s.CollectionStats)
		r.Put("/collections/{collection}/ingredients/{code}", s.UpsertIngredient)
		r.Delete("/collections/{collection}/ingredients/{code}", s.DeleteIngredient)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	opts, err := searchOptionsFromDTO(req.TopK, req.MinScore, req.Exclude, req.Collection, req.Policy)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	outcome, err := s.search.Search(r.Context(), req.Query, opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Routing: routingToDTO(outcome.Decision),
		Results: resultsToDTO(outcome.Results),
		Total:   len(outcome.Results),
		Stats:   availabilityuc.ComputeStats(outcome.Results),
	})
}

// Availability handles POST /api/v1/availability.
func (s *Server) Availability(w http.ResponseWriter, r *http.Request) {
	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}

	report, err := s.availability.Check(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := AvailabilityResponse{InStock: report.InStock}
	if report.Details != nil {
		item := resultToDTO(report.Details)
		resp.Match = &item
	}
	if len(report.Alternatives) > 0 {
		resp.Alternatives = resultsToDTO(report.Alternatives)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Answer handles POST /api/v1/answer.
func (s *Server) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	opts, err := searchOptionsFromDTO(req.TopK, nil, nil, req.Collection, req.Policy)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	reply, err := s.answer.Answer(r.Context(), req.Query, opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AnswerResponse{
		Answer:  reply.Answer,
		Routing: routingToDTO(reply.Outcome.Decision),
		Results: resultsToDTO(reply.Outcome.Results),
	})
}

// CollectionStats handles GET /api/v1/collections/stats.
func (s *Server) CollectionStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.availability.CollectionCounts(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{Collections: counts})
}

// UpsertIngredient handles PUT /api/v1/collections/{collection}/ingredients/{code}.
func (s *Server) UpsertIngredient(w http.ResponseWriter, r *http.Request) {
	t, err := target.Parse(chi.URLParam(r, "collection"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	code := chi.URLParam(r, "code")

	var req UpsertIngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	rec, err := ingredient.New(
		code, req.TradeName, req.InciName, req.Supplier,
		req.Benefits, req.UseCases, req.CostPerKg,
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	created, err := s.ingest.Upsert(r.Context(), t, &rec)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location",
			fmt.Sprintf("/api/v1/collections/%s/ingredients/%s", t, code))
	}

	writeJSON(w, status, IngredientResponse{
		Code:      rec.Code(),
		TradeName: rec.TradeName(),
		InciName:  rec.INCIName(),
		Supplier:  rec.Supplier(),
		Benefits:  rec.Benefits(),
		UseCases:  rec.UseCases(),
		CostPerKg: rec.CostPerKg(),
	})
}

// DeleteIngredient handles DELETE /api/v1/collections/{collection}/ingredients/{code}.
func (s *Server) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	t, err := target.Parse(chi.URLParam(r, "collection"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if err := s.ingest.Delete(r.Context(), t, chi.URLParam(r, "code")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func searchOptionsFromDTO(
	topK *int, minScore *float64, exclude []string, collection, policy *string,
) (searchuc.Options, error) {
	var opts searchuc.Options

	if topK != nil {
		if *topK <= 0 || *topK > searchuc.MaxTopK {
			return searchuc.Options{}, fmt.Errorf("top_k must be between 1 and %d", searchuc.MaxTopK)
		}
		opts.TopK = *topK
	}
	if minScore != nil {
		if *minScore < 0 || *minScore > 1 {
			return searchuc.Options{}, fmt.Errorf("min_score must be between 0 and 1")
		}
		opts.MinScore = *minScore
	}
	opts.Exclude = exclude

	if collection != nil && *collection != "" {
		t, err := target.Parse(*collection)
		if err != nil {
			return searchuc.Options{}, fmt.Errorf("collection: %w", err)
		}
		opts.Override = t
	}
	if policy != nil {
		opts.Policy = searchuc.Policy(*policy)
	}

	return opts, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrIngredientNotFound,
		domain.ErrNotFound,
		domain.ErrUnknownTarget,
		domain.ErrInvalidRequest,
		domain.ErrUnknownPolicy,
		domain.ErrEmbeddingProviderError,
		domain.ErrChatProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
