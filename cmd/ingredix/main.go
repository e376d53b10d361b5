package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/chative-cloud/ingredix/internal/config"
	"github.com/chative-cloud/ingredix/internal/db"
	dbRedis "github.com/chative-cloud/ingredix/internal/db/redis"
	"github.com/chative-cloud/ingredix/internal/domain"
	logpkg "github.com/chative-cloud/ingredix/internal/logger"
	"github.com/chative-cloud/ingredix/internal/metrics"
	"github.com/chative-cloud/ingredix/internal/repository/embcache"
	ingredientrepo "github.com/chative-cloud/ingredix/internal/repository/ingredient"
	searchrepo "github.com/chative-cloud/ingredix/internal/repository/search"
	chiTransport "github.com/chative-cloud/ingredix/internal/transport/chi"
	openaiTransport "github.com/chative-cloud/ingredix/internal/transport/openai"
	answeruc "github.com/chative-cloud/ingredix/internal/usecase/answer"
	availabilityuc "github.com/chative-cloud/ingredix/internal/usecase/availability"
	healthuc "github.com/chative-cloud/ingredix/internal/usecase/health"
	ingestuc "github.com/chative-cloud/ingredix/internal/usecase/ingest"
	"github.com/chative-cloud/ingredix/internal/usecase/router"
	searchuc "github.com/chative-cloud/ingredix/internal/usecase/search"
	"github.com/chative-cloud/ingredix/internal/version"
)

func main() {
	// .env is optional; real env vars win
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ingredix API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	// Embedder chain — composition root.
	// Records embed raw, queries carry the instruction prefix.
	recordEmbedder := buildEmbedder(cfg, "", store, logger)
	queryEmbedder := buildEmbedder(cfg, cfg.Embedding.QueryInstruction, store, logger)
	logger.Info("Embedders created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	chat := openaiTransport.NewChat(&openaiTransport.ChatConfig{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})

	ingredientRepo := ingredientrepo.New(store, cfg.Embedding.Dimensions).
		WithHNSW(ingredientrepo.HNSWConfig{
			M:           cfg.Index.HNSWM,
			EFConstruct: cfg.Index.HNSWEFConstruct,
		})
	searchRepo := searchrepo.New(store)

	routes, err := router.New(buildMarkerTable(cfg.Routing))
	if err != nil {
		logger.Fatal("Failed to compile routing markers", zap.Error(err))
	}

	searchSvc := searchuc.New(searchRepo, routes, queryEmbedder, logger).
		WithTimeout(time.Duration(cfg.Search.TimeoutSec) * time.Second).
		WithDefaults(searchuc.Defaults{
			TopK:     cfg.Search.TopK,
			MinScore: cfg.Search.MinScore,
			Policy:   searchuc.Policy(cfg.Search.Policy),
		})
	availabilitySvc := availabilityuc.New(searchSvc, searchRepo).
		WithThreshold(cfg.Search.AvailabilityThreshold).
		WithMaxAlternatives(cfg.Search.MaxAlternatives)
	answerSvc := answeruc.New(searchSvc, chat, logger)
	ingestSvc := ingestuc.New(ingredientRepo, recordEmbedder, logger)
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(queryEmbedder))

	if err := ingestSvc.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to create search indexes", zap.Error(err))
	}
	logger.Info("Search indexes ready")

	server := chiTransport.NewServer(
		searchSvc, availabilitySvc, answerSvc, ingestSvc, healthSvc, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// embeddingHealthChecker wraps domain.Embedder to implement health.ProviderChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instruction
func buildEmbedder(
	cfg config.Config, instruction string, store db.Store, logger *zap.Logger,
) domain.Embedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if cfg.Embedding.IsCacheEnabled() {
		embedder = embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)
	}

	// Instruction prefix (outermost — cache key includes instruction)
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}

	return embedder
}

// buildMarkerTable converts config marker overrides into a routing table.
// An empty override list keeps the built-in markers for that side.
func buildMarkerTable(cfg config.RoutingConfig) router.Table {
	table := router.DefaultTable()
	if len(cfg.StockMarkers) > 0 {
		table.Stock = markersFromConfig(cfg.StockMarkers)
	}
	if len(cfg.CatalogMarkers) > 0 {
		table.Catalog = markersFromConfig(cfg.CatalogMarkers)
	}
	return table
}

func markersFromConfig(mm []config.MarkerConfig) []router.Marker {
	out := make([]router.Marker, len(mm))
	for i, m := range mm {
		out[i] = router.Marker{Pattern: m.Pattern, Regex: m.Regex, Weight: m.Weight}
	}
	return out
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
