package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
		Embedding: EmbeddingConfig{
			Model:      "text-embedding-3-small",
			Dimensions: 1536,
		},
		Search: SearchConfig{Policy: "prefer_in_stock"},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MissingEmbeddingModel(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Model = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing embedding model")
	}
}

func TestValidate_InvalidPolicy(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Policy = "cheapest_first"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid policy")
	}

	expected := `search.policy must be "prefer_in_stock" or "score_order", got "cheapest_first"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidPolicies(t *testing.T) {
	for _, policy := range []string{"prefer_in_stock", "score_order"} {
		t.Run("policy="+policy, func(t *testing.T) {
			cfg := validConfig()
			cfg.Search.Policy = policy

			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for valid policy %q: %v", policy, err)
			}
		})
	}
}

func TestValidate_MinScoreOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Search.MinScore = 1.5

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for min_score > 1")
	}
}

func TestValidate_MarkerWeightOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Routing.StockMarkers = []MarkerConfig{
		{Pattern: "in stock", Weight: 1.5},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for marker weight > 1")
	}
}

func TestValidate_MarkerMissingPattern(t *testing.T) {
	cfg := validConfig()
	cfg.Routing.CatalogMarkers = []MarkerConfig{
		{Pattern: "", Weight: 0.9},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty marker pattern")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Index.HNSWM != 32 {
		t.Errorf("expected HNSWM=32, got %d", cfg.Index.HNSWM)
	}
	if cfg.Index.HNSWEFConstruct != 400 {
		t.Errorf("expected HNSWEFConstruct=400, got %d", cfg.Index.HNSWEFConstruct)
	}
	if cfg.Search.TopK != 8 {
		t.Errorf("expected TopK=8, got %d", cfg.Search.TopK)
	}
	if cfg.Search.TimeoutSec != 5 {
		t.Errorf("expected TimeoutSec=5, got %d", cfg.Search.TimeoutSec)
	}
	if cfg.Search.AvailabilityThreshold != 0.8 {
		t.Errorf("expected AvailabilityThreshold=0.8, got %g", cfg.Search.AvailabilityThreshold)
	}
	if cfg.Search.MaxAlternatives != 5 {
		t.Errorf("expected MaxAlternatives=5, got %d", cfg.Search.MaxAlternatives)
	}
	if cfg.Search.Policy != "prefer_in_stock" {
		t.Errorf("expected Policy=prefer_in_stock, got %q", cfg.Search.Policy)
	}
	if cfg.Embedding.Provider != "openai" {
		t.Errorf("expected Provider=openai, got %q", cfg.Embedding.Provider)
	}
	if cfg.LLM.MaxTokens != 1024 {
		t.Errorf("expected MaxTokens=1024, got %d", cfg.LLM.MaxTokens)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{ReadinessTimeout: 15},
		Index:    IndexConfig{HNSWM: 16, HNSWEFConstruct: 200},
		Search:   SearchConfig{TopK: 20, TimeoutSec: 2, Policy: "score_order"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Index.HNSWM != 16 {
		t.Errorf("expected HNSWM=16, got %d", cfg.Index.HNSWM)
	}
	if cfg.Search.TopK != 20 {
		t.Errorf("expected TopK=20, got %d", cfg.Search.TopK)
	}
	if cfg.Search.Policy != "score_order" {
		t.Errorf("expected Policy=score_order, got %q", cfg.Search.Policy)
	}
}

func TestIsCacheEnabled_Default(t *testing.T) {
	e := EmbeddingConfig{}
	if !e.IsCacheEnabled() {
		t.Error("cache should default to enabled")
	}
}

func TestIsCacheEnabled_ExplicitOff(t *testing.T) {
	off := false
	e := EmbeddingConfig{CacheEnabled: &off}
	if e.IsCacheEnabled() {
		t.Error("cache should be off when explicitly disabled")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("INGREDIX_TEST_VAR", "hello")

	got := string(expandEnvVars([]byte("value: ${INGREDIX_TEST_VAR}")))
	if got != "value: hello" {
		t.Errorf("got %q", got)
	}

	got = string(expandEnvVars([]byte("value: ${INGREDIX_UNSET_VAR:-fallback}")))
	if got != "value: fallback" {
		t.Errorf("got %q", got)
	}
}
