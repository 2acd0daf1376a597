package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Provider names for the model/embedding factories
const (
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Graph store (Memgraph speaks Bolt, so the Neo4j driver applies)
	GraphURI      string
	GraphUser     string
	GraphPassword string

	// Providers
	Provider     string // "openai" or "local"
	OpenAIAPIKey string
	LocalLLMURL  string // OpenAI-compatible endpoint for the local provider

	// Per-responder models. The router, the observability leaves and the
	// alerting leaf can each run a different model at a different temperature.
	RouterModel        string
	RouterTemperature  float64
	ObservabilityModel string
	ObservabilityTemp  float64
	AlertingModel      string
	AlertingTemp       float64

	LocalChatModel  string
	LocalEmbedModel string

	// Retrieval policy. The oversampling bounds and default top_k have no
	// documented derivation; they are kept configurable rather than inferred.
	DefaultTopK      int
	OversampleFactor int
	MinCandidates    int
	MaxCandidates    int

	// Alerts
	AlertsDir string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		GraphURI:           getEnv("MEMGRAPH_URI", "bolt://localhost:7687"),
		GraphUser:          getEnv("MEMGRAPH_USER", "memgraph"),
		GraphPassword:      getEnv("MEMGRAPH_PASSWORD", "memgraph"),
		Provider:           getEnv("MODEL_PROVIDER", ProviderOpenAI),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		LocalLLMURL:        getEnv("LOCAL_LLM_URL", "http://localhost:11434"),
		RouterModel:        getEnv("ROUTER_MODEL_NAME", "gpt-4o"),
		RouterTemperature:  getEnvFloat("ROUTER_TEMPERATURE", 0.0),
		ObservabilityModel: getEnv("OBSERVABILITY_MODEL_NAME", "gpt-4o"),
		ObservabilityTemp:  getEnvFloat("OBSERVABILITY_TEMPERATURE", 0.0),
		AlertingModel:      getEnv("ALERTING_MODEL_NAME", "gpt-4o"),
		AlertingTemp:       getEnvFloat("ALERTING_TEMPERATURE", 0.0),
		LocalChatModel:     getEnv("LOCAL_CHAT_MODEL", "llama3.1:8b-instruct-fp16"),
		LocalEmbedModel:    getEnv("LOCAL_EMBED_MODEL", "nomic-embed-text"),
		DefaultTopK:        getEnvInt("RETRIEVAL_DEFAULT_TOP_K", 3),
		OversampleFactor:   getEnvInt("RETRIEVAL_OVERSAMPLE_FACTOR", 20),
		MinCandidates:      getEnvInt("RETRIEVAL_MIN_CANDIDATES", 100),
		MaxCandidates:      getEnvInt("RETRIEVAL_MAX_CANDIDATES", 1000),
		AlertsDir:          getEnv("ALERTS_DIR", "data/alerts"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.GraphURI == "" {
		return fmt.Errorf("MEMGRAPH_URI is required")
	}
	if c.GraphUser == "" {
		return fmt.Errorf("MEMGRAPH_USER is required")
	}
	if c.Provider != ProviderOpenAI && c.Provider != ProviderLocal {
		return fmt.Errorf("unknown MODEL_PROVIDER: %s", c.Provider)
	}
	if c.Provider == ProviderOpenAI && c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
	}
	if c.DefaultTopK < 1 {
		return fmt.Errorf("RETRIEVAL_DEFAULT_TOP_K must be positive")
	}
	if c.OversampleFactor < 1 {
		return fmt.Errorf("RETRIEVAL_OVERSAMPLE_FACTOR must be positive")
	}
	if c.MinCandidates < 1 || c.MaxCandidates < c.MinCandidates {
		return fmt.Errorf("retrieval candidate bounds are inconsistent")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var result float64
		if _, err := fmt.Sscanf(value, "%f", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
