package adapter

import (
	"fmt"

	"github.com/sashabaranov/go-openai"
	"netscope-copilot/pkg/config"
)

// NewClient builds the shared provider client. The "local" provider speaks
// the OpenAI-compatible API exposed by Ollama/LiteLLM, so the same client
// serves both; only the base URL and key differ.
func NewClient(cfg *config.Config) (*openai.Client, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openai.NewClient(cfg.OpenAIAPIKey), nil
	case config.ProviderLocal:
		clientCfg := openai.DefaultConfig("local")
		clientCfg.BaseURL = cfg.LocalLLMURL + "/v1"
		return openai.NewClientWithConfig(clientCfg), nil
	}
	return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
}

// NewEmbedder builds the embedding adapter for the configured provider.
func NewEmbedder(cfg *config.Config, client *openai.Client) *EmbeddingAdapter {
	if cfg.Provider == config.ProviderLocal {
		return NewEmbeddingAdapter(client, cfg.LocalEmbedModel, LocalEmbeddingDimension)
	}
	return NewEmbeddingAdapter(client, string(openai.AdaEmbeddingV2), OpenAIEmbeddingDimension)
}

// chatModelName resolves the effective model name for the provider.
func chatModelName(cfg *config.Config, name string) string {
	if cfg.Provider == config.ProviderLocal {
		return cfg.LocalChatModel
	}
	return name
}

// NewRouterModel builds the chat model used for classification.
func NewRouterModel(cfg *config.Config, client *openai.Client) *ChatModel {
	return NewChatModel(client, chatModelName(cfg, cfg.RouterModel), cfg.RouterTemperature)
}

// NewObservabilityModel builds the chat model for the observability leaves.
func NewObservabilityModel(cfg *config.Config, client *openai.Client) *ChatModel {
	return NewChatModel(client, chatModelName(cfg, cfg.ObservabilityModel), cfg.ObservabilityTemp)
}

// NewAlertingModel builds the chat model for the alerting leaf.
func NewAlertingModel(cfg *config.Config, client *openai.Client) *ChatModel {
	return NewChatModel(client, chatModelName(cfg, cfg.AlertingModel), cfg.AlertingTemp)
}
