package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/feedwise/feedwise/internal/model"
)

// NewProvider creates a provider from configuration. An empty provider
// name disables the editor's note and returns nil.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)
	case "anthropic", "claude":
		return NewAnthropicProvider(config)
	case "ollama":
		return NewOllamaProvider(config)
	case "gemini", "google":
		return NewGeminiProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama, gemini)", config.Provider)
	}
}

// ConfigFromModel converts the application config. A missing API key is
// read from the provider's conventional environment variable.
func ConfigFromModel(llmCfg model.LLMConfig, feeds model.FeedsConfig) Config {
	cfg := Config{
		Provider:        llmCfg.Provider,
		Model:           llmCfg.Model,
		APIKey:          llmCfg.APIKey,
		BaseURL:         llmCfg.BaseURL,
		Timeout:         llmCfg.Timeout,
		MaxTokens:       llmCfg.MaxTokens,
		Temperature:     llmCfg.Temperature,
		StrictCitations: true,
		HTTPProxy:       feeds.HTTPProxy,
		HTTPSProxy:      feeds.HTTPSProxy,
		NoProxy:         feeds.NoProxy,
	}
	if cfg.APIKey == "" {
		cfg.APIKey = apiKeyFromEnv(cfg.Provider)
	}
	return cfg
}

func apiKeyFromEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "gemini", "google":
		return os.Getenv("GEMINI_API_KEY")
	}
	return ""
}
