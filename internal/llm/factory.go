package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/kepler/internal/model"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "gemini", "google":
		return NewGeminiProvider(config)

	default:
		return nil, fmt.Errorf("%w: unknown LLM provider: %q (supported: openai, anthropic, ollama, gemini)",
			model.ErrConfiguration, config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:    modelConfig.Provider,
		Model:       modelConfig.Model,
		APIKey:      modelConfig.APIKey,
		BaseURL:     modelConfig.BaseURL,
		Timeout:     modelConfig.Timeout,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
		HTTPProxy:   modelConfig.HTTPProxy,
		HTTPSProxy:  modelConfig.HTTPSProxy,
		NoProxy:     modelConfig.NoProxy,
	}
}

// ResolveCredentials fills cfg.APIKey (and Ollama's base URL) from the environment.
// A provider that needs a key and has none is a configuration error.
func ResolveCredentials(cfg *model.LLMConfig, getenv func(string) string) error {
	if strings.ToLower(cfg.Provider) == "ollama" {
		if cfg.BaseURL == "" {
			cfg.BaseURL = getenv("OLLAMA_BASE_URL")
		}
		return nil
	}

	env := APIKeyEnv(cfg.Provider)
	if env == "" {
		return fmt.Errorf("%w: unknown LLM provider %q", model.ErrConfiguration, cfg.Provider)
	}

	if cfg.APIKey == "" {
		cfg.APIKey = getenv(env)
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("%w: %s environment variable not set", model.ErrConfiguration, env)
	}
	return nil
}
