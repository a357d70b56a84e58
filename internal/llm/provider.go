package llm

import (
	"context"
	"strings"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete runs a single system+user prompt and returns the model's text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for one LLM call
type CompletionRequest struct {
	// System sets the role the model plays (prosecutor, judge, ...)
	System string

	// Prompt is the user message
	Prompt string

	// Model overrides the provider's configured model when non-empty
	Model string

	// MaxTokens limits the response length (0 = provider config)
	MaxTokens int

	// Temperature for sampling
	Temperature float64

	// JSON asks the provider for a single JSON object when it supports a JSON mode
	JSON bool

	// Scope partitions the completion cache. Requests in different scopes never
	// replay each other's entries, even when every other field is identical.
	Scope string
}

// CompletionResponse contains the LLM's output
type CompletionResponse struct {
	// Text is the trimmed completion text
	Text string `json:"text"`

	// Model is the model that generated the response
	Model string `json:"model"`

	// TokensUsed tracks token consumption
	TokensUsed int `json:"tokens_used"`

	// Cached is true when the response was replayed from the completion cache
	Cached bool `json:"-"`
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "gemini"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic/Gemini
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, test servers)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Temperature used when a request does not set one
	Temperature float64

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "openai",
		Timeout:     60,
		MaxTokens:   1200,
		Temperature: 0.2,
	}
}

// APIKeyEnv returns the environment variable holding the provider's credential,
// or "" when the provider needs none
func APIKeyEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic", "claude":
		return "ANTHROPIC_API_KEY"
	case "gemini", "google":
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

func (c Config) model(override, fallback string) string {
	if override != "" {
		return override
	}
	if c.Model != "" {
		return c.Model
	}
	return fallback
}

func (c Config) maxTokens(override int) int {
	if override > 0 {
		return override
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 1000
}

func (c Config) temperature(override float64) float64 {
	if override > 0 {
		return override
	}
	return c.Temperature
}
