package model

import "time"

// Config is the complete kepler configuration.
// Hierarchy (highest to lowest): CLI flags, KEPLER_* env vars, config file, defaults.
type Config struct {
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Debate       DebateConfig      `yaml:"debate" mapstructure:"debate"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Input        InputConfig       `yaml:"input" mapstructure:"input"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
}

// LLMConfig selects and tunes the provider shared by every strategy
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, gemini
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"-" mapstructure:"-"` // Read from the provider's env var, never persisted
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds per request
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	HTTPProxy   string  `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy  string  `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy     string  `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// DebateConfig tunes the multi-agent debate collaborator
type DebateConfig struct {
	Rounds int `yaml:"rounds" mapstructure:"rounds"` // prosecutor/defense/epistemologist rounds before the judge
}

// ConcurrencyConfig bounds parallel case processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"` // 1 = sequential reference behavior
}

// RateLimitConfig throttles provider calls
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"` // <= 0 disables limiting
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// CacheConfig controls the completion cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// InputConfig locates the case source
type InputConfig struct {
	Path  string `yaml:"path" mapstructure:"path"`
	Limit int    `yaml:"limit" mapstructure:"limit"`
}

// OutputConfig controls the exported artifact and console output
type OutputConfig struct {
	Path    string `yaml:"path" mapstructure:"path"`
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultCaseLimit is the number of cases compared when none is requested
const DefaultCaseLimit = 5

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "", // Provider default (gpt-4o-mini, claude-3-5-haiku, llama3.1:8b, gemini-2.5-flash)
			Timeout:     60,
			MaxTokens:   1200,
			Temperature: 0.2,
		},
		Debate: DebateConfig{
			Rounds: 2,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 1,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".kepler-cache",
			MemoryTTL: time.Hour,
			DiskTTL:   30 * 24 * time.Hour,
		},
		Input: InputConfig{
			Path:  "Kepler.csv",
			Limit: DefaultCaseLimit,
		},
		Output: OutputConfig{
			Path: "visualization_data.json",
		},
	}
}
