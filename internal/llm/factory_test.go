package llm

import (
	"errors"
	"testing"

	"github.com/ppiankov/kepler/internal/model"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		provider string
		wantName string
	}{
		{"openai", "openai"},
		{"anthropic", "anthropic"},
		{"claude", "anthropic"},
		{"ollama", "ollama"},
		{"OpenAI", "openai"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			p, err := NewProvider(Config{Provider: tt.provider, APIKey: "k"})
			if err != nil {
				t.Fatalf("NewProvider failed: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("expected %s, got %s", tt.wantName, p.Name())
			}
		})
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider(Config{Provider: "mystery"})
	if !errors.Is(err, model.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestResolveCredentials(t *testing.T) {
	env := map[string]string{
		"OPENAI_API_KEY":  "sk-test",
		"OLLAMA_BASE_URL": "http://gpu-box:11434",
	}
	getenv := func(k string) string { return env[k] }

	cfg := model.LLMConfig{Provider: "openai"}
	if err := ResolveCredentials(&cfg, getenv); err != nil {
		t.Fatalf("ResolveCredentials failed: %v", err)
	}
	if cfg.APIKey != "sk-test" {
		t.Errorf("expected key from env, got %q", cfg.APIKey)
	}

	ollama := model.LLMConfig{Provider: "ollama"}
	if err := ResolveCredentials(&ollama, getenv); err != nil {
		t.Fatalf("ollama needs no key: %v", err)
	}
	if ollama.BaseURL != "http://gpu-box:11434" {
		t.Errorf("expected base URL from env, got %q", ollama.BaseURL)
	}

	missing := model.LLMConfig{Provider: "anthropic"}
	if err := ResolveCredentials(&missing, getenv); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("expected configuration error for missing key, got %v", err)
	}

	unknown := model.LLMConfig{Provider: "mystery"}
	if err := ResolveCredentials(&unknown, getenv); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("expected configuration error for unknown provider, got %v", err)
	}
}
