package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/kepler/internal/model"
	"github.com/spf13/viper"
)

func TestParseCaseCount(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"5", 5, false},
		{"1", 1, false},
		{"120", 120, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"five", 0, true},
		{"2.5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseCaseCount(tt.arg)
			if tt.wantErr {
				if !errors.Is(err, model.ErrConfiguration) {
					t.Fatalf("parseCaseCount(%q) error = %v, want ErrConfiguration", tt.arg, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseCaseCount(%q) unexpected error: %v", tt.arg, err)
			}
			if got != tt.want {
				t.Errorf("parseCaseCount(%q) = %d, want %d", tt.arg, got, tt.want)
			}
		})
	}
}

func newTestViper() *viper.Viper {
	v := viper.New()
	registerDefaults(v, model.DefaultConfig())
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newTestViper())
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if diff := cmp.Diff(model.DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	v := newTestViper()
	v.Set("llm.provider", "anthropic")
	v.Set("debate.rounds", 3)
	v.Set("concurrency.workers", 0)
	v.Set("cache.disk_ttl", "2h")

	cfg, err := loadConfig(v)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("provider = %q, want anthropic", cfg.LLM.Provider)
	}
	if cfg.Debate.Rounds != 3 {
		t.Errorf("rounds = %d, want 3", cfg.Debate.Rounds)
	}
	if cfg.Concurrency.Workers != 1 {
		t.Errorf("workers = %d, want 1 (non-positive falls back to sequential)", cfg.Concurrency.Workers)
	}
	if cfg.Cache.DiskTTL != 2*time.Hour {
		t.Errorf("disk ttl = %v, want 2h", cfg.Cache.DiskTTL)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("KEPLER_TEST_LLM_MODEL", "gpt-4o")
	t.Setenv("KEPLER_TEST_INPUT_LIMIT", "12")

	v := newTestViper()
	v.SetEnvPrefix("KEPLER_TEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := loadConfig(v)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("model = %q, want gpt-4o", cfg.LLM.Model)
	}
	if cfg.Input.Limit != 12 {
		t.Errorf("limit = %d, want 12", cfg.Input.Limit)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	for key, value := range map[string]any{
		"input.limit":   0,
		"debate.rounds": -1,
	} {
		t.Run(key, func(t *testing.T) {
			v := newTestViper()
			v.Set(key, value)
			if _, err := loadConfig(v); !errors.Is(err, model.ErrConfiguration) {
				t.Errorf("loadConfig error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestWriteDefaultConfig_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".kepler")

	path, err := writeDefaultConfig(dir)
	if err != nil {
		t.Fatalf("writeDefaultConfig failed: %v", err)
	}
	if path != filepath.Join(dir, "config.yaml") {
		t.Errorf("path = %q", path)
	}

	v := newTestViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig failed: %v", err)
	}
	cfg, err := loadConfig(v)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if diff := cmp.Diff(model.DefaultConfig(), cfg); diff != "" {
		t.Errorf("written defaults do not round-trip (-want +got):\n%s", diff)
	}

	if _, err := writeDefaultConfig(dir); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	cfg := model.DefaultConfig()
	cfg.LLM.APIKey = "sk-secret"

	if err := showConfig(&buf, cfg); err != nil {
		t.Fatalf("showConfig failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Current Configuration", "provider: openai", "rounds: 2", "KEPLER_*"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "sk-secret") {
		t.Error("API key must never be printed")
	}
}

func TestDiagnose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"models":[]}`)
	}))
	defer server.Close()

	base := model.DefaultConfig().LLM
	base.Provider = "ollama"
	base.BaseURL = server.URL

	getenv := func(string) string { return "" }
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	checks, err := diagnose(ctx, base, []string{"openai", "ollama"}, getenv)
	if err != nil {
		t.Fatalf("diagnose failed: %v", err)
	}
	if len(checks) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(checks))
	}

	if checks[0].Provider != "openai" || checks[0].Credential || checks[0].OK() {
		t.Errorf("openai without a key should fail the credential check: %+v", checks[0])
	}
	if !strings.Contains(checks[0].Detail, "OPENAI_API_KEY") {
		t.Errorf("detail should name the missing variable, got %q", checks[0].Detail)
	}

	if checks[1].Provider != "ollama" || !checks[1].OK() {
		t.Errorf("ollama should be ready: %+v", checks[1])
	}

	var buf bytes.Buffer
	printChecks(&buf, checks)
	if !strings.Contains(buf.String(), "✓ ollama") || !strings.Contains(buf.String(), "✗ openai") {
		t.Errorf("unexpected report:\n%s", buf.String())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"configuration", fmt.Errorf("wrap: %w", model.ErrConfiguration), ExitConfiguration},
		{"source", fmt.Errorf("load cases: %w", model.ErrSourceUnavailable), ExitSource},
		{"collaborator", model.NewCaseError(1, model.StrategySingleAgent, model.ErrCollaboratorFailure, errors.New("timeout")), ExitCollaborator},
		{"schema", model.NewCaseError(1, model.StrategySingleAgent, model.ErrCollaboratorFailure, model.ErrSchemaViolation), ExitSchema},
		{"other", errors.New("boom"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompare_MissingCredentialBeforeInput(t *testing.T) {
	dir := t.TempDir()
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = "openai"
	cfg.Input.Path = filepath.Join(dir, "missing.csv")
	cfg.Output.Path = filepath.Join(dir, "visualization_data.json")

	var out bytes.Buffer
	err := compare(context.Background(), cfg, func(string) string { return "" }, &out)

	if !errors.Is(err, model.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if errors.Is(err, model.ErrSourceUnavailable) {
		t.Errorf("credentials must be checked before the input is opened: %v", err)
	}
	if got := ExitCode(err); got != ExitConfiguration {
		t.Errorf("ExitCode() = %d, want %d", got, ExitConfiguration)
	}
	if strings.Contains(out.String(), "Loaded") {
		t.Errorf("no case may be loaded without credentials:\n%s", out.String())
	}
	if _, statErr := os.Stat(cfg.Output.Path); !os.IsNotExist(statErr) {
		t.Error("no artifact may be written")
	}
}

func TestCompareCommand_MissingCredential(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("KEPLER_LLM_PROVIDER", "openai")

	dir := t.TempDir()
	output := filepath.Join(dir, "visualization_data.json")

	var stderr bytes.Buffer
	rootCmd.SetArgs([]string{"compare", "3", "--input", filepath.Join(dir, "missing.csv"), "--output", output, "--no-cache"})
	rootCmd.SetOut(&stderr)
	rootCmd.SetErr(&stderr)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := Execute()
	if got := ExitCode(err); got != ExitConfiguration {
		t.Fatalf("ExitCode() = %d, want %d (err: %v)", got, ExitConfiguration, err)
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("error should name the missing variable, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Error("no artifact may be written")
	}
}

func TestCompare_CollaboratorFailureWritesNothing(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error": "model crashed"}`)
	}))
	defer server.Close()

	dir := t.TempDir()
	input := filepath.Join(dir, "Kepler.csv")
	csv := "claim,truth\n" +
		"\"Kepler launched in 2010\",\"Kepler launched in 2009\"\n" +
		"\"Kepler used a photometer\",\"Kepler's instrument was a photometer\"\n"
	if err := os.WriteFile(input, []byte(csv), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	cfg := model.DefaultConfig()
	cfg.LLM.Provider = "ollama"
	cfg.LLM.BaseURL = server.URL
	cfg.Cache.Enabled = false
	cfg.RateLimiting.RequestsPerSecond = 0
	cfg.Input.Path = input
	cfg.Output.Path = filepath.Join(dir, "visualization_data.json")

	var out bytes.Buffer
	err := compare(context.Background(), cfg, func(string) string { return "" }, &out)

	if !errors.Is(err, model.ErrCollaboratorFailure) {
		t.Fatalf("expected collaborator failure, got %v", err)
	}
	if got := ExitCode(err); got != ExitCollaborator {
		t.Errorf("ExitCode() = %d, want %d", got, ExitCollaborator)
	}
	if _, statErr := os.Stat(cfg.Output.Path); !os.IsNotExist(statErr) {
		t.Error("no artifact may exist after a failed run")
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("expected the run to stop after the first failed call, server saw %d requests", n)
	}
	if strings.Contains(out.String(), "exported") {
		t.Errorf("failed run must not report an export:\n%s", out.String())
	}
}
