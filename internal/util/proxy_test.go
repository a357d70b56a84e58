package util

import (
	"net/http"
	"net/url"
	"testing"
)

func proxyFor(t *testing.T, fn func(*http.Request) (*url.URL, error), target string) string {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	u, err := fn(req)
	if err != nil {
		t.Fatalf("proxy func: %v", err)
	}
	if u == nil {
		return ""
	}
	return u.String()
}

func TestNewProxyFunc(t *testing.T) {
	fn := NewProxyFunc("http://proxy:3128", "http://secure-proxy:3128", "localhost,internal.example")

	tests := []struct {
		target string
		want   string
	}{
		{"http://api.example.com/v1", "http://proxy:3128"},
		{"https://api.openai.com/v1", "http://secure-proxy:3128"},
		{"https://internal.example/v1", ""},
		{"http://localhost:11434/api/generate", ""},
	}

	for _, tt := range tests {
		if got := proxyFor(t, fn, tt.target); got != tt.want {
			t.Errorf("proxy for %s = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestNewProxyFunc_HTTPProxyServesHTTPS(t *testing.T) {
	fn := NewProxyFunc("http://proxy:3128", "", "")
	if got := proxyFor(t, fn, "https://api.anthropic.com/v1/messages"); got != "http://proxy:3128" {
		t.Errorf("expected http proxy for https target, got %q", got)
	}
}
