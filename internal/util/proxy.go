// Package util holds small helpers shared by the LLM transports.
package util

import (
	"net/http"
	"net/url"

	"golang.org/x/net/http/httpproxy"
)

// NewProxyFunc builds an http.Transport proxy function from explicit settings.
// With no proxy URLs configured it falls back to the HTTP_PROXY/HTTPS_PROXY/NO_PROXY environment.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	cfg := &httpproxy.Config{
		HTTPProxy:  httpProxy,
		HTTPSProxy: httpsProxy,
		NoProxy:    noProxy,
	}
	if cfg.HTTPSProxy == "" {
		// A single proxy serves both schemes
		cfg.HTTPSProxy = httpProxy
	}

	proxyURL := cfg.ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return proxyURL(req.URL)
	}
}
