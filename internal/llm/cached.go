package llm

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/kepler/internal/cache"
)

// CachedProvider replays completions for identical requests from a cache
type CachedProvider struct {
	inner  Provider
	cache  cache.Cache
	ttl    time.Duration
	model  string // Resolved model name, part of the cache key
	logger *zap.Logger
}

// NewCachedProvider wraps inner with a completion cache.
// model should be the configured model name so switching models never replays stale output.
func NewCachedProvider(inner Provider, c cache.Cache, ttl time.Duration, model string, logger *zap.Logger) *CachedProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedProvider{
		inner:  inner,
		cache:  c,
		ttl:    ttl,
		model:  model,
		logger: logger,
	}
}

// Name returns the wrapped provider's name
func (p *CachedProvider) Name() string {
	return p.inner.Name()
}

// IsAvailable delegates to the wrapped provider
func (p *CachedProvider) IsAvailable(ctx context.Context) bool {
	return p.inner.IsAvailable(ctx)
}

// Complete returns a cached response when one exists, otherwise calls through and stores the result
func (p *CachedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	key := p.key(req)

	if data, found := p.cache.Get(key); found {
		var resp CompletionResponse
		if err := json.Unmarshal(data, &resp); err == nil {
			resp.Cached = true
			p.logger.Debug("completion cache hit", zap.String("provider", p.Name()), zap.String("key", key))
			return &resp, nil
		}
		_ = p.cache.Delete(key)
	}

	resp, err := p.inner.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(resp)
	if err == nil {
		if err := p.cache.Set(key, data, p.ttl); err != nil {
			p.logger.Warn("completion cache write failed", zap.Error(err))
		}
	}

	return resp, nil
}

func (p *CachedProvider) key(req CompletionRequest) string {
	model := req.Model
	if model == "" {
		model = p.model
	}
	return cache.Key(
		req.Scope,
		p.inner.Name(),
		model,
		req.System,
		req.Prompt,
		strconv.Itoa(req.MaxTokens),
		strconv.FormatFloat(req.Temperature, 'g', -1, 64),
		strconv.FormatBool(req.JSON),
	)
}
