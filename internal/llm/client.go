package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// MultiProviderClient implements Client by dispatching to the provider named
// in the request, so a single instance serves conversations pinned to
// different backends.
type MultiProviderClient struct {
	openai    Client
	anthropic Client
	metrics   *Metrics
}

// NewMultiProviderClient creates a dispatching client over both providers.
func NewMultiProviderClient(openaiClient, anthropicClient Client) *MultiProviderClient {
	return &MultiProviderClient{
		openai:    openaiClient,
		anthropic: anthropicClient,
		metrics:   NewMetrics(),
	}
}

// Complete dispatches on Request.Provider, inferring the provider from the
// model name when unset. Every dispatched call is measured.
func (c *MultiProviderClient) Complete(ctx context.Context, req Request) (Response, error) {
	provider := req.Provider
	if provider == "" {
		provider = DetectProvider(req.Model)
	}

	var inner Client
	switch provider {
	case ProviderOpenAI:
		inner = c.openai
	case ProviderAnthropic:
		inner = c.anthropic
	default:
		return Response{}, fmt.Errorf("unsupported LLM provider: %s (supported: openai, anthropic)", provider)
	}

	start := time.Now()
	resp, err := inner.Complete(ctx, req)
	c.metrics.RecordCompletion(ctx, provider, req.Model, time.Since(start), resp.Usage, err)
	return resp, err
}

// DetectProvider infers the provider from the model name.
func DetectProvider(model string) string {
	if strings.HasPrefix(model, "claude") {
		return ProviderAnthropic
	}
	return ProviderOpenAI
}

// DefaultsClient wraps a Client and fills in MaxTokens and Temperature on
// requests that leave them unset.
type DefaultsClient struct {
	inner       Client
	maxTokens   int
	temperature float64
}

// NewDefaultsClient creates a client that applies the given completion
// defaults.
func NewDefaultsClient(inner Client, maxTokens int, temperature float64) *DefaultsClient {
	return &DefaultsClient{inner: inner, maxTokens: maxTokens, temperature: temperature}
}

// Complete applies the configured defaults and delegates.
func (c *DefaultsClient) Complete(ctx context.Context, req Request) (Response, error) {
	if req.MaxTokens == 0 {
		req.MaxTokens = c.maxTokens
	}
	if req.Temperature == 0 {
		req.Temperature = c.temperature
	}
	return c.inner.Complete(ctx, req)
}

// RateLimitedClient wraps a Client with a shared outbound rate limit.
type RateLimitedClient struct {
	inner   Client
	limiter *rate.Limiter
}

// NewRateLimitedClient caps calls at requestsPerMinute with a burst of one
// minute's allowance.
func NewRateLimitedClient(inner Client, requestsPerMinute int) *RateLimitedClient {
	limit := rate.Limit(float64(requestsPerMinute) / 60.0)
	return &RateLimitedClient{
		inner:   inner,
		limiter: rate.NewLimiter(limit, requestsPerMinute),
	}
}

// Complete blocks until the limiter admits the call or the context expires.
func (c *RateLimitedClient) Complete(ctx context.Context, req Request) (Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Response{}, fmt.Errorf("rate limit wait: %w", err)
	}
	return c.inner.Complete(ctx, req)
}
