package llm

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const llmInstrumentationName = "github.com/boardroomlabs/boardroomd/internal/llm"

// Metrics holds all LLM call metrics.
type Metrics struct {
	meter    metric.Meter
	requests metric.Int64Counter
	duration metric.Float64Histogram
	tokens   metric.Int64Counter
}

// NewMetrics creates a new Metrics instance for LLM calls. Instrument
// creation errors are ignored; the affected instrument simply records
// nothing.
func NewMetrics() *Metrics {
	m := &Metrics{meter: otel.Meter(llmInstrumentationName)}

	m.requests, _ = m.meter.Int64Counter(
		"boardroomd.llm.requests_total",
		metric.WithDescription("Total LLM completion calls labeled by provider, model, and outcome"),
		metric.WithUnit("{request}"),
	)

	m.duration, _ = m.meter.Float64Histogram(
		"boardroomd.llm.request_duration_seconds",
		metric.WithDescription("LLM completion call duration in seconds, labeled by provider and model"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0),
	)

	m.tokens, _ = m.meter.Int64Counter(
		"boardroomd.llm.tokens_total",
		metric.WithDescription("Tokens consumed by LLM calls, labeled by provider, model, and kind (prompt or completion)"),
		metric.WithUnit("{token}"),
	)

	return m
}

// RecordCompletion records one completion call. The outcome label is "ok" or
// the provider error classification.
func (m *Metrics) RecordCompletion(ctx context.Context, provider, model string, duration time.Duration, usage Usage, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		var pe *ProviderError
		if errors.As(err, &pe) {
			outcome = string(pe.Type)
		}
	}

	providerAttr := attribute.String("provider", provider)
	modelAttr := attribute.String("model", model)

	if m.requests != nil {
		m.requests.Add(ctx, 1, metric.WithAttributes(providerAttr, modelAttr,
			attribute.String("outcome", outcome)))
	}
	if m.duration != nil {
		m.duration.Record(ctx, duration.Seconds(), metric.WithAttributes(providerAttr, modelAttr))
	}
	if m.tokens != nil && usage.PromptTokens > 0 {
		m.tokens.Add(ctx, int64(usage.PromptTokens), metric.WithAttributes(providerAttr, modelAttr,
			attribute.String("kind", "prompt")))
	}
	if m.tokens != nil && usage.CompletionTokens > 0 {
		m.tokens.Add(ctx, int64(usage.CompletionTokens), metric.WithAttributes(providerAttr, modelAttr,
			attribute.String("kind", "completion")))
	}
}
