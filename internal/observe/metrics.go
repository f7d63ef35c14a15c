// Package observe provides application-wide observability primitives for
// Voxnote: OpenTelemetry metrics and the Prometheus exporter bridge behind
// the /metrics endpoint.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A package-level
// default [Metrics] instance ([DefaultMetrics]) is provided for convenience;
// tests should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Voxnote metrics.
const meterName = "github.com/fwehrmann/voxnote"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per pipeline stage ---

	// TranscribeDuration tracks speech-to-text transcription latency.
	TranscribeDuration metric.Float64Histogram

	// ResearchDuration tracks the full research fan-out latency per request.
	ResearchDuration metric.Float64Histogram

	// RewriteDuration tracks LLM rewrite latency.
	RewriteDuration metric.Float64Histogram

	// --- Counters ---

	// RephraseRequests counts rephrase operations. Use with attributes:
	//   attribute.String("tone", ...), attribute.String("intent", ...), attribute.String("status", ...)
	RephraseRequests metric.Int64Counter

	// LookupRequests counts individual research lookups. Use with attributes:
	//   attribute.String("source", ...), attribute.String("outcome", ...)
	LookupRequests metric.Int64Counter

	// NotesSaved counts notes persisted to the store.
	NotesSaved metric.Int64Counter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds). Rewrites
// against hosted LLMs routinely take several seconds, hence the long tail.
var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.TranscribeDuration, err = m.Float64Histogram("voxnote.transcribe.duration",
		metric.WithDescription("Latency of speech-to-text transcription."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ResearchDuration, err = m.Float64Histogram("voxnote.research.duration",
		metric.WithDescription("Latency of the web research fan-out per request."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.RewriteDuration, err = m.Float64Histogram("voxnote.rewrite.duration",
		metric.WithDescription("Latency of the LLM rewrite."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.RephraseRequests, err = m.Int64Counter("voxnote.rephrase.requests",
		metric.WithDescription("Total rephrase operations by tone, intent, and status."),
	); err != nil {
		return nil, err
	}
	if met.LookupRequests, err = m.Int64Counter("voxnote.lookup.requests",
		metric.WithDescription("Total research lookups by source and outcome."),
	); err != nil {
		return nil, err
	}
	if met.NotesSaved, err = m.Int64Counter("voxnote.notes.saved",
		metric.WithDescription("Total notes persisted to the store."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("voxnote.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordRephrase records one rephrase operation with the standard attribute
// set.
func (m *Metrics) RecordRephrase(ctx context.Context, tone, intent, status string) {
	m.RephraseRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("tone", tone),
			attribute.String("intent", intent),
			attribute.String("status", status),
		),
	)
}

// RecordLookup records one research lookup with the standard attribute set.
// outcome is "hit", "miss", or "error".
func (m *Metrics) RecordLookup(ctx context.Context, source, outcome string) {
	m.LookupRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("source", source),
			attribute.String("outcome", outcome),
		),
	)
}

// RecordNoteSaved records one persisted note.
func (m *Metrics) RecordNoteSaved(ctx context.Context) {
	m.NotesSaved.Add(ctx, 1)
}
