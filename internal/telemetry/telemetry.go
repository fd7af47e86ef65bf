// Package telemetry provides OpenTelemetry instrumentation for the risk
// service. It exports Prometheus metrics and provides tracing capabilities.
package telemetry

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "risk-api"

// Metrics holds all risk service Prometheus metrics
type Metrics struct {
	// Prediction pipeline metrics
	PredictionsTotal   *prometheus.CounterVec
	PredictionsFailed  *prometheus.CounterVec
	PredictionDuration *prometheus.HistogramVec

	// Advisory metrics
	AdviceBySource   *prometheus.CounterVec
	ProviderFailures prometheus.Counter

	// Explanation metrics
	ExplanationsDegraded prometheus.Counter

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Chat metrics
	ChatTurns     *prometheus.CounterVec
	CrisisFlagged prometheus.Counter
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// Metrics register on the default Prometheus registry, so they are built
// once per process regardless of how many providers tests construct.
var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// NewProvider initializes telemetry with Prometheus metrics
func NewProvider() *Provider {
	metricsOnce.Do(func() { metrics = initMetrics() })
	tracer := otel.Tracer(serviceName)

	return &Provider{
		Tracer:  tracer,
		Metrics: metrics,
	}
}

// Handler returns the Prometheus HTTP handler for /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initPredictionMetrics(m)
	initAdvisoryMetrics(m)
	initCacheMetrics(m)
	initChatMetrics(m)
	return m
}

func initPredictionMetrics(m *Metrics) {
	m.PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riskapi_predictions_total",
		Help: "Total completed predictions by disease and risk tier",
	}, []string{"disease", "tier"})

	m.PredictionsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riskapi_predictions_failed_total",
		Help: "Total failed predictions by disease and error code",
	}, []string{"disease", "error_code"})

	m.PredictionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "riskapi_prediction_duration_seconds",
		Help:    "End-to-end time for one prediction",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
	}, []string{"disease"})

	m.ExplanationsDegraded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "riskapi_explanations_degraded_total",
		Help: "Total predictions explained with the heuristic proxy instead of the explainer",
	})
}

func initAdvisoryMetrics(m *Metrics) {
	m.AdviceBySource = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riskapi_advice_total",
		Help: "Total advisories by source (generated, cached, fallback)",
	}, []string{"source"})

	m.ProviderFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "riskapi_provider_failures_total",
		Help: "Total text generation provider failures",
	})
}

func initCacheMetrics(m *Metrics) {
	m.CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riskapi_cache_hits_total",
		Help: "Total cache hits by cache name",
	}, []string{"cache"})

	m.CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riskapi_cache_misses_total",
		Help: "Total cache misses by cache name",
	}, []string{"cache"})
}

func initChatMetrics(m *Metrics) {
	m.ChatTurns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riskapi_chat_turns_total",
		Help: "Total chat turns by detected sentiment",
	}, []string{"sentiment"})

	m.CrisisFlagged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "riskapi_chat_crisis_flagged_total",
		Help: "Total chat messages containing crisis language",
	})
}

// RecordPrediction records metrics for one completed prediction
func (p *Provider) RecordPrediction(ctx context.Context, disease, tier string, duration time.Duration) {
	p.Metrics.PredictionsTotal.WithLabelValues(disease, tier).Inc()
	p.Metrics.PredictionDuration.WithLabelValues(disease).Observe(duration.Seconds())
}

// RecordPredictionFailure records a failed prediction with error code
func (p *Provider) RecordPredictionFailure(ctx context.Context, disease, errorCode string) {
	p.Metrics.PredictionsFailed.WithLabelValues(disease, errorCode).Inc()
}

// RecordAdvice records which source served the advisory
func (p *Provider) RecordAdvice(ctx context.Context, source string) {
	p.Metrics.AdviceBySource.WithLabelValues(source).Inc()
}

// RecordProviderFailure records a text generation failure
func (p *Provider) RecordProviderFailure(ctx context.Context) {
	p.Metrics.ProviderFailures.Inc()
}

// RecordExplanationDegraded records a heuristic-proxy explanation
func (p *Provider) RecordExplanationDegraded(ctx context.Context) {
	p.Metrics.ExplanationsDegraded.Inc()
}

// RecordCacheLookup records one cache lookup result
func (p *Provider) RecordCacheLookup(ctx context.Context, cacheName string, hit bool) {
	if hit {
		p.Metrics.CacheHits.WithLabelValues(cacheName).Inc()
		return
	}
	p.Metrics.CacheMisses.WithLabelValues(cacheName).Inc()
}

// RecordChatTurn records one chat turn
func (p *Provider) RecordChatTurn(ctx context.Context, sentiment string, crisis bool) {
	p.Metrics.ChatTurns.WithLabelValues(sentiment).Inc()
	if crisis {
		p.Metrics.CrisisFlagged.Inc()
	}
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}
