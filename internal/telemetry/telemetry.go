// Package telemetry provides Prometheus instrumentation for the risk
// service plus a tracer handle for request spans.
package telemetry

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "oncosense"

// Model load state gauge values.
const (
	ModelStateUnloaded = 0
	ModelStateLoading  = 1
	ModelStateLoaded   = 2
	ModelStateFailed   = 3
)

// Metrics holds all risk-service Prometheus metrics.
type Metrics struct {
	// Prediction metrics
	PredictionsTotal   *prometheus.CounterVec
	PredictionDuration *prometheus.HistogramVec

	// Feature extraction metrics
	CoercionFallbacks prometheus.Counter

	// Model lifecycle metrics
	ModelLoadState     prometheus.Gauge
	ClassifierFallback prometheus.Counter
}

// Provider wraps telemetry providers.
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics.
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func initMetrics() *Metrics {
	m := &Metrics{}

	m.PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oncosense_predictions_total",
		Help: "Total predictions served, by severity label and scoring source",
	}, []string{"label", "source"})

	m.PredictionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "oncosense_prediction_duration_seconds",
		Help:    "Time to score a single prediction request",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
	}, []string{"source"})

	m.CoercionFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oncosense_coercion_fallbacks_total",
		Help: "Total input fields that fell back to their default during extraction",
	})

	m.ModelLoadState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "oncosense_model_load_state",
		Help: "Model lifecycle state (0=unloaded, 1=loading, 2=loaded, 3=failed_permanently)",
	})

	m.ClassifierFallback = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oncosense_classifier_fallback_total",
		Help: "Total requests scored by the heuristic because the classifier was unavailable",
	})

	return m
}
