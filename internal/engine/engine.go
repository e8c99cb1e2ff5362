// Package engine orchestrates one scoring request end to end: feature
// extraction, classifier-vs-heuristic path selection, and verdict
// composition.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/Arya2160/OncoSense/internal/domain"
	"github.com/Arya2160/OncoSense/internal/features"
	"github.com/Arya2160/OncoSense/internal/logger"
	"github.com/Arya2160/OncoSense/internal/model"
	"github.com/Arya2160/OncoSense/internal/scoring"
	"github.com/Arya2160/OncoSense/internal/telemetry"

	"go.opentelemetry.io/otel/trace"
)

// Engine scores prediction requests. Requests are stateless; the model
// manager is the only shared mutable dependency.
type Engine struct {
	heuristic *scoring.HeuristicScorer
	composer  *scoring.Composer
	models    *model.Manager
	tel       *telemetry.Provider
	logger    logger.Logger

	// The first classifier fallback is logged once; after that the
	// sticky failure state makes per-request logging pure noise.
	fallbackLogOnce sync.Once
}

// New creates a scoring engine. tel may be nil in tests.
func New(
	heuristic *scoring.HeuristicScorer,
	composer *scoring.Composer,
	models *model.Manager,
	tel *telemetry.Provider,
	log logger.Logger,
) *Engine {
	return &Engine{
		heuristic: heuristic,
		composer:  composer,
		models:    models,
		tel:       tel,
		logger:    log,
	}
}

// Predict scores one raw request payload. It never fails: the heuristic
// path is the guaranteed-available contract of last resort.
func (e *Engine) Predict(ctx context.Context, raw map[string]any) *domain.Verdict {
	start := time.Now()

	if e.tel != nil {
		var span trace.Span
		ctx, span = e.tel.StartSpan(ctx, "engine.predict")
		defer span.End()
	}

	f, fallbacks := features.Extract(raw)
	if m := e.metrics(); m != nil && fallbacks > 0 {
		m.CoercionFallbacks.Add(float64(fallbacks))
	}

	verdict := e.score(ctx, &f)
	e.observe(verdict, time.Since(start))

	e.logger.Debug("Prediction complete",
		logger.Float64("probability", verdict.Probability),
		logger.String("label", string(verdict.Label)),
		logger.String("source", string(verdict.Source)),
	)

	return verdict
}

// score selects the classifier path when the model is available and
// falls back to the heuristic scorer otherwise.
func (e *Engine) score(ctx context.Context, f *domain.FeatureRecord) *domain.Verdict {
	classifier, err := e.models.Classifier(ctx)
	if err == nil {
		base, inferErr := classifier.Infer(f)
		if inferErr == nil {
			verdict := e.composer.Compose(base, f, domain.SourceClassifier)
			verdict.ModelName = classifier.Name()
			return verdict
		}
		err = inferErr
	}

	e.fallbackLogOnce.Do(func() {
		e.logger.Warn("Classifier unavailable, scoring with heuristic", logger.Error(err))
	})
	if m := e.metrics(); m != nil {
		m.ClassifierFallback.Inc()
	}

	result := e.heuristic.Score(f)
	verdict := e.composer.Compose(result.Probability, f, domain.SourceHeuristic)
	verdict.Contributions = result.Contributions
	return verdict
}

// ModelKind reports the active scoring path for the health endpoint.
func (e *Engine) ModelKind() string {
	return e.models.ModelKind()
}

// Weights returns the active heuristic weight table.
func (e *Engine) Weights() scoring.Weights {
	return e.heuristic.Weights()
}

// Thresholds returns the active classification thresholds.
func (e *Engine) Thresholds() scoring.Thresholds {
	return e.composer.Thresholds()
}

// WarmUp attempts the one-time model load eagerly at startup instead of
// on the first request. Failure is not fatal; it just pins the
// heuristic path, which the first request would have done anyway.
func (e *Engine) WarmUp(ctx context.Context) {
	if _, err := e.models.Classifier(ctx); err != nil {
		e.fallbackLogOnce.Do(func() {
			e.logger.Warn("Classifier unavailable, scoring with heuristic", logger.Error(err))
		})
	}
	e.observeModelState()
}

// metrics returns the metrics set, nil when telemetry is absent.
func (e *Engine) metrics() *telemetry.Metrics {
	if e.tel == nil {
		return nil
	}
	return e.tel.Metrics
}

func (e *Engine) observe(v *domain.Verdict, elapsed time.Duration) {
	m := e.metrics()
	if m == nil {
		return
	}
	m.PredictionsTotal.WithLabelValues(string(v.Label), string(v.Source)).Inc()
	m.PredictionDuration.WithLabelValues(string(v.Source)).Observe(elapsed.Seconds())
	e.observeModelState()
}

func (e *Engine) observeModelState() {
	m := e.metrics()
	if m == nil {
		return
	}
	var state float64
	switch e.models.State() {
	case model.StateLoading:
		state = telemetry.ModelStateLoading
	case model.StateLoaded:
		state = telemetry.ModelStateLoaded
	case model.StateFailed:
		state = telemetry.ModelStateFailed
	default:
		state = telemetry.ModelStateUnloaded
	}
	m.ModelLoadState.Set(state)
}
