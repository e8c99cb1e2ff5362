package engine

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arya2160/OncoSense/internal/domain"
	"github.com/Arya2160/OncoSense/internal/logger"
	"github.com/Arya2160/OncoSense/internal/model"
	"github.com/Arya2160/OncoSense/internal/scoring"
)

func heuristicEngine() *Engine {
	log := logger.NewNop()
	return New(
		scoring.NewHeuristicScorer(log),
		scoring.NewComposer(log, scoring.DefaultThresholds()),
		model.NewManager(model.Config{Enabled: false}, nil, log),
		nil,
		log,
	)
}

func classifierEngine(t *testing.T, weights []float64, bias float64) *Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	artifact, err := json.Marshal(map[string]any{
		"model":    "leukemia-logreg",
		"version":  "2024.1",
		"features": []string{"age", "pulse", "fever", "fever_temp_c", "pallor", "bruises", "weight_loss"},
		"weights":  weights,
		"bias":     bias,
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, artifact, 0o600))

	log := logger.NewNop()
	return New(
		scoring.NewHeuristicScorer(log),
		scoring.NewComposer(log, scoring.DefaultThresholds()),
		model.NewManager(model.Config{Enabled: true, Path: path}, nil, log),
		nil,
		log,
	)
}

func TestEngine_PredictNeverFails(t *testing.T) {
	e := heuristicEngine()

	payloads := []map[string]any{
		nil,
		{},
		{"age": "garbage", "pulse": []int{1, 2}, "fever": 3.14},
		{"age": 5, "fever_temp_c": 39.5, "pallor": "yes", "bone_pain": true},
	}
	for _, raw := range payloads {
		v := e.Predict(context.Background(), raw)
		require.NotNil(t, v)
		assert.GreaterOrEqual(t, v.Probability, 0.0)
		assert.LessOrEqual(t, v.Probability, 1.0)
		assert.Equal(t, domain.SourceHeuristic, v.Source)
	}
}

func TestEngine_HeuristicPathCarriesContributions(t *testing.T) {
	e := heuristicEngine()

	v := e.Predict(context.Background(), map[string]any{
		"age": 4, "fever_temp_c": 39.2, "pallor": true,
	})

	assert.Equal(t, domain.SourceHeuristic, v.Source)
	assert.Empty(t, v.ModelName)
	require.NotEmpty(t, v.Contributions)
	assert.InDelta(t, 0.30, v.Contributions[scoring.ContribTemperature], 1e-9)
	assert.InDelta(t, 0.15, v.Contributions[scoring.ContribPallor], 1e-9)
	assert.InDelta(t, 0.02, v.Contributions[scoring.ContribYoungAge], 1e-9)
}

func TestEngine_PredictIsIdempotent(t *testing.T) {
	e := heuristicEngine()
	raw := map[string]any{"age": 6, "pulse": 130, "bruising": true, "night_sweats": "yes"}

	first := e.Predict(context.Background(), raw)
	for i := 0; i < 5; i++ {
		v := e.Predict(context.Background(), raw)
		assert.Equal(t, first.Probability, v.Probability)
		assert.Equal(t, first.Label, v.Label)
		assert.Equal(t, first.Contributions, v.Contributions)
	}
}

func TestEngine_ClassifierPath(t *testing.T) {
	// Zero weights: the classifier emits sigmoid(bias) for every input.
	e := classifierEngine(t, make([]float64, 7), 0)

	v := e.Predict(context.Background(), map[string]any{"age": 8, "pulse": 90})

	assert.Equal(t, domain.SourceClassifier, v.Source)
	assert.Equal(t, "leukemia-logreg", v.ModelName)
	assert.InDelta(t, 0.5, v.BaseProbability, 1e-9)
	assert.InDelta(t, 0.5, v.Probability, 1e-9)
	assert.Equal(t, domain.RiskMedium, v.Label)
	assert.Equal(t, "classifier", e.ModelKind())
}

func TestEngine_ClassifierPathAppliesAdvancedSymptomAdjustment(t *testing.T) {
	e := classifierEngine(t, make([]float64, 7), 0)

	v := e.Predict(context.Background(), map[string]any{
		"age": 8, "pulse": 90, "bone_pain": true, "fatigue": true,
	})

	// 0.5 + 0.4*(0.10 + 0.20) = 0.62
	assert.InDelta(t, 0.5, v.BaseProbability, 1e-9)
	assert.InDelta(t, 0.62, v.Probability, 1e-9)
}

func TestEngine_WarmUpPinsFallbackPath(t *testing.T) {
	log := logger.NewNop()
	e := New(
		scoring.NewHeuristicScorer(log),
		scoring.NewComposer(log, scoring.DefaultThresholds()),
		model.NewManager(model.Config{
			Enabled: true,
			Path:    filepath.Join(t.TempDir(), "absent.json"),
		}, nil, log),
		nil,
		log,
	)

	e.WarmUp(context.Background())
	assert.Equal(t, "heuristic", e.ModelKind())

	v := e.Predict(context.Background(), map[string]any{})
	assert.Equal(t, domain.SourceHeuristic, v.Source)
}

func TestEngine_ExposesActiveConfiguration(t *testing.T) {
	e := heuristicEngine()

	assert.InDelta(t, 0.72, e.Thresholds().High, 1e-9)
	assert.InDelta(t, 0.40, e.Thresholds().Medium, 1e-9)
	assert.InDelta(t, 0.15, e.Weights().Pallor, 1e-9)
}
