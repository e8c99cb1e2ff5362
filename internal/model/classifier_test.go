package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arya2160/OncoSense/internal/domain"
)

func validArtifactJSON(weights []float64, bias float64) []byte {
	data, err := json.Marshal(artifact{
		Name:     "leukemia-logreg",
		Version:  "2024.1",
		Features: featureOrder,
		Weights:  weights,
		Bias:     bias,
	})
	if err != nil {
		panic(err)
	}
	return data
}

func TestParseArtifact_Valid(t *testing.T) {
	clf, err := ParseArtifact(validArtifactJSON(make([]float64, 7), 0))
	require.NoError(t, err)
	assert.Equal(t, "leukemia-logreg", clf.Name())
	assert.Equal(t, "2024.1", clf.Version())
}

func TestParseArtifact_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"not json", []byte("definitely not json")},
		{"empty object", []byte(`{}`)},
		{
			"shape mismatch",
			[]byte(`{"model":"m","features":["age","pulse","fever","fever_temp_c","pallor","bruises","weight_loss"],"weights":[0.1],"bias":0}`),
		},
		{
			"wrong feature count",
			[]byte(`{"model":"m","features":["age","pulse"],"weights":[0.1,0.2],"bias":0}`),
		},
		{
			"reordered features",
			[]byte(`{"model":"m","features":["pulse","age","fever","fever_temp_c","pallor","bruises","weight_loss"],"weights":[0,0,0,0,0,0,0],"bias":0}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArtifact(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestClassifier_Infer(t *testing.T) {
	// Zero weights and bias: sigmoid(0) = 0.5 regardless of input.
	clf, err := ParseArtifact(validArtifactJSON(make([]float64, 7), 0))
	require.NoError(t, err)

	p, err := clf.Infer(&domain.FeatureRecord{Age: 8, PulseBPM: 90})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-9)

	// Negative bias pushes the probability down.
	clf, err = ParseArtifact(validArtifactJSON(make([]float64, 7), -1))
	require.NoError(t, err)

	p, err = clf.Infer(&domain.FeatureRecord{Age: 8, PulseBPM: 90})
	require.NoError(t, err)
	assert.InDelta(t, 0.26894142137, p, 1e-9)
}

func TestClassifier_InferUsesFrozenVectorOrder(t *testing.T) {
	// Weight only the fever slot: the output must move with the fever
	// flag and nothing else.
	weights := make([]float64, 7)
	weights[2] = 1.0
	clf, err := ParseArtifact(validArtifactJSON(weights, 0))
	require.NoError(t, err)

	noFever, err := clf.Infer(&domain.FeatureRecord{})
	require.NoError(t, err)
	withFever, err := clf.Infer(&domain.FeatureRecord{Fever: true})
	require.NoError(t, err)

	assert.InDelta(t, 0.5, noFever, 1e-9)
	assert.InDelta(t, 0.73105857863, withFever, 1e-9)
}

func TestClassifier_InferSubstitutesBaselineTemperature(t *testing.T) {
	// Weight only the temperature slot. Absent temperature must score
	// like the 37.0 baseline, not like zero.
	weights := make([]float64, 7)
	weights[3] = 1.0
	clf, err := ParseArtifact(validArtifactJSON(weights, -37.0))
	require.NoError(t, err)

	absent, err := clf.Infer(&domain.FeatureRecord{})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, absent, 1e-9)
}

func TestClassifier_InferOutputAlwaysInUnitInterval(t *testing.T) {
	weights := []float64{10, 10, 10, 10, 10, 10, 10}
	clf, err := ParseArtifact(validArtifactJSON(weights, 100))
	require.NoError(t, err)

	p, err := clf.Infer(&domain.FeatureRecord{Age: 200, PulseBPM: 300, Fever: true})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)
}
