// Package model wraps the pretrained binary classifier artifact and
// owns its availability lifecycle.
package model

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/Arya2160/OncoSense/internal/domain"
	"github.com/Arya2160/OncoSense/internal/scoring"
)

// featureOrder is the frozen input vector contract with the model
// artifact. It must never be reordered independent of the artifact.
var featureOrder = []string{
	"age",
	"pulse",
	"fever",
	"fever_temp_c",
	"pallor",
	"bruises",
	"weight_loss",
}

// missingTempC is the baseline substituted into the input vector when
// no temperature was measured. Matches the training pipeline's imputation.
const missingTempC = 37.0

// artifact is the on-disk JSON shape of a trained logistic model.
type artifact struct {
	Name     string    `json:"model"`
	Version  string    `json:"version"`
	Features []string  `json:"features"`
	Weights  []float64 `json:"weights"`
	Bias     float64   `json:"bias"`
}

// Classifier is a loaded, validated binary classifier.
type Classifier struct {
	art artifact
}

// ParseArtifact parses and validates raw artifact bytes. An artifact
// whose feature list diverges from the frozen order is rejected: a
// silent reorder would score garbage.
func ParseArtifact(data []byte) (*Classifier, error) {
	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}

	if art.Name == "" {
		return nil, fmt.Errorf("model artifact missing model name")
	}
	if len(art.Weights) != len(art.Features) {
		return nil, fmt.Errorf("model artifact shape mismatch: %d weights for %d features",
			len(art.Weights), len(art.Features))
	}
	if len(art.Features) != len(featureOrder) {
		return nil, fmt.Errorf("model artifact expects %d features, this service provides %d",
			len(art.Features), len(featureOrder))
	}
	for i, name := range art.Features {
		if name != featureOrder[i] {
			return nil, fmt.Errorf("model artifact feature order mismatch at %d: %q != %q",
				i, name, featureOrder[i])
		}
	}

	return &Classifier{art: art}, nil
}

// Name returns the model identifier from the artifact.
func (c *Classifier) Name() string {
	return c.art.Name
}

// Version returns the artifact version, possibly empty.
func (c *Classifier) Version() string {
	return c.art.Version
}

// Infer scores the core features of f, returning a probability in [0,1].
func (c *Classifier) Infer(f *domain.FeatureRecord) (float64, error) {
	vector := inputVector(f)
	if len(vector) != len(c.art.Weights) {
		// Guarded at parse time; kept as a hard check on the frozen contract.
		return 0, fmt.Errorf("%w: input vector shape mismatch", ErrUnavailable)
	}

	z := c.art.Bias
	for i, w := range c.art.Weights {
		z += w * vector[i]
	}

	return scoring.Clamp01(sigmoid(z)), nil
}

// inputVector builds the fixed-order numeric vector from the core features.
func inputVector(f *domain.FeatureRecord) []float64 {
	return []float64{
		float64(f.Age),
		float64(f.PulseBPM),
		boolInput(f.Fever),
		f.Temp(missingTempC),
		boolInput(f.Pallor),
		boolInput(f.Bruising),
		boolInput(f.WeightLoss),
	}
}

func boolInput(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
