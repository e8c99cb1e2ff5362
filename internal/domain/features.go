// Package domain defines the value objects shared across the risk service.
package domain

// Default feature values applied when a field is absent or unparseable.
const (
	DefaultAge   = 8
	DefaultPulse = 90

	// FeverTempThresholdC is the temperature at or above which a fever
	// flag is derived when the caller did not supply one explicitly.
	FeverTempThresholdC = 38.0
)

// FeatureRecord is the typed, defaulted view of one prediction request.
// It is built once by the feature extractor and never mutated afterwards.
type FeatureRecord struct {
	// Core features: the inputs the classifier was trained on.
	Age         int      `json:"age"`
	PulseBPM    int      `json:"pulse"`
	TempC       *float64 `json:"fever_temp_c,omitempty"` // nil when not measured
	Fever       bool     `json:"fever"`
	Pallor      bool     `json:"pallor"`
	Bruising    bool     `json:"bruises"`
	WeightLoss  bool     `json:"weight_loss"`

	// Advanced symptoms: heuristic/adjustment scoring only.
	Fatigue            bool `json:"fatigue"`
	NightSweats        bool `json:"night_sweats"`
	FrequentInfections bool `json:"frequent_infections"`
	BonePain           bool `json:"bone_pain"`

	// FeverExplicit records whether the fever flag came from the caller
	// rather than the temperature derivation rule.
	FeverExplicit bool `json:"-"`
}

// HasTemp reports whether a measured temperature was supplied.
func (f *FeatureRecord) HasTemp() bool {
	return f.TempC != nil
}

// Temp returns the measured temperature, or fallback when absent.
func (f *FeatureRecord) Temp(fallback float64) float64 {
	if f.TempC == nil {
		return fallback
	}
	return *f.TempC
}
