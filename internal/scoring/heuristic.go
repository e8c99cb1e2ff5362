// Package scoring implements the weighted heuristic risk scorer and the
// verdict composer. The heuristic path is always available and is the
// contract of last resort when the classifier cannot be loaded.
package scoring

import (
	"github.com/Arya2160/OncoSense/internal/domain"
	"github.com/Arya2160/OncoSense/internal/logger"
)

// Band breakpoints. These are pinned by tests; changing one is a
// clinical tuning decision, not a refactor.
const (
	tempBand1C = 38.0
	tempBand2C = 39.0
	tempBand3C = 40.0

	pulseBand1BPM = 90
	pulseBand2BPM = 100
	pulseBand3BPM = 120

	youngAgeMax = 6
)

// Contribution names used in verdict explainability output.
const (
	ContribTemperature        = "temperature"
	ContribFeverFlag          = "fever_flag"
	ContribPallor             = "pallor"
	ContribBruising           = "bruising"
	ContribWeightLoss         = "weight_loss"
	ContribPulse              = "pulse"
	ContribYoungAge           = "young_age"
	ContribFatigue            = "fatigue"
	ContribNightSweats        = "night_sweats"
	ContribFrequentInfections = "frequent_infections"
	ContribBonePain           = "bone_pain"
)

// Weights is the canonical weight table for the heuristic scorer.
// Earlier deployments of this lineage carried slightly different
// magnitudes per variant; this table is the single merged schedule.
type Weights struct {
	TempBand1 float64 `json:"temp_38_39"   yaml:"temp_38_39"`
	TempBand2 float64 `json:"temp_39_40"   yaml:"temp_39_40"`
	TempBand3 float64 `json:"temp_40_plus" yaml:"temp_40_plus"`

	FeverFlag float64 `json:"fever_flag" yaml:"fever_flag"`

	Pallor     float64 `json:"pallor"      yaml:"pallor"`
	Bruising   float64 `json:"bruising"    yaml:"bruising"`
	WeightLoss float64 `json:"weight_loss" yaml:"weight_loss"`

	PulseBand1 float64 `json:"pulse_90_100"   yaml:"pulse_90_100"`
	PulseBand2 float64 `json:"pulse_100_120"  yaml:"pulse_100_120"`
	PulseBand3 float64 `json:"pulse_120_plus" yaml:"pulse_120_plus"`

	YoungAge float64 `json:"young_age" yaml:"young_age"`

	Fatigue            float64 `json:"fatigue"             yaml:"fatigue"`
	NightSweats        float64 `json:"night_sweats"        yaml:"night_sweats"`
	FrequentInfections float64 `json:"frequent_infections" yaml:"frequent_infections"`
	BonePain           float64 `json:"bone_pain"           yaml:"bone_pain"`
}

// DefaultWeights returns the production weight table.
func DefaultWeights() Weights {
	return Weights{
		TempBand1:          0.18,
		TempBand2:          0.30,
		TempBand3:          0.45,
		FeverFlag:          0.05,
		Pallor:             0.15,
		Bruising:           0.15,
		WeightLoss:         0.15,
		PulseBand1:         0.04,
		PulseBand2:         0.08,
		PulseBand3:         0.12,
		YoungAge:           0.02,
		Fatigue:            0.04,
		NightSweats:        0.04,
		FrequentInfections: 0.06,
		BonePain:           0.08,
	}
}

// HeuristicResult is the output of the heuristic scorer.
type HeuristicResult struct {
	// Probability is the clamped weighted sum, in [0,1].
	Probability float64 `json:"probability"`
	// Contributions maps each named weight to its contribution. Entries
	// are never individually clamped, so they can sum past Probability
	// for symptom combinations near 1.0.
	Contributions map[string]float64 `json:"contributions"`
}

// HeuristicScorer maps a feature record to a probability via weighted
// contributions. It is a pure function of its weight table.
type HeuristicScorer struct {
	logger  logger.Logger
	weights Weights
}

// NewHeuristicScorer creates a heuristic scorer with the default table.
func NewHeuristicScorer(log logger.Logger) *HeuristicScorer {
	return NewHeuristicScorerWithWeights(log, DefaultWeights())
}

// NewHeuristicScorerWithWeights creates a heuristic scorer with a custom table.
func NewHeuristicScorerWithWeights(log logger.Logger, w Weights) *HeuristicScorer {
	return &HeuristicScorer{logger: log, weights: w}
}

// Weights returns the active weight table.
func (s *HeuristicScorer) Weights() Weights {
	return s.weights
}

// Score computes the weighted risk probability for f. Contributions are
// summed unclamped; only the final sum is clamped to [0,1].
func (s *HeuristicScorer) Score(f *domain.FeatureRecord) *HeuristicResult {
	w := s.weights
	contributions := map[string]float64{
		ContribTemperature:        s.temperatureContribution(f),
		ContribFeverFlag:          boolContribution(f.Fever, w.FeverFlag),
		ContribPallor:             boolContribution(f.Pallor, w.Pallor),
		ContribBruising:           boolContribution(f.Bruising, w.Bruising),
		ContribWeightLoss:         boolContribution(f.WeightLoss, w.WeightLoss),
		ContribPulse:              s.pulseContribution(f.PulseBPM),
		ContribYoungAge:           boolContribution(f.Age <= youngAgeMax, w.YoungAge),
		ContribFatigue:            boolContribution(f.Fatigue, w.Fatigue),
		ContribNightSweats:        boolContribution(f.NightSweats, w.NightSweats),
		ContribFrequentInfections: boolContribution(f.FrequentInfections, w.FrequentInfections),
		ContribBonePain:           boolContribution(f.BonePain, w.BonePain),
	}

	sum := 0.0
	for _, c := range contributions {
		sum += c
	}

	probability := Clamp01(sum)

	s.logger.Debug("Heuristic score calculated",
		logger.Float64("raw_sum", sum),
		logger.Float64("probability", probability),
	)

	return &HeuristicResult{
		Probability:   probability,
		Contributions: contributions,
	}
}

// temperatureContribution is a step function of the measured
// temperature. An absent temperature contributes nothing; the fever
// flag's own weight captures caller-asserted fever in that case.
func (s *HeuristicScorer) temperatureContribution(f *domain.FeatureRecord) float64 {
	if !f.HasTemp() {
		return 0
	}
	temp := *f.TempC
	switch {
	case temp < tempBand1C:
		return 0
	case temp < tempBand2C:
		return s.weights.TempBand1
	case temp < tempBand3C:
		return s.weights.TempBand2
	default:
		return s.weights.TempBand3
	}
}

// pulseContribution is a monotonic non-decreasing step function over
// four pulse bands.
func (s *HeuristicScorer) pulseContribution(pulse int) float64 {
	switch {
	case pulse < pulseBand1BPM:
		return 0
	case pulse < pulseBand2BPM:
		return s.weights.PulseBand1
	case pulse < pulseBand3BPM:
		return s.weights.PulseBand2
	default:
		return s.weights.PulseBand3
	}
}

func boolContribution(active bool, weight float64) float64 {
	if active {
		return weight
	}
	return 0
}

// Clamp01 bounds x to the closed interval [0,1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
