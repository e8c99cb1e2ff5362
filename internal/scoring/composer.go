package scoring

import (
	"github.com/Arya2160/OncoSense/internal/domain"
	"github.com/Arya2160/OncoSense/internal/logger"
)

// Classifier-path adjustment constants. The trained classifier only saw
// the core features, so advanced symptoms and an extreme temperature
// still push the final probability.
const (
	adjFatigue            = 0.10
	adjNightSweats        = 0.10
	adjFrequentInfections = 0.15
	adjBonePain           = 0.20
	adjScale              = 0.4
	adjHighTemp           = 0.05
	highTempC             = 40.0
)

// Thresholds holds the probability cutoffs for severity labels.
type Thresholds struct {
	High   float64
	Medium float64
}

// DefaultThresholds returns the production threshold set (0.72/0.40).
func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.72, Medium: 0.40}
}

// Composer combines a base probability with discretionary adjustments
// and classification thresholds into the final labeled verdict.
type Composer struct {
	logger     logger.Logger
	thresholds Thresholds
}

// NewComposer creates a verdict composer.
func NewComposer(log logger.Logger, thresholds Thresholds) *Composer {
	return &Composer{logger: log, thresholds: thresholds}
}

// Thresholds returns the active threshold set.
func (c *Composer) Thresholds() Thresholds {
	return c.thresholds
}

// Compose builds the final verdict from a base probability. A
// classifier-sourced base gets the advanced-symptom adjustment before
// labeling; a heuristic base is already final.
func (c *Composer) Compose(base float64, f *domain.FeatureRecord, source domain.ScoreSource) *domain.Verdict {
	probability := Clamp01(base)
	if source == domain.SourceClassifier {
		probability = Clamp01(base + c.adjustment(f))
	}

	return &domain.Verdict{
		Probability:     probability,
		BaseProbability: Clamp01(base),
		Label:           c.Label(probability),
		Source:          source,
	}
}

// Label maps a probability to its severity label.
func (c *Composer) Label(probability float64) domain.RiskLabel {
	switch {
	case probability >= c.thresholds.High:
		return domain.RiskHigh
	case probability >= c.thresholds.Medium:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// adjustment is the soft push applied on top of a classifier score.
func (c *Composer) adjustment(f *domain.FeatureRecord) float64 {
	delta := 0.0
	if f.Fatigue {
		delta += adjFatigue
	}
	if f.NightSweats {
		delta += adjNightSweats
	}
	if f.FrequentInfections {
		delta += adjFrequentInfections
	}
	if f.BonePain {
		delta += adjBonePain
	}

	adjusted := adjScale * delta
	if f.HasTemp() && *f.TempC >= highTempC {
		adjusted += adjHighTemp
	}
	return adjusted
}
