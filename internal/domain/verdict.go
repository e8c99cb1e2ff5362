package domain

// RiskLabel is the discrete severity classification of a verdict.
type RiskLabel string

const (
	RiskLow    RiskLabel = "Low"
	RiskMedium RiskLabel = "Medium"
	RiskHigh   RiskLabel = "High"
)

// ScoreSource identifies which path produced the base probability.
type ScoreSource string

const (
	// SourceClassifier means the pretrained binary classifier scored the request.
	SourceClassifier ScoreSource = "classifier"
	// SourceHeuristic means the weighted rule table scored the request.
	SourceHeuristic ScoreSource = "heuristic"
)

// Verdict is the final labeled result returned to the HTTP boundary.
type Verdict struct {
	// Probability is the final risk probability, always in [0,1].
	Probability float64 `json:"probability"`
	// BaseProbability is the pre-adjustment probability from the scoring path.
	BaseProbability float64 `json:"base_probability"`
	Label           RiskLabel   `json:"label"`
	Source          ScoreSource `json:"source"`

	// Contributions maps each named weight to its contribution on the
	// heuristic path. Contributions are never individually clamped, so
	// their sum may exceed the clamped Probability for inputs near 1.0.
	Contributions map[string]float64 `json:"contributions,omitempty"`

	// ModelName identifies the classifier artifact, empty on the heuristic path.
	ModelName string `json:"model_name,omitempty"`
}
