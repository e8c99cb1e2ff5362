package api

import "github.com/Arya2160/OncoSense/internal/scoring"

// PredictResponse is the JSON verdict returned by POST /predict.
type PredictResponse struct {
	// Risk is the final probability, rounded to 4 decimals.
	Risk float64 `json:"risk"`
	// ModelProb is the pre-adjustment base probability.
	ModelProb float64 `json:"model_prob"`
	ClassName string  `json:"class_name"`
	Source    string  `json:"source"`
	// UsedModel is the classifier identifier, null on the heuristic path.
	UsedModel *string `json:"used_model"`
	// Details is the per-weight contribution breakdown (heuristic path only).
	Details map[string]float64 `json:"details,omitempty"`
}

// HealthResponse is the JSON body returned by GET /health.
type HealthResponse struct {
	OK        bool   `json:"ok"`
	ModelKind string `json:"model_kind"`
	Service   string `json:"service"`
	Version   string `json:"version"`
}

// WeightsResponse exposes the active scoring configuration.
type WeightsResponse struct {
	Weights         scoring.Weights `json:"weights"`
	HighThreshold   float64         `json:"high_threshold"`
	MediumThreshold float64         `json:"medium_threshold"`
}
