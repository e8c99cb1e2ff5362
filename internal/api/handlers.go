// Package api exposes the risk service over HTTP.
package api

import (
	"encoding/json"
	"io"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Arya2160/OncoSense/internal/domain"
	"github.com/Arya2160/OncoSense/internal/engine"
	"github.com/Arya2160/OncoSense/internal/logger"
)

// maxPredictBodyBytes bounds how much of a request body is read. A form
// submission is a few hundred bytes; anything larger is garbage.
const maxPredictBodyBytes = 1 << 20

// Handler handles HTTP requests for the risk API.
type Handler struct {
	engine  *engine.Engine
	service string
	version string
	logger  logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(eng *engine.Engine, service, version string, log logger.Logger) *Handler {
	return &Handler{
		engine:  eng,
		service: service,
		version: version,
		logger:  log,
	}
}

// Predict handles POST /predict. A malformed or empty body is treated
// as an empty object rather than rejected: every field has a default,
// and the browser form must never see a scoring 4xx/5xx.
func (h *Handler) Predict(c *gin.Context) {
	raw := decodeTolerant(c.Request.Body, h.logger)

	verdict := h.engine.Predict(c.Request.Context(), raw)

	c.JSON(http.StatusOK, toPredictResponse(verdict))
}

// decodeTolerant parses the body as a JSON object, falling back to an
// empty object on any read or parse failure.
func decodeTolerant(body io.Reader, log logger.Logger) map[string]any {
	raw := map[string]any{}

	data, err := io.ReadAll(io.LimitReader(body, maxPredictBodyBytes))
	if err != nil {
		log.Warn("Failed to read request body, scoring defaults", logger.Error(err))
		return raw
	}
	if len(data) == 0 {
		return raw
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warn("Malformed request body, scoring defaults", logger.Error(err))
		return map[string]any{}
	}
	return raw
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		OK:        true,
		ModelKind: h.engine.ModelKind(),
		Service:   h.service,
		Version:   h.version,
	})
}

// Ready handles GET /ready. The heuristic path has no dependencies, so
// the service is ready as soon as it can answer.
func (h *Handler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// GetWeights handles GET /api/v1/weights, exposing the active weight
// table and thresholds for the front end's explainability view.
func (h *Handler) GetWeights(c *gin.Context) {
	thresholds := h.engine.Thresholds()
	c.JSON(http.StatusOK, WeightsResponse{
		Weights:         h.engine.Weights(),
		HighThreshold:   thresholds.High,
		MediumThreshold: thresholds.Medium,
	})
}

func toPredictResponse(v *domain.Verdict) PredictResponse {
	resp := PredictResponse{
		Risk:      round4(v.Probability),
		ModelProb: round4(v.BaseProbability),
		ClassName: string(v.Label),
		Source:    string(v.Source),
	}
	if v.Source == domain.SourceClassifier {
		resp.UsedModel = &v.ModelName
	}
	if len(v.Contributions) > 0 {
		resp.Details = make(map[string]float64, len(v.Contributions))
		for name, contribution := range v.Contributions {
			resp.Details[name] = round4(contribution)
		}
	}
	return resp
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
