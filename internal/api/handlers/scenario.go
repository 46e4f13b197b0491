package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"property-financing/internal/api/models"
	"property-financing/internal/config"
)

// ScenarioHandler evaluates scenarios posted in the request body
type ScenarioHandler struct {
	eval *Evaluator
}

// NewScenarioHandler creates a new scenario handler
func NewScenarioHandler(eval *Evaluator) *ScenarioHandler {
	return &ScenarioHandler{eval: eval}
}

// Evaluate handles POST /api/v1/evaluate
func (h *ScenarioHandler) Evaluate(c *gin.Context) {
	var req models.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	s := req.Scenario.WithCurrencyDefaults()
	if !validateScenarios(c, map[string]config.Scenario{"scenario": s}) {
		return
	}

	r := h.eval.One(req.Label, s)
	c.JSON(http.StatusOK, buildScenarioResponse("", r, req.Options.IncludeYears))
}

// Compare handles POST /api/v1/compare
func (h *ScenarioHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	if len(req.Scenarios) == 0 {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "at least one scenario is required", nil)
		return
	}

	scenarios := make(map[string]config.Scenario, len(req.Scenarios))
	for k, s := range req.Scenarios {
		scenarios[k] = s.WithCurrencyDefaults()
	}
	if !validateScenarios(c, scenarios) {
		return
	}

	results, err := h.eval.All(c.Request.Context(), scenarios)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "EVALUATION_ERROR", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, buildCompareResponse(results, req.Options.IncludeYears))
}
