package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"property-financing/internal/analysis"
	"property-financing/internal/api/models"
	"property-financing/internal/config"
	"property-financing/internal/fx"
	"property-financing/internal/report"
)

// Defaults handles GET /api/v1/defaults
func Defaults(c *gin.Context) {
	c.JSON(http.StatusOK, config.DefaultState())
}

// ListMetrics handles GET /api/v1/metrics
func ListMetrics(c *gin.Context) {
	metrics := analysis.Metrics()
	out := make([]models.MetricInfo, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, models.MetricInfo{Key: m.Key, Label: m.Label, HigherIsBetter: m.HigherIsBetter})
	}
	c.JSON(http.StatusOK, gin.H{"metrics": out})
}

// Convert handles POST /api/v1/convert
func Convert(c *gin.Context) {
	var req models.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	home := req.Home
	if home == "" {
		home = config.DefaultHomeCurrency
	}
	rates := req.Rates
	if len(rates) == 0 {
		rates = config.DefaultRates()
	}
	conv := fx.NewConverter(home, rates)

	resp := models.ConvertResponse{Amounts: make(map[string]float64, len(req.Targets))}
	for _, t := range req.Targets {
		v, err := conv.Convert(req.Amount, req.From, t)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, fx.ErrUnknownCurrency) {
				status = http.StatusBadRequest
			}
			abortWithError(c, status, "UNKNOWN_CURRENCY", err.Error(), map[string]interface{}{
				"known": conv.Currencies(),
			})
			return
		}
		resp.Amounts[strings.ToUpper(strings.TrimSpace(t))] = v
	}

	hint, err := report.Hint(req.Amount, req.From, conv, req.Targets...)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "UNKNOWN_CURRENCY", err.Error(), nil)
		return
	}
	resp.Hint = hint
	c.JSON(http.StatusOK, resp)
}
