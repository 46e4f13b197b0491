package handlers

import (
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"property-financing/internal/analysis"
	"property-financing/internal/api/models"
	"property-financing/internal/config"
	"property-financing/internal/model"
	"property-financing/internal/report"
)

func abortWithError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// validateScenarios checks every scenario in key order and reports the first failure.
func validateScenarios(c *gin.Context, scenarios map[string]config.Scenario) bool {
	keys := make([]string, 0, len(scenarios))
	for k := range scenarios {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := scenarios[k].Validate(); err != nil {
			abortWithError(c, http.StatusUnprocessableEntity, "INVALID_SCENARIO", fmt.Sprintf("scenario %q is invalid", k), map[string]interface{}{
				"scenario": k,
				"errors":   strings.Split(err.Error(), "\n"),
			})
			return false
		}
	}
	return true
}

// nullable maps a metric without a solution to JSON null.
func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func buildScenarioResponse(key string, r model.ScenarioResult, includeYears bool) models.ScenarioResponse {
	kpis := report.Headline(r)
	sum := analysis.Summarize(r)

	resp := models.ScenarioResponse{
		Key:           key,
		Label:         r.Label,
		Mode:          string(r.Mode),
		HoldYears:     r.HoldYears,
		HomeCurrency:  r.HomeCurrency,
		RefCurrency:   r.RefCurrency,
		ReferenceRate: r.ReferenceRate,

		PurchasePrice:        r.PurchasePrice,
		TotalAcquisitionCost: models.Money{Home: r.TotalAcquisitionCost.Home, Ref: r.TotalAcquisitionCost.Ref},
		CashInvestedRef:      r.CashInvestedRef,
		NOIYear1:             models.Money{Home: r.NOIYear1.Home, Ref: r.NOIYear1.Ref},
		DebtServiceYear1Ref:  r.DebtServiceYear1Ref,
		MonthlyCashflow:      models.Money{Home: r.MonthlyCashflow.Home, Ref: r.MonthlyCashflow.Ref},

		NetYield:   nullable(r.NetYield),
		CashOnCash: nullable(r.CashOnCash),
		IRR:        nullable(r.IRR),

		Cashflows:       r.Cashflows,
		AnnualCashflows: r.AnnualCashflows,

		Exit: models.ExitSummary{
			SalePrice:         r.Exit.SalePrice,
			SellingCosts:      r.Exit.SellingCosts,
			NetSaleBeforeDebt: r.Exit.NetSaleBeforeDebt,
			PayoffRef:         r.Exit.PayoffRef,
			ProceedsRef:       r.Exit.ProceedsRef,
		},
		Summary: models.SeriesSummary{
			Min:            sum.Min,
			Max:            sum.Max,
			Mean:           sum.Mean,
			P05:            sum.P05,
			P95:            sum.P95,
			TotalOperating: sum.TotalOperating,
			TotalWithSale:  sum.TotalWithSale,
			PaybackYear:    sum.PaybackYear,
		},
		Display: models.ScenarioDisplay{
			PurchasePrice:   report.Money(r.PurchasePrice, r.HomeCurrency),
			AcquisitionCost: report.Money(r.TotalAcquisitionCost.Home, r.HomeCurrency) + " / " + report.Money(r.TotalAcquisitionCost.Ref, r.RefCurrency),
			CashInvested:    report.Money(r.CashInvestedRef, r.RefCurrency),
			MonthlyCashflow: kpis.MonthlyCashflow,
			NetYield:        kpis.NetYield,
			CashOnCash:      kpis.CashOnCash,
			IRRLabel:        kpis.IRRLabel,
			IRR:             kpis.IRR,
		},
	}

	if includeYears {
		resp.Years = make([]models.YearRow, 0, len(r.Years))
		for _, y := range r.Years {
			resp.Years = append(resp.Years, models.YearRow{
				Year:            y.Year,
				GrossRent:       y.GrossRent,
				CollectedRent:   y.CollectedRent,
				FixedCosts:      y.FixedCosts,
				VariableCosts:   y.VariableCosts,
				Opex:            y.Opex,
				NOI:             y.NOI,
				NOIRef:          y.NOIRef,
				DebtServiceRef:  y.DebtServiceRef,
				NetCashflowRef:  y.NetCashflowRef,
				SaleProceedsRef: y.SaleProceedsRef,
				TotalRef:        y.TotalRef,
				CumulativeRef:   y.CumulativeRef,
			})
		}
		for _, l := range r.LoanSchedule {
			resp.LoanSchedule = append(resp.LoanSchedule, models.LoanYear{
				Year:           l.Year,
				Payment:        l.Payment,
				Interest:       l.Interest,
				Principal:      l.Principal,
				ClosingBalance: l.ClosingBalance,
			})
		}
	}
	return resp
}

func buildCompareResponse(results map[string]model.ScenarioResult, includeYears bool) models.CompareResponse {
	resp := models.CompareResponse{
		Results: make(map[string]models.ScenarioResponse, len(results)),
		Best:    map[string][]string(analysis.Compare(results)),
	}
	for k, r := range results {
		resp.Results[k] = buildScenarioResponse(k, r, includeYears)
	}

	table := report.BuildTable(results)
	resp.Table = models.ComparisonTable{Keys: table.Keys, Headers: table.Headers}
	for _, row := range table.Rows {
		out := models.TableRow{Label: row.Label, Metric: row.Metric}
		for _, cell := range row.Cells {
			out.Cells = append(out.Cells, models.TableCell{Key: cell.Key, Text: cell.Text, Best: cell.Best})
		}
		resp.Table.Rows = append(resp.Table.Rows, out)
	}

	aligned := analysis.AlignSeries(results)
	resp.Series = models.ChartSeries{Years: aligned.Years}
	for _, s := range aligned.Series {
		resp.Series.Series = append(resp.Series.Series, models.SeriesLine{Key: s.Key, Label: s.Label, Values: s.Values})
	}
	return resp
}
