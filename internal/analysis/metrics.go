// Package analysis compares evaluated scenarios: best value per metric, rankings and
// chart-ready series.
package analysis

import "property-financing/internal/model"

// Metric is one comparable figure of a scenario result.
type Metric struct {
	Key            string
	Label          string
	HigherIsBetter bool
	Value          func(model.ScenarioResult) float64
}

const (
	MetricMonthlyCashflow = "monthly_cashflow"
	MetricNetYield        = "net_yield"
	MetricCashOnCash      = "cash_on_cash"
	MetricIRR             = "irr"
	MetricCashInvested    = "cash_invested"
	MetricAcquisitionCost = "acquisition_cost"
)

var catalogue = []Metric{
	{
		Key:            MetricMonthlyCashflow,
		Label:          "Monthly Cashflow",
		HigherIsBetter: true,
		Value:          func(r model.ScenarioResult) float64 { return r.MonthlyCashflow.Ref },
	},
	{
		Key:            MetricNetYield,
		Label:          "Net Yield (Year 1)",
		HigherIsBetter: true,
		Value:          func(r model.ScenarioResult) float64 { return r.NetYield },
	},
	{
		Key:            MetricCashOnCash,
		Label:          "Cash-on-Cash (Year 1)",
		HigherIsBetter: true,
		Value:          func(r model.ScenarioResult) float64 { return r.CashOnCash },
	},
	{
		Key:            MetricIRR,
		Label:          "IRR (Hold Period)",
		HigherIsBetter: true,
		Value:          func(r model.ScenarioResult) float64 { return r.IRR },
	},
	{
		Key:   MetricCashInvested,
		Label: "Cash Invested",
		Value: func(r model.ScenarioResult) float64 { return r.CashInvestedRef },
	},
	{
		Key:   MetricAcquisitionCost,
		Label: "Total Acquisition Cost",
		Value: func(r model.ScenarioResult) float64 { return r.TotalAcquisitionCost.Ref },
	},
}

// Metrics returns the metric catalogue in display order.
func Metrics() []Metric {
	out := make([]Metric, len(catalogue))
	copy(out, catalogue)
	return out
}

// MetricByKey looks a metric up by its key.
func MetricByKey(key string) (Metric, bool) {
	for _, m := range catalogue {
		if m.Key == key {
			return m, true
		}
	}
	return Metric{}, false
}

// better reports whether a beats b under m. Non-finite values never win.
func (m Metric) better(a, b float64) bool {
	if !model.Finite(a) {
		return false
	}
	if !model.Finite(b) {
		return true
	}
	if m.HigherIsBetter {
		return a > b
	}
	return a < b
}
