package report

import (
	"fmt"
	"sort"

	"property-financing/internal/analysis"
	"property-financing/internal/model"
)

// Cell is one scenario's value in a comparison row.
type Cell struct {
	Key  string
	Text string
	Best bool
}

// Row is one line of the comparison table. Metric is empty for rows that are
// informational only.
type Row struct {
	Label  string
	Metric string
	Cells  []Cell
}

type Table struct {
	Keys    []string
	Headers []string
	Rows    []Row
}

type rowSpec struct {
	label  string
	metric string
	format func(r model.ScenarioResult) string
}

func dual(m model.Money, r model.ScenarioResult) string {
	return Money(m.Home, r.HomeCurrency) + " / " + Money(m.Ref, r.RefCurrency)
}

var rowSpecs = []rowSpec{
	{label: "Purchase Price", format: func(r model.ScenarioResult) string {
		return Money(r.PurchasePrice, r.HomeCurrency)
	}},
	{label: "Total Acq. Cost", format: func(r model.ScenarioResult) string {
		return dual(r.TotalAcquisitionCost, r)
	}},
	{label: "Cash Invested", format: func(r model.ScenarioResult) string {
		return Money(r.CashInvestedRef, r.RefCurrency)
	}},
	{label: "NOI (Year 1)", format: func(r model.ScenarioResult) string {
		return dual(r.NOIYear1, r)
	}},
	{label: "Debt Service (Year 1)", format: func(r model.ScenarioResult) string {
		return Money(r.DebtServiceYear1Ref, r.RefCurrency)
	}},
	{label: "Monthly Cashflow", metric: analysis.MetricMonthlyCashflow, format: func(r model.ScenarioResult) string {
		return Money(r.MonthlyCashflow.Ref, r.RefCurrency)
	}},
	{label: "Net Yield (Year 1)", metric: analysis.MetricNetYield, format: func(r model.ScenarioResult) string {
		return Percent(r.NetYield)
	}},
	{label: "Cash-on-Cash (Year 1)", metric: analysis.MetricCashOnCash, format: func(r model.ScenarioResult) string {
		return Percent(r.CashOnCash)
	}},
	{label: "IRR (Hold Period)", metric: analysis.MetricIRR, format: func(r model.ScenarioResult) string {
		return IRR(r.IRR)
	}},
}

// BuildTable lays results out side by side, one column per scenario key in key order,
// flagging the best cell of every metric row.
func BuildTable(results map[string]model.ScenarioResult) Table {
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cmp := analysis.Compare(results)
	t := Table{Keys: keys}
	for _, k := range keys {
		t.Headers = append(t.Headers, fmt.Sprintf("%s: %s", k, results[k].Label))
	}

	for _, spec := range rowSpecs {
		row := Row{Label: spec.label, Metric: spec.metric}
		for _, k := range keys {
			row.Cells = append(row.Cells, Cell{
				Key:  k,
				Text: spec.format(results[k]),
				Best: spec.metric != "" && cmp.IsBest(spec.metric, k),
			})
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// KPIs are the headline figures of one scenario card.
type KPIs struct {
	MonthlyCashflow string
	NetYield        string
	CashOnCash      string
	IRRLabel        string
	IRR             string
}

func Headline(r model.ScenarioResult) KPIs {
	return KPIs{
		MonthlyCashflow: fmt.Sprintf("%s %s / %s %s", Compact(r.MonthlyCashflow.Ref), r.RefCurrency, Compact(r.MonthlyCashflow.Home), r.HomeCurrency),
		NetYield:        Percent(r.NetYield),
		CashOnCash:      Percent(r.CashOnCash),
		IRRLabel:        fmt.Sprintf("IRR (%d Yr)", r.HoldYears),
		IRR:             IRR(r.IRR),
	}
}
