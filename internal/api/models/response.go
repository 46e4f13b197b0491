package models

// Metric values that have no solution (IRR that does not converge, yield on a zero
// price) are null in JSON and "n/a" in the matching display string.

// Money is an amount in both currencies of a scenario
type Money struct {
	Home float64 `json:"home"`
	Ref  float64 `json:"ref"`
}

// ScenarioResponse represents the evaluation of one scenario
type ScenarioResponse struct {
	Key           string  `json:"key,omitempty"`
	Label         string  `json:"label"`
	Mode          string  `json:"mode"`
	HoldYears     int     `json:"hold_years"`
	HomeCurrency  string  `json:"home_currency"`
	RefCurrency   string  `json:"ref_currency"`
	ReferenceRate float64 `json:"reference_rate"`

	PurchasePrice        float64 `json:"purchase_price"`
	TotalAcquisitionCost Money   `json:"total_acquisition_cost"`
	CashInvestedRef      float64 `json:"cash_invested_ref"`
	NOIYear1             Money   `json:"noi_year1"`
	DebtServiceYear1Ref  float64 `json:"debt_service_year1_ref"`
	MonthlyCashflow      Money   `json:"monthly_cashflow"`

	NetYield   *float64 `json:"net_yield"`
	CashOnCash *float64 `json:"cash_on_cash"`
	IRR        *float64 `json:"irr"`

	Cashflows       []float64 `json:"cashflows"`
	AnnualCashflows []float64 `json:"annual_cashflows"`

	Exit         ExitSummary     `json:"exit"`
	Summary      SeriesSummary   `json:"summary"`
	Display      ScenarioDisplay `json:"display"`
	Years        []YearRow       `json:"years,omitempty"`
	LoanSchedule []LoanYear      `json:"loan_schedule,omitempty"`
}

// ScenarioDisplay holds preformatted strings for a scenario card
type ScenarioDisplay struct {
	PurchasePrice   string `json:"purchase_price"`
	AcquisitionCost string `json:"acquisition_cost"`
	CashInvested    string `json:"cash_invested"`
	MonthlyCashflow string `json:"monthly_cashflow"`
	NetYield        string `json:"net_yield"`
	CashOnCash      string `json:"cash_on_cash"`
	IRRLabel        string `json:"irr_label"`
	IRR             string `json:"irr"`
}

// ExitSummary describes the terminal sale
type ExitSummary struct {
	SalePrice         float64 `json:"sale_price"`
	SellingCosts      float64 `json:"selling_costs"`
	NetSaleBeforeDebt float64 `json:"net_sale_before_debt"`
	PayoffRef         float64 `json:"payoff_ref"`
	ProceedsRef       float64 `json:"proceeds_ref"`
}

// SeriesSummary describes the operating cashflow series in the reference currency
type SeriesSummary struct {
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	Mean           float64 `json:"mean"`
	P05            float64 `json:"p05"`
	P95            float64 `json:"p95"`
	TotalOperating float64 `json:"total_operating"`
	TotalWithSale  float64 `json:"total_with_sale"`
	PaybackYear    int     `json:"payback_year"` // 0 = never
}

// YearRow is one year of the projection
type YearRow struct {
	Year            int     `json:"year"`
	GrossRent       float64 `json:"gross_rent"`
	CollectedRent   float64 `json:"collected_rent"`
	FixedCosts      float64 `json:"fixed_costs"`
	VariableCosts   float64 `json:"variable_costs"`
	Opex            float64 `json:"opex"`
	NOI             float64 `json:"noi"`
	NOIRef          float64 `json:"noi_ref"`
	DebtServiceRef  float64 `json:"debt_service_ref"`
	NetCashflowRef  float64 `json:"net_cashflow_ref"`
	SaleProceedsRef float64 `json:"sale_proceeds_ref"`
	TotalRef        float64 `json:"total_ref"`
	CumulativeRef   float64 `json:"cumulative_ref"`
}

// LoanYear is one year of an amortizing loan, in the reference currency
type LoanYear struct {
	Year           int     `json:"year"`
	Payment        float64 `json:"payment"`
	Interest       float64 `json:"interest"`
	Principal      float64 `json:"principal"`
	ClosingBalance float64 `json:"closing_balance"`
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Results map[string]ScenarioResponse `json:"results"`
	Best    map[string][]string         `json:"best"` // metric key -> winning scenario keys
	Table   ComparisonTable             `json:"table"`
	Series  ChartSeries                 `json:"series"`
}

// ComparisonTable is the side-by-side table, one column per scenario
type ComparisonTable struct {
	Keys    []string   `json:"keys"`
	Headers []string   `json:"headers"`
	Rows    []TableRow `json:"rows"`
}

// TableRow is one line of the comparison table
type TableRow struct {
	Label  string      `json:"label"`
	Metric string      `json:"metric,omitempty"`
	Cells  []TableCell `json:"cells"`
}

// TableCell is one scenario's value in a row
type TableCell struct {
	Key  string `json:"key"`
	Text string `json:"text"`
	Best bool   `json:"best"`
}

// ChartSeries is the annual cashflow chart, all lines sharing one x axis
type ChartSeries struct {
	Years  []int        `json:"years"`
	Series []SeriesLine `json:"series"`
}

// SeriesLine is one scenario's line
type SeriesLine struct {
	Key    string    `json:"key"`
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// ConvertResponse carries the converted amounts and the rendered hint
type ConvertResponse struct {
	Amounts map[string]float64 `json:"amounts"`
	Hint    string             `json:"hint"`
}

// MetricInfo describes one comparable metric
type MetricInfo struct {
	Key            string `json:"key"`
	Label          string `json:"label"`
	HigherIsBetter bool   `json:"higher_is_better"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
