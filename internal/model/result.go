package model

// Money is an amount expressed in both the home and the reference currency.
type Money struct {
	Home float64
	Ref  float64
}

// YearRow is one row of the annual projection.
// Home amounts are operating figures; Ref amounts are what feeds the IRR.
type YearRow struct {
	Year int

	GrossRent     float64
	CollectedRent float64
	FixedCosts    float64 // service charges + insurance + other, after growth
	VariableCosts float64 // management + maintenance on collected rent
	Opex          float64
	NOI           float64

	NOIRef          float64
	DebtServiceRef  float64
	NetCashflowRef  float64 // NOI minus debt service
	SaleProceedsRef float64 // non-zero in the final year only
	TotalRef        float64 // NetCashflowRef + SaleProceedsRef
	CumulativeRef   float64 // includes the year-0 outlay
}

// ExitSummary describes the terminal sale.
type ExitSummary struct {
	SalePrice         float64 // home
	SellingCosts      float64 // home
	NetSaleBeforeDebt float64 // home
	PayoffRef         float64
	ProceedsRef       float64
}

// LoanYear is one year of an amortizing loan's repayment, in the reference currency.
type LoanYear struct {
	Year           int
	Payment        float64
	Interest       float64
	Principal      float64
	ClosingBalance float64
}

// ScenarioResult is the output of one evaluation.
// Ratio metrics (NetYield, CashOnCash, IRR) are NaN when they have no solution.
type ScenarioResult struct {
	Label         string
	Mode          FinancingMode
	HoldYears     int
	HomeCurrency  string
	RefCurrency   string
	ReferenceRate float64

	PurchasePrice        float64 // home
	TotalAcquisitionCost Money
	CashInvestedRef      float64
	NOIYear1             Money
	DebtServiceYear1Ref  float64
	MonthlyCashflow      Money

	NetYield   float64
	CashOnCash float64
	IRR        float64

	// Cashflows has HoldYears+1 entries: index 0 is the negative outlay, the last
	// entry includes the sale proceeds.
	Cashflows []float64
	// AnnualCashflows holds the operating net cashflow for years 1..HoldYears,
	// without sale proceeds. This is the charting series.
	AnnualCashflows []float64

	Years []YearRow
	Exit  ExitSummary

	// LoanSchedule covers the full loan term, which may run past the hold period.
	// It is empty for cash, developer plans and interest-only loans.
	LoanSchedule []LoanYear
}
