package model

import "math"

// MinFXRate is the floor applied to every exchange rate before use.
const MinFXRate = 1e-4

// ScenarioConfig is the fully-populated input to one evaluation.
// Units:
// - amounts without a suffix are in the home currency
// - *Pct fields are percentages (5 for 5%)
// - Rates are home-currency units per 1 unit of the keyed currency
type ScenarioConfig struct {
	Name     string
	Emirate  string // only drives default fee percentages upstream
	UnitType string
	OffPlan  bool

	PurchasePrice    float64
	GrossRent        float64 // annual
	VacancyPct       float64
	RentGrowthPct    float64
	ExpenseGrowthPct float64
	HoldYears        int

	// Upfront costs.
	RegistrationFeePct   float64
	RegistrationAdminFee float64
	AgentFeePct          float64
	AgentVATPct          float64
	TrusteeFee           float64
	NOCFee               float64
	OtherUpfront         float64
	Furnishing           float64

	// Operating assumptions (annual, year-1 values).
	ServiceCharges float64
	Insurance      float64
	OtherOperating float64
	ManagementPct  float64 // % of collected rent
	MaintenancePct float64 // % of collected rent

	Financing Financing

	Exit ExitAssumptions

	HomeCurrency      string
	ReferenceCurrency string
	Rates             map[string]float64
}

// ExitAssumptions drive the terminal sale at the end of the hold period.
type ExitAssumptions struct {
	AppreciationPct   float64
	SellAgentPct      float64
	SellVATPct        float64 // VAT on the selling agent fee
	OtherSellingCosts float64
}

// ReferenceRate returns the clamped home-per-reference rate.
// A reference currency equal to the home currency has rate 1.
func (c ScenarioConfig) ReferenceRate() float64 {
	if c.ReferenceCurrency == "" || c.ReferenceCurrency == c.HomeCurrency {
		return 1
	}
	return math.Max(MinFXRate, Num(c.Rates[c.ReferenceCurrency]))
}

// Normalize returns a copy with invariant violations folded back into range:
// hold period rounded and floored to 1, ratio inputs clamped to [0,100],
// missing financing treated as Cash and exchange rates floored to MinFXRate.
// It never rejects a configuration.
func (c ScenarioConfig) Normalize() ScenarioConfig {
	out := c
	if out.HoldYears < 1 {
		out.HoldYears = 1
	}
	out.VacancyPct = ClampPct(Num(out.VacancyPct))
	out.ManagementPct = ClampPct(Num(out.ManagementPct))
	out.MaintenancePct = ClampPct(Num(out.MaintenancePct))
	if out.Financing == nil {
		out.Financing = Cash{}
	}
	if len(c.Rates) > 0 {
		out.Rates = make(map[string]float64, len(c.Rates))
		for cur, r := range c.Rates {
			out.Rates[cur] = math.Max(MinFXRate, Num(r))
		}
	}
	return out
}

// HoldYearsFrom rounds an arbitrary hold period to whole years, floored at 1.
func HoldYearsFrom(v any) int {
	n := int(math.Round(Num(v)))
	if n < 1 {
		return 1
	}
	return n
}
