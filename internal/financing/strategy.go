// Package financing resolves a scenario's financing variant into concrete terms:
// principal, upfront financing fees, the per-year debt service rule and the payoff at exit.
package financing

import (
	"fmt"
	"math"

	"property-financing/internal/finance"
	"property-financing/internal/fx"
	"property-financing/internal/model"
)

// Context is what a strategy needs to know about the purchase.
type Context struct {
	Price     float64 // purchase price, home currency
	HoldYears int
}

// Strategy resolves one financing variant.
type Strategy interface {
	Mode() model.FinancingMode
	Resolve(ctx Context) Terms
}

// For returns the strategy for a financing variant. A nil variant resolves as cash.
func For(f model.Financing) Strategy {
	switch v := f.(type) {
	case nil:
		return CashStrategy{}
	case model.Cash:
		return CashStrategy{}
	case *model.Cash:
		return CashStrategy{}
	case model.LocalMortgage:
		return MortgageStrategy{Params: v}
	case *model.LocalMortgage:
		return MortgageStrategy{Params: *v}
	case model.DeveloperPlan:
		return DeveloperPlanStrategy{Params: v}
	case *model.DeveloperPlan:
		return DeveloperPlanStrategy{Params: *v}
	case model.ForeignLoan:
		return ForeignLoanStrategy{Params: v}
	case *model.ForeignLoan:
		return ForeignLoanStrategy{Params: *v}
	default:
		// model.Financing is sealed, so this only fires if a variant is added without a strategy.
		panic(fmt.Errorf("unsupported financing variant %T", f))
	}
}

// Terms is the resolved financing of one scenario.
// Home amounts are in the home currency, Ref amounts in the reference currency.
type Terms struct {
	Mode model.FinancingMode

	// PlanPrice is what is paid to the seller; it differs from the purchase price only
	// when a developer plan charges a premium.
	PlanPrice   float64
	DownPayment float64

	PrincipalHome float64
	PrincipalRef  float64

	// UpfrontFeesHome is part of the acquisition cost; UpfrontFeesRef is paid in cash
	// on top of it (foreign loan arrangement fees).
	UpfrontFeesHome float64
	UpfrontFeesRef  float64

	AnnualDebtServiceHome float64
	AnnualDebtServiceRef  float64
	// ServiceYears limits debt service to years 1..ServiceYears; 0 means every year.
	ServiceYears int

	PayoffHome float64
	PayoffRef  float64

	// Yearly repayment of an amortizing loan over its full term, in the loan's currency.
	ScheduleHome []finance.ScheduleYear
	ScheduleRef  []finance.ScheduleYear
}

// DebtService returns the debt service charged in the given year (1-based).
func (t Terms) DebtService(year int) (home, ref float64) {
	if t.ServiceYears > 0 && year > t.ServiceYears {
		return 0, 0
	}
	return t.AnnualDebtServiceHome, t.AnnualDebtServiceRef
}

// DebtServiceRef is DebtService expressed entirely in the reference currency.
func (t Terms) DebtServiceRef(year int, pair fx.Pair) float64 {
	home, ref := t.DebtService(year)
	return pair.ToRef(home) + ref
}

// PayoffInRef returns the outstanding debt at exit in the reference currency.
func (t Terms) PayoffInRef(pair fx.Pair) float64 {
	return pair.ToRef(t.PayoffHome) + t.PayoffRef
}

// CashInvestedRef returns the equity put in at time 0, in the reference currency.
//
// - cash: the full acquisition cost
// - local mortgage / developer plan: down payment plus upfront costs
// - foreign loan: acquisition cost not covered by the loan, plus its fees
func (t Terms) CashInvestedRef(acquisitionCostHome float64, pair fx.Pair) float64 {
	equity := pair.ToRef(acquisitionCostHome-t.PrincipalHome) - t.PrincipalRef
	return math.Max(0, equity) + t.UpfrontFeesRef
}

// holdMonths is the number of monthly payments made before the exit.
func holdMonths(holdYears int) int {
	if holdYears < 1 {
		holdYears = 1
	}
	return holdYears * 12
}

func pct(x float64) float64 { return model.Pct(model.Num(x)) }
