package financing

import (
	"math"

	"property-financing/internal/finance"
	"property-financing/internal/model"
)

// ForeignLoanStrategy is a loan taken out in the reference currency, typically against
// property the investor already owns at home. Everything it produces is in the reference currency.
type ForeignLoanStrategy struct {
	Params model.ForeignLoan
}

func (s ForeignLoanStrategy) Mode() model.FinancingMode { return model.ModeForeignLoan }

func (s ForeignLoanStrategy) Resolve(ctx Context) Terms {
	p := s.Params
	price := model.Num(ctx.Price)
	principal := math.Max(0, model.Num(p.Principal))
	fees := principal*pct(p.BankFeePct) + model.Num(p.BankFeeFixed)

	t := Terms{
		Mode:           model.ModeForeignLoan,
		PlanPrice:      price,
		PrincipalRef:   principal,
		UpfrontFeesRef: fees,
		PayoffRef:      principal,
	}

	if p.Repayment == model.RepaymentInterestOnly {
		t.AnnualDebtServiceRef = principal * pct(p.AnnualRatePct)
		return t
	}

	t.AnnualDebtServiceRef = finance.PeriodicPayment(principal, p.AnnualRatePct, p.TermYears) * 12
	t.PayoffRef = finance.RemainingBalance(principal, p.AnnualRatePct, p.TermYears, holdMonths(ctx.HoldYears))
	t.ScheduleRef = finance.AmortizationSchedule(principal, p.AnnualRatePct, p.TermYears)
	return t
}
