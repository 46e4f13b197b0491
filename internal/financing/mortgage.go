package financing

import (
	"math"

	"property-financing/internal/finance"
	"property-financing/internal/model"
)

// MortgageStrategy is a home-currency amortizing bank mortgage.
type MortgageStrategy struct {
	Params model.LocalMortgage
}

func (s MortgageStrategy) Mode() model.FinancingMode { return model.ModeLocalMortgage }

func (s MortgageStrategy) Resolve(ctx Context) Terms {
	p := s.Params
	price := model.Num(ctx.Price)
	down := model.ClampPct(model.Num(p.DownPaymentPct))

	principal := math.Max(0, price*(1-model.Pct(down)))
	fees := principal*(pct(p.BankFeePct)+pct(p.RegistrationFeePct)) +
		model.Num(p.BankFeeFixed) + model.Num(p.RegistrationFeeFixed)

	return Terms{
		Mode:                  model.ModeLocalMortgage,
		PlanPrice:             price,
		DownPayment:           price - principal,
		PrincipalHome:         principal,
		UpfrontFeesHome:       fees,
		AnnualDebtServiceHome: finance.PeriodicPayment(principal, p.AnnualRatePct, p.TermYears) * 12,
		PayoffHome:            finance.RemainingBalance(principal, p.AnnualRatePct, p.TermYears, holdMonths(ctx.HoldYears)),
		ScheduleHome:          finance.AmortizationSchedule(principal, p.AnnualRatePct, p.TermYears),
	}
}
