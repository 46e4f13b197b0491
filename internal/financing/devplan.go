package financing

import (
	"math"

	"property-financing/internal/model"
)

// DeveloperPlanStrategy is an interest-free plan repaid in equal annual instalments.
// Instalments stop after the plan duration whatever the hold period.
type DeveloperPlanStrategy struct {
	Params model.DeveloperPlan
}

func (s DeveloperPlanStrategy) Mode() model.FinancingMode { return model.ModeDeveloperPlan }

func (s DeveloperPlanStrategy) Resolve(ctx Context) Terms {
	p := s.Params
	price := model.Num(ctx.Price)
	planPrice := math.Max(0, price*(1+pct(p.PricePremiumPct)))
	down := model.ClampPct(model.Num(p.DownPaymentPct))
	financed := planPrice * (1 - model.Pct(down))

	t := Terms{
		Mode:          model.ModeDeveloperPlan,
		PlanPrice:     planPrice,
		DownPayment:   planPrice - financed,
		PrincipalHome: financed,
	}

	duration := int(math.Round(model.Num(p.PlanDurationYears)))
	if duration <= 0 || financed <= 0 {
		// No instalment schedule: whatever is financed is still owed at exit.
		t.PayoffHome = financed
		return t
	}

	hold := ctx.HoldYears
	if hold < 1 {
		hold = 1
	}
	instalment := financed / float64(duration)
	paidYears := hold
	if duration < paidYears {
		paidYears = duration
	}

	t.AnnualDebtServiceHome = instalment
	t.ServiceYears = duration
	t.PayoffHome = math.Max(0, financed-instalment*float64(paidYears))
	return t
}
