package financing

import "property-financing/internal/model"

// CashStrategy is an all-equity purchase: no principal, no fees, no debt service.
type CashStrategy struct{}

func (CashStrategy) Mode() model.FinancingMode { return model.ModeCash }

func (CashStrategy) Resolve(ctx Context) Terms {
	price := model.Num(ctx.Price)
	return Terms{
		Mode:        model.ModeCash,
		PlanPrice:   price,
		DownPayment: price,
	}
}
