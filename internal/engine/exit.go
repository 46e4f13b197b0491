package engine

import (
	"math"

	"property-financing/internal/financing"
	"property-financing/internal/fx"
	"property-financing/internal/model"
)

// valueExit prices the sale at the end of the hold period. Appreciation compounds on
// the purchase price.
func valueExit(cfg model.ScenarioConfig, terms financing.Terms, pair fx.Pair) model.ExitSummary {
	ex := cfg.Exit
	salePrice := model.Num(cfg.PurchasePrice) * math.Pow(1+model.Pct(model.Num(ex.AppreciationPct)), float64(cfg.HoldYears))

	agent := salePrice * model.Pct(model.Num(ex.SellAgentPct))
	selling := agent*(1+model.Pct(model.Num(ex.SellVATPct))) + model.Num(ex.OtherSellingCosts)
	net := salePrice - selling
	payoff := terms.PayoffInRef(pair)

	return model.ExitSummary{
		SalePrice:         salePrice,
		SellingCosts:      selling,
		NetSaleBeforeDebt: net,
		PayoffRef:         payoff,
		ProceedsRef:       pair.ToRef(net) - payoff,
	}
}
