package engine

import (
	"math"

	"property-financing/internal/financing"
	"property-financing/internal/fx"
	"property-financing/internal/model"
)

// project builds the operating ledger for years 1..HoldYears.
// Sale proceeds and running totals are filled in by the caller.
func project(cfg model.ScenarioConfig, terms financing.Terms, pair fx.Pair) []model.YearRow {
	rent1 := model.Num(cfg.GrossRent)
	vacancy := model.Pct(cfg.VacancyPct)
	rentGrowth := model.Pct(model.Num(cfg.RentGrowthPct))
	expGrowth := model.Pct(model.Num(cfg.ExpenseGrowthPct))
	variablePct := model.Pct(cfg.ManagementPct) + model.Pct(cfg.MaintenancePct)

	fixed1 := []float64{
		model.Num(cfg.ServiceCharges),
		model.Num(cfg.Insurance),
		model.Num(cfg.OtherOperating),
	}

	rows := make([]model.YearRow, 0, cfg.HoldYears)
	for y := 1; y <= cfg.HoldYears; y++ {
		rentFactor := math.Pow(1+rentGrowth, float64(y-1))
		expFactor := math.Pow(1+expGrowth, float64(y-1))

		gross := rent1 * rentFactor
		collected := gross * (1 - vacancy)

		fixed := 0.0
		for _, c := range fixed1 {
			fixed += c * expFactor
		}
		variable := collected * variablePct
		opex := fixed + variable
		noi := collected - opex

		noiRef := pair.ToRef(noi)
		debtRef := terms.DebtServiceRef(y, pair)

		rows = append(rows, model.YearRow{
			Year:           y,
			GrossRent:      gross,
			CollectedRent:  collected,
			FixedCosts:     fixed,
			VariableCosts:  variable,
			Opex:           opex,
			NOI:            noi,
			NOIRef:         noiRef,
			DebtServiceRef: debtRef,
			NetCashflowRef: noiRef - debtRef,
		})
	}
	return rows
}
