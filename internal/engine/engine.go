// Package engine turns a scenario configuration into a multi-year cashflow projection
// and the derived investment metrics. Evaluation is pure: no I/O, no shared state.
package engine

import (
	"context"
	"math"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"property-financing/internal/finance"
	"property-financing/internal/financing"
	"property-financing/internal/fx"
	"property-financing/internal/model"
)

type Engine struct {
	IRR finance.IRROptions
}

func New() *Engine {
	return &Engine{IRR: finance.DefaultIRROptions()}
}

var defaultEngine = New()

// Evaluate runs a scenario through the default engine.
func Evaluate(cfg model.ScenarioConfig) model.ScenarioResult {
	return defaultEngine.Evaluate(cfg)
}

// Evaluate projects one scenario over its hold period.
func (e *Engine) Evaluate(cfg model.ScenarioConfig) model.ScenarioResult {
	cfg = cfg.Normalize()
	pair := fx.NewPair(cfg.ReferenceRate())
	price := model.Num(cfg.PurchasePrice)
	hold := cfg.HoldYears

	terms := financing.For(cfg.Financing).Resolve(financing.Context{
		Price:     price,
		HoldYears: hold,
	})

	acqHome := acquisitionCost(cfg, terms)
	acqRef := pair.ToRef(acqHome)
	cashInvested := terms.CashInvestedRef(acqHome, pair)

	years := project(cfg, terms, pair)
	exit := valueExit(cfg, terms, pair)

	cashflows := make([]float64, 0, hold+1)
	annual := make([]float64, 0, hold)
	// 0 - x rather than -x, so an all-zero outlay stays +0 instead of -0.
	outlay := 0 - cashInvested
	cashflows = append(cashflows, outlay)
	cum := outlay
	for i := range years {
		row := &years[i]
		if row.Year == hold {
			row.SaleProceedsRef = exit.ProceedsRef
		}
		row.TotalRef = row.NetCashflowRef + row.SaleProceedsRef
		cum += row.TotalRef
		row.CumulativeRef = cum

		annual = append(annual, row.NetCashflowRef)
		cashflows = append(cashflows, row.TotalRef)
	}

	y1 := years[0]
	return model.ScenarioResult{
		Label:         cfg.Name,
		Mode:          terms.Mode,
		HoldYears:     hold,
		HomeCurrency:  cfg.HomeCurrency,
		RefCurrency:   cfg.ReferenceCurrency,
		ReferenceRate: pair.Rate,

		PurchasePrice:        price,
		TotalAcquisitionCost: model.Money{Home: acqHome, Ref: acqRef},
		CashInvestedRef:      cashInvested,
		NOIYear1:             model.Money{Home: y1.NOI, Ref: y1.NOIRef},
		DebtServiceYear1Ref:  y1.DebtServiceRef,
		MonthlyCashflow: model.Money{
			Home: pair.ToHome(y1.NetCashflowRef / 12),
			Ref:  y1.NetCashflowRef / 12,
		},

		NetYield:   ratio(y1.NOIRef, acqRef),
		CashOnCash: ratio(y1.NetCashflowRef, cashInvested),
		IRR:        finance.SolveIRR(cashflows, e.IRR),

		Cashflows:       cashflows,
		AnnualCashflows: annual,
		Years:           years,
		Exit:            exit,

		LoanSchedule: loanSchedule(terms, pair),
	}
}

// EvaluateAll evaluates independent scenarios concurrently, keyed like the input.
func (e *Engine) EvaluateAll(ctx context.Context, cfgs map[string]model.ScenarioConfig) (map[string]model.ScenarioResult, error) {
	keys := make([]string, 0, len(cfgs))
	for k := range cfgs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]model.ScenarioResult, len(cfgs))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, k := range keys {
		k := k
		cfg := cfgs[k]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := e.Evaluate(cfg)
			if r.Label == "" {
				r.Label = k
			}
			mu.Lock()
			out[k] = r
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// acquisitionCost is the plan price plus every upfront cost paid in the home currency.
// Percentage fees are charged on the purchase price, not on a developer plan premium.
func acquisitionCost(cfg model.ScenarioConfig, terms financing.Terms) float64 {
	price := model.Num(cfg.PurchasePrice)
	agent := price * model.Pct(model.Num(cfg.AgentFeePct))
	upfront := price*model.Pct(model.Num(cfg.RegistrationFeePct)) +
		model.Num(cfg.RegistrationAdminFee) +
		agent + agent*model.Pct(model.Num(cfg.AgentVATPct)) +
		model.Num(cfg.TrusteeFee) +
		model.Num(cfg.NOCFee) +
		model.Num(cfg.OtherUpfront) +
		model.Num(cfg.Furnishing) +
		terms.UpfrontFeesHome
	return terms.PlanPrice + upfront
}

// loanSchedule converts the resolved loan schedule into the reference currency.
func loanSchedule(terms financing.Terms, pair fx.Pair) []model.LoanYear {
	var out []model.LoanYear
	for _, y := range terms.ScheduleHome {
		out = append(out, model.LoanYear{
			Year:           y.Year,
			Payment:        pair.ToRef(y.Payment),
			Interest:       pair.ToRef(y.Interest),
			Principal:      pair.ToRef(y.Principal),
			ClosingBalance: pair.ToRef(y.ClosingBalance),
		})
	}
	for _, y := range terms.ScheduleRef {
		out = append(out, model.LoanYear(y))
	}
	return out
}

func ratio(num, den float64) float64 {
	if den <= 0 || !model.Finite(den) {
		return math.NaN()
	}
	return num / den
}
