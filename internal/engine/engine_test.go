package engine

import (
	"bytes"
	"context"
	"encoding/csv"
	"math"
	"testing"

	"property-financing/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseScenario() model.ScenarioConfig {
	return model.ScenarioConfig{
		Name:               "Cash purchase",
		PurchasePrice:      800000,
		GrossRent:          72000,
		VacancyPct:         5,
		HoldYears:          7,
		RegistrationFeePct: 4,
		Financing:          model.Cash{},
		Exit:               model.ExitAssumptions{AppreciationPct: 3},
		HomeCurrency:       "AED",
		ReferenceCurrency:  "EUR",
		Rates:              map[string]float64{"EUR": 4},
	}
}

func TestEvaluateCashScenario(t *testing.T) {
	res := Evaluate(baseScenario())

	require.Len(t, res.Cashflows, 8)
	require.Len(t, res.AnnualCashflows, 7)
	require.Len(t, res.Years, 7)

	assert.InDelta(t, 832000.0, res.TotalAcquisitionCost.Home, 1e-6)
	assert.InDelta(t, 208000.0, res.TotalAcquisitionCost.Ref, 1e-6)
	assert.Equal(t, res.TotalAcquisitionCost.Ref, res.CashInvestedRef)
	assert.InDelta(t, -208000.0, res.Cashflows[0], 1e-6)

	assert.Greater(t, res.NOIYear1.Home, 0.0)
	assert.InDelta(t, 68400.0, res.NOIYear1.Home, 1e-6)
	assert.Zero(t, res.DebtServiceYear1Ref)

	assert.True(t, model.Finite(res.IRR))
	assert.Greater(t, res.IRR, 0.0)
	assert.InDelta(t, 68400.0/832000.0, res.NetYield, 1e-12)
	assert.InDelta(t, res.NetYield, res.CashOnCash, 1e-12)
	assert.InDelta(t, 68400.0/4/12, res.MonthlyCashflow.Ref, 1e-9)
	assert.InDelta(t, 68400.0/12, res.MonthlyCashflow.Home, 1e-9)
}

func TestEvaluateFoldsSaleIntoLastYear(t *testing.T) {
	res := Evaluate(baseScenario())

	salePrice := 800000 * math.Pow(1.03, 7)
	assert.InDelta(t, salePrice, res.Exit.SalePrice, 1e-6)
	assert.InDelta(t, salePrice/4, res.Exit.ProceedsRef, 1e-6)

	last := res.Years[len(res.Years)-1]
	assert.InDelta(t, last.NetCashflowRef+res.Exit.ProceedsRef, res.Cashflows[7], 1e-6)
	assert.Equal(t, res.AnnualCashflows[6], last.NetCashflowRef)
	for _, row := range res.Years[:6] {
		assert.Zero(t, row.SaleProceedsRef)
	}

	total := 0.0
	for _, cf := range res.Cashflows {
		total += cf
	}
	assert.InDelta(t, total, last.CumulativeRef, 1e-6)
}

func TestEvaluateGrowth(t *testing.T) {
	cfg := baseScenario()
	cfg.RentGrowthPct = 2
	cfg.ExpenseGrowthPct = 10
	cfg.ServiceCharges = 10000
	cfg.Insurance = 1000
	cfg.ManagementPct = 5
	cfg.MaintenancePct = 1

	res := Evaluate(cfg)
	y2 := res.Years[1]
	assert.InDelta(t, 72000*1.02, y2.GrossRent, 1e-9)
	assert.InDelta(t, 72000*1.02*0.95, y2.CollectedRent, 1e-9)
	assert.InDelta(t, 11000*1.1, y2.FixedCosts, 1e-9)
	assert.InDelta(t, y2.CollectedRent*0.06, y2.VariableCosts, 1e-9)
	assert.InDelta(t, y2.CollectedRent-y2.Opex, y2.NOI, 1e-9)
}

func TestEvaluateMortgageScenario(t *testing.T) {
	cfg := baseScenario()
	cfg.Financing = model.LocalMortgage{
		DownPaymentPct:       25,
		AnnualRatePct:        4.5,
		TermYears:            25,
		BankFeePct:           1,
		RegistrationFeePct:   0.25,
		RegistrationFeeFixed: 290,
	}
	res := Evaluate(cfg)

	assert.Equal(t, model.ModeLocalMortgage, res.Mode)
	assert.Less(t, res.CashInvestedRef, res.TotalAcquisitionCost.Ref)
	assert.Greater(t, res.DebtServiceYear1Ref, 0.0)
	assert.Greater(t, res.Exit.PayoffRef, 0.0)
	for _, row := range res.Years {
		assert.InDelta(t, res.DebtServiceYear1Ref, row.DebtServiceRef, 1e-9)
	}

	// Home-currency mortgage schedule, reported in EUR.
	require.Len(t, res.LoanSchedule, 25)
	assert.InDelta(t, 150000-res.LoanSchedule[0].Principal, res.LoanSchedule[0].ClosingBalance, 1e-6)
	assert.InDelta(t, res.Exit.PayoffRef, res.LoanSchedule[6].ClosingBalance, 1e-6)
}

func TestEvaluateDeveloperPlanTerminates(t *testing.T) {
	cfg := baseScenario()
	cfg.Financing = model.DeveloperPlan{DownPaymentPct: 20, PlanDurationYears: 5}

	res := Evaluate(cfg)
	require.Len(t, res.Years, 7)
	for _, row := range res.Years[:5] {
		assert.Greater(t, row.DebtServiceRef, 0.0, "year %d", row.Year)
	}
	assert.Zero(t, res.Years[5].DebtServiceRef)
	assert.Zero(t, res.Years[6].DebtServiceRef)
	assert.Equal(t, 0.0, res.Exit.PayoffRef)
}

func TestEvaluateForeignLoanInterestOnly(t *testing.T) {
	cfg := baseScenario()
	cfg.Financing = model.ForeignLoan{
		Principal:     100000,
		AnnualRatePct: 5,
		Repayment:     model.RepaymentInterestOnly,
		BankFeeFixed:  1000,
	}
	res := Evaluate(cfg)

	assert.InDelta(t, 5000.0, res.DebtServiceYear1Ref, 1e-9)
	assert.InDelta(t, 100000.0, res.Exit.PayoffRef, 1e-9)
	assert.InDelta(t, 208000.0-100000+1000, res.CashInvestedRef, 1e-6)
	assert.Empty(t, res.LoanSchedule)
}

func TestEvaluateLoanSchedule(t *testing.T) {
	cfg := baseScenario()
	cfg.Financing = model.ForeignLoan{
		Principal:     100000,
		AnnualRatePct: 5,
		TermYears:     10,
		Repayment:     model.RepaymentAmortizing,
	}
	res := Evaluate(cfg)

	// The schedule runs over the loan term, not the hold period.
	require.Len(t, res.LoanSchedule, 10)
	assert.InDelta(t, res.DebtServiceYear1Ref, res.LoanSchedule[0].Payment, 1e-9)
	assert.InDelta(t, res.Exit.PayoffRef, res.LoanSchedule[6].ClosingBalance, 1e-6)

	var repaid float64
	for _, y := range res.LoanSchedule {
		repaid += y.Principal
	}
	assert.InDelta(t, 100000.0, repaid, 1e-6)

	assert.Empty(t, Evaluate(baseScenario()).LoanSchedule)
}

func TestNetYieldGuard(t *testing.T) {
	res := Evaluate(model.ScenarioConfig{HoldYears: 3})

	assert.Zero(t, res.TotalAcquisitionCost.Home)
	assert.True(t, math.IsNaN(res.NetYield))
	assert.True(t, math.IsNaN(res.CashOnCash))
	assert.True(t, math.IsNaN(res.IRR))
	assert.False(t, math.IsInf(res.NetYield, 0))

	// Nothing invested is +0, never -0.
	assert.False(t, math.Signbit(res.Cashflows[0]))
}

func TestEvaluateNormalizesHold(t *testing.T) {
	cfg := baseScenario()
	cfg.HoldYears = -3
	res := Evaluate(cfg)
	assert.Equal(t, 1, res.HoldYears)
	assert.Len(t, res.Cashflows, 2)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	cfg := baseScenario()
	assert.Equal(t, Evaluate(cfg), Evaluate(cfg))
}

func TestEvaluateAll(t *testing.T) {
	a := baseScenario()
	b := baseScenario()
	b.Name = ""
	b.Financing = model.DeveloperPlan{DownPaymentPct: 30, PlanDurationYears: 3}

	out, err := New().EvaluateAll(context.Background(), map[string]model.ScenarioConfig{"A": a, "B": b})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Cash purchase", out["A"].Label)
	assert.Equal(t, "B", out["B"].Label)
	assert.Equal(t, Evaluate(a), out["A"])
}

func TestEvaluateAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().EvaluateAll(ctx, map[string]model.ScenarioConfig{"A": baseScenario()})
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriteCashflowCSV(t *testing.T) {
	res := Evaluate(baseScenario())

	var buf bytes.Buffer
	require.NoError(t, WriteCashflowCSV(&buf, res))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+1+7)
	assert.Equal(t, cashflowHeader, rows[0])
	assert.Equal(t, "0", rows[1][0])
	assert.Equal(t, fmtFloat(res.Cashflows[0]), rows[1][11])
	assert.Equal(t, "7", rows[8][0])
	assert.Equal(t, fmtFloat(res.Cashflows[7]), rows[8][11])
}
