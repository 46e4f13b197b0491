package financing

import (
	"testing"

	"property-financing/internal/finance"
	"property-financing/internal/fx"
	"property-financing/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForPicksStrategy(t *testing.T) {
	cases := []struct {
		in   model.Financing
		want model.FinancingMode
	}{
		{nil, model.ModeCash},
		{model.Cash{}, model.ModeCash},
		{model.LocalMortgage{}, model.ModeLocalMortgage},
		{&model.DeveloperPlan{}, model.ModeDeveloperPlan},
		{model.ForeignLoan{}, model.ModeForeignLoan},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, For(tc.in).Mode())
	}
}

func TestCashTerms(t *testing.T) {
	terms := For(model.Cash{}).Resolve(Context{Price: 800000, HoldYears: 7})
	pair := fx.NewPair(4)

	for y := 1; y <= 7; y++ {
		assert.Zero(t, terms.DebtServiceRef(y, pair))
	}
	assert.Zero(t, terms.PayoffInRef(pair))
	assert.InDelta(t, 210000, terms.CashInvestedRef(840000, pair), 1e-9)
}

func TestLocalMortgageTerms(t *testing.T) {
	m := model.LocalMortgage{
		DownPaymentPct:       25,
		AnnualRatePct:        4.5,
		TermYears:            25,
		BankFeePct:           1,
		BankFeeFixed:         0,
		RegistrationFeePct:   0.25,
		RegistrationFeeFixed: 290,
	}
	terms := For(m).Resolve(Context{Price: 800000, HoldYears: 7})

	require.InDelta(t, 600000, terms.PrincipalHome, 1e-9)
	assert.InDelta(t, 600000*0.0125+290, terms.UpfrontFeesHome, 1e-9)
	assert.InDelta(t, finance.PeriodicPayment(600000, 4.5, 25)*12, terms.AnnualDebtServiceHome, 1e-9)
	assert.InDelta(t, finance.RemainingBalance(600000, 4.5, 25, 84), terms.PayoffHome, 1e-9)
	assert.Equal(t, finance.AmortizationSchedule(600000, 4.5, 25), terms.ScheduleHome)
	assert.Empty(t, terms.ScheduleRef)

	// Debt service does not stop inside the hold period.
	home, _ := terms.DebtService(7)
	assert.Equal(t, terms.AnnualDebtServiceHome, home)

	// Cash invested = down payment + upfront costs (acquisition cost - principal).
	acquisition := 800000 + 40000.0 + terms.UpfrontFeesHome
	pair := fx.NewPair(4)
	want := (200000 + 40000 + terms.UpfrontFeesHome) / 4
	assert.InDelta(t, want, terms.CashInvestedRef(acquisition, pair), 1e-9)
}

func TestDeveloperPlanStopsAfterDuration(t *testing.T) {
	plan := model.DeveloperPlan{DownPaymentPct: 20, PricePremiumPct: 5, PlanDurationYears: 5}
	terms := For(plan).Resolve(Context{Price: 1000000, HoldYears: 7})
	pair := fx.NewPair(4)

	financed := 1050000 * 0.8
	require.InDelta(t, financed, terms.PrincipalHome, 1e-6)
	assert.InDelta(t, 1050000.0, terms.PlanPrice, 1e-6)

	for y := 1; y <= 5; y++ {
		assert.InDelta(t, financed/5/4, terms.DebtServiceRef(y, pair), 1e-6, "year %d", y)
	}
	assert.Zero(t, terms.DebtServiceRef(6, pair))
	assert.Zero(t, terms.DebtServiceRef(7, pair))
	assert.Equal(t, 0.0, terms.PayoffInRef(pair))
}

func TestDeveloperPlanPayoffWithinDuration(t *testing.T) {
	plan := model.DeveloperPlan{DownPaymentPct: 40, PlanDurationYears: 4}
	terms := For(plan).Resolve(Context{Price: 1000000, HoldYears: 3})

	assert.InDelta(t, 600000.0, terms.PrincipalHome, 1e-6)
	assert.InDelta(t, 150000.0, terms.AnnualDebtServiceHome, 1e-6)
	assert.InDelta(t, 150000.0, terms.PayoffHome, 1e-6)
}

func TestDeveloperPlanWithoutDuration(t *testing.T) {
	plan := model.DeveloperPlan{DownPaymentPct: 50}
	terms := For(plan).Resolve(Context{Price: 1000000, HoldYears: 3})

	home, _ := terms.DebtService(1)
	assert.Zero(t, home)
	assert.InDelta(t, 500000.0, terms.PayoffHome, 1e-6)
}

func TestForeignLoanInterestOnly(t *testing.T) {
	loan := model.ForeignLoan{
		Principal:     100000,
		AnnualRatePct: 5,
		TermYears:     20,
		Repayment:     model.RepaymentInterestOnly,
		BankFeePct:    1,
		BankFeeFixed:  500,
	}
	terms := For(loan).Resolve(Context{Price: 800000, HoldYears: 10})
	pair := fx.NewPair(4)

	assert.InDelta(t, 5000.0, terms.DebtServiceRef(1, pair), 1e-9)
	assert.InDelta(t, 5000.0, terms.DebtServiceRef(10, pair), 1e-9)
	assert.InDelta(t, 100000.0, terms.PayoffInRef(pair), 1e-9)
	assert.InDelta(t, 1500.0, terms.UpfrontFeesRef, 1e-9)
	assert.Empty(t, terms.ScheduleRef)

	// 840000 AED at 4 = 210000 EUR; 110000 not covered by the loan, plus 1500 fees.
	assert.InDelta(t, 111500.0, terms.CashInvestedRef(840000, pair), 1e-9)
}

func TestForeignLoanAmortizing(t *testing.T) {
	loan := model.ForeignLoan{Principal: 100000, AnnualRatePct: 5, TermYears: 20}
	terms := For(loan).Resolve(Context{Price: 800000, HoldYears: 5})
	pair := fx.NewPair(4)

	assert.InDelta(t, finance.PeriodicPayment(100000, 5, 20)*12, terms.DebtServiceRef(1, pair), 1e-9)
	assert.InDelta(t, finance.RemainingBalance(100000, 5, 20, 60), terms.PayoffInRef(pair), 1e-9)
	assert.Less(t, terms.PayoffRef, 100000.0)
	require.Len(t, terms.ScheduleRef, 20)
	assert.InDelta(t, terms.PayoffRef, terms.ScheduleRef[4].ClosingBalance, 1e-9)
	assert.Empty(t, terms.ScheduleHome)
}

func TestForeignLoanCashInvestedFloor(t *testing.T) {
	loan := model.ForeignLoan{Principal: 500000, BankFeeFixed: 1000, Repayment: model.RepaymentInterestOnly}
	terms := For(loan).Resolve(Context{Price: 800000, HoldYears: 5})
	assert.InDelta(t, 1000.0, terms.CashInvestedRef(840000, fx.NewPair(4)), 1e-9)
}
