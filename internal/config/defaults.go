package config

import (
	"math"

	"property-financing/internal/model"
)

const (
	EmirateDubai    = "Dubai"
	EmirateAbuDhabi = "Abu Dhabi"

	DefaultHomeCurrency      = "AED"
	DefaultReferenceCurrency = "EUR"

	// feeMatchTolerance decides whether a fee still holds an emirate's default.
	feeMatchTolerance = 0.001
)

// DefaultRates are home units (AED) per unit of each reference currency.
func DefaultRates() map[string]float64 {
	return map[string]float64{
		"EUR": 4.00,
		"USD": 3.6725,
	}
}

// DefaultRegistrationFeePct is the land department transfer fee for an emirate.
func DefaultRegistrationFeePct(emirate string) float64 {
	if emirate == EmirateAbuDhabi {
		return 2.0
	}
	return 4.0
}

// DefaultMortgageRegistrationPct is the mortgage registration fee (% of the loan).
func DefaultMortgageRegistrationPct(emirate string) float64 {
	if emirate == EmirateAbuDhabi {
		return 0.10
	}
	return 0.25
}

// DefaultScenarioA is a Dubai 1BHK bought with a local mortgage.
func DefaultScenarioA() Scenario {
	return Scenario{
		Name:     "Dubai Investment (Mortgage)",
		Emirate:  EmirateDubai,
		UnitType: "1BHK",

		Currency: CurrencyConfig{
			Home:      DefaultHomeCurrency,
			Reference: DefaultReferenceCurrency,
			Rates:     DefaultRates(),
		},

		PurchasePrice:    800000,
		AnnualRent:       72000,
		VacancyPct:       5,
		RentGrowthPct:    3,
		ExpenseGrowthPct: 2,
		HoldYears:        7,

		Upfront: UpfrontConfig{
			RegistrationFeePct:   DefaultRegistrationFeePct(EmirateDubai),
			RegistrationAdminFee: 580,
			AgentFeePct:          2,
			AgentVATPct:          5,
			TrusteeFee:           4000,
			NOCFee:               1500,
		},
		Operating: OperatingConfig{
			ServiceCharges: 12000,
			Insurance:      800,
			ManagementPct:  8,
			MaintenancePct: 5,
		},
		Financing: FinancingConfig{
			Mode: string(model.ModeLocalMortgage),
			Mortgage: MortgageConfig{
				DownPaymentPct:    25,
				RatePct:           5.5,
				TermYears:         25,
				BankFeePct:        1,
				RegistrationPct:   DefaultMortgageRegistrationPct(EmirateDubai),
				RegistrationFixed: 290,
			},
			DeveloperPlan: DeveloperPlanConfig{
				DownPaymentPct: 20,
				DurationYears:  4,
			},
			ForeignLoan: ForeignLoanConfig{
				RatePct:   5,
				TermYears: 20,
				Repayment: string(model.RepaymentAmortizing),
			},
		},
		Exit: ExitConfig{
			AppreciationPct: 3,
			SellAgentPct:    2,
			SellVATPct:      5,
		},
	}
}

// DefaultScenarioB is a cheaper Abu Dhabi unit bought for cash.
func DefaultScenarioB() Scenario {
	s := DefaultScenarioA()
	s.Name = "Abu Dhabi Cash (Lower Fees)"
	s.Emirate = EmirateAbuDhabi
	s.Financing.Mode = string(model.ModeCash)
	s.Upfront.RegistrationFeePct = DefaultRegistrationFeePct(EmirateAbuDhabi)
	s.Financing.Mortgage.RegistrationPct = DefaultMortgageRegistrationPct(EmirateAbuDhabi)
	s.PurchasePrice = 750000
	s.AnnualRent = 65000
	return s
}

// DefaultScenario returns the default for a scenario key; unknown keys get A's.
func DefaultScenario(key string) Scenario {
	if key == KeyB {
		return DefaultScenarioB()
	}
	return DefaultScenarioA()
}

// ChangeEmirate moves a scenario to another emirate. Registration fees that still hold
// the previous emirate's default follow the new emirate; edited fees are kept.
func ChangeEmirate(s Scenario, emirate string) Scenario {
	out := s.Clone()
	prev := s.Emirate
	if math.Abs(s.Upfront.RegistrationFeePct-DefaultRegistrationFeePct(prev)) < feeMatchTolerance {
		out.Upfront.RegistrationFeePct = DefaultRegistrationFeePct(emirate)
	}
	if math.Abs(s.Financing.Mortgage.RegistrationPct-DefaultMortgageRegistrationPct(prev)) < feeMatchTolerance {
		out.Financing.Mortgage.RegistrationPct = DefaultMortgageRegistrationPct(emirate)
	}
	out.Emirate = emirate
	return out
}
