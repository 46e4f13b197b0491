package model

// FinancingMode names the active financing variant.
// Keep these values stable; they appear in config files, API payloads and CSV output.
type FinancingMode string

const (
	ModeCash          FinancingMode = "cash"
	ModeLocalMortgage FinancingMode = "local_mortgage"
	ModeDeveloperPlan FinancingMode = "developer_plan"
	ModeForeignLoan   FinancingMode = "foreign_loan"
)

// Modes lists every financing mode in display order.
func Modes() []FinancingMode {
	return []FinancingMode{ModeCash, ModeLocalMortgage, ModeDeveloperPlan, ModeForeignLoan}
}

// Repayment selects how a foreign loan is serviced.
type Repayment string

const (
	RepaymentAmortizing   Repayment = "amortizing"
	RepaymentInterestOnly Repayment = "interest_only"
)

// Financing is the closed set of financing structures a scenario can use.
// Only the types in this package implement it.
type Financing interface {
	Mode() FinancingMode
	isFinancing()
}

// Cash is an all-equity purchase.
type Cash struct{}

// LocalMortgage is a home-currency bank mortgage.
// Percentages are expressed as 0..100.
type LocalMortgage struct {
	DownPaymentPct       float64
	AnnualRatePct        float64
	TermYears            float64
	BankFeePct           float64 // % of principal
	BankFeeFixed         float64 // home currency
	RegistrationFeePct   float64 // mortgage registration, % of principal
	RegistrationFeeFixed float64 // home currency
}

// DeveloperPlan is an interest-free developer payment plan.
// The financed balance is repaid in equal annual instalments over PlanDurationYears,
// independent of the investment hold period.
type DeveloperPlan struct {
	DownPaymentPct    float64
	PricePremiumPct   float64 // plan price = purchase price * (1 + premium)
	PlanDurationYears float64
}

// ForeignLoan is a loan raised abroad and denominated in the reference currency.
type ForeignLoan struct {
	Principal     float64 // reference currency
	AnnualRatePct float64
	TermYears     float64
	Repayment     Repayment
	BankFeePct    float64 // % of principal
	BankFeeFixed  float64 // reference currency
}

func (Cash) Mode() FinancingMode          { return ModeCash }
func (LocalMortgage) Mode() FinancingMode { return ModeLocalMortgage }
func (DeveloperPlan) Mode() FinancingMode { return ModeDeveloperPlan }
func (ForeignLoan) Mode() FinancingMode   { return ModeForeignLoan }

func (Cash) isFinancing()          {}
func (LocalMortgage) isFinancing() {}
func (DeveloperPlan) isFinancing() {}
func (ForeignLoan) isFinancing()   {}
