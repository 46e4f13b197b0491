package config

import (
	"errors"
	"fmt"
	"strings"

	"property-financing/internal/model"
)

// Scenario is the on-disk / on-the-wire shape of one scenario (YAML and JSON).
// Amounts are in the home currency unless the field says otherwise.
type Scenario struct {
	Name     string `yaml:"name" json:"name"`
	Emirate  string `yaml:"emirate" json:"emirate"`
	UnitType string `yaml:"unit_type,omitempty" json:"unit_type,omitempty"`
	OffPlan  bool   `yaml:"off_plan" json:"off_plan"`

	Currency CurrencyConfig `yaml:"currency" json:"currency"`

	PurchasePrice    float64 `yaml:"purchase_price" json:"purchase_price"`
	AnnualRent       float64 `yaml:"annual_rent" json:"annual_rent"`
	VacancyPct       float64 `yaml:"vacancy_pct" json:"vacancy_pct"`
	RentGrowthPct    float64 `yaml:"rent_growth_pct" json:"rent_growth_pct"`
	ExpenseGrowthPct float64 `yaml:"expense_growth_pct" json:"expense_growth_pct"`
	HoldYears        float64 `yaml:"hold_years" json:"hold_years"`

	Upfront   UpfrontConfig   `yaml:"upfront" json:"upfront"`
	Operating OperatingConfig `yaml:"operating" json:"operating"`
	Financing FinancingConfig `yaml:"financing" json:"financing"`
	Exit      ExitConfig      `yaml:"exit" json:"exit"`
}

type CurrencyConfig struct {
	Home      string `yaml:"home" json:"home"`
	Reference string `yaml:"reference" json:"reference"`
	// Rates are home-currency units per 1 unit of the keyed currency.
	Rates map[string]float64 `yaml:"rates" json:"rates"`
}

type UpfrontConfig struct {
	RegistrationFeePct   float64 `yaml:"registration_fee_pct" json:"registration_fee_pct"`
	RegistrationAdminFee float64 `yaml:"registration_admin_fee" json:"registration_admin_fee"`
	AgentFeePct          float64 `yaml:"agent_fee_pct" json:"agent_fee_pct"`
	AgentVATPct          float64 `yaml:"agent_vat_pct" json:"agent_vat_pct"`
	TrusteeFee           float64 `yaml:"trustee_fee" json:"trustee_fee"`
	NOCFee               float64 `yaml:"noc_fee" json:"noc_fee"`
	Other                float64 `yaml:"other" json:"other"`
	Furnishing           float64 `yaml:"furnishing" json:"furnishing"`
}

type OperatingConfig struct {
	ServiceCharges float64 `yaml:"service_charges" json:"service_charges"`
	Insurance      float64 `yaml:"insurance" json:"insurance"`
	Other          float64 `yaml:"other" json:"other"`
	ManagementPct  float64 `yaml:"management_pct" json:"management_pct"`
	MaintenancePct float64 `yaml:"maintenance_pct" json:"maintenance_pct"`
}

// FinancingConfig carries the parameters of every financing variant; only the block
// selected by Mode is used.
type FinancingConfig struct {
	Mode          string              `yaml:"mode" json:"mode"`
	Mortgage      MortgageConfig      `yaml:"mortgage" json:"mortgage"`
	DeveloperPlan DeveloperPlanConfig `yaml:"developer_plan" json:"developer_plan"`
	ForeignLoan   ForeignLoanConfig   `yaml:"foreign_loan" json:"foreign_loan"`
}

type MortgageConfig struct {
	DownPaymentPct    float64 `yaml:"down_payment_pct" json:"down_payment_pct"`
	RatePct           float64 `yaml:"rate_pct" json:"rate_pct"`
	TermYears         float64 `yaml:"term_years" json:"term_years"`
	BankFeePct        float64 `yaml:"bank_fee_pct" json:"bank_fee_pct"`
	BankFeeFixed      float64 `yaml:"bank_fee_fixed" json:"bank_fee_fixed"`
	RegistrationPct   float64 `yaml:"registration_pct" json:"registration_pct"`
	RegistrationFixed float64 `yaml:"registration_fixed" json:"registration_fixed"`
}

type DeveloperPlanConfig struct {
	DownPaymentPct  float64 `yaml:"down_payment_pct" json:"down_payment_pct"`
	PricePremiumPct float64 `yaml:"price_premium_pct" json:"price_premium_pct"`
	DurationYears   float64 `yaml:"duration_years" json:"duration_years"`
}

// ForeignLoanConfig amounts are in the reference currency.
type ForeignLoanConfig struct {
	Principal    float64 `yaml:"principal" json:"principal"`
	RatePct      float64 `yaml:"rate_pct" json:"rate_pct"`
	TermYears    float64 `yaml:"term_years" json:"term_years"`
	Repayment    string  `yaml:"repayment" json:"repayment"`
	BankFeePct   float64 `yaml:"bank_fee_pct" json:"bank_fee_pct"`
	BankFeeFixed float64 `yaml:"bank_fee_fixed" json:"bank_fee_fixed"`
}

type ExitConfig struct {
	AppreciationPct   float64 `yaml:"appreciation_pct" json:"appreciation_pct"`
	SellAgentPct      float64 `yaml:"sell_agent_pct" json:"sell_agent_pct"`
	SellVATPct        float64 `yaml:"sell_vat_pct" json:"sell_vat_pct"`
	OtherSellingCosts float64 `yaml:"other_selling_costs" json:"other_selling_costs"`
}

// ParseMode maps a financing mode name to its model value. Besides the canonical
// names it accepts the labels older saved states used ("UAE Mortgage", "NL Loan").
func ParseMode(s string) (model.FinancingMode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	switch key {
	case "", "cash":
		return model.ModeCash, nil
	case "local_mortgage", "mortgage", "uae_mortgage":
		return model.ModeLocalMortgage, nil
	case "developer_plan", "payment_plan", "developer":
		return model.ModeDeveloperPlan, nil
	case "foreign_loan", "nl_loan":
		return model.ModeForeignLoan, nil
	default:
		return "", fmt.Errorf("unknown financing mode %q", s)
	}
}

// ParseRepayment maps a repayment name to its model value.
func ParseRepayment(s string) (model.Repayment, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	switch key {
	case "", "amortizing", "annuity":
		return model.RepaymentAmortizing, nil
	case "interest_only", "interestonly":
		return model.RepaymentInterestOnly, nil
	default:
		return "", fmt.Errorf("unknown repayment %q", s)
	}
}

// ToModel converts the wire record into the engine input. Unknown modes fall back to
// cash; Validate reports them.
func (s Scenario) ToModel() model.ScenarioConfig {
	return model.ScenarioConfig{
		Name:     s.Name,
		Emirate:  s.Emirate,
		UnitType: s.UnitType,
		OffPlan:  s.OffPlan,

		PurchasePrice:    s.PurchasePrice,
		GrossRent:        s.AnnualRent,
		VacancyPct:       s.VacancyPct,
		RentGrowthPct:    s.RentGrowthPct,
		ExpenseGrowthPct: s.ExpenseGrowthPct,
		HoldYears:        model.HoldYearsFrom(s.HoldYears),

		RegistrationFeePct:   s.Upfront.RegistrationFeePct,
		RegistrationAdminFee: s.Upfront.RegistrationAdminFee,
		AgentFeePct:          s.Upfront.AgentFeePct,
		AgentVATPct:          s.Upfront.AgentVATPct,
		TrusteeFee:           s.Upfront.TrusteeFee,
		NOCFee:               s.Upfront.NOCFee,
		OtherUpfront:         s.Upfront.Other,
		Furnishing:           s.Upfront.Furnishing,

		ServiceCharges: s.Operating.ServiceCharges,
		Insurance:      s.Operating.Insurance,
		OtherOperating: s.Operating.Other,
		ManagementPct:  s.Operating.ManagementPct,
		MaintenancePct: s.Operating.MaintenancePct,

		Financing: s.Financing.toModel(),

		Exit: model.ExitAssumptions{
			AppreciationPct:   s.Exit.AppreciationPct,
			SellAgentPct:      s.Exit.SellAgentPct,
			SellVATPct:        s.Exit.SellVATPct,
			OtherSellingCosts: s.Exit.OtherSellingCosts,
		},

		HomeCurrency:      strings.ToUpper(s.Currency.Home),
		ReferenceCurrency: strings.ToUpper(s.Currency.Reference),
		Rates:             upperRates(s.Currency.Rates),
	}
}

func (f FinancingConfig) toModel() model.Financing {
	mode, err := ParseMode(f.Mode)
	if err != nil {
		return model.Cash{}
	}
	switch mode {
	case model.ModeLocalMortgage:
		m := f.Mortgage
		return model.LocalMortgage{
			DownPaymentPct:       m.DownPaymentPct,
			AnnualRatePct:        m.RatePct,
			TermYears:            m.TermYears,
			BankFeePct:           m.BankFeePct,
			BankFeeFixed:         m.BankFeeFixed,
			RegistrationFeePct:   m.RegistrationPct,
			RegistrationFeeFixed: m.RegistrationFixed,
		}
	case model.ModeDeveloperPlan:
		d := f.DeveloperPlan
		return model.DeveloperPlan{
			DownPaymentPct:    d.DownPaymentPct,
			PricePremiumPct:   d.PricePremiumPct,
			PlanDurationYears: d.DurationYears,
		}
	case model.ModeForeignLoan:
		l := f.ForeignLoan
		repayment, err := ParseRepayment(l.Repayment)
		if err != nil {
			repayment = model.RepaymentAmortizing
		}
		return model.ForeignLoan{
			Principal:     l.Principal,
			AnnualRatePct: l.RatePct,
			TermYears:     l.TermYears,
			Repayment:     repayment,
			BankFeePct:    l.BankFeePct,
			BankFeeFixed:  l.BankFeeFixed,
		}
	default:
		return model.Cash{}
	}
}

func upperRates(in map[string]float64) map[string]float64 {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return out
}

// Validate reports every problem with the scenario at once.
// The engine itself accepts anything; this is for people editing config files.
func (s Scenario) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	pctInRange := func(name string, v float64) {
		if v < 0 || v > 100 {
			add("%s must be within [0,100], got %v", name, v)
		}
	}

	if s.PurchasePrice < 0 {
		add("purchase_price must be >= 0")
	}
	if s.AnnualRent < 0 {
		add("annual_rent must be >= 0")
	}
	if s.HoldYears < 1 {
		add("hold_years must be >= 1")
	}
	pctInRange("vacancy_pct", s.VacancyPct)
	pctInRange("operating.management_pct", s.Operating.ManagementPct)
	pctInRange("operating.maintenance_pct", s.Operating.MaintenancePct)

	mode, err := ParseMode(s.Financing.Mode)
	if err != nil {
		errs = append(errs, fmt.Errorf("financing.mode: %w", err))
	}
	switch mode {
	case model.ModeLocalMortgage:
		pctInRange("financing.mortgage.down_payment_pct", s.Financing.Mortgage.DownPaymentPct)
		if s.Financing.Mortgage.TermYears <= 0 {
			add("financing.mortgage.term_years must be > 0")
		}
	case model.ModeDeveloperPlan:
		pctInRange("financing.developer_plan.down_payment_pct", s.Financing.DeveloperPlan.DownPaymentPct)
	case model.ModeForeignLoan:
		if _, err := ParseRepayment(s.Financing.ForeignLoan.Repayment); err != nil {
			errs = append(errs, fmt.Errorf("financing.foreign_loan.repayment: %w", err))
		}
		if s.Financing.ForeignLoan.Principal < 0 {
			add("financing.foreign_loan.principal must be >= 0")
		}
	}

	home := strings.ToUpper(s.Currency.Home)
	ref := strings.ToUpper(s.Currency.Reference)
	if home == "" {
		add("currency.home is required")
	}
	if ref != "" && ref != home {
		if r, ok := upperRates(s.Currency.Rates)[ref]; !ok || r <= 0 {
			add("currency.rates[%s] must be > 0", ref)
		}
	}

	return errors.Join(errs...)
}

// pick returns override unless it is the zero value.
func pick[T comparable](base, override T) T {
	var zero T
	if override != zero {
		return override
	}
	return base
}

// Merge overlays non-zero fields from override onto base.
// Zero values cannot be expressed as overrides; set them in the base instead.
func Merge(base, override Scenario) Scenario {
	out := base
	out.Name = pick(base.Name, override.Name)
	out.Emirate = pick(base.Emirate, override.Emirate)
	out.UnitType = pick(base.UnitType, override.UnitType)
	out.OffPlan = base.OffPlan || override.OffPlan

	out.Currency.Home = pick(base.Currency.Home, override.Currency.Home)
	out.Currency.Reference = pick(base.Currency.Reference, override.Currency.Reference)
	if len(base.Currency.Rates)+len(override.Currency.Rates) > 0 {
		out.Currency.Rates = make(map[string]float64, len(base.Currency.Rates)+len(override.Currency.Rates))
		for k, v := range base.Currency.Rates {
			out.Currency.Rates[k] = v
		}
		for k, v := range override.Currency.Rates {
			out.Currency.Rates[k] = v
		}
	}

	out.PurchasePrice = pick(base.PurchasePrice, override.PurchasePrice)
	out.AnnualRent = pick(base.AnnualRent, override.AnnualRent)
	out.VacancyPct = pick(base.VacancyPct, override.VacancyPct)
	out.RentGrowthPct = pick(base.RentGrowthPct, override.RentGrowthPct)
	out.ExpenseGrowthPct = pick(base.ExpenseGrowthPct, override.ExpenseGrowthPct)
	out.HoldYears = pick(base.HoldYears, override.HoldYears)

	out.Upfront = UpfrontConfig{
		RegistrationFeePct:   pick(base.Upfront.RegistrationFeePct, override.Upfront.RegistrationFeePct),
		RegistrationAdminFee: pick(base.Upfront.RegistrationAdminFee, override.Upfront.RegistrationAdminFee),
		AgentFeePct:          pick(base.Upfront.AgentFeePct, override.Upfront.AgentFeePct),
		AgentVATPct:          pick(base.Upfront.AgentVATPct, override.Upfront.AgentVATPct),
		TrusteeFee:           pick(base.Upfront.TrusteeFee, override.Upfront.TrusteeFee),
		NOCFee:               pick(base.Upfront.NOCFee, override.Upfront.NOCFee),
		Other:                pick(base.Upfront.Other, override.Upfront.Other),
		Furnishing:           pick(base.Upfront.Furnishing, override.Upfront.Furnishing),
	}
	out.Operating = OperatingConfig{
		ServiceCharges: pick(base.Operating.ServiceCharges, override.Operating.ServiceCharges),
		Insurance:      pick(base.Operating.Insurance, override.Operating.Insurance),
		Other:          pick(base.Operating.Other, override.Operating.Other),
		ManagementPct:  pick(base.Operating.ManagementPct, override.Operating.ManagementPct),
		MaintenancePct: pick(base.Operating.MaintenancePct, override.Operating.MaintenancePct),
	}

	// Financing blocks are replaced wholesale when the override sets any field of them.
	bf, of := base.Financing, override.Financing
	out.Financing = FinancingConfig{
		Mode:          pick(bf.Mode, of.Mode),
		Mortgage:      pick(bf.Mortgage, of.Mortgage),
		DeveloperPlan: pick(bf.DeveloperPlan, of.DeveloperPlan),
		ForeignLoan:   pick(bf.ForeignLoan, of.ForeignLoan),
	}

	out.Exit = ExitConfig{
		AppreciationPct:   pick(base.Exit.AppreciationPct, override.Exit.AppreciationPct),
		SellAgentPct:      pick(base.Exit.SellAgentPct, override.Exit.SellAgentPct),
		SellVATPct:        pick(base.Exit.SellVATPct, override.Exit.SellVATPct),
		OtherSellingCosts: pick(base.Exit.OtherSellingCosts, override.Exit.OtherSellingCosts),
	}
	return out
}

// Clone returns a copy that shares no maps with s.
func (s Scenario) Clone() Scenario {
	out := s
	if s.Currency.Rates != nil {
		out.Currency.Rates = make(map[string]float64, len(s.Currency.Rates))
		for k, v := range s.Currency.Rates {
			out.Currency.Rates[k] = v
		}
	}
	return out
}
