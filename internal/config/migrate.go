package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"property-financing/internal/model"
)

var ErrNoScenarios = errors.New("state holds no scenarios")

// Migrate decodes a persisted state of any known schema version into the current one.
//
// Layouts:
//   - v3: {"schemaVersion": 3, "scenarios": {"A": {...}}}
//   - v2: {"A": {flat camelCase}, "B": {...}}
//   - v1 export: {"exportedAt": "...", "scenarios": {"A": {flat camelCase}}}
//
// Fields a legacy scenario does not carry take the default scenario's value.
// Missing required scenarios are filled from the defaults.
func Migrate(raw []byte) (State, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}
	if doc == nil {
		return State{}, ErrNoScenarios
	}

	if v, ok := doc["schemaVersion"]; ok && int(model.Num(v)) >= CurrentSchemaVersion {
		var st State
		if err := json.Unmarshal(raw, &st); err != nil {
			return State{}, fmt.Errorf("decode v%d state: %w", CurrentSchemaVersion, err)
		}
		if len(st.Scenarios) == 0 {
			return State{}, ErrNoScenarios
		}
		return st.Complete(), nil
	}

	legacy := doc
	if nested, ok := doc["scenarios"].(map[string]any); ok {
		legacy = nested
	}

	st := State{Scenarios: map[string]Scenario{}}
	for key, v := range legacy {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		st.Scenarios[key] = fromLegacy(m, DefaultScenario(key))
	}
	if len(st.Scenarios) == 0 {
		return State{}, ErrNoScenarios
	}
	return st.Complete(), nil
}

// fromLegacy maps a flat camelCase scenario onto base.
func fromLegacy(m map[string]any, base Scenario) Scenario {
	s := base.Clone()
	if s.Currency.Rates == nil {
		s.Currency.Rates = map[string]float64{}
	}

	num := func(key string, dst *float64) {
		if v, ok := m[key]; ok {
			*dst = model.Num(v)
		}
	}
	str := func(key string, dst *string) {
		if v, ok := m[key].(string); ok {
			*dst = v
		}
	}

	str("name", &s.Name)
	str("emirate", &s.Emirate)
	str("unitType", &s.UnitType)
	switch v := m["offPlan"].(type) {
	case bool:
		s.OffPlan = v
	case string:
		s.OffPlan = strings.EqualFold(v, "true")
	}

	if _, ok := m["fxAedPerEur"]; ok {
		s.Currency.Home = DefaultHomeCurrency
		s.Currency.Reference = "EUR"
		rate := 0.0
		num("fxAedPerEur", &rate)
		s.Currency.Rates["EUR"] = rate
	}
	if _, ok := m["fxAedPerUsd"]; ok {
		rate := 0.0
		num("fxAedPerUsd", &rate)
		s.Currency.Rates["USD"] = rate
	}

	num("purchasePriceAed", &s.PurchasePrice)
	num("annualRentAed", &s.AnnualRent)
	num("vacancyPct", &s.VacancyPct)
	num("rentGrowthPct", &s.RentGrowthPct)
	num("expenseGrowthPct", &s.ExpenseGrowthPct)
	num("holdYrs", &s.HoldYears)

	num("regFeePct", &s.Upfront.RegistrationFeePct)
	num("regAdminAed", &s.Upfront.RegistrationAdminFee)
	num("agentPct", &s.Upfront.AgentFeePct)
	num("vatPct", &s.Upfront.AgentVATPct)
	num("trusteeFeeAed", &s.Upfront.TrusteeFee)
	num("nocFeeAed", &s.Upfront.NOCFee)
	num("otherUpfrontAed", &s.Upfront.Other)
	num("furnitureAed", &s.Upfront.Furnishing)

	num("serviceChargesAedYr", &s.Operating.ServiceCharges)
	num("mgmtPct", &s.Operating.ManagementPct)
	num("maintPct", &s.Operating.MaintenancePct)
	num("insuranceAedYr", &s.Operating.Insurance)
	num("otherOpAedYr", &s.Operating.Other)

	if v, ok := m["financingMode"].(string); ok {
		if mode, err := ParseMode(v); err == nil {
			s.Financing.Mode = string(mode)
		}
	}
	mg := &s.Financing.Mortgage
	num("uaeDownPct", &mg.DownPaymentPct)
	num("uaeRatePct", &mg.RatePct)
	num("uaeTermYrs", &mg.TermYears)
	num("uaeBankFeePct", &mg.BankFeePct)
	num("uaeBankFeeAed", &mg.BankFeeFixed)
	num("uaeMortgageRegPct", &mg.RegistrationPct)
	num("uaeMortgageRegAdminAed", &mg.RegistrationFixed)

	fl := &s.Financing.ForeignLoan
	num("nlLoanAmountEur", &fl.Principal)
	num("nlRatePct", &fl.RatePct)
	num("nlTermYrs", &fl.TermYears)
	num("nlBankFeePct", &fl.BankFeePct)
	num("nlBankFeeEur", &fl.BankFeeFixed)
	if v, ok := m["nlRepayment"].(string); ok {
		if r, err := ParseRepayment(v); err == nil {
			fl.Repayment = string(r)
		}
	}

	num("appreciationPct", &s.Exit.AppreciationPct)
	num("sellAgentPct", &s.Exit.SellAgentPct)
	num("sellVatPct", &s.Exit.SellVATPct)
	num("sellOtherAed", &s.Exit.OtherSellingCosts)

	return s
}
