package config

import (
	"fmt"
	"sort"

	"property-financing/internal/model"
)

// CurrentSchemaVersion is the version written by this code. Versions 1 and 2 are the
// flat camelCase layouts older saved states use.
const CurrentSchemaVersion = 3

const (
	KeyA = "A"
	KeyB = "B"

	CopyOfAName = "Scenario B (Copy of A)"
)

// RequiredKeys are the scenarios every state carries.
var RequiredKeys = []string{KeyA, KeyB}

// State is the persisted set of scenarios.
type State struct {
	SchemaVersion int                 `json:"schemaVersion" yaml:"schema_version"`
	Scenarios     map[string]Scenario `json:"scenarios" yaml:"scenarios"`
}

// DefaultState returns a fresh state holding the default scenarios.
func DefaultState() State {
	return State{
		SchemaVersion: CurrentSchemaVersion,
		Scenarios: map[string]Scenario{
			KeyA: DefaultScenarioA(),
			KeyB: DefaultScenarioB(),
		},
	}
}

// Keys returns scenario keys in sorted order.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s.Scenarios))
	for k := range s.Scenarios {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := State{SchemaVersion: s.SchemaVersion, Scenarios: make(map[string]Scenario, len(s.Scenarios))}
	for k, sc := range s.Scenarios {
		out.Scenarios[k] = sc.Clone()
	}
	return out
}

// Models converts every scenario to engine input.
func (s State) Models() map[string]model.ScenarioConfig {
	out := make(map[string]model.ScenarioConfig, len(s.Scenarios))
	for k, sc := range s.Scenarios {
		out[k] = sc.ToModel()
	}
	return out
}

// Complete fills in missing required scenarios with their defaults and stamps the
// current schema version.
func (s State) Complete() State {
	out := s.Clone()
	out.SchemaVersion = CurrentSchemaVersion
	for _, k := range RequiredKeys {
		if _, ok := out.Scenarios[k]; !ok {
			out.Scenarios[k] = DefaultScenario(k)
		}
	}
	for k, sc := range out.Scenarios {
		out.Scenarios[k] = sc.WithCurrencyDefaults()
	}
	return out
}

// WithCurrencyDefaults fills an empty currency block with the default AED/EUR pair.
func (s Scenario) WithCurrencyDefaults() Scenario {
	if s.Currency.Home == "" {
		s.Currency.Home = DefaultHomeCurrency
	}
	if s.Currency.Reference == "" {
		s.Currency.Reference = DefaultReferenceCurrency
	}
	if len(s.Currency.Rates) == 0 {
		s.Currency.Rates = DefaultRates()
	}
	return s
}

// CopyScenario overwrites scenario to with a copy of from. Copying A onto B renames
// the copy the way the toolbar action always has.
func (s State) CopyScenario(from, to string) (State, error) {
	src, ok := s.Scenarios[from]
	if !ok {
		return s, fmt.Errorf("scenario %q not found", from)
	}
	if to == "" || to == from {
		return s, fmt.Errorf("invalid copy target %q", to)
	}
	out := s.Clone()
	cp := src.Clone()
	if from == KeyA && to == KeyB {
		cp.Name = CopyOfAName
	} else {
		cp.Name = fmt.Sprintf("Scenario %s (Copy of %s)", to, from)
	}
	out.Scenarios[to] = cp
	return out, nil
}
