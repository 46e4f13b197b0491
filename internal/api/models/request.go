package models

import "property-financing/internal/config"

// EvaluateRequest represents the request body for evaluating one scenario
type EvaluateRequest struct {
	Scenario config.Scenario `json:"scenario"`
	Label    string          `json:"label,omitempty"` // default: scenario name
	Options  EvaluateOptions `json:"options,omitempty"`
}

// EvaluateOptions contains optional evaluation parameters
type EvaluateOptions struct {
	IncludeYears bool `json:"include_years,omitempty"` // default: false
}

// CompareRequest represents a request to evaluate several scenarios side by side
type CompareRequest struct {
	Scenarios map[string]config.Scenario `json:"scenarios" binding:"required"`
	Options   EvaluateOptions            `json:"options,omitempty"`
}

// CopyRequest copies one stored scenario over another
type CopyRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// ConvertRequest asks for an amount rendered in other currencies.
// Home and Rates fall back to the AED defaults.
type ConvertRequest struct {
	Amount  float64            `json:"amount"`
	From    string             `json:"from" binding:"required"`
	Targets []string           `json:"targets" binding:"required"`
	Home    string             `json:"home,omitempty"`
	Rates   map[string]float64 `json:"rates,omitempty"`
}
