// Package report renders evaluation results for people: money and percentage strings,
// currency hints and the side-by-side comparison table.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"

	"property-financing/internal/fx"
	"property-financing/internal/model"
)

// NA is shown wherever a metric has no solution.
const NA = "n/a"

// Money formats an amount with thousands separators and a trailing currency code.
// Amounts under 100 keep two decimals; larger ones are whole units.
func Money(v float64, cur string) string {
	if !model.Finite(v) {
		return NA
	}
	places := 0
	if math.Abs(v) < 100 {
		places = 2
	}
	s := number(v, places)
	if cur == "" {
		return s
	}
	return s + " " + cur
}

// Compact formats large amounts as 1.25M / 12.5k.
func Compact(v float64) string {
	if !model.Finite(v) {
		return NA
	}
	abs := math.Abs(v)
	sign := ""
	if v < 0 {
		sign = "-"
	}
	switch {
	case abs >= 1_000_000:
		return sign + decimal.NewFromFloat(abs/1_000_000).StringFixed(2) + "M"
	case abs >= 1_000:
		return sign + decimal.NewFromFloat(abs/1_000).StringFixed(1) + "k"
	default:
		s := decimal.NewFromFloat(v).StringFixed(0)
		if s == "-0" {
			return "0"
		}
		return s
	}
}

// Percent formats a ratio (0.055) as a percentage (5.5%) with at most two decimals.
func Percent(ratio float64) string {
	if !model.Finite(ratio) {
		return NA
	}
	d := decimal.NewFromFloat(ratio * 100).Round(2)
	places := 0
	if s := d.String(); strings.Contains(s, ".") {
		places = len(s) - strings.Index(s, ".") - 1
	}
	return accounting.FormatNumberFloat64(d.InexactFloat64(), places, ",", ".") + "%"
}

// IRR formats an internal rate of return; no solution renders as n/a.
func IRR(v float64) string {
	return Percent(v)
}

// Hint renders an amount in other currencies, e.g. "≈ 200,000 EUR · 217,835 USD".
// Targets equal to the source currency are skipped.
func Hint(amount float64, from string, conv *fx.Converter, targets ...string) (string, error) {
	parts := make([]string, 0, len(targets))
	for _, to := range targets {
		if strings.EqualFold(strings.TrimSpace(to), strings.TrimSpace(from)) {
			continue
		}
		v, err := conv.Convert(amount, from, to)
		if err != nil {
			return "", fmt.Errorf("hint %s -> %s: %w", from, to, err)
		}
		parts = append(parts, Money(v, strings.ToUpper(strings.TrimSpace(to))))
	}
	if len(parts) == 0 {
		return "", nil
	}
	return "≈ " + strings.Join(parts, " · "), nil
}

// number rounds half away from zero before grouping thousands.
func number(v float64, places int) string {
	d := decimal.NewFromFloat(v).Round(int32(places))
	s := accounting.FormatNumberFloat64(d.InexactFloat64(), places, ",", ".")
	if strings.TrimLeft(s, "-0.,") == "" {
		s = strings.TrimPrefix(s, "-")
	}
	return s
}
