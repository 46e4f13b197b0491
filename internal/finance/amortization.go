// Package finance holds the closed-form loan maths and the IRR solver.
package finance

import (
	"math"

	"property-financing/internal/model"
)

// zeroRate is the threshold below which a monthly rate is treated as interest-free.
const zeroRate = 1e-10

func termMonths(termYears float64) int {
	return int(math.Round(model.Num(termYears) * 12))
}

// PeriodicPayment returns the level monthly payment that amortizes principal over
// termYears at a nominal annualRatePct compounded monthly.
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// A non-positive principal or term yields 0; a zero rate yields P/n.
func PeriodicPayment(principal, annualRatePct, termYears float64) float64 {
	p := model.Num(principal)
	r := model.Pct(model.Num(annualRatePct)) / 12
	n := termMonths(termYears)
	if p <= 0 || n <= 0 {
		return 0
	}
	if math.Abs(r) < zeroRate {
		return p / float64(n)
	}
	pow := math.Pow(1+r, float64(n))
	return p * r * pow / (pow - 1)
}

// RemainingBalance returns the outstanding principal after monthsElapsed payments.
// monthsElapsed is clamped to [0, term]; the result never goes below 0.
func RemainingBalance(principal, annualRatePct, termYears float64, monthsElapsed int) float64 {
	p := model.Num(principal)
	r := model.Pct(model.Num(annualRatePct)) / 12
	n := termMonths(termYears)
	if p <= 0 || n <= 0 {
		return 0
	}
	m := monthsElapsed
	if m < 0 {
		m = 0
	}
	if m > n {
		m = n
	}
	if math.Abs(r) < zeroRate {
		return math.Max(0, p-(p/float64(n))*float64(m))
	}
	pmt := PeriodicPayment(p, annualRatePct, termYears)
	pow := math.Pow(1+r, float64(m))
	return math.Max(0, p*pow-pmt*((pow-1)/r))
}

// ScheduleYear summarizes one year of an amortizing loan.
type ScheduleYear struct {
	Year           int
	Payment        float64
	Interest       float64
	Principal      float64
	ClosingBalance float64
}

// AmortizationSchedule aggregates the monthly schedule into years, for charting
// the loan alongside the property cashflows.
func AmortizationSchedule(principal, annualRatePct, termYears float64) []ScheduleYear {
	n := termMonths(termYears)
	if model.Num(principal) <= 0 || n <= 0 {
		return nil
	}
	pmt := PeriodicPayment(principal, annualRatePct, termYears)
	years := (n + 11) / 12
	out := make([]ScheduleYear, 0, years)
	opening := model.Num(principal)
	for y := 1; y <= years; y++ {
		end := y * 12
		if end > n {
			end = n
		}
		closing := RemainingBalance(principal, annualRatePct, termYears, end)
		months := end - (y-1)*12
		paid := pmt * float64(months)
		repaid := opening - closing
		out = append(out, ScheduleYear{
			Year:           y,
			Payment:        paid,
			Interest:       paid - repaid,
			Principal:      repaid,
			ClosingBalance: closing,
		})
		opening = closing
	}
	return out
}
