package finance

import "math"

// IRROptions tunes the solver. The zero value is not useful; start from DefaultIRROptions.
type IRROptions struct {
	Guess     float64
	MaxIter   int
	Tolerance float64 // |NPV| below this is a root
	// Newton iterates must stay inside (Lower, Upper].
	Lower float64
	Upper float64

	// Bisection enables the bracketing fallback when Newton fails.
	Bisection  bool
	BisectLo   float64
	BisectHi   float64
	BisectIter int
}

// DefaultIRROptions returns the solver settings used by scenario evaluation.
func DefaultIRROptions() IRROptions {
	return IRROptions{
		Guess:      0.12,
		MaxIter:    80,
		Tolerance:  1e-7,
		Lower:      -0.95,
		Upper:      5,
		Bisection:  true,
		BisectLo:   -0.9,
		BisectHi:   2.5,
		BisectIter: 120,
	}
}

// NPV discounts cashflows[t] at rate for t = 0..n.
func NPV(rate float64, cashflows []float64) float64 {
	s := 0.0
	for t, cf := range cashflows {
		s += cf / math.Pow(1+rate, float64(t))
	}
	return s
}

// DNPV is the derivative of NPV with respect to rate.
func DNPV(rate float64, cashflows []float64) float64 {
	s := 0.0
	for t, cf := range cashflows {
		if t == 0 {
			continue
		}
		s += -float64(t) * cf / math.Pow(1+rate, float64(t+1))
	}
	return s
}

// IRR solves NPV(rate) = 0 with the default options.
// It returns NaN when the series has no sign change or no root is found.
func IRR(cashflows []float64) float64 {
	return SolveIRR(cashflows, DefaultIRROptions())
}

// SolveIRR runs Newton-Raphson from opts.Guess and, if enabled, falls back to
// bisection over [BisectLo, BisectHi]. NaN signals "no solution".
func SolveIRR(cashflows []float64, opts IRROptions) float64 {
	if !hasSignChange(cashflows) {
		return math.NaN()
	}
	if r, ok := newton(cashflows, opts); ok {
		return r
	}
	if opts.Bisection {
		if r, ok := bisect(cashflows, opts); ok {
			return r
		}
	}
	return math.NaN()
}

func hasSignChange(cashflows []float64) bool {
	if len(cashflows) < 2 {
		return false
	}
	var pos, neg bool
	for _, c := range cashflows {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
		if c > 0 {
			pos = true
		} else if c < 0 {
			neg = true
		}
	}
	return pos && neg
}

func newton(cashflows []float64, opts IRROptions) (float64, bool) {
	x := opts.Guess
	for i := 0; i < opts.MaxIter; i++ {
		f := NPV(x, cashflows)
		if math.Abs(f) < opts.Tolerance {
			return x, true
		}
		df := DNPV(x, cashflows)
		if math.Abs(df) < zeroRate {
			return 0, false
		}
		nx := x - f/df
		if nx <= opts.Lower || nx > opts.Upper || math.IsNaN(nx) {
			return 0, false
		}
		x = nx
	}
	return 0, false
}

func bisect(cashflows []float64, opts IRROptions) (float64, bool) {
	lo, hi := opts.BisectLo, opts.BisectHi
	flo, fhi := NPV(lo, cashflows), NPV(hi, cashflows)
	if math.Abs(flo) < opts.Tolerance {
		return lo, true
	}
	if math.Abs(fhi) < opts.Tolerance {
		return hi, true
	}
	if flo*fhi > 0 {
		return 0, false
	}
	for i := 0; i < opts.BisectIter; i++ {
		mid := (lo + hi) / 2
		fm := NPV(mid, cashflows)
		if math.Abs(fm) < opts.Tolerance {
			return mid, true
		}
		if flo*fm < 0 {
			hi = mid
		} else {
			lo, flo = mid, fm
		}
	}
	// The bracket has collapsed far below any meaningful rate precision.
	return (lo + hi) / 2, true
}
