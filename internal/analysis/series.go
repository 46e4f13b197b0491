package analysis

import (
	"math"
	"sort"

	"property-financing/internal/model"
)

// SeriesSummary describes the operating cashflow series of one scenario,
// in the reference currency.
type SeriesSummary struct {
	Years int

	Min  float64
	Max  float64
	Mean float64
	P05  float64
	P95  float64

	TotalOperating float64
	TotalWithSale  float64

	// PaybackYear is the first year the cumulative cashflow, outlay included, is
	// non-negative. Zero when it never is.
	PaybackYear int
}

func Summarize(r model.ScenarioResult) SeriesSummary {
	s := SeriesSummary{Years: len(r.AnnualCashflows)}
	if s.Years == 0 {
		return s
	}

	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, s.Years)
	for _, v := range r.AnnualCashflows {
		vals = append(vals, v)
		s.TotalOperating += v
		minv = math.Min(minv, v)
		maxv = math.Max(maxv, v)
	}
	sort.Float64s(vals)
	s.Min = minv
	s.Max = maxv
	s.Mean = s.TotalOperating / float64(s.Years)
	s.P05 = percentileSorted(vals, 0.05)
	s.P95 = percentileSorted(vals, 0.95)

	for i, cf := range r.Cashflows {
		if i > 0 {
			s.TotalWithSale += cf
		}
	}
	for _, row := range r.Years {
		if row.CumulativeRef >= 0 {
			s.PaybackYear = row.Year
			break
		}
	}
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Series is one line of a cashflow chart.
type Series struct {
	Key    string
	Label  string
	Values []float64
}

// AlignedSeries is a chart-ready set of annual cashflow lines sharing one x axis.
type AlignedSeries struct {
	Years  []int
	Series []Series
}

// AlignSeries pads each scenario's annual cashflows with zeros to the longest hold
// period. Series are ordered by key.
func AlignSeries(results map[string]model.ScenarioResult) AlignedSeries {
	keys := make([]string, 0, len(results))
	longest := 0
	for k, r := range results {
		keys = append(keys, k)
		if n := len(r.AnnualCashflows); n > longest {
			longest = n
		}
	}
	sort.Strings(keys)

	out := AlignedSeries{Years: make([]int, longest)}
	for i := range out.Years {
		out.Years[i] = i + 1
	}
	for _, k := range keys {
		r := results[k]
		vals := make([]float64, longest)
		copy(vals, r.AnnualCashflows)
		label := r.Label
		if label == "" {
			label = k
		}
		out.Series = append(out.Series, Series{Key: k, Label: label, Values: vals})
	}
	return out
}
