package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Num converts an arbitrary input value to a finite float64.
// Anything that is not a number (or a string holding one) becomes 0, as do NaN and ±Inf.
func Num(v any) float64 {
	var x float64
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		x = t
	case float32:
		x = float64(t)
	case int:
		x = float64(t)
	case int8:
		x = float64(t)
	case int16:
		x = float64(t)
	case int32:
		x = float64(t)
	case int64:
		x = float64(t)
	case uint:
		x = float64(t)
	case uint8:
		x = float64(t)
	case uint16:
		x = float64(t)
	case uint32:
		x = float64(t)
	case uint64:
		x = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		x = f
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		x = f
	default:
		return 0
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// Clamp bounds x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}

// Pct turns a percentage (5 for 5%) into a ratio.
func Pct(x float64) float64 { return x / 100 }

// ClampPct bounds a percentage to [0, 100].
func ClampPct(x float64) float64 { return Clamp(x, 0, 100) }

// Finite reports whether x is neither NaN nor infinite.
// Metrics use NaN as the "no solution" sentinel.
func Finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
