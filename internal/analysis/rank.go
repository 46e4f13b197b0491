package analysis

import (
	"math"
	"sort"

	"property-financing/internal/model"
)

// tieTolerance is how close two values must be to share "best".
const tieTolerance = 1e-12

type Ranked struct {
	Key    string
	Value  float64
	Result model.ScenarioResult
}

// Rank orders scenarios best-first under a metric by exact value. Scenarios whose
// value has no solution sort last; equal values keep key order. Only Best applies
// the tie tolerance.
func Rank(results map[string]model.ScenarioResult, m Metric) []Ranked {
	out := make([]Ranked, 0, len(results))
	for k, r := range results {
		out = append(out, Ranked{Key: k, Value: m.Value(r), Result: r})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case m.better(a.Value, b.Value):
			return true
		case m.better(b.Value, a.Value):
			return false
		}
		return a.Key < b.Key
	})
	return out
}

// Best returns the keys within tieTolerance of the best finite value, sorted.
// It is empty when no scenario has a finite value.
func Best(results map[string]model.ScenarioResult, m Metric) []string {
	ranked := Rank(results, m)
	if len(ranked) == 0 || !model.Finite(ranked[0].Value) {
		return nil
	}
	top := ranked[0].Value
	var keys []string
	for _, r := range ranked {
		if model.Finite(r.Value) && math.Abs(r.Value-top) < tieTolerance {
			keys = append(keys, r.Key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Comparison is the best scenario(s) per metric key.
type Comparison map[string][]string

// Compare picks the best scenarios for every catalogue metric.
func Compare(results map[string]model.ScenarioResult) Comparison {
	out := make(Comparison, len(catalogue))
	for _, m := range catalogue {
		out[m.Key] = Best(results, m)
	}
	return out
}

// IsBest reports whether key is among the best for a metric.
func (c Comparison) IsBest(metric, key string) bool {
	for _, k := range c[metric] {
		if k == key {
			return true
		}
	}
	return false
}
